package report

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"

	"github.com/nao1215/bundle-advisor/internal/model"
)

//go:embed templates/report.html.tmpl
var htmlTemplateText string

// htmlTemplate is parsed once; executing it does not mutate it.
var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatBytes":   model.FormatBytes,
	"severityTitle": severityTitle,
	"label":         func(m model.Module) string { return m.Label() },
}).Parse(htmlTemplateText))

// HTMLWriter renders a self-contained HTML page.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// htmlSeverityGroup is one severity section of the page.
type htmlSeverityGroup struct {
	Severity model.Severity
	Issues   []model.Issue
}

// htmlData is the value the template is executed with.
type htmlData struct {
	Report           *model.Report
	PotentialSavings int64
	Groups           []htmlSeverityGroup
}

// Write renders the report as HTML.
// The page is fully rendered before anything is written to the output.
func (w *HTMLWriter) Write(report *model.Report) (int, error) {
	if report == nil {
		report = model.NewReport(nil, nil)
	}

	data := htmlData{
		Report:           report,
		PotentialSavings: report.PotentialSavings(),
	}
	for _, sev := range model.Severities {
		if issues := report.IssuesBySeverity(sev); len(issues) > 0 {
			data.Groups = append(data.Groups, htmlSeverityGroup{Severity: sev, Issues: issues})
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
