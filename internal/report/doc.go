// Package report renders analysis reports.
//
// This package contains writers for different output formats:
//   - JSONWriter: the report serialized as-is, readable again with ReadJSON
//   - MarkdownWriter: GitHub-flavored Markdown for pull requests and CI summaries
//   - TextWriter: a terminal summary with optional colors
//   - HTMLWriter: a self-contained page built from an embedded template
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
