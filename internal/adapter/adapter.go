package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// ErrUnrecognizedFormat is returned by Detect when no adapter accepts a document.
var ErrUnrecognizedFormat = errors.New("stats file format not recognized")

// Document is a decoded stats file: its top-level keys mapped to raw values.
// Adapters decode only the keys they understand.
type Document map[string]json.RawMessage

// Decode parses stats file content into a Document.
// Only malformed JSON is an error. Well-formed JSON whose root is not an
// object decodes to an empty Document, which no adapter accepts, so it is
// reported by Detect as an unrecognized format.
func Decode(data []byte) (Document, error) {
	var root json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(root)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, nil
	}

	doc := make(Document)
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// Has reports whether key is present with a non-null value.
func (d Document) Has(key string) bool {
	raw, ok := d[key]
	if !ok {
		return false
	}
	return !isNull(raw)
}

// IsArray reports whether key holds a JSON array.
func (d Document) IsArray(key string) bool {
	raw, ok := d[key]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Adapter converts one bundler's stats format into an AnalysisInput.
type Adapter interface {
	// Name returns the human-readable format name used in logs and errors.
	Name() string

	// CanHandle reports whether the document looks like this adapter's format.
	CanHandle(filePath string, doc Document) bool

	// ToAnalysisInput normalizes the document. Missing or malformed optional
	// data degrades to empty values; it never fails.
	ToAnalysisInput(doc Document) *model.AnalysisInput
}

// Default returns the supported adapters in probing order.
// Bundle-stats is probed first because its sniffing is the more specific one.
func Default() []Adapter {
	return []Adapter{
		NewBundleStatsAdapter(),
		NewWebpackAdapter(),
	}
}

// Detect returns the first adapter whose CanHandle accepts the document.
// With no adapters given, Default() is probed.
func Detect(filePath string, doc Document, adapters ...Adapter) (Adapter, error) {
	if len(adapters) == 0 {
		adapters = Default()
	}

	for _, a := range adapters {
		if a.CanHandle(filePath, doc) {
			return a, nil
		}
	}

	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return nil, fmt.Errorf("%w (supported formats: %s)", ErrUnrecognizedFormat, strings.Join(names, ", "))
}
