package output

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONFormatter renders the run summary for CI jobs and scripts. Failure
// messages and file paths keep their '<', '>' and '&' so generic type names
// read as written. The document ends with a newline.
type JSONFormatter struct {
	// Indent is repeated once per nesting level. Empty gives one line.
	Indent string
}

// NewJSONFormatter returns a formatter that indents with two spaces.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format encodes s.
func (f *JSONFormatter) Format(s *Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding run summary: %w", err)
	}
	return buf.Bytes(), nil
}
