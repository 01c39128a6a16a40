package render

import "strings"

// RemoveIndentation is Dedent for an optional code sample. A nil sample
// stays nil.
func RemoveIndentation(code *string) *string {
	if code == nil {
		return nil
	}
	out := Dedent(*code)
	return &out
}

// Dedent strips the smallest leading-whitespace width shared by all
// non-blank lines from every non-blank line. Blank lines pass through
// untouched and relative indentation is preserved. Input with no non-blank
// line, including the empty string, is returned unchanged.
func Dedent(code string) string {
	if code == "" {
		return code
	}
	lines := strings.Split(code, "\n")

	minIndent := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		n := leadingWhitespace(line)
		if minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent <= 0 {
		return code
	}

	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		lines[i] = line[minIndent:]
	}
	return strings.Join(lines, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingWhitespace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// FirstSentence returns the first line of s without surrounding whitespace,
// for use in tables and descriptions. Inline Markdown is kept.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// EscapeTableCell makes s safe inside a Markdown table cell.
func EscapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// EscapeName makes an identifier such as "Cache<TKey, TValue>" safe in
// Markdown headings and link text, where "<T>" would otherwise be read as
// an HTML tag.
func EscapeName(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}
