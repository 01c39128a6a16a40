package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps Glamour for rendering generated pages to styled
// terminal output.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a MarkdownRenderer with the given Glamour
// style ("dark", "light", "notty"; empty means dark) and word wrap width.
// Returns an error if the Glamour renderer cannot be created.
func NewMarkdownRenderer(width int, style string) (*MarkdownRenderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &MarkdownRenderer{renderer: r}, nil
}

// Render processes markdown text into styled terminal output. Front matter
// is dropped first.
func (m *MarkdownRenderer) Render(md string) (string, error) {
	md = StripFrontMatter(md)
	if md == "" {
		return "", nil
	}
	if m.renderer == nil {
		return md, nil
	}
	return m.renderer.Render(md)
}

// StripFrontMatter removes a leading "---" delimited YAML block.
func StripFrontMatter(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	if !strings.HasPrefix(md, "---\n") {
		return md
	}
	end := strings.Index(md[4:], "\n---\n")
	if end < 0 {
		return md
	}
	return strings.TrimLeft(md[4+end+5:], "\n")
}
