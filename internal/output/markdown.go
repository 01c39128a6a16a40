package output

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter outputs a Summary as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the Summary as Markdown.
func (f *MarkdownFormatter) Format(s *Summary) ([]byte, error) {
	var b strings.Builder

	b.WriteString("## Generated Documentation\n\n")
	if len(s.Assemblies) > 0 {
		b.WriteString("| Assembly | Version | Namespaces | Types | Members |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, a := range s.Assemblies {
			version := a.Version
			if version == "" {
				version = "-"
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d |\n", a.Name, version, a.Namespaces, a.Types, a.Members))
		}
	} else {
		b.WriteString("No assemblies were documented.\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for i, f := range s.Failures {
			if f.Assembly == "" {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.Error))
				continue
			}
			b.WriteString(fmt.Sprintf("%d. **%s**: %s\n", i+1, f.Assembly, f.Error))
		}
	}

	if len(s.Pruned) > 0 {
		b.WriteString("\n## Removed Stale Files\n\n")
		for _, p := range s.Pruned {
			b.WriteString(fmt.Sprintf("- `%s`\n", p))
		}
	}

	fileLabel := "files"
	if len(s.Files) == 1 {
		fileLabel = "file"
	}
	elapsed := time.Duration(s.DurationMs) * time.Millisecond
	b.WriteString(fmt.Sprintf("\n---\n*Wrote %d %s as %s in %s*\n",
		len(s.Files), fileLabel, strings.Join(s.Formats, ", "), elapsed.Round(100*time.Millisecond)))

	return []byte(b.String()), nil
}
