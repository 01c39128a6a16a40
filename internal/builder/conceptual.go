package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
	"github.com/julianshen/dotnetdocs/internal/render"
)

// Conceptual file names looked up next to every documented entity.
const (
	UsageFile          = "usage.md"
	ExamplesFile       = "examples.md"
	BestPracticesFile  = "best-practices.md"
	PatternsFile       = "patterns.md"
	ConsiderationsFile = "considerations.md"
	RelatedAPIsFile    = "related-apis.md"
)

type section struct {
	file  string
	title string
	field func(*model.Narrative) *string
}

var sections = []section{
	{UsageFile, "Usage", func(n *model.Narrative) *string { return &n.Usage }},
	{ExamplesFile, "Examples", func(n *model.Narrative) *string { return &n.Examples }},
	{BestPracticesFile, "Best Practices", func(n *model.Narrative) *string { return &n.BestPractices }},
	{PatternsFile, "Patterns", func(n *model.Narrative) *string { return &n.Patterns }},
	{ConsiderationsFile, "Considerations", func(n *model.Narrative) *string { return &n.Considerations }},
}

// Placeholder returns generated placeholder text for a conceptual section.
func Placeholder(title, subject string) string {
	return fmt.Sprintf("%s\nAdd %s content for %s here.", model.PlaceholderMarker, strings.ToLower(title), subject)
}

type conceptual struct {
	project *project.Context
	warnf   func(string, ...any)
}

func newConceptual(pc *project.Context, warnf func(string, ...any)) *conceptual {
	return &conceptual{project: pc, warnf: warnf}
}

func (c *conceptual) root() string {
	p := c.project.ConceptualPath
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.project.DocumentationRootPath, p)
}

func (c *conceptual) enabled() bool {
	return c.project.ConceptualDocsEnabled && c.root() != ""
}

func (c *conceptual) assemblyDir() string { return c.root() }

func (c *conceptual) namespaceDir(ns string) string {
	ns = model.NamespaceName(ns)
	return filepath.Join(append([]string{c.root()}, strings.Split(render.SafeNamespaceName(ns), ".")...)...)
}

func (c *conceptual) typeDir(t *model.DocType) string {
	return filepath.Join(c.namespaceDir(t.Namespace), render.SafeTypeName(t.Name))
}

func (c *conceptual) memberDir(t *model.DocType, m *model.DocMember) string {
	return filepath.Join(c.typeDir(t), render.SafeTypeName(m.Name))
}

// read returns the trimmed content of path. Missing files are not an error.
func (c *conceptual) read(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.warnf("reading conceptual content %s: %v", path, err)
		}
		return "", false
	}
	text := strings.TrimSpace(render.NormalizeLineEndings(string(data)))
	if text == "" {
		return "", false
	}
	if model.IsPlaceholder(text) && !c.project.ShowPlaceholders {
		return "", false
	}
	return text, true
}

// apply merges the conceptual files in dir into n and fills the remaining
// empty sections with placeholders when they are enabled.
func (c *conceptual) apply(n *model.Narrative, dir, subject string) {
	if !c.enabled() {
		return
	}
	for _, s := range sections {
		field := s.field(n)
		if text, ok := c.read(filepath.Join(dir, s.file)); ok {
			if s.file == ExamplesFile && *field != "" {
				*field += "\n\n" + text
			} else {
				*field = text
			}
		}
		if *field == "" && c.project.ShowPlaceholders {
			*field = Placeholder(s.title, subject)
		}
	}
	if text, ok := c.read(filepath.Join(dir, RelatedAPIsFile)); ok && !model.IsPlaceholder(text) {
		n.RelatedAPIs = mergeRelated(n.RelatedAPIs, parseRelated(text))
	}
}

// parseRelated reads one API per line, accepting Markdown bullets.
func parseRelated(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*+ ")
		line = strings.Trim(strings.TrimSpace(line), "`")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func mergeRelated(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e] = true
	}
	for _, e := range extra {
		if !seen[e] {
			seen[e] = true
			existing = append(existing, e)
		}
	}
	return existing
}

// Scaffold writes placeholder conceptual files for every entity in asm that
// does not have them yet. Existing files are never touched, so running it
// twice writes nothing the second time. It returns the files it created.
func (b *Builder) Scaffold(ctx context.Context, asm *model.DocAssembly) ([]string, error) {
	if asm == nil {
		return nil, fmt.Errorf("%w: assembly is nil", ErrInvalidArgument)
	}
	c := newConceptual(b.project, b.warnf)
	if c.root() == "" {
		return nil, fmt.Errorf("%w: conceptual path is empty", ErrInvalidArgument)
	}

	var created []string
	scaffold := func(dir, subject string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, s := range sections {
			p := filepath.Join(dir, s.file)
			ok, err := writeIfMissing(p, Placeholder(s.title, subject)+"\n")
			if err != nil {
				return err
			}
			if ok {
				created = append(created, p)
			}
		}
		p := filepath.Join(dir, RelatedAPIsFile)
		ok, err := writeIfMissing(p, model.PlaceholderMarker+"\n")
		if err != nil {
			return err
		}
		if ok {
			created = append(created, p)
		}
		return nil
	}

	if err := scaffold(c.assemblyDir(), asm.Name); err != nil {
		return created, err
	}
	for _, ns := range asm.Namespaces {
		if err := scaffold(c.namespaceDir(ns.Name), ns.Name); err != nil {
			return created, err
		}
		for _, t := range ns.Types {
			if err := scaffold(c.typeDir(t), t.Name); err != nil {
				return created, err
			}
			for _, m := range t.Members {
				if err := scaffold(c.memberDir(t, m), t.Name+"."+m.Name); err != nil {
					return created, err
				}
			}
		}
	}
	return created, nil
}

func writeIfMissing(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
