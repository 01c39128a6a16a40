package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

// File names written by the YAML renderer at the API reference root.
const (
	ConsolidatedYAML = "documentation.yaml"
	TOCFile          = "toc.yaml"
)

// TOC is the toc.yaml navigation manifest.
type TOC struct {
	Title string    `yaml:"title"`
	Items []TOCItem `yaml:"items"`
}

// TOCItem is one navigation entry. Namespace entries nest their types.
type TOCItem struct {
	Name  string    `yaml:"name"`
	Href  string    `yaml:"href,omitempty"`
	UID   string    `yaml:"uid,omitempty"`
	Items []TOCItem `yaml:"items,omitempty"`
}

// YAML renders the model as YAML: documentation.yaml, toc.yaml and one file
// per namespace.
type YAML struct {
	Base
}

// compile-time check: YAML implements Renderer.
var _ Renderer = (*YAML)(nil)

// NewYAML returns a YAML renderer.
func NewYAML(ctx *project.Context, opts ...Option) *YAML {
	return &YAML{Base: newBase(FormatYAML, ctx, opts...)}
}

// Render writes documentation.yaml, toc.yaml and every namespace file.
func (r *YAML) Render(ctx context.Context, asm *model.DocAssembly) error {
	if err := checkAssembly(asm); err != nil {
		return err
	}
	docs, err := r.assemblyDocs(asm)
	if err != nil {
		return err
	}
	for _, ns := range asm.Namespaces {
		doc, err := r.namespaceDoc(asm, ns)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return r.Write(ctx, docs...)
}

// RenderAssembly writes documentation.yaml and toc.yaml.
func (r *YAML) RenderAssembly(ctx context.Context, asm *model.DocAssembly) error {
	if err := checkAssembly(asm); err != nil {
		return err
	}
	docs, err := r.assemblyDocs(asm)
	if err != nil {
		return err
	}
	return r.Write(ctx, docs...)
}

// RenderNamespace writes one namespace file.
func (r *YAML) RenderNamespace(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace) error {
	if err := checkNamespace(asm, ns); err != nil {
		return err
	}
	doc, err := r.namespaceDoc(asm, ns)
	if err != nil {
		return err
	}
	return r.Write(ctx, doc)
}

// RenderType validates its arguments and writes nothing: types are part of
// their namespace file.
func (r *YAML) RenderType(_ context.Context, asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) error {
	return checkType(asm, ns, t)
}

// RenderMember appends the YAML encoding of m.
func (r *YAML) RenderMember(b *strings.Builder, m *model.DocMember) {
	if m == nil {
		return
	}
	content, err := marshalYAML(m)
	if err != nil {
		r.Warnf("encoding member %s: %v", m.Name, err)
		return
	}
	b.WriteString(content)
}

// TOC builds the navigation manifest for asm. The global namespace is not
// listed.
func (r *YAML) TOC(asm *model.DocAssembly) TOC {
	toc := TOC{Title: asm.Name}
	for _, ns := range asm.Namespaces {
		if ns.IsGlobal() {
			continue
		}
		href := r.NamespaceFilePath(ns.Name, ".yaml")
		item := TOCItem{Name: ns.Name, Href: href}
		for _, t := range ns.Types {
			item.Items = append(item.Items, TOCItem{Name: t.Name, Href: href, UID: t.FullName})
		}
		toc.Items = append(toc.Items, item)
	}
	return toc
}

func (r *YAML) assemblyDocs(asm *model.DocAssembly) ([]Document, error) {
	content, err := marshalYAML(asm)
	if err != nil {
		return nil, fmt.Errorf("encoding assembly %s: %w", asm.Name, err)
	}
	toc, err := marshalYAML(r.TOC(asm))
	if err != nil {
		return nil, fmt.Errorf("encoding toc for %s: %w", asm.Name, err)
	}
	return []Document{
		{Path: ConsolidatedYAML, Content: content},
		{Path: TOCFile, Content: toc},
	}, nil
}

// namespaceDoc encodes the namespace merged with what other assemblies
// rendered by r contributed to it.
func (r *YAML) namespaceDoc(asm *model.DocAssembly, contributed *model.DocNamespace) (Document, error) {
	ns := r.namespaces.merge(asm, contributed).DocNamespace
	content, err := marshalYAML(ns)
	if err != nil {
		return Document{}, fmt.Errorf("encoding namespace %s: %w", ns.Name, err)
	}
	return Document{Path: r.NamespaceFilePath(ns.Name, ".yaml"), Content: content}, nil
}

func marshalYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
