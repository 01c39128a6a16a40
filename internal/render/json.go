package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

// ConsolidatedJSON is the file holding the whole assembly.
const ConsolidatedJSON = "documentation.json"

// JSON renders the model as camelCase JSON: one consolidated file plus one
// file per namespace. Types live inside their namespace file.
type JSON struct {
	Base
}

// compile-time check: JSON implements Renderer.
var _ Renderer = (*JSON)(nil)

// NewJSON returns a JSON renderer.
func NewJSON(ctx *project.Context, opts ...Option) *JSON {
	return &JSON{Base: newBase(FormatJSON, ctx, opts...)}
}

// Render writes documentation.json and every namespace file.
func (r *JSON) Render(ctx context.Context, asm *model.DocAssembly) error {
	if err := checkAssembly(asm); err != nil {
		return err
	}
	docs := make([]Document, 0, len(asm.Namespaces)+1)
	doc, err := r.assemblyDoc(asm)
	if err != nil {
		return err
	}
	docs = append(docs, doc)
	for _, ns := range asm.Namespaces {
		doc, err := r.namespaceDoc(asm, ns)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return r.Write(ctx, docs...)
}

// RenderAssembly writes documentation.json.
func (r *JSON) RenderAssembly(ctx context.Context, asm *model.DocAssembly) error {
	if err := checkAssembly(asm); err != nil {
		return err
	}
	doc, err := r.assemblyDoc(asm)
	if err != nil {
		return err
	}
	return r.Write(ctx, doc)
}

// RenderNamespace writes one namespace file.
func (r *JSON) RenderNamespace(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace) error {
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
func (r *JSON) RenderType(_ context.Context, asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) error {
	return checkType(asm, ns, t)
}

// RenderMember appends the JSON encoding of m.
func (r *JSON) RenderMember(b *strings.Builder, m *model.DocMember) {
	if m == nil {
		return
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		r.Warnf("encoding member %s: %v", m.Name, err)
		return
	}
	b.Write(data)
	b.WriteByte('\n')
}

func (r *JSON) assemblyDoc(asm *model.DocAssembly) (Document, error) {
	content, err := marshalJSON(asm)
	if err != nil {
		return Document{}, fmt.Errorf("encoding assembly %s: %w", asm.Name, err)
	}
	return Document{Path: ConsolidatedJSON, Content: content}, nil
}

// namespaceDoc encodes the namespace merged with what other assemblies
// rendered by r contributed to it.
func (r *JSON) namespaceDoc(asm *model.DocAssembly, contributed *model.DocNamespace) (Document, error) {
	ns := r.namespaces.merge(asm, contributed).DocNamespace
	content, err := marshalJSON(ns)
	if err != nil {
		return Document{}, fmt.Errorf("encoding namespace %s: %w", ns.Name, err)
	}
	return Document{Path: r.NamespaceFilePath(ns.Name, ".json"), Content: content}, nil
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
