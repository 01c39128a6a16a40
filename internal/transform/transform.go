// Package transform holds optional passes that rewrite the prose of a built
// documentation model before it is rendered. Passes run in order and never
// touch structure: names, signatures and the type tree stay as built.
package transform

import (
	"context"
	"fmt"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// Transformer rewrites a documentation model in place.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, asm *model.DocAssembly) error
}

// Apply runs passes over asm in order and stops at the first failure.
func Apply(ctx context.Context, asm *model.DocAssembly, passes ...Transformer) error {
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Transform(ctx, asm); err != nil {
			return fmt.Errorf("transform %s: %w", p.Name(), err)
		}
	}
	return nil
}

// Entity kinds passed to a Visit function.
const (
	KindAssembly      = "assembly"
	KindNamespace     = "namespace"
	KindType          = "type"
	KindMember        = "member"
	KindParameter     = "parameter"
	KindTypeParameter = "typeParameter"
	KindEnumValue     = "enumValue"
	KindException     = "exception"
)

// Visit is called for every prose field in a model. name identifies the
// owning entity, field names the text ("summary", "returns", ...).
type Visit func(kind, name, field string, text *string) error

// Walk calls fn for every non-empty prose field of asm in model order.
func Walk(ctx context.Context, asm *model.DocAssembly, fn Visit) error {
	if asm == nil {
		return nil
	}
	w := walker{ctx: ctx, fn: fn}
	w.narrative(KindAssembly, asm.Name, &asm.Narrative)
	for _, ns := range asm.Namespaces {
		w.narrative(KindNamespace, ns.Name, &ns.Narrative)
		for _, t := range ns.Types {
			w.typ(t)
		}
	}
	return w.err
}

type walker struct {
	ctx context.Context
	fn  Visit
	err error
}

func (w *walker) visit(kind, name, field string, text *string) {
	if w.err != nil || *text == "" {
		return
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}
	w.err = w.fn(kind, name, field, text)
}

func (w *walker) narrative(kind, name string, n *model.Narrative) {
	for _, t := range n.Texts() {
		w.visit(kind, name, t.Field, t.Text)
	}
}

func (w *walker) typ(t *model.DocType) {
	w.narrative(KindType, t.FullName, &t.Narrative)
	for i := range t.TypeParameters {
		w.visit(KindTypeParameter, t.FullName+"."+t.TypeParameters[i].Name, "description", &t.TypeParameters[i].Description)
	}
	for _, p := range t.Parameters {
		w.visit(KindParameter, t.FullName+"."+p.Name, "usage", &p.Usage)
	}
	if t.Enum != nil {
		for i := range t.Enum.Values {
			w.visit(KindEnumValue, t.FullName+"."+t.Enum.Values[i].Name, "description", &t.Enum.Values[i].Description)
		}
	}
	for _, m := range t.Members {
		name := t.FullName + "." + m.Name
		w.narrative(KindMember, name, &m.Narrative)
		w.visit(KindMember, name, "returns", &m.Returns)
		w.visit(KindMember, name, "value", &m.Value)
		for i := range m.TypeParameters {
			w.visit(KindTypeParameter, name+"."+m.TypeParameters[i].Name, "description", &m.TypeParameters[i].Description)
		}
		for _, p := range m.Parameters {
			w.visit(KindParameter, name+"."+p.Name, "usage", &p.Usage)
		}
		for i := range m.Exceptions {
			w.visit(KindException, name+"."+m.Exceptions[i].Type, "description", &m.Exceptions[i].Description)
		}
	}
}
