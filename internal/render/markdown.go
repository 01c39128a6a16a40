package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

// pageKind identifies what a Markdown page documents, for front matter.
type pageKind int

const (
	pageAssembly pageKind = iota
	pageNamespace
	pageType
)

// pageMeta describes a page for formats that prefix front matter.
type pageMeta struct {
	kind        pageKind
	title       string
	description string
	typeKind    model.TypeKind
	keywords    []string
}

// Markdown renders GitHub-flavored Markdown: index.md, one page per
// namespace and one per type.
type Markdown struct {
	Base
	ext         string
	frontMatter func(pageMeta) string
	escape      func(string) string
	// escapeName escapes identifiers used in headings and link text.
	escapeName  func(string) string
	memberGroup func(model.MemberKind) string
	link        func(from, to string) string
}

// compile-time check: Markdown implements Renderer.
var _ Renderer = (*Markdown)(nil)

// NewMarkdown returns a Markdown renderer.
func NewMarkdown(ctx *project.Context, opts ...Option) *Markdown {
	return &Markdown{
		Base:        newBase(FormatMarkdown, ctx, opts...),
		ext:         ".md",
		frontMatter: func(pageMeta) string { return "" },
		escape:      func(s string) string { return s },
		escapeName:  EscapeName,
		memberGroup: model.MemberKind.Plural,
		link:        RelativeLink,
	}
}

// Render writes the index, every namespace page and every type page.
func (r *Markdown) Render(ctx context.Context, asm *model.DocAssembly) error {
	docs, err := r.Documents(asm)
	if err != nil {
		return err
	}
	return r.Write(ctx, docs...)
}

// Documents returns every page of asm in traversal order without writing.
func (r *Markdown) Documents(asm *model.DocAssembly) ([]Document, error) {
	if err := checkAssembly(asm); err != nil {
		return nil, err
	}
	docs := []Document{r.assemblyDoc(asm)}
	for _, ns := range asm.Namespaces {
		docs = append(docs, r.namespaceDoc(asm, ns))
		for _, t := range ns.Types {
			docs = append(docs, r.typeDoc(asm, ns, t))
		}
	}
	return docs, nil
}

// RenderAssembly writes the assembly index page.
func (r *Markdown) RenderAssembly(ctx context.Context, asm *model.DocAssembly) error {
	if err := checkAssembly(asm); err != nil {
		return err
	}
	return r.Write(ctx, r.assemblyDoc(asm))
}

// RenderNamespace writes one namespace page.
func (r *Markdown) RenderNamespace(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace) error {
	if err := checkNamespace(asm, ns); err != nil {
		return err
	}
	return r.Write(ctx, r.namespaceDoc(asm, ns))
}

// RenderType writes one type page.
func (r *Markdown) RenderType(ctx context.Context, asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) error {
	if err := checkType(asm, ns, t); err != nil {
		return err
	}
	return r.Write(ctx, r.typeDoc(asm, ns, t))
}

func (r *Markdown) assemblyDoc(asm *model.DocAssembly) Document {
	p := r.IndexFilePath(r.ext)
	var b strings.Builder

	b.WriteString(r.frontMatter(pageMeta{
		kind:        pageAssembly,
		title:       asm.Name,
		description: FirstSentence(asm.Summary),
	}))
	fmt.Fprintf(&b, "# %s\n\n", r.escapeName(asm.Name))
	if asm.Summary != "" {
		b.WriteString(r.escape(asm.Summary) + "\n\n")
	}
	if asm.Version != "" {
		fmt.Fprintf(&b, "**Version:** %s\n\n", asm.Version)
	}

	var named []*model.DocNamespace
	var global *model.DocNamespace
	for _, ns := range asm.Namespaces {
		if ns.IsGlobal() {
			global = ns
			continue
		}
		named = append(named, ns)
	}

	if len(named) > 0 {
		b.WriteString("## Namespaces\n\n")
		b.WriteString("| Namespace | Description |\n|-----------|-------------|\n")
		for _, ns := range named {
			link := r.link(p, r.NamespaceFilePath(ns.Name, r.ext))
			fmt.Fprintf(&b, "| [%s](%s) | %s |\n", r.escapeName(ns.Name), link, r.escape(EscapeTableCell(FirstSentence(ns.Summary))))
		}
		b.WriteString("\n")
	}
	if global != nil && len(global.Types) > 0 {
		b.WriteString("## Types Without a Namespace\n\n")
		for _, t := range global.Types {
			link := r.link(p, r.TypeFilePath(t, r.ext))
			fmt.Fprintf(&b, "- [%s](%s)\n", r.escapeName(t.Name), link)
		}
		b.WriteString("\n")
	}

	r.writeNarrative(&b, "##", asm.Narrative)
	return Document{Path: p, Content: finish(&b)}
}

// namespaceDoc renders the namespace page. Types other assemblies rendered
// by r contributed to the same namespace are listed too.
func (r *Markdown) namespaceDoc(asm *model.DocAssembly, contributed *model.DocNamespace) Document {
	merged := r.namespaces.merge(asm, contributed)
	ns := merged.DocNamespace
	p := r.NamespaceFilePath(ns.Name, r.ext)
	var b strings.Builder

	b.WriteString(r.frontMatter(pageMeta{
		kind:        pageNamespace,
		title:       ns.Name,
		description: FirstSentence(ns.Summary),
	}))
	fmt.Fprintf(&b, "# %s Namespace\n\n", r.escapeName(ns.Name))
	if ns.Summary != "" {
		b.WriteString(r.escape(ns.Summary) + "\n\n")
	}
	if len(merged.Assemblies) > 1 {
		fmt.Fprintf(&b, "**Assemblies:** %s\n\n", strings.Join(merged.Assemblies, ", "))
	} else {
		fmt.Fprintf(&b, "**Assembly:** %s\n\n", asm.Name)
	}

	for _, kind := range model.TypeKinds {
		types := ns.TypesOfKind(kind)
		if len(types) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", kind.Plural())
		b.WriteString("| Name | Description |\n|------|-------------|\n")
		for _, t := range types {
			link := r.link(p, r.TypeFilePath(t, r.ext))
			fmt.Fprintf(&b, "| [%s](%s) | %s |\n", r.escapeName(EscapeTableCell(t.Name)), link, r.escape(EscapeTableCell(FirstSentence(t.Summary))))
		}
		b.WriteString("\n")
	}

	r.writeNarrative(&b, "##", ns.Narrative)
	return Document{Path: p, Content: finish(&b)}
}

func (r *Markdown) typeDoc(asm *model.DocAssembly, ns *model.DocNamespace, t *model.DocType) Document {
	p := r.TypeFilePath(t, r.ext)
	var b strings.Builder

	b.WriteString(r.frontMatter(pageMeta{
		kind:        pageType,
		title:       t.Name,
		description: FirstSentence(t.Summary),
		typeKind:    t.Kind,
		keywords:    []string{t.FullName, kindTitle(t.Kind)},
	}))
	fmt.Fprintf(&b, "# %s %s\n\n", r.escapeName(t.Name), kindTitle(t.Kind))
	if t.Summary != "" {
		b.WriteString(r.escape(t.Summary) + "\n\n")
	}

	b.WriteString("## Definition\n\n")
	if ns.IsGlobal() {
		b.WriteString("**Namespace:** (global)\n\n")
	} else {
		fmt.Fprintf(&b, "**Namespace:** [%s](%s)\n\n", r.escapeName(ns.Name), r.link(p, r.NamespaceFilePath(ns.Name, r.ext)))
	}
	assembly := t.AssemblyName
	if assembly == "" {
		assembly = asm.Name
	}
	fmt.Fprintf(&b, "**Assembly:** %s.dll\n\n", assembly)
	if t.BaseType != "" {
		fmt.Fprintf(&b, "**Inherits:** %s\n\n", r.escapeName(t.BaseType))
	}
	if len(t.Interfaces) > 0 {
		fmt.Fprintf(&b, "**Implements:** %s\n\n", r.escapeName(strings.Join(t.Interfaces, ", ")))
	}

	b.WriteString("## Syntax\n\n")
	writeCode(&b, t.Signature)

	if len(t.TypeParameters) > 0 {
		b.WriteString("## Type Parameters\n\n")
		b.WriteString("| Name | Description |\n|------|-------------|\n")
		for _, tp := range t.TypeParameters {
			fmt.Fprintf(&b, "| `%s` | %s |\n", tp.Name, r.escape(EscapeTableCell(tp.Description)))
		}
		b.WriteString("\n")
	}

	if t.Kind == model.KindEnum && t.Enum != nil {
		r.writeEnum(&b, t.Enum)
	}
	if t.Kind == model.KindDelegate {
		r.writeParameters(&b, "##", t.Parameters)
		if t.ReturnType != "" && t.ReturnType != "void" {
			fmt.Fprintf(&b, "## Returns\n\nType: `%s`\n\n", t.ReturnType)
		}
	}

	r.writeNarrative(&b, "##", t.Narrative)

	for _, kind := range model.MemberKinds {
		members := t.MembersOfKind(kind)
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", r.memberGroup(kind))
		for _, m := range members {
			r.RenderMember(&b, m)
		}
	}
	return Document{Path: p, Content: finish(&b)}
}

func (r *Markdown) writeEnum(b *strings.Builder, e *model.EnumInfo) {
	if e.UnderlyingType != "" {
		fmt.Fprintf(b, "**Underlying type:** `%s`\n\n", e.UnderlyingType)
	}
	if e.IsFlags {
		b.WriteString("**Flags:** This enumeration supports a bitwise combination of its member values.\n\n")
	}
	if len(e.Values) == 0 {
		return
	}
	b.WriteString("## Values\n\n")
	b.WriteString("| Name | Value | Description |\n|------|-------|-------------|\n")
	for _, v := range e.Values {
		fmt.Fprintf(b, "| `%s` | %s | %s |\n", v.Name, v.Value, r.escape(EscapeTableCell(v.Description)))
	}
	b.WriteString("\n")
}

// RenderMember appends the section for m: heading, summary, syntax,
// parameters, return or property value, exceptions and narrative.
func (r *Markdown) RenderMember(b *strings.Builder, m *model.DocMember) {
	if m == nil {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", r.escapeName(memberHeading(m)))
	if m.Summary != "" {
		b.WriteString(r.escape(m.Summary) + "\n\n")
	}

	b.WriteString("#### Syntax\n\n")
	writeCode(b, m.Signature)

	if len(m.TypeParameters) > 0 {
		b.WriteString("#### Type Parameters\n\n")
		b.WriteString("| Name | Description |\n|------|-------------|\n")
		for _, tp := range m.TypeParameters {
			fmt.Fprintf(b, "| `%s` | %s |\n", tp.Name, r.escape(EscapeTableCell(tp.Description)))
		}
		b.WriteString("\n")
	}

	r.writeParameters(b, "####", m.Parameters)

	switch m.Kind {
	case model.MemberMethod:
		if m.HasReturnValue() {
			fmt.Fprintf(b, "#### Returns\n\nType: `%s`\n\n", m.ReturnType)
			if m.Returns != "" {
				b.WriteString(r.escape(m.Returns) + "\n\n")
			}
		}
	case model.MemberProperty:
		if m.ReturnType != "" {
			fmt.Fprintf(b, "#### Property Value\n\nType: `%s`\n\n", m.ReturnType)
			if m.Value != "" {
				b.WriteString(r.escape(m.Value) + "\n\n")
			}
		}
	case model.MemberField:
		if m.ReturnType != "" {
			fmt.Fprintf(b, "#### Field Value\n\nType: `%s`\n\n", m.ReturnType)
		}
	case model.MemberEvent:
		if m.ReturnType != "" {
			fmt.Fprintf(b, "#### Event Type\n\nType: `%s`\n\n", m.ReturnType)
		}
	case model.MemberConstructor:
	}

	if len(m.Exceptions) > 0 {
		b.WriteString("#### Exceptions\n\n")
		b.WriteString("| Exception | Description |\n|-----------|-------------|\n")
		for _, ex := range m.Exceptions {
			fmt.Fprintf(b, "| `%s` | %s |\n", ex.Type, r.escape(EscapeTableCell(ex.Description)))
		}
		b.WriteString("\n")
	}

	r.writeNarrative(b, "####", m.Narrative)
}

func (r *Markdown) writeParameters(b *strings.Builder, level string, params []*model.DocParameter) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(b, "%s Parameters\n\n", level)
	b.WriteString("| Name | Type | Description |\n|------|------|-------------|\n")
	for _, p := range params {
		typ := p.Type
		if p.Modifier != "" {
			typ = p.Modifier + " " + typ
		}
		desc := p.Usage
		if p.HasDefaultValue && p.DefaultValue != "" {
			desc = strings.TrimSpace(desc + " (default: `" + p.DefaultValue + "`)")
		}
		fmt.Fprintf(b, "| `%s` | `%s` | %s |\n", p.Name, typ, r.escape(EscapeTableCell(desc)))
	}
	b.WriteString("\n")
}

// narrativeSections maps narrative fields to their headings in output order.
var narrativeSections = []struct {
	heading string
	text    func(model.Narrative) string
}{
	{"Remarks", func(n model.Narrative) string { return n.Remarks }},
	{"Usage", func(n model.Narrative) string { return n.Usage }},
	{"Examples", func(n model.Narrative) string { return n.Examples }},
	{"Best Practices", func(n model.Narrative) string { return n.BestPractices }},
	{"Patterns", func(n model.Narrative) string { return n.Patterns }},
	{"Considerations", func(n model.Narrative) string { return n.Considerations }},
}

// writeNarrative writes the narrative sections that have content. Summary
// is written by the caller.
func (r *Markdown) writeNarrative(b *strings.Builder, level string, n model.Narrative) {
	for _, s := range narrativeSections {
		text := strings.TrimSpace(s.text(n))
		if text == "" {
			continue
		}
		fmt.Fprintf(b, "%s %s\n\n%s\n\n", level, s.heading, r.escape(text))
	}
	if len(n.RelatedAPIs) > 0 {
		fmt.Fprintf(b, "%s Related APIs\n\n", level)
		for _, api := range n.RelatedAPIs {
			fmt.Fprintf(b, "- `%s`\n", api)
		}
		b.WriteString("\n")
	}
}

func writeCode(b *strings.Builder, code string) {
	b.WriteString("```csharp\n")
	b.WriteString(code)
	b.WriteString("\n```\n\n")
}

func memberHeading(m *model.DocMember) string {
	switch m.Kind {
	case model.MemberConstructor, model.MemberMethod:
		types := make([]string, len(m.Parameters))
		for i, p := range m.Parameters {
			types[i] = p.Type
		}
		return m.Name + typeParamList(m.TypeParameters) + "(" + strings.Join(types, ", ") + ")"
	case model.MemberProperty:
		if len(m.Parameters) > 0 {
			types := make([]string, len(m.Parameters))
			for i, p := range m.Parameters {
				types[i] = p.Type
			}
			return "this[" + strings.Join(types, ", ") + "]"
		}
	}
	return m.Name
}

func kindTitle(k model.TypeKind) string {
	switch k {
	case model.KindClass:
		return "Class"
	case model.KindInterface:
		return "Interface"
	case model.KindStruct:
		return "Struct"
	case model.KindEnum:
		return "Enum"
	case model.KindDelegate:
		return "Delegate"
	}
	return "Type"
}

// finish trims trailing blank lines and ends the page with one newline.
func finish(b *strings.Builder) string {
	return strings.TrimRight(b.String(), "\n") + "\n"
}
