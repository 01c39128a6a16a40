// Package builder turns a symbol graph and its doc comments into a
// documentation model. It applies the accessibility filter, evaluates enum
// values, merges XML comments with conceptual content and computes every
// signature once.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
	"github.com/julianshen/dotnetdocs/internal/render"
	"github.com/julianshen/dotnetdocs/internal/symbols"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// ErrInvalidArgument is returned for a nil assembly or one without a name.
var ErrInvalidArgument = errors.New("invalid argument")

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder builds documentation models for one project context.
type Builder struct {
	project *project.Context
	logger  *log.Logger

	refsOnce sync.Once
	refs     xmldoc.CommentSource
}

// New returns a Builder. A nil context uses project.NewContext defaults.
func New(pc *project.Context, opts ...Option) *Builder {
	if pc == nil {
		pc = project.NewContext()
	}
	b := &Builder{project: pc, logger: log.Default()}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Builder) warnf(format string, args ...any) {
	b.logger.Printf("WARNING: "+format, args...)
}

// Build converts asm into a documentation model. comments may be nil, in
// which case the model carries metadata only.
func (b *Builder) Build(ctx context.Context, asm *symbols.Assembly, comments xmldoc.CommentSource) (*model.DocAssembly, error) {
	if asm == nil {
		return nil, fmt.Errorf("%w: assembly is nil", ErrInvalidArgument)
	}
	if strings.TrimSpace(asm.Name) == "" {
		return nil, fmt.Errorf("%w: assembly name is empty", ErrInvalidArgument)
	}
	if comments == nil && asm.Comments != nil {
		comments = asm.Comments
	}

	doc := &model.DocAssembly{Name: asm.Name, Version: NormalizeVersion(asm.Version)}
	content := newConceptual(b.project, b.warnf)

	index := make(map[string]*symbols.Type, len(asm.Types))
	for _, t := range asm.Types {
		if t != nil {
			index[t.FullName()] = t
		}
	}

	namespaces := map[string]*model.DocNamespace{}
	for _, t := range asm.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dt := b.buildType(asm, t, index, comments)
		if dt == nil {
			continue
		}
		ns, ok := namespaces[dt.Namespace]
		if !ok {
			ns = &model.DocNamespace{Name: dt.Namespace}
			namespaces[dt.Namespace] = ns
			doc.Namespaces = append(doc.Namespaces, ns)
		}
		ns.Types = append(ns.Types, dt)
	}

	doc.Prune()
	doc.Sort()

	content.apply(&doc.Narrative, content.assemblyDir(), doc.Name)
	for _, ns := range doc.Namespaces {
		if !ns.IsGlobal() {
			b.applyComment(&ns.Narrative, comments, "N:"+ns.Name)
		}
		content.apply(&ns.Narrative, content.namespaceDir(ns.Name), ns.Name)
		for _, t := range ns.Types {
			content.apply(&t.Narrative, content.typeDir(t), t.Name)
			for _, m := range t.Members {
				content.apply(&m.Narrative, content.memberDir(t, m), t.Name+"."+m.Name)
			}
		}
	}
	return doc, nil
}

// access resolves a declared accessibility. implicit applies when nothing
// was declared. NotApplicable members ride along with their parent type.
func (b *Builder) access(raw string, implicit model.Accessibility) (model.Accessibility, bool) {
	a := implicit
	if strings.TrimSpace(raw) != "" {
		parsed, ok := model.ParseAccessibility(raw)
		if !ok {
			b.warnf("unknown accessibility %q, treating as private", raw)
			parsed = model.Private
		}
		a = parsed
	}
	if a == model.NotApplicable {
		return a, true
	}
	return a, b.project.IsIncluded(a)
}

// typeAccess resolves the declared accessibility of t. Nested types default
// to private.
func (b *Builder) typeAccess(t *symbols.Type) model.Accessibility {
	implicit := model.Internal
	if strings.Contains(t.Name, ".") {
		implicit = model.Private
	}
	a, _ := b.access(t.Accessibility, implicit)
	return a
}

// effectiveAccess narrows the declared accessibility of a nested type by
// every enclosing type found in index. Nested names are dotted paths from
// the outermost type.
func (b *Builder) effectiveAccess(t *symbols.Type, declared model.Accessibility, index map[string]*symbols.Type) model.Accessibility {
	a := declared
	name := t.Name
	for i := strings.LastIndexByte(name, '.'); i >= 0; i = strings.LastIndexByte(name, '.') {
		name = name[:i]
		outer := &symbols.Type{Name: name, Namespace: t.Namespace}
		if container, ok := index[outer.FullName()]; ok {
			a = model.Restrict(a, b.typeAccess(container))
		}
	}
	return a
}

func (b *Builder) buildType(asm *symbols.Assembly, t *symbols.Type, index map[string]*symbols.Type, comments xmldoc.CommentSource) *model.DocType {
	if t == nil {
		return nil
	}
	if !t.Kind.Valid() {
		b.warnf("skipping %s: unknown type kind %q", t.FullName(), t.Kind)
		return nil
	}
	access := b.typeAccess(t)
	if eff := b.effectiveAccess(t, access, index); eff != model.NotApplicable && !b.project.IsIncluded(eff) {
		return nil
	}

	ns := model.NamespaceName(t.Namespace)
	name := t.DisplayName()
	fullName := name
	if t.Namespace != "" {
		fullName = t.Namespace + "." + name
	}
	dt := &model.DocType{
		Name:          name,
		FullName:      fullName,
		Namespace:     ns,
		AssemblyName:  asm.Name,
		Kind:          t.Kind,
		Accessibility: access,
		BaseType:      t.BaseType,
		Interfaces:    append([]string(nil), t.Interfaces...),
		IsStatic:      t.IsStatic,
		IsAbstract:    t.IsAbstract,
		IsSealed:      t.IsSealed,
	}
	for _, tp := range t.TypeParameters {
		dt.TypeParameters = append(dt.TypeParameters, model.DocTypeParameter{Name: tp})
	}

	comment := b.typeComment(comments, index, t)
	b.mergeComment(&dt.Narrative, comment)
	if comment != nil {
		for i := range dt.TypeParameters {
			dt.TypeParameters[i].Description = comment.TypeParams[dt.TypeParameters[i].Name]
		}
	}

	switch t.Kind {
	case model.KindEnum:
		dt.Enum = b.buildEnum(t, comments)
	case model.KindDelegate:
		dt.ReturnType = t.ReturnType
		if dt.ReturnType == "" {
			dt.ReturnType = "void"
		}
		dt.Parameters = buildParameters(t.Parameters, comment)
	case model.KindClass, model.KindInterface, model.KindStruct:
		for _, m := range t.Members {
			if dm := b.buildMember(t, m, index, comments); dm != nil {
				dt.Members = append(dt.Members, dm)
			}
		}
	}

	dt.Signature = render.TypeSignature(dt)
	return dt
}

func (b *Builder) buildEnum(t *symbols.Type, comments xmldoc.CommentSource) *model.EnumInfo {
	info := &model.EnumInfo{
		UnderlyingType: t.UnderlyingType,
		IsFlags:        t.HasAttribute("Flags"),
	}
	if info.UnderlyingType == "" {
		info.UnderlyingType = "int"
	}
	for _, m := range t.Members {
		if m == nil || m.Kind != model.MemberField {
			continue
		}
		v := model.DocEnumValue{Name: m.Name, Value: DecimalValue(m.ConstantValue.String())}
		if c := b.comment(comments, symbols.MemberID(t, m)); c != nil {
			v.Description = c.Summary
		}
		info.Values = append(info.Values, v)
	}
	return info
}

// DecimalValue renders an integer literal in decimal. Hex and binary
// literals with optional C# suffixes and digit separators are converted;
// anything else is returned trimmed.
func DecimalValue(literal string) string {
	s := strings.TrimSpace(literal)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		n, ok := symbols.IntegerLiteral(rest)
		if !ok || n > 1<<63 {
			return s
		}
		if n == 0 {
			return "0"
		}
		return "-" + strconv.FormatUint(n, 10)
	}
	if n, ok := symbols.IntegerLiteral(s); ok {
		return strconv.FormatUint(n, 10)
	}
	return s
}

func (b *Builder) buildMember(t *symbols.Type, m *symbols.Member, index map[string]*symbols.Type, comments xmldoc.CommentSource) *model.DocMember {
	if m == nil {
		return nil
	}
	if !m.Kind.Valid() {
		b.warnf("skipping %s.%s: unknown member kind %q", t.FullName(), m.Name, m.Kind)
		return nil
	}
	implicit := model.Private
	if t.Kind == model.KindInterface || t.Kind == model.KindEnum {
		implicit = model.NotApplicable
	}
	access, ok := b.access(m.Accessibility, implicit)
	if !ok {
		return nil
	}

	dm := &model.DocMember{
		Name:          m.Name,
		Kind:          m.Kind,
		Accessibility: access,
		ReturnType:    m.ReturnType(),
		IsStatic:      m.IsStatic,
		IsAbstract:    m.IsAbstract,
		IsVirtual:     m.IsVirtual,
		IsOverride:    m.IsOverride,
		IsSealed:      m.IsSealed,
		IsReadOnly:    m.IsReadOnly,
		IsConst:       m.IsConst,
		IsExtension:   m.IsExtension,
		HasGetter:     m.HasGetter,
		HasSetter:     m.HasSetter,
		ConstantValue: m.ConstantValue.String(),
	}
	if m.Kind == model.MemberConstructor {
		dm.Name = t.Name
		if i := strings.LastIndexByte(dm.Name, '.'); i >= 0 {
			dm.Name = dm.Name[i+1:]
		}
	}
	for _, tp := range m.TypeParameters {
		dm.TypeParameters = append(dm.TypeParameters, model.DocTypeParameter{Name: tp})
	}

	comment := b.memberComment(comments, index, t, m)
	b.mergeComment(&dm.Narrative, comment)
	dm.Parameters = buildParameters(m.Parameters, comment)
	if comment != nil {
		dm.Returns = comment.Returns
		dm.Value = comment.Value
		for _, ex := range comment.Exceptions {
			dm.Exceptions = append(dm.Exceptions, model.DocException{Type: xmldoc.StripIDPrefix(ex.Cref), Description: ex.Description})
		}
		for i := range dm.TypeParameters {
			dm.TypeParameters[i].Description = comment.TypeParams[dm.TypeParameters[i].Name]
		}
	}

	dm.Signature = render.MemberSignature(dm)
	return dm
}

func buildParameters(params []*symbols.Parameter, comment *xmldoc.Comment) []*model.DocParameter {
	var out []*model.DocParameter
	for _, p := range params {
		if p == nil {
			continue
		}
		dp := &model.DocParameter{
			Name:            p.Name,
			Type:            p.Type,
			Modifier:        p.Modifier,
			IsOptional:      p.IsOptional,
			IsParams:        p.IsParams,
			HasDefaultValue: p.HasDefaultValue,
			DefaultValue:    p.DefaultValue,
		}
		if comment != nil {
			dp.Usage = comment.Params[p.Name]
		}
		out = append(out, dp)
	}
	return out
}

// comment looks up id. Parse failures are logged and treated as no comment
// so one bad member never aborts the pass.
func (b *Builder) comment(comments xmldoc.CommentSource, id string) *xmldoc.Comment {
	if comments == nil {
		return nil
	}
	c, err := comments.Comment(id)
	if err != nil {
		b.warnf("ignoring doc comment for %s: %v", id, err)
		return nil
	}
	return c
}

func (b *Builder) applyComment(n *model.Narrative, comments xmldoc.CommentSource, id string) {
	b.mergeComment(n, b.comment(comments, id))
}

func (b *Builder) mergeComment(n *model.Narrative, c *xmldoc.Comment) {
	if c == nil {
		return
	}
	n.Summary = c.Summary
	n.Remarks = c.Remarks
	n.Examples = strings.Join(c.Examples, "\n\n")
	for _, ref := range c.SeeAlso {
		n.RelatedAPIs = append(n.RelatedAPIs, xmldoc.StripIDPrefix(ref))
	}
}

// NormalizeVersion turns a four-part assembly version into semantic version
// form: "1.2.3.0" becomes "1.2.3" and "1.2.3.4" becomes "1.2.3+4". Versions
// that still do not parse are returned unchanged.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	candidate := v
	if parts := strings.Split(v, "."); len(parts) == 4 {
		candidate = strings.Join(parts[:3], ".")
		if parts[3] != "0" {
			candidate += "+" + parts[3]
		}
	}
	sv, err := semver.NewVersion(candidate)
	if err != nil {
		return v
	}
	return sv.String()
}
