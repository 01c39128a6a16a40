package render

import (
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// AccessModifier returns the C# keyword for a. NotApplicable, used for
// interface members with implicit accessibility, has no keyword.
func AccessModifier(a model.Accessibility) string {
	switch a {
	case model.Public, model.Protected, model.Internal, model.ProtectedInternal,
		model.PrivateProtected, model.Private:
		return string(a)
	}
	return ""
}

// MemberSignature returns the one-line C# declaration of m. The builder
// calls it once per member and stores the result; renderers print the
// stored string.
func MemberSignature(m *model.DocMember) string {
	switch m.Kind {
	case model.MemberConstructor, model.MemberMethod:
		return MethodSignature(m)
	case model.MemberProperty:
		return PropertySignature(m)
	case model.MemberField:
		return FieldSignature(m)
	case model.MemberEvent:
		return EventSignature(m)
	}
	return join(AccessModifier(m.Accessibility), m.Name)
}

// MethodSignature formats a method or constructor declaration.
func MethodSignature(m *model.DocMember) string {
	name := m.Name + typeParamList(m.TypeParameters) + "(" + ParameterList(m.Parameters, m.IsExtension) + ")"
	if m.Kind == model.MemberConstructor {
		return join(AccessModifier(m.Accessibility), flag(m.IsStatic, "static"), name)
	}
	ret := m.ReturnType
	if ret == "" {
		ret = "void"
	}
	return join(AccessModifier(m.Accessibility), memberModifiers(m), ret, name)
}

// PropertySignature formats a property or indexer declaration with its
// accessors, e.g. "public int Count { get; }".
func PropertySignature(m *model.DocMember) string {
	name := m.Name
	if len(m.Parameters) > 0 {
		name = "this[" + ParameterList(m.Parameters, false) + "]"
	}
	accessors := "{ "
	if m.HasGetter || !m.HasSetter {
		accessors += "get; "
	}
	if m.HasSetter {
		accessors += "set; "
	}
	accessors += "}"
	return join(AccessModifier(m.Accessibility), memberModifiers(m), m.ReturnType, name, accessors)
}

// FieldSignature formats a field or constant declaration. Constants include
// their value.
func FieldSignature(m *model.DocMember) string {
	if m.IsConst {
		sig := join(AccessModifier(m.Accessibility), "const", m.ReturnType, m.Name)
		if m.ConstantValue != "" {
			sig += " = " + m.ConstantValue
		}
		return sig
	}
	return join(AccessModifier(m.Accessibility), flag(m.IsStatic, "static"), flag(m.IsReadOnly, "readonly"), m.ReturnType, m.Name)
}

// EventSignature formats an event declaration.
func EventSignature(m *model.DocMember) string {
	return join(AccessModifier(m.Accessibility), memberModifiers(m), "event", m.ReturnType, m.Name)
}

// TypeSignature formats a type declaration including its base list.
func TypeSignature(t *model.DocType) string {
	access := AccessModifier(t.Accessibility)
	switch t.Kind {
	case model.KindDelegate:
		ret := t.ReturnType
		if ret == "" {
			ret = "void"
		}
		return join(access, "delegate", ret, t.Name+"("+ParameterList(t.Parameters, false)+")")
	case model.KindEnum:
		sig := join(access, "enum", t.Name)
		if t.Enum != nil && t.Enum.UnderlyingType != "" && t.Enum.UnderlyingType != "int" {
			sig += " : " + t.Enum.UnderlyingType
		}
		return sig
	}

	var mods []string
	switch {
	case t.IsStatic:
		mods = append(mods, "static")
	case t.Kind == model.KindClass && t.IsAbstract:
		mods = append(mods, "abstract")
	case t.Kind == model.KindClass && t.IsSealed:
		mods = append(mods, "sealed")
	}
	sig := join(access, strings.Join(mods, " "), t.Kind.Keyword(), t.Name)

	var bases []string
	if t.BaseType != "" && t.BaseType != "object" && t.BaseType != "System.Object" && t.BaseType != "System.ValueType" {
		bases = append(bases, t.BaseType)
	}
	bases = append(bases, t.Interfaces...)
	if len(bases) > 0 {
		sig += " : " + strings.Join(bases, ", ")
	}
	return sig
}

// ParameterList formats parameters as "int x, params string[] rest".
// When extension is true the first parameter is prefixed with "this".
func ParameterList(params []*model.DocParameter, extension bool) string {
	parts := make([]string, len(params))
	for i, p := range params {
		mod := p.Modifier
		if i == 0 && extension && mod == "" {
			mod = "this"
		}
		s := join(mod, flag(p.IsParams, "params"), p.Type, p.Name)
		if p.HasDefaultValue {
			def := p.DefaultValue
			if def == "" {
				def = "default"
			}
			s += " = " + def
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func memberModifiers(m *model.DocMember) string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	switch {
	case m.IsAbstract:
		mods = append(mods, "abstract")
	case m.IsOverride && m.IsSealed:
		mods = append(mods, "sealed", "override")
	case m.IsOverride:
		mods = append(mods, "override")
	case m.IsVirtual:
		mods = append(mods, "virtual")
	}
	return strings.Join(mods, " ")
}

func typeParamList(params []model.DocTypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func flag(set bool, word string) string {
	if set {
		return word
	}
	return ""
}

// join joins the non-empty parts with single spaces.
func join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
