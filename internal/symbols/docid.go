package symbols

import (
	"strconv"
	"strings"

	"github.com/julianshen/dotnetdocs/internal/model"
)

// keywordTypes maps C# keyword aliases to their runtime type names as they
// appear in doc-comment identifiers.
var keywordTypes = map[string]string{
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"char":    "System.Char",
	"decimal": "System.Decimal",
	"double":  "System.Double",
	"float":   "System.Single",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"nint":    "System.IntPtr",
	"nuint":   "System.UIntPtr",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"object":  "System.Object",
	"string":  "System.String",
	"void":    "System.Void",
}

// TypeID returns the doc-comment identifier of t, e.g. "T:Ns.Cache`2".
func TypeID(t *Type) string {
	if t.DocID != "" {
		return t.DocID
	}
	id := "T:" + t.FullName()
	if n := len(t.TypeParameters); n > 0 {
		id += "`" + strconv.Itoa(n)
	}
	return id
}

// MemberID returns the doc-comment identifier of m declared on t.
func MemberID(t *Type, m *Member) string {
	if m.DocID != "" {
		return m.DocID
	}
	owner := strings.TrimPrefix(TypeID(t), "T:")
	typeParams := typeParamScope(t, m)

	switch m.Kind {
	case model.MemberConstructor:
		name := "#ctor"
		if m.IsStatic {
			name = "#cctor"
		}
		return "M:" + owner + "." + name + paramList(m.Parameters, typeParams)
	case model.MemberMethod:
		name := m.Name
		if n := len(m.TypeParameters); n > 0 {
			name += "``" + strconv.Itoa(n)
		}
		return "M:" + owner + "." + name + paramList(m.Parameters, typeParams)
	case model.MemberProperty:
		name := m.Name
		if name == "this" {
			name = "Item"
		}
		return "P:" + owner + "." + name + paramList(m.Parameters, typeParams)
	case model.MemberField:
		return "F:" + owner + "." + m.Name
	case model.MemberEvent:
		return "E:" + owner + "." + m.Name
	}
	return "M:" + owner + "." + m.Name
}

type paramScope struct {
	typeLevel   map[string]int
	methodLevel map[string]int
}

func typeParamScope(t *Type, m *Member) paramScope {
	s := paramScope{typeLevel: map[string]int{}, methodLevel: map[string]int{}}
	for i, p := range t.TypeParameters {
		s.typeLevel[p] = i
	}
	for i, p := range m.TypeParameters {
		s.methodLevel[p] = i
	}
	return s
}

func paramList(params []*Parameter, scope paramScope) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		s := clrTypeName(p.Type, scope)
		if p.Modifier == "ref" || p.Modifier == "out" || p.Modifier == "in" {
			s += "@"
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// ClrTypeName converts a C# display type such as "List<int>?" into its
// doc-comment form "System.Nullable{List{System.Int32}}" where it can.
// Type names that cannot be resolved without a compiler are kept as written.
func ClrTypeName(display string) string {
	return clrTypeName(display, paramScope{})
}

func clrTypeName(display string, scope paramScope) string {
	s := strings.TrimSpace(display)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "[]") {
		return clrTypeName(s[:len(s)-2], scope) + "[]"
	}
	if strings.HasSuffix(s, "?") {
		inner := clrTypeName(s[:len(s)-1], scope)
		if isValueKeyword(strings.TrimSuffix(s, "?")) {
			return "System.Nullable{" + inner + "}"
		}
		return inner
	}
	if i := strings.IndexByte(s, '<'); i >= 0 && strings.HasSuffix(s, ">") {
		args := splitTypeArgs(s[i+1 : len(s)-1])
		for j, a := range args {
			args[j] = clrTypeName(a, scope)
		}
		return s[:i] + "{" + strings.Join(args, ",") + "}"
	}
	if full, ok := keywordTypes[s]; ok {
		return full
	}
	if n, ok := scope.methodLevel[s]; ok {
		return "``" + strconv.Itoa(n)
	}
	if n, ok := scope.typeLevel[s]; ok {
		return "`" + strconv.Itoa(n)
	}
	return s
}

func isValueKeyword(s string) bool {
	switch s {
	case "object", "string", "void":
		return false
	}
	_, ok := keywordTypes[s]
	return ok
}

// splitTypeArgs splits a generic argument list on top-level commas.
func splitTypeArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}
