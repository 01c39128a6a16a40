package model

// TypeKind identifies the variant of a DocType.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindStruct    TypeKind = "struct"
	KindEnum      TypeKind = "enum"
	KindDelegate  TypeKind = "delegate"
)

// TypeKinds lists every type kind in the order renderers group them.
var TypeKinds = []TypeKind{KindClass, KindInterface, KindStruct, KindEnum, KindDelegate}

// Valid reports whether k is one of the known type kinds.
func (k TypeKind) Valid() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindEnum, KindDelegate:
		return true
	}
	return false
}

// Plural returns the section heading used when grouping types of this kind.
func (k TypeKind) Plural() string {
	switch k {
	case KindClass:
		return "Classes"
	case KindInterface:
		return "Interfaces"
	case KindStruct:
		return "Structs"
	case KindEnum:
		return "Enums"
	case KindDelegate:
		return "Delegates"
	}
	return "Types"
}

// Keyword returns the C# declaration keyword for the kind.
func (k TypeKind) Keyword() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	}
	return string(k)
}

// MemberKind identifies the variant of a DocMember.
type MemberKind string

const (
	MemberConstructor MemberKind = "constructor"
	MemberMethod      MemberKind = "method"
	MemberProperty    MemberKind = "property"
	MemberField       MemberKind = "field"
	MemberEvent       MemberKind = "event"
)

// MemberKinds lists every member kind in the order renderers emit their sections.
var MemberKinds = []MemberKind{MemberConstructor, MemberMethod, MemberProperty, MemberField, MemberEvent}

// Valid reports whether k is one of the known member kinds.
func (k MemberKind) Valid() bool {
	switch k {
	case MemberConstructor, MemberMethod, MemberProperty, MemberField, MemberEvent:
		return true
	}
	return false
}

// Plural returns the section heading for members of this kind.
func (k MemberKind) Plural() string {
	switch k {
	case MemberConstructor:
		return "Constructors"
	case MemberMethod:
		return "Methods"
	case MemberProperty:
		return "Properties"
	case MemberField:
		return "Fields"
	case MemberEvent:
		return "Events"
	}
	return "Members"
}

// Accessibility is the declared access level of a type or member.
type Accessibility string

const (
	Public            Accessibility = "public"
	Protected         Accessibility = "protected"
	Internal          Accessibility = "internal"
	ProtectedInternal Accessibility = "protected internal"
	PrivateProtected  Accessibility = "private protected"
	Private           Accessibility = "private"
	// NotApplicable is used for implicit members such as interface members
	// without an explicit modifier.
	NotApplicable Accessibility = "not-applicable"
)

var accessibilities = map[string]Accessibility{
	"public":               Public,
	"protected":            Protected,
	"internal":             Internal,
	"protected internal":   ProtectedInternal,
	"protectedinternal":    ProtectedInternal,
	"protectedorinternal":  ProtectedInternal,
	"private protected":    PrivateProtected,
	"privateprotected":     PrivateProtected,
	"protectedandinternal": PrivateProtected,
	"private":              Private,
	"not-applicable":       NotApplicable,
	"notapplicable":        NotApplicable,
	"":                     NotApplicable,
}

// accessRank orders accessibilities from widest to narrowest. Protected and
// Internal share a rank because neither contains the other.
var accessRank = map[Accessibility]int{
	Public:            5,
	ProtectedInternal: 4,
	Protected:         3,
	Internal:          3,
	PrivateProtected:  2,
	Private:           1,
}

// Restrict returns the effective accessibility of something declared a
// inside a container whose effective accessibility is b. NotApplicable
// defers to the other side.
func Restrict(a, b Accessibility) Accessibility {
	switch {
	case a == NotApplicable:
		return b
	case b == NotApplicable:
		return a
	case a == b:
		return a
	case (a == Protected && b == Internal) || (a == Internal && b == Protected):
		return PrivateProtected
	}
	ra, okA := accessRank[a]
	rb, okB := accessRank[b]
	if !okA || !okB {
		return Private
	}
	if ra <= rb {
		return a
	}
	return b
}

// ParseAccessibility converts a keyword or compiler enum name (for example
// "ProtectedOrInternal") into an Accessibility. The boolean is false when the
// input is not recognized.
func ParseAccessibility(s string) (Accessibility, bool) {
	a, ok := accessibilities[normalizeKey(s)]
	return a, ok
}

func normalizeKey(s string) string {
	out := make([]byte, 0, len(s))
	prevSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		case c == ' ' || c == '\t' || c == '_':
			if prevSpace || len(out) == 0 {
				continue
			}
			prevSpace = true
			out = append(out, ' ')
			continue
		}
		prevSpace = false
		out = append(out, c)
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
