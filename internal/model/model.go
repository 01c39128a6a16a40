// Package model defines the normalized documentation graph shared by the
// builder, the transform passes and every renderer:
// assembly -> namespaces -> types -> members -> parameters.
//
// The graph is a strict tree. Each entity exclusively owns its children and
// nothing in the graph points back up. Renderers treat a built model as
// read-only.
package model

import (
	"sort"
	"strings"
)

// GlobalNamespace is the sentinel name for types declared outside any namespace.
const GlobalNamespace = "global"

// PlaceholderMarker prefixes generated placeholder text so it is never
// mistaken for authored content.
const PlaceholderMarker = "<!-- TODO: REMOVE THIS COMMENT AFTER YOU CUSTOMIZE THIS CONTENT -->"

// IsPlaceholder reports whether text is generated placeholder content.
func IsPlaceholder(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), PlaceholderMarker)
}

// Narrative holds the prose attached to any documented entity. Empty fields
// mean "no content" and renderers omit the matching section entirely.
type Narrative struct {
	Summary        string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Remarks        string   `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	Usage          string   `json:"usage,omitempty" yaml:"usage,omitempty"`
	Examples       string   `json:"examples,omitempty" yaml:"examples,omitempty"`
	BestPractices  string   `json:"bestPractices,omitempty" yaml:"bestPractices,omitempty"`
	Patterns       string   `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Considerations string   `json:"considerations,omitempty" yaml:"considerations,omitempty"`
	RelatedAPIs    []string `json:"relatedApis,omitempty" yaml:"relatedApis,omitempty"`
}

// IsEmpty reports whether no narrative field carries content.
func (n Narrative) IsEmpty() bool {
	return n.Summary == "" && n.Remarks == "" && n.Usage == "" && n.Examples == "" &&
		n.BestPractices == "" && n.Patterns == "" && n.Considerations == "" && len(n.RelatedAPIs) == 0
}

// Texts returns pointers to every string narrative field, keyed by field name.
// Transform passes use it to rewrite prose in place.
func (n *Narrative) Texts() []NamedText {
	return []NamedText{
		{"summary", &n.Summary},
		{"remarks", &n.Remarks},
		{"usage", &n.Usage},
		{"examples", &n.Examples},
		{"bestPractices", &n.BestPractices},
		{"patterns", &n.Patterns},
		{"considerations", &n.Considerations},
	}
}

// NamedText is an addressable prose field.
type NamedText struct {
	Field string
	Text  *string
}

// DocAssembly is the root of a documentation model.
type DocAssembly struct {
	Name       string          `json:"name" yaml:"name"`
	Version    string          `json:"version,omitempty" yaml:"version,omitempty"`
	Narrative  `yaml:",inline"`
	Namespaces []*DocNamespace `json:"namespaces" yaml:"namespaces"`
}

// Namespace returns the namespace with the given name, or nil.
func (a *DocAssembly) Namespace(name string) *DocNamespace {
	name = NamespaceName(name)
	for _, ns := range a.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	return nil
}

// Prune drops namespaces that have no types.
func (a *DocAssembly) Prune() {
	kept := a.Namespaces[:0]
	for _, ns := range a.Namespaces {
		if len(ns.Types) > 0 {
			kept = append(kept, ns)
		}
	}
	for i := len(kept); i < len(a.Namespaces); i++ {
		a.Namespaces[i] = nil
	}
	a.Namespaces = kept
}

// Sort orders namespaces and the types within them by name using ordinal
// comparison, so output is stable across runs.
func (a *DocAssembly) Sort() {
	sort.SliceStable(a.Namespaces, func(i, j int) bool {
		return a.Namespaces[i].Name < a.Namespaces[j].Name
	})
	for _, ns := range a.Namespaces {
		sort.SliceStable(ns.Types, func(i, j int) bool {
			return ns.Types[i].FullName < ns.Types[j].FullName
		})
	}
}

// TypeCount returns the number of types across all namespaces.
func (a *DocAssembly) TypeCount() int {
	n := 0
	for _, ns := range a.Namespaces {
		n += len(ns.Types)
	}
	return n
}

// NamespaceName maps the empty namespace to GlobalNamespace.
func NamespaceName(name string) string {
	if strings.TrimSpace(name) == "" {
		return GlobalNamespace
	}
	return name
}

// DocNamespace groups the types declared in one namespace.
type DocNamespace struct {
	Name      string     `json:"name" yaml:"name"`
	Narrative `yaml:",inline"`
	Types     []*DocType `json:"types" yaml:"types"`
}

// IsGlobal reports whether this is the synthetic global namespace.
func (ns *DocNamespace) IsGlobal() bool {
	return ns.Name == GlobalNamespace || ns.Name == ""
}

// TypesOfKind returns the namespace's types of kind k in model order.
func (ns *DocNamespace) TypesOfKind(k TypeKind) []*DocType {
	var out []*DocType
	for _, t := range ns.Types {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// DocType is a class, interface, struct, enum or delegate. Kind selects the
// variant: Enum is only set for enums, Parameters and ReturnType only for
// delegates.
type DocType struct {
	Name           string             `json:"name" yaml:"name"`
	FullName       string             `json:"fullName" yaml:"fullName"`
	Namespace      string             `json:"namespace" yaml:"namespace"`
	AssemblyName   string             `json:"assemblyName,omitempty" yaml:"assemblyName,omitempty"`
	Kind           TypeKind           `json:"kind" yaml:"kind"`
	Accessibility  Accessibility      `json:"accessibility" yaml:"accessibility"`
	Signature      string             `json:"signature" yaml:"signature"`
	BaseType       string             `json:"baseType,omitempty" yaml:"baseType,omitempty"`
	Interfaces     []string           `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	TypeParameters []DocTypeParameter `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	IsStatic       bool               `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	IsAbstract     bool               `json:"isAbstract,omitempty" yaml:"isAbstract,omitempty"`
	IsSealed       bool               `json:"isSealed,omitempty" yaml:"isSealed,omitempty"`
	ReturnType     string             `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Parameters     []*DocParameter    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Narrative      `yaml:",inline"`
	Enum           *EnumInfo          `json:"enum,omitempty" yaml:"enum,omitempty"`
	Members        []*DocMember       `json:"members,omitempty" yaml:"members,omitempty"`
}

// MembersOfKind returns the type's members of kind k in model order.
func (t *DocType) MembersOfKind(k MemberKind) []*DocMember {
	var out []*DocMember
	for _, m := range t.Members {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// EnumInfo carries the enum-only attributes of a DocType.
type EnumInfo struct {
	UnderlyingType string         `json:"underlyingType" yaml:"underlyingType"`
	IsFlags        bool           `json:"isFlags" yaml:"isFlags"`
	Values         []DocEnumValue `json:"values" yaml:"values"`
}

// DocEnumValue is one enum literal. Value is the decimal representation of
// the underlying constant, never a symbolic expression.
type DocEnumValue struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DocTypeParameter is a generic type parameter and its <typeparam> text.
type DocTypeParameter struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DocException is an <exception> entry.
type DocException struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DocMember is a constructor, method, property, field or event.
//
// ReturnType is "" when absent (constructors) and "void" for methods that
// return nothing. For properties, fields and events it holds the value type.
// Signature is computed once by the builder and treated as opaque by renderers.
type DocMember struct {
	Name           string             `json:"name" yaml:"name"`
	Kind           MemberKind         `json:"kind" yaml:"kind"`
	Accessibility  Accessibility      `json:"accessibility" yaml:"accessibility"`
	Signature      string             `json:"signature" yaml:"signature"`
	ReturnType     string             `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	TypeParameters []DocTypeParameter `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	Parameters     []*DocParameter    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	IsStatic       bool               `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	IsAbstract     bool               `json:"isAbstract,omitempty" yaml:"isAbstract,omitempty"`
	IsVirtual      bool               `json:"isVirtual,omitempty" yaml:"isVirtual,omitempty"`
	IsOverride     bool               `json:"isOverride,omitempty" yaml:"isOverride,omitempty"`
	IsSealed       bool               `json:"isSealed,omitempty" yaml:"isSealed,omitempty"`
	IsReadOnly     bool               `json:"isReadOnly,omitempty" yaml:"isReadOnly,omitempty"`
	IsConst        bool               `json:"isConst,omitempty" yaml:"isConst,omitempty"`
	IsExtension    bool               `json:"isExtension,omitempty" yaml:"isExtension,omitempty"`
	HasGetter      bool               `json:"hasGetter,omitempty" yaml:"hasGetter,omitempty"`
	HasSetter      bool               `json:"hasSetter,omitempty" yaml:"hasSetter,omitempty"`
	ConstantValue  string             `json:"constantValue,omitempty" yaml:"constantValue,omitempty"`
	Returns        string             `json:"returns,omitempty" yaml:"returns,omitempty"`
	Value          string             `json:"value,omitempty" yaml:"value,omitempty"`
	Exceptions     []DocException     `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
	Narrative      `yaml:",inline"`
}

// HasReturnValue reports whether a Returns section applies: the member
// returns something other than void.
func (m *DocMember) HasReturnValue() bool {
	return m.Kind == MemberMethod && m.ReturnType != "" && m.ReturnType != "void"
}

// DocParameter is one method, constructor or delegate parameter.
// IsOptional and HasDefaultValue are independent: a parameter can carry a
// default supplied by the calling convention without being optional.
type DocParameter struct {
	Name            string `json:"name" yaml:"name"`
	Type            string `json:"type" yaml:"type"`
	Modifier        string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	IsOptional      bool   `json:"isOptional" yaml:"isOptional"`
	IsParams        bool   `json:"isParams" yaml:"isParams"`
	HasDefaultValue bool   `json:"hasDefaultValue" yaml:"hasDefaultValue"`
	DefaultValue    string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Usage           string `json:"usage,omitempty" yaml:"usage,omitempty"`
}
