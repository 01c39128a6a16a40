// Package symbols describes the compiler-level symbol graph of an assembly:
// the walkable input the builder turns into a documentation model.
//
// A symbol graph comes from a Provider. Manifests written by a compiler
// service next to the assembly and C# source trees are both supported.
package symbols

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/xmldoc"
)

// Provider loads the symbol graph found at path.
type Provider interface {
	Load(ctx context.Context, path string) (*Assembly, error)
}

// Assembly is the root of a symbol graph.
type Assembly struct {
	Name    string  `json:"name" yaml:"name"`
	Version string  `json:"version,omitempty" yaml:"version,omitempty"`
	Types   []*Type `json:"types" yaml:"types"`

	// Comments is set by providers that discover doc comments themselves,
	// such as the source parser. Manifest providers leave it nil and the
	// XML sidecar is used instead.
	Comments xmldoc.CommentSource `json:"-" yaml:"-"`
}

// Type is a class, interface, struct, enum or delegate.
type Type struct {
	// Name is the simple name without generic arity. Nested types use the
	// dotted path from the outermost type ("Outer.Inner").
	Name           string         `json:"name" yaml:"name"`
	Namespace      string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Kind           model.TypeKind `json:"kind" yaml:"kind"`
	Accessibility  string         `json:"accessibility" yaml:"accessibility"`
	IsStatic       bool           `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	IsAbstract     bool           `json:"isAbstract,omitempty" yaml:"isAbstract,omitempty"`
	IsSealed       bool           `json:"isSealed,omitempty" yaml:"isSealed,omitempty"`
	BaseType       string         `json:"baseType,omitempty" yaml:"baseType,omitempty"`
	Interfaces     []string       `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	TypeParameters []string       `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	Attributes     []string       `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	// UnderlyingType is the integral type behind an enum. Empty means int.
	UnderlyingType string `json:"underlyingType,omitempty" yaml:"underlyingType,omitempty"`
	// ReturnType and Parameters describe a delegate's Invoke signature.
	ReturnType string       `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Members    []*Member    `json:"members,omitempty" yaml:"members,omitempty"`
	// DocID overrides the computed doc-comment identifier.
	DocID string `json:"docId,omitempty" yaml:"docId,omitempty"`
}

// FullName returns Namespace.Name, or Name for the global namespace.
func (t *Type) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// DisplayName returns the name with generic parameters, e.g. "Cache<TKey, TValue>".
func (t *Type) DisplayName() string {
	if len(t.TypeParameters) == 0 {
		return t.Name
	}
	return t.Name + "<" + strings.Join(t.TypeParameters, ", ") + ">"
}

// HasAttribute reports whether the type carries the named attribute. The
// "Attribute" suffix and a namespace qualifier are optional on both sides.
func (t *Type) HasAttribute(name string) bool {
	return MatchAttribute(t.Attributes, name)
}

// Member is a constructor, method, property, field or event. Enum literals
// are fields with a constant value.
type Member struct {
	Name           string           `json:"name" yaml:"name"`
	Kind           model.MemberKind `json:"kind" yaml:"kind"`
	Accessibility  string           `json:"accessibility" yaml:"accessibility"`
	Type           string           `json:"type,omitempty" yaml:"type,omitempty"`
	TypeParameters []string         `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	Parameters     []*Parameter     `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	IsStatic       bool             `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
	IsAbstract     bool             `json:"isAbstract,omitempty" yaml:"isAbstract,omitempty"`
	IsVirtual      bool             `json:"isVirtual,omitempty" yaml:"isVirtual,omitempty"`
	IsOverride     bool             `json:"isOverride,omitempty" yaml:"isOverride,omitempty"`
	IsSealed       bool             `json:"isSealed,omitempty" yaml:"isSealed,omitempty"`
	IsReadOnly     bool             `json:"isReadOnly,omitempty" yaml:"isReadOnly,omitempty"`
	IsConst        bool             `json:"isConst,omitempty" yaml:"isConst,omitempty"`
	IsExtension    bool             `json:"isExtension,omitempty" yaml:"isExtension,omitempty"`
	HasGetter      bool             `json:"hasGetter,omitempty" yaml:"hasGetter,omitempty"`
	HasSetter      bool             `json:"hasSetter,omitempty" yaml:"hasSetter,omitempty"`
	ConstantValue  Constant         `json:"constantValue,omitempty" yaml:"constantValue,omitempty"`
	Attributes     []string         `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	DocID          string           `json:"docId,omitempty" yaml:"docId,omitempty"`
}

// ReturnType returns the member's value type. Constructors have none and
// methods without a declared type are void.
func (m *Member) ReturnType() string {
	switch m.Kind {
	case model.MemberConstructor:
		return ""
	case model.MemberMethod:
		if m.Type == "" {
			return "void"
		}
	}
	return m.Type
}

// Parameter is one parameter of a method, constructor, indexer or delegate.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	// Modifier is "ref", "out", "in", "this" or empty.
	Modifier        string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	IsOptional      bool   `json:"isOptional,omitempty" yaml:"isOptional,omitempty"`
	IsParams        bool   `json:"isParams,omitempty" yaml:"isParams,omitempty"`
	HasDefaultValue bool   `json:"hasDefaultValue,omitempty" yaml:"hasDefaultValue,omitempty"`
	DefaultValue    string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Constant is a literal constant value kept exactly as written. JSON
// numbers are decoded without a float round trip so large unsigned enum
// values survive intact.
type Constant string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (c *Constant) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Constant(s)
		return nil
	}
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Constant(n.String())
	return nil
}

// UnmarshalYAML keeps the scalar's literal text.
func (c *Constant) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*c = ""
		return nil
	}
	*c = Constant(value.Value)
	return nil
}

// String returns the literal text.
func (c Constant) String() string { return string(c) }

// IntegerLiteral parses an unsigned C# integer literal: decimal, 0x hex or
// 0b binary, with optional digit separators and u/l suffixes. A leading zero
// does not mean octal.
func IntegerLiteral(s string) (uint64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	s = strings.TrimRight(s, "uUlL")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MatchAttribute reports whether attrs names the attribute name, ignoring
// the "Attribute" suffix, namespace qualifiers and arguments.
func MatchAttribute(attrs []string, name string) bool {
	want := attributeKey(name)
	for _, a := range attrs {
		if attributeKey(a) == want {
			return true
		}
	}
	return false
}

func attributeKey(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "global::")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Attribute")
}
