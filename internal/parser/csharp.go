package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/symbols"
)

// unit is what one source file declares.
type unit struct {
	types      []*symbols.Type
	typeDocs   map[*symbols.Type]string
	memberDocs map[*symbols.Member]string
}

type extractor struct {
	source []byte
	warnf  func(string, ...any)
	unit   *unit
}

var typeKinds = map[string]model.TypeKind{
	"class_declaration":         model.KindClass,
	"record_declaration":        model.KindClass,
	"struct_declaration":        model.KindStruct,
	"record_struct_declaration": model.KindStruct,
	"interface_declaration":     model.KindInterface,
	"enum_declaration":          model.KindEnum,
	"delegate_declaration":      model.KindDelegate,
}

// declarations extracts the types declared in the tree. Doc comments are
// returned keyed by the extracted symbols.
func (t *Tree) declarations(warnf func(string, ...any)) *unit {
	e := &extractor{
		source: t.source,
		warnf:  warnf,
		unit:   &unit{typeDocs: map[*symbols.Type]string{}, memberDocs: map[*symbols.Member]string{}},
	}
	e.scope(t.RootNode(), "", nil)
	return e.unit
}

// ErrorLines returns the 1-based lines of syntax errors in the tree.
func (t *Tree) ErrorLines() []int {
	var lines []int
	walk(t.RootNode(), func(n *sitter.Node) {
		if n.IsError() || n.IsMissing() {
			lines = append(lines, int(n.StartPoint().Row)+1)
		}
	})
	return lines
}

func (e *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(n.Content(e.source)), " ")
}

// child returns the field named field, falling back to the first named
// child of one of the given node types. Grammar versions differ in which
// children carry field names.
func child(n *sitter.Node, field string, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	if field != "" {
		if c := n.ChildByFieldName(field); c != nil {
			return c
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, typ := range types {
			if c.Type() == typ {
				return c
			}
		}
	}
	return nil
}

func namedChildren(n *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	if n == nil {
		return out
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, typ := range types {
			if c.Type() == typ {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}

func joinNamespace(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	}
	return outer + "." + inner
}

// scope walks the declarations directly under parent.
func (e *extractor) scope(parent *sitter.Node, ns string, outer *symbols.Type) {
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		n := parent.NamedChild(i)
		switch n.Type() {
		case "namespace_declaration":
			name := e.text(child(n, "name", "qualified_name", "identifier"))
			if body := child(n, "body", "declaration_list"); body != nil {
				e.scope(body, joinNamespace(ns, name), nil)
			}
		case "file_scoped_namespace_declaration":
			// Newer grammars make the following declarations siblings,
			// older ones nest them; both end up in the same namespace.
			ns = joinNamespace(ns, e.text(child(n, "name", "qualified_name", "identifier")))
			e.scope(n, ns, nil)
		default:
			if _, ok := typeKinds[n.Type()]; ok {
				e.typeDeclaration(n, ns, outer)
			}
		}
	}
}

func (e *extractor) typeDeclaration(n *sitter.Node, ns string, outer *symbols.Type) {
	kind := typeKinds[n.Type()]
	if n.Type() == "record_declaration" && hasToken(n, "struct") {
		kind = model.KindStruct
	}

	name := e.text(child(n, "name", "identifier"))
	defaultAccess := "internal"
	if outer != nil {
		name = outer.Name + "." + name
		defaultAccess = "private"
	}
	mods := e.modifiers(n)
	t := &symbols.Type{
		Name:           name,
		Namespace:      ns,
		Kind:           kind,
		Accessibility:  accessibility(mods, defaultAccess),
		IsStatic:       mods["static"],
		IsAbstract:     mods["abstract"],
		IsSealed:       mods["sealed"],
		Attributes:     e.attributes(n),
		TypeParameters: e.typeParameters(n),
	}

	bases := e.bases(n)
	switch kind {
	case model.KindEnum:
		if len(bases) > 0 {
			t.UnderlyingType = bases[0]
		}
	case model.KindInterface, model.KindStruct:
		t.Interfaces = bases
	case model.KindClass:
		if len(bases) > 0 && !looksLikeInterface(bases[0]) {
			t.BaseType, bases = bases[0], bases[1:]
		}
		t.Interfaces = bases
	case model.KindDelegate:
		t.ReturnType = e.text(returnType(n))
		t.Parameters = e.parameters(child(n, "parameters", "parameter_list"))
	}

	if doc := e.docComment(n); doc != "" {
		e.unit.typeDocs[t] = doc
	}
	e.unit.types = append(e.unit.types, t)

	body := child(n, "body", "declaration_list", "enum_member_declaration_list")
	switch kind {
	case model.KindEnum:
		e.enumMembers(t, body)
	case model.KindDelegate:
	default:
		if params := child(n, "parameters", "parameter_list"); params != nil {
			// Primary constructor of a record or class.
			t.Members = append(t.Members, &symbols.Member{
				Name:          lastSegment(name),
				Kind:          model.MemberConstructor,
				Accessibility: "public",
				Parameters:    e.parameters(params),
			})
		}
		if body != nil {
			e.members(t, body, ns)
		}
	}
}

// looksLikeInterface applies the .NET naming convention (IDisposable,
// IEnumerable<T>) since source alone cannot tell a base class from an
// interface declared elsewhere.
func looksLikeInterface(name string) bool {
	name = lastSegment(name)
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

func lastSegment(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (e *extractor) modifiers(n *sitter.Node) map[string]bool {
	mods := map[string]bool{}
	for _, m := range namedChildren(n, "modifier") {
		mods[e.text(m)] = true
	}
	return mods
}

func accessibility(mods map[string]bool, fallback string) string {
	switch {
	case mods["protected"] && mods["internal"]:
		return "protected internal"
	case mods["private"] && mods["protected"]:
		return "private protected"
	case mods["public"]:
		return "public"
	case mods["protected"]:
		return "protected"
	case mods["internal"]:
		return "internal"
	case mods["private"]:
		return "private"
	}
	return fallback
}

func (e *extractor) attributes(n *sitter.Node) []string {
	var out []string
	for _, list := range namedChildren(n, "attribute_list") {
		for _, a := range namedChildren(list, "attribute") {
			if name := e.text(child(a, "name", "identifier", "qualified_name")); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func (e *extractor) typeParameters(n *sitter.Node) []string {
	list := child(n, "type_parameters", "type_parameter_list")
	var out []string
	for _, tp := range namedChildren(list, "type_parameter") {
		name := e.text(child(tp, "name", "identifier"))
		if name == "" {
			name = e.text(tp)
		}
		out = append(out, name)
	}
	return out
}

func (e *extractor) bases(n *sitter.Node) []string {
	list := child(n, "bases", "base_list")
	if list == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch c.Type() {
		case "argument_list", "comment":
			continue
		case "primary_constructor_base_type":
			c = c.NamedChild(0)
		}
		if s := e.text(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (e *extractor) members(t *symbols.Type, body *sitter.Node, ns string) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		if _, ok := typeKinds[n.Type()]; ok {
			e.typeDeclaration(n, ns, t)
			continue
		}
		if child(n, "", "explicit_interface_specifier") != nil {
			continue
		}
		for _, m := range e.member(t, n) {
			if doc := e.docComment(n); doc != "" {
				e.unit.memberDocs[m] = doc
			}
			t.Members = append(t.Members, m)
		}
	}
}

func (e *extractor) member(t *symbols.Type, n *sitter.Node) []*symbols.Member {
	fallback := "private"
	if t.Kind == model.KindInterface {
		fallback = ""
	}
	mods := e.modifiers(n)
	base := symbols.Member{
		Accessibility: accessibility(mods, fallback),
		IsStatic:      mods["static"] || mods["const"],
		IsAbstract:    mods["abstract"],
		IsVirtual:     mods["virtual"],
		IsOverride:    mods["override"],
		IsSealed:      mods["sealed"],
		IsReadOnly:    mods["readonly"],
		IsConst:       mods["const"],
		Attributes:    e.attributes(n),
	}

	switch n.Type() {
	case "method_declaration":
		m := base
		m.Kind = model.MemberMethod
		m.Name = e.text(child(n, "name", "identifier"))
		m.Type = e.text(returnType(n))
		m.TypeParameters = e.typeParameters(n)
		m.Parameters = e.parameters(child(n, "parameters", "parameter_list"))
		m.IsExtension = m.IsStatic && len(m.Parameters) > 0 && m.Parameters[0].Modifier == "this"
		return []*symbols.Member{&m}
	case "constructor_declaration":
		m := base
		m.Kind = model.MemberConstructor
		m.Name = lastSegment(t.Name)
		m.Parameters = e.parameters(child(n, "parameters", "parameter_list"))
		if m.IsStatic {
			m.Accessibility = "private"
		}
		return []*symbols.Member{&m}
	case "property_declaration":
		m := base
		m.Kind = model.MemberProperty
		m.Name = e.text(child(n, "name", "identifier"))
		m.Type = e.text(n.ChildByFieldName("type"))
		m.HasGetter, m.HasSetter = e.accessors(n)
		return []*symbols.Member{&m}
	case "indexer_declaration":
		m := base
		m.Kind = model.MemberProperty
		m.Name = "this"
		m.Type = e.text(n.ChildByFieldName("type"))
		m.Parameters = e.parameters(child(n, "parameters", "bracketed_parameter_list"))
		m.HasGetter, m.HasSetter = e.accessors(n)
		return []*symbols.Member{&m}
	case "event_declaration":
		m := base
		m.Kind = model.MemberEvent
		m.Name = e.text(child(n, "name", "identifier"))
		m.Type = e.text(n.ChildByFieldName("type"))
		return []*symbols.Member{&m}
	case "field_declaration", "event_field_declaration":
		kind := model.MemberField
		if n.Type() == "event_field_declaration" {
			kind = model.MemberEvent
			base.IsReadOnly = false
		}
		decl := child(n, "", "variable_declaration")
		typ := e.text(child(decl, "type"))
		var out []*symbols.Member
		for _, v := range namedChildren(decl, "variable_declarator") {
			m := base
			m.Kind = kind
			m.Name = e.text(child(v, "name", "identifier"))
			m.Type = typ
			if m.IsConst {
				m.ConstantValue = symbols.Constant(e.text(initializer(v)))
			}
			out = append(out, &m)
		}
		return out
	}
	return nil
}

func returnType(n *sitter.Node) *sitter.Node {
	if r := n.ChildByFieldName("returns"); r != nil {
		return r
	}
	return n.ChildByFieldName("type")
}

// initializer returns the value after "=" in a declarator or parameter.
func initializer(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if eq := child(n, "", "equals_value_clause"); eq != nil {
		return eq.NamedChild(int(eq.NamedChildCount()) - 1)
	}
	if v := n.ChildByFieldName("value"); v != nil {
		return v
	}
	seen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == "=" {
			seen = true
			continue
		}
		if seen && c.IsNamed() {
			return c
		}
	}
	return nil
}

// accessors reports the non-private get and set (or init) accessors of a
// property or indexer. Expression-bodied properties are read-only.
func (e *extractor) accessors(n *sitter.Node) (get, set bool) {
	list := child(n, "accessors", "accessor_list")
	if list == nil {
		return child(n, "value", "arrow_expression_clause") != nil, false
	}
	for _, acc := range namedChildren(list, "accessor_declaration") {
		if e.modifiers(acc)["private"] {
			continue
		}
		keyword := e.text(acc.ChildByFieldName("name"))
		if keyword == "" {
			for _, k := range []string{"get", "set", "init"} {
				if hasToken(acc, k) {
					keyword = k
					break
				}
			}
		}
		switch keyword {
		case "get":
			get = true
		case "set", "init":
			set = true
		}
	}
	return get, set
}

var parameterModifiers = map[string]bool{"ref": true, "out": true, "in": true, "this": true}

func (e *extractor) parameters(list *sitter.Node) []*symbols.Parameter {
	var out []*symbols.Parameter
	for _, n := range namedChildren(list, "parameter", "parameter_array") {
		p := &symbols.Parameter{
			Name:     e.text(child(n, "name", "identifier")),
			Type:     e.text(n.ChildByFieldName("type")),
			IsParams: n.Type() == "parameter_array",
		}
		if p.Type == "" && p.IsParams {
			p.Type = e.text(child(n, "", "array_type", "nullable_type"))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			word := c.Type()
			if c.Type() == "parameter_modifier" || c.Type() == "modifier" {
				word = e.text(c)
			}
			switch {
			case word == "params":
				p.IsParams = true
			case parameterModifiers[word]:
				p.Modifier = word
			}
		}
		if def := initializer(n); def != nil {
			p.HasDefaultValue = true
			p.IsOptional = true
			p.DefaultValue = e.text(def)
		}
		if symbols.MatchAttribute(e.attributes(n), "Optional") {
			p.IsOptional = true
		}
		out = append(out, p)
	}
	return out
}

func (e *extractor) enumMembers(t *symbols.Type, body *sitter.Node) {
	eval := newEnumEvaluator(t.UnderlyingType)
	for _, n := range namedChildren(body, "enum_member_declaration") {
		m := &symbols.Member{
			Name:          e.text(child(n, "name", "identifier")),
			Kind:          model.MemberField,
			Accessibility: "public",
			IsConst:       true,
			IsStatic:      true,
			Type:          t.Name,
			Attributes:    e.attributes(n),
		}
		value, ok := eval.next(m.Name, initializer(n), e.source)
		if !ok {
			e.warnf("cannot evaluate value of %s.%s; keeping the expression", t.FullName(), m.Name)
		}
		m.ConstantValue = symbols.Constant(value)
		if doc := e.docComment(n); doc != "" {
			e.unit.memberDocs[m] = doc
		}
		t.Members = append(t.Members, m)
	}
}

// docComment collects the consecutive /// lines directly above n and
// returns them as member XML.
func (e *extractor) docComment(n *sitter.Node) string {
	var lines []string
	row := n.StartPoint().Row
	for prev := n.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		text := prev.Content(e.source)
		if !strings.HasPrefix(text, "///") || prev.EndPoint().Row+1 < row {
			break
		}
		row = prev.StartPoint().Row
		var block []string
		for _, l := range strings.Split(strings.TrimRight(text, "\r\n"), "\n") {
			l = strings.TrimSpace(strings.TrimRight(l, "\r"))
			l = strings.TrimPrefix(l, "///")
			block = append(block, strings.TrimPrefix(l, " "))
		}
		lines = append(block, lines...)
	}
	return strings.Join(lines, "\n")
}
