package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceNameMapsEmptyToGlobal(t *testing.T) {
	assert.Equal(t, GlobalNamespace, NamespaceName(""))
	assert.Equal(t, GlobalNamespace, NamespaceName("   "))
	assert.Equal(t, "System.Text", NamespaceName("System.Text"))
}

func TestPruneRemovesEmptyNamespaces(t *testing.T) {
	asm := &DocAssembly{
		Name: "Sample",
		Namespaces: []*DocNamespace{
			{Name: "Empty"},
			{Name: "Full", Types: []*DocType{{Name: "A", FullName: "Full.A", Kind: KindClass}}},
			{Name: "AlsoEmpty", Types: []*DocType{}},
		},
	}

	asm.Prune()

	require.Len(t, asm.Namespaces, 1)
	assert.Equal(t, "Full", asm.Namespaces[0].Name)
}

func TestSortIsOrdinal(t *testing.T) {
	asm := &DocAssembly{
		Namespaces: []*DocNamespace{
			{Name: "b", Types: []*DocType{{FullName: "b.Z"}, {FullName: "b.A"}}},
			{Name: "B"},
			{Name: "a"},
		},
	}

	asm.Sort()

	assert.Equal(t, "B", asm.Namespaces[0].Name)
	assert.Equal(t, "a", asm.Namespaces[1].Name)
	assert.Equal(t, "b", asm.Namespaces[2].Name)
	assert.Equal(t, "b.A", asm.Namespaces[2].Types[0].FullName)
}

func TestParseAccessibility(t *testing.T) {
	cases := map[string]Accessibility{
		"public":              Public,
		"Public":              Public,
		"ProtectedOrInternal": ProtectedInternal,
		"protected internal":  ProtectedInternal,
		"PrivateProtected":    PrivateProtected,
		"NotApplicable":       NotApplicable,
	}
	for in, want := range cases {
		got, ok := ParseAccessibility(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseAccessibility("friend")
	assert.False(t, ok)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(PlaceholderMarker+"\nDescribe usage."))
	assert.True(t, IsPlaceholder("\n  "+PlaceholderMarker))
	assert.False(t, IsPlaceholder("Real content"))
}

func TestMemberHasReturnValue(t *testing.T) {
	assert.True(t, (&DocMember{Kind: MemberMethod, ReturnType: "int"}).HasReturnValue())
	assert.False(t, (&DocMember{Kind: MemberMethod, ReturnType: "void"}).HasReturnValue())
	assert.False(t, (&DocMember{Kind: MemberConstructor}).HasReturnValue())
	assert.False(t, (&DocMember{Kind: MemberProperty, ReturnType: "int"}).HasReturnValue())
}

func TestJSONOmitsEmptyOptionalFields(t *testing.T) {
	m := &DocMember{Name: "Run", Kind: MemberMethod, Accessibility: Public, Signature: "public void Run()", ReturnType: "void"}

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Run", decoded["name"])
	assert.Equal(t, "void", decoded["returnType"])
	assert.NotContains(t, decoded, "usage")
	assert.NotContains(t, decoded, "parameters")
	assert.NotContains(t, decoded, "summary")
}

func TestParameterFlagsAreIndependent(t *testing.T) {
	p := &DocParameter{Name: "x", Type: "int", HasDefaultValue: true}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, false, decoded["isOptional"])
	assert.Equal(t, true, decoded["hasDefaultValue"])
}

func TestRestrict(t *testing.T) {
	cases := []struct {
		member, container, want Accessibility
	}{
		{Public, Public, Public},
		{Public, Internal, Internal},
		{Internal, Public, Internal},
		{Protected, Internal, PrivateProtected},
		{Internal, Protected, PrivateProtected},
		{ProtectedInternal, Internal, Internal},
		{ProtectedInternal, Protected, Protected},
		{Public, Private, Private},
		{Public, NotApplicable, Public},
		{NotApplicable, Internal, Internal},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Restrict(c.member, c.container), "%s inside %s", c.member, c.container)
	}
}
