package symbols

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/model"
)

const jsonManifest = `{
  "name": "Sample",
  "version": "1.2.3.0",
  "types": [
    {
      "name": "SampleClass",
      "namespace": "Sample",
      "kind": "class",
      "accessibility": "public",
      "members": [
        {
          "name": "Calculate",
          "kind": "method",
          "accessibility": "public",
          "type": "int",
          "parameters": [{"name": "x", "type": "int"}, {"name": "y", "type": "int"}]
        }
      ]
    },
    {
      "name": "Big",
      "namespace": "Sample",
      "kind": "enum",
      "accessibility": "public",
      "underlyingType": "ulong",
      "members": [
        {"name": "Max", "kind": "field", "accessibility": "public", "isConst": true, "constantValue": 18446744073709551615}
      ]
    }
  ]
}`

const yamlManifest = `name: Sample
types:
  - name: Permissions
    namespace: Sample
    kind: enum
    accessibility: public
    attributes: [System.FlagsAttribute]
    members:
      - name: Read
        kind: field
        accessibility: public
        constantValue: 1
      - name: All
        kind: field
        accessibility: public
        constantValue: "15"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManifestProviderJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Sample.symbols.json", jsonManifest)

	asm, err := ManifestProvider{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Sample", asm.Name)
	assert.Equal(t, "1.2.3.0", asm.Version)
	require.Len(t, asm.Types, 2)

	cls := asm.Types[0]
	assert.Equal(t, model.KindClass, cls.Kind)
	assert.Equal(t, "Sample.SampleClass", cls.FullName())
	require.Len(t, cls.Members, 1)
	assert.Equal(t, "int", cls.Members[0].ReturnType())
	assert.Len(t, cls.Members[0].Parameters, 2)

	assert.Equal(t, Constant("18446744073709551615"), asm.Types[1].Members[0].ConstantValue)
}

func TestManifestProviderYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Sample.symbols.yaml", yamlManifest)

	asm, err := ManifestProvider{}.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, asm.Types, 1)
	e := asm.Types[0]
	assert.True(t, e.HasAttribute("Flags"))
	assert.Equal(t, Constant("1"), e.Members[0].ConstantValue)
	assert.Equal(t, Constant("15"), e.Members[1].ConstantValue)
}

func TestManifestProviderNameFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Widgets.symbols.json", `{"types": []}`)
	asm, err := ManifestProvider{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Widgets", asm.Name)
}

func TestManifestProviderInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"types": [`)
	_, err := ManifestProvider{}.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing symbol manifest")
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	src := &stubProvider{}
	r := Resolver{Source: src}

	p, path, err := r.Resolve(dir)
	require.NoError(t, err)
	assert.Same(t, src, p)
	assert.Equal(t, dir, path)

	manifest := writeFile(t, dir, "Lib.symbols.yaml", yamlManifest)
	dll := writeFile(t, dir, "Lib.dll", "MZ")
	p, path, err = r.Resolve(dll)
	require.NoError(t, err)
	assert.IsType(t, ManifestProvider{}, p)
	assert.Equal(t, manifest, path)

	orphan := writeFile(t, dir, "Orphan.dll", "MZ")
	_, _, err = r.Resolve(orphan)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedInput))
	assert.Contains(t, err.Error(), "Orphan.symbols.json")

	_, _, err = r.Resolve(filepath.Join(dir, "missing.dll"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestResolveDirectoryWithoutSource(t *testing.T) {
	_, _, err := Resolver{}.Resolve(t.TempDir())
	assert.True(t, errors.Is(err, ErrUnsupportedInput))
}

type stubProvider struct{}

func (*stubProvider) Load(context.Context, string) (*Assembly, error) { return &Assembly{}, nil }

func TestDocIDs(t *testing.T) {
	cls := &Type{Name: "Cache", Namespace: "Sample", Kind: model.KindClass, TypeParameters: []string{"TKey", "TValue"}}
	assert.Equal(t, "T:Sample.Cache`2", TypeID(cls))

	ctor := &Member{Name: "Cache", Kind: model.MemberConstructor}
	assert.Equal(t, "M:Sample.Cache`2.#ctor", MemberID(cls, ctor))

	get := &Member{Name: "TryGet", Kind: model.MemberMethod, Parameters: []*Parameter{
		{Name: "key", Type: "TKey"},
		{Name: "value", Type: "TValue", Modifier: "out"},
	}}
	assert.Equal(t, "M:Sample.Cache`2.TryGet(`0,`1@)", MemberID(cls, get))

	conv := &Member{Name: "Convert", Kind: model.MemberMethod, TypeParameters: []string{"T"}, Parameters: []*Parameter{
		{Name: "items", Type: "List<T>"},
		{Name: "count", Type: "int?"},
	}}
	assert.Equal(t, "M:Sample.Cache`2.Convert``1(List{``0},System.Nullable{System.Int32})", MemberID(cls, conv))

	prop := &Member{Name: "Count", Kind: model.MemberProperty}
	assert.Equal(t, "P:Sample.Cache`2.Count", MemberID(cls, prop))

	calc := &Type{Name: "Calc", Namespace: "Sample"}
	add := &Member{Name: "Add", Kind: model.MemberMethod, Parameters: []*Parameter{{Name: "x", Type: "int"}, {Name: "y", Type: "string[]"}}}
	assert.Equal(t, "M:Sample.Calc.Add(System.Int32,System.String[])", MemberID(calc, add))
	assert.Equal(t, "F:Sample.Calc.Zero", MemberID(calc, &Member{Name: "Zero", Kind: model.MemberField}))
	assert.Equal(t, "E:Sample.Calc.Changed", MemberID(calc, &Member{Name: "Changed", Kind: model.MemberEvent}))
	assert.Equal(t, "X:Custom", MemberID(calc, &Member{Name: "Y", Kind: model.MemberEvent, DocID: "X:Custom"}))
}

func TestReturnType(t *testing.T) {
	assert.Equal(t, "", (&Member{Kind: model.MemberConstructor, Type: "X"}).ReturnType())
	assert.Equal(t, "void", (&Member{Kind: model.MemberMethod}).ReturnType())
	assert.Equal(t, "string", (&Member{Kind: model.MemberProperty, Type: "string"}).ReturnType())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Cache<TKey, TValue>", (&Type{Name: "Cache", TypeParameters: []string{"TKey", "TValue"}}).DisplayName())
	assert.Equal(t, "Plain", (&Type{Name: "Plain"}).DisplayName())
}

func TestHasAttribute(t *testing.T) {
	typ := &Type{Attributes: []string{"global::System.FlagsAttribute", "Obsolete(\"x\")"}}
	assert.True(t, typ.HasAttribute("Flags"))
	assert.True(t, typ.HasAttribute("FlagsAttribute"))
	assert.True(t, typ.HasAttribute("System.Obsolete"))
	assert.False(t, typ.HasAttribute("Serializable"))
}
