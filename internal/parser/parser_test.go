package parser

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/builder"
	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/symbols"
)

const sampleSource = `using System;

namespace Sample
{
    /// <summary>
    /// A sample class.
    /// </summary>
    public class SampleClass : BaseThing, IDisposable
    {
        /// <summary>Creates the sample.</summary>
        public SampleClass() { }

        /// <summary>Adds two numbers.</summary>
        /// <param name="x">The first.</param>
        public int Calculate(int x, int y) => x + y;

        public string Name { get; private set; }

        public const int Max = 10;

        public static string Join(this string[] parts, string sep = ",") => string.Join(sep, parts);

        private void Hidden() { }

        public void Dispose() { }
    }

    [Flags]
    public enum Permissions
    {
        None = 0,
        Read = 1,
        Write = 1 << 1,
        Execute = 0x4,
        /// <summary>Everything.</summary>
        All = Read | Write | Execute,
        Custom = 10,
        Next
    }

    public interface IShape
    {
        double Area();
    }

    internal struct Point { }

    public delegate void Handler(object sender, EventArgs e);
}
`

func extract(t *testing.T, sources ...Source) (*symbols.Assembly, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	p := NewProvider(WithLogger(log.New(&logs, "", 0)), WithConcurrency(2))
	asm, err := p.Extract(context.Background(), "Sample", "1.0.0", sources)
	require.NoError(t, err)
	return asm, &logs
}

func findType(t *testing.T, asm *symbols.Assembly, fullName string) *symbols.Type {
	t.Helper()
	for _, typ := range asm.Types {
		if typ.FullName() == fullName {
			return typ
		}
	}
	t.Fatalf("type %s not found", fullName)
	return nil
}

func findMember(t *testing.T, typ *symbols.Type, name string) *symbols.Member {
	t.Helper()
	for _, m := range typ.Members {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %s not found on %s", name, typ.FullName())
	return nil
}

func TestParseRejectsOtherLanguages(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "main.go", []byte("package main"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestParseCSharp(t *testing.T) {
	tree, err := NewParser().Parse(context.Background(), "Sample.cs", []byte(sampleSource))
	require.NoError(t, err)
	defer tree.Close()
	assert.False(t, tree.HasErrors())
	assert.Empty(t, tree.ErrorLines())
}

func TestExtractTypes(t *testing.T) {
	asm, _ := extract(t, Source{Name: "Sample.cs", Content: []byte(sampleSource)})

	class := findType(t, asm, "Sample.SampleClass")
	assert.Equal(t, model.KindClass, class.Kind)
	assert.Equal(t, "public", class.Accessibility)
	assert.Equal(t, "BaseThing", class.BaseType)
	assert.Equal(t, []string{"IDisposable"}, class.Interfaces)

	assert.Equal(t, model.KindInterface, findType(t, asm, "Sample.IShape").Kind)
	point := findType(t, asm, "Sample.Point")
	assert.Equal(t, model.KindStruct, point.Kind)
	assert.Equal(t, "internal", point.Accessibility)

	handler := findType(t, asm, "Sample.Handler")
	assert.Equal(t, model.KindDelegate, handler.Kind)
	assert.Equal(t, "void", handler.ReturnType)
	require.Len(t, handler.Parameters, 2)
	assert.Equal(t, "EventArgs", handler.Parameters[1].Type)
}

func TestExtractMembers(t *testing.T) {
	asm, _ := extract(t, Source{Name: "Sample.cs", Content: []byte(sampleSource)})
	class := findType(t, asm, "Sample.SampleClass")

	ctor := findMember(t, class, "SampleClass")
	assert.Equal(t, model.MemberConstructor, ctor.Kind)

	calc := findMember(t, class, "Calculate")
	assert.Equal(t, "int", calc.Type)
	require.Len(t, calc.Parameters, 2)
	assert.Equal(t, "x", calc.Parameters[0].Name)
	assert.Equal(t, "int", calc.Parameters[0].Type)

	name := findMember(t, class, "Name")
	assert.Equal(t, model.MemberProperty, name.Kind)
	assert.True(t, name.HasGetter)
	assert.False(t, name.HasSetter)

	max := findMember(t, class, "Max")
	assert.True(t, max.IsConst)
	assert.Equal(t, "10", max.ConstantValue.String())

	join := findMember(t, class, "Join")
	assert.True(t, join.IsStatic)
	assert.True(t, join.IsExtension)
	assert.Equal(t, "this", join.Parameters[0].Modifier)
	sep := join.Parameters[1]
	assert.True(t, sep.HasDefaultValue)
	assert.True(t, sep.IsOptional)
	assert.Equal(t, `","`, sep.DefaultValue)

	hidden := findMember(t, class, "Hidden")
	assert.Equal(t, "private", hidden.Accessibility)

	area := findMember(t, findType(t, asm, "Sample.IShape"), "Area")
	assert.Equal(t, "", area.Accessibility)
}

func TestExtractEnumValues(t *testing.T) {
	asm, logs := extract(t, Source{Name: "Sample.cs", Content: []byte(sampleSource)})
	perms := findType(t, asm, "Sample.Permissions")
	assert.True(t, perms.HasAttribute("Flags"))

	values := map[string]string{}
	for _, m := range perms.Members {
		values[m.Name] = m.ConstantValue.String()
	}
	assert.Equal(t, map[string]string{
		"None": "0", "Read": "1", "Write": "2", "Execute": "4",
		"All": "7", "Custom": "10", "Next": "11",
	}, values)
	assert.Empty(t, logs.String())
}

func TestExtractDocComments(t *testing.T) {
	asm, _ := extract(t, Source{Name: "Sample.cs", Content: []byte(sampleSource)})
	require.NotNil(t, asm.Comments)

	c, err := asm.Comments.Comment("T:Sample.SampleClass")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "A sample class.", c.Summary)

	c, err = asm.Comments.Comment("M:Sample.SampleClass.Calculate(System.Int32,System.Int32)")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Adds two numbers.", c.Summary)
	assert.Equal(t, "The first.", c.Params["x"])

	c, err = asm.Comments.Comment("M:Sample.SampleClass.#ctor")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Creates the sample.", c.Summary)

	c, err = asm.Comments.Comment("F:Sample.Permissions.All")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Everything.", c.Summary)

	c, err = asm.Comments.Comment("M:Sample.SampleClass.Dispose")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestExtractFileScopedNamespaceAndNesting(t *testing.T) {
	src := `namespace Sample.Core;

public class Outer
{
    public class Inner { }
}

class Plain { }
`
	asm, _ := extract(t, Source{Name: "Core.cs", Content: []byte(src)})
	findType(t, asm, "Sample.Core.Outer")
	inner := findType(t, asm, "Sample.Core.Outer.Inner")
	assert.Equal(t, "public", inner.Accessibility)
	assert.Equal(t, "internal", findType(t, asm, "Sample.Core.Plain").Accessibility)
}

func TestExtractMergesPartialTypes(t *testing.T) {
	a := `namespace Sample { public partial class Widget { public void A() { } } }`
	b := `namespace Sample { partial class Widget : IComparable { public void B() { } } }`
	asm, _ := extract(t, Source{Name: "A.cs", Content: []byte(a)}, Source{Name: "B.cs", Content: []byte(b)})

	require.Len(t, asm.Types, 1)
	w := asm.Types[0]
	assert.Equal(t, "public", w.Accessibility)
	assert.Equal(t, []string{"IComparable"}, w.Interfaces)
	findMember(t, w, "A")
	findMember(t, w, "B")
}

func TestExtractGlobalNamespace(t *testing.T) {
	asm, _ := extract(t, Source{Name: "Loose.cs", Content: []byte(`public class Loose { }`)})
	loose := findType(t, asm, "Loose")
	assert.Equal(t, "", loose.Namespace)
}

func TestExtractWarnsOnSyntaxErrors(t *testing.T) {
	_, logs := extract(t, Source{Name: "Broken.cs", Content: []byte("namespace Sample { public class { }")})
	assert.Contains(t, logs.String(), "WARNING: syntax errors in Broken.cs")
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sample.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <AssemblyName>Sample.Lib</AssemblyName>
    <Version>2.1.0</Version>
  </PropertyGroup>
</Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sample.cs"), []byte(sampleSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "obj"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "obj", "Generated.cs"), []byte(`public class Generated { }`), 0o644))

	asm, err := NewProvider().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "Sample.Lib", asm.Name)
	assert.Equal(t, "2.1.0", asm.Version)
	for _, typ := range asm.Types {
		assert.NotEqual(t, "Generated", typ.Name)
	}

	byProject, err := NewProvider().Load(context.Background(), filepath.Join(dir, "Sample.csproj"))
	require.NoError(t, err)
	assert.Len(t, byProject.Types, len(asm.Types))
}

func TestLoadWithoutSources(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, symbols.ErrUnsupportedInput)

	_, err = NewProvider().Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatEnumValue(t *testing.T) {
	assert.Equal(t, "-1", formatEnumValue(-1, ""))
	assert.Equal(t, "255", formatEnumValue(-1, "byte"))
	assert.Equal(t, "4294967295", formatEnumValue(-1, "uint"))
	assert.Equal(t, "18446744073709551615", formatEnumValue(-1, "System.UInt64"))
}

func TestLoadNestedTypeBehindInternalContainer(t *testing.T) {
	dir := t.TempDir()
	src := `namespace Sample
{
    internal class Outer
    {
        public class Inner { }
    }

    public class Visible { }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Outer.cs"), []byte(src), 0o644))

	asm, err := NewProvider().Load(context.Background(), dir)
	require.NoError(t, err)
	inner := findType(t, asm, "Sample.Outer.Inner")
	assert.Equal(t, "public", inner.Accessibility)

	doc, err := builder.New(nil).Build(context.Background(), asm, nil)
	require.NoError(t, err)
	require.Len(t, doc.Namespaces, 1)
	require.Len(t, doc.Namespaces[0].Types, 1)
	assert.Equal(t, "Sample.Visible", doc.Namespaces[0].Types[0].FullName)
}
