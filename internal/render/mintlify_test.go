package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
)

func readDocsJSON(t *testing.T, c *project.Context) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, filepath.Join(c.DocumentationRootPath, NavigationFile))), &m))
	return m
}

func TestMintlifyFrontMatter(t *testing.T) {
	c := testContext(t)
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	content := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.SampleClass.mdx"))
	require.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "title: SampleClass\n")
	assert.Contains(t, content, "icon: file-brackets\n")
	assert.Contains(t, content, "tag: CLASS\n")
	assert.Contains(t, content, "## <Icon icon=\"function\" /> Methods\n")

	enum := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.Permissions.mdx"))
	assert.Contains(t, enum, "icon: list-ol\n")

	ns := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.mdx"))
	assert.Contains(t, ns, "icon: folder-tree\n")
	assert.Contains(t, ns, "(/api-reference/Sample.SampleClass)")
}

func TestMintlifyNoIcons(t *testing.T) {
	c := testContext(t)
	c.Mintlify.IncludeIcons = false
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	content := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.SampleClass.mdx"))
	assert.NotContains(t, content, "icon:")
	assert.NotContains(t, content, "<Icon")
	assert.Contains(t, content, "## Methods\n")
}

func TestMintlifySectionOmission(t *testing.T) {
	c := testContext(t)
	r := NewMintlify(c)
	asm := sampleAssembly()
	require.NoError(t, r.Render(context.Background(), asm))

	for _, f := range listFiles(t, c.APIReferenceRoot()) {
		if !strings.HasSuffix(f, ".mdx") {
			continue
		}
		content := readOutput(t, filepath.Join(c.APIReferenceRoot(), filepath.FromSlash(f)))
		for _, heading := range []string{"Usage", "Examples", "Best Practices", "Patterns", "Considerations", "Related APIs", "Remarks"} {
			assert.NotContains(t, content, "## "+heading+"\n", f)
			assert.NotContains(t, content, "#### "+heading+"\n", f)
		}
	}

	typ := asm.Namespaces[1].Types[1]
	typ.Examples = "Call it."
	require.NoError(t, r.RenderType(context.Background(), asm, asm.Namespaces[1], typ))
	content := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.SampleClass.mdx"))
	assert.Contains(t, content, "## Examples\n\nCall it.")
	assert.NotContains(t, content, "## Usage")
}

func TestMintlifyPagesNavigation(t *testing.T) {
	c := testContext(t)
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	m := readDocsJSON(t, c)
	assert.Equal(t, "mint", m["theme"])
	nav := m["navigation"].(map[string]any)
	assert.NotContains(t, nav, "tabs")
	pages := nav["pages"].([]any)
	require.Len(t, pages, 1)

	group := pages[0].(map[string]any)
	assert.Equal(t, project.DefaultUnifiedGroupName, group["group"])
	items := group["pages"].([]any)
	assert.Equal(t, "api-reference/index", items[0])
	assert.Equal(t, "api-reference/global.Loose", items[1])

	sample := items[2].(map[string]any)
	assert.Equal(t, "Sample", sample["group"])
	assert.Equal(t, []any{"api-reference/Sample", "api-reference/Sample.Permissions", "api-reference/Sample.SampleClass"}, sample["pages"])

	raw := readOutput(t, filepath.Join(c.DocumentationRootPath, NavigationFile))
	assert.NotContains(t, raw, `"global"`)
}

func TestMintlifyTabsAndProducts(t *testing.T) {
	c := testContext(t)
	c.Mintlify.NavigationType = project.NavigationTabs
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	nav := readDocsJSON(t, c)["navigation"].(map[string]any)
	tabs := nav["tabs"].([]any)
	require.Len(t, tabs, 1)
	tab := tabs[0].(map[string]any)
	assert.Equal(t, "Sample", tab["tab"])
	assert.Len(t, tab["groups"].([]any), 1)

	c2 := testContext(t)
	c2.Mintlify.NavigationType = project.NavigationProducts
	c2.Mintlify.NavigationName = "Sample SDK"
	require.NoError(t, NewMintlify(c2).Render(context.Background(), sampleAssembly()))
	products := readDocsJSON(t, c2)["navigation"].(map[string]any)["products"].([]any)
	assert.Equal(t, "Sample SDK", products[0].(map[string]any)["product"])
}

func TestMintlifyUnknownNavigationTypeFallsBackToPages(t *testing.T) {
	c := testContext(t)
	c.Mintlify.NavigationType = "carousel"
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	nav := readDocsJSON(t, c)["navigation"].(map[string]any)
	assert.Contains(t, nav, "pages")
	assert.NotContains(t, nav, "tabs")
	assert.NotContains(t, nav, "products")
}

func otherAssembly() *model.DocAssembly {
	typ := &model.DocType{Name: "Helper", FullName: "Sample.Helper", Namespace: "Sample", Kind: model.KindClass, Accessibility: model.Public}
	typ.Signature = TypeSignature(typ)
	extra := &model.DocType{Name: "Tool", FullName: "Other.Tool", Namespace: "Other", Kind: model.KindStruct, Accessibility: model.Public}
	extra.Signature = TypeSignature(extra)
	return &model.DocAssembly{Name: "Other", Namespaces: []*model.DocNamespace{
		{Name: "Other", Types: []*model.DocType{extra}},
		{Name: "Sample", Types: []*model.DocType{typ}},
	}}
}

func TestMintlifyAccumulatesAssemblies(t *testing.T) {
	c := testContext(t)
	r := NewMintlify(c)
	require.NoError(t, r.Render(context.Background(), sampleAssembly()))
	require.NoError(t, r.Render(context.Background(), otherAssembly()))

	pages := readDocsJSON(t, c)["navigation"].(map[string]any)["pages"].([]any)
	require.Len(t, pages, 1)
	items := pages[0].(map[string]any)["pages"].([]any)

	var groups []string
	for _, item := range items {
		if g, ok := item.(map[string]any); ok {
			groups = append(groups, g["group"].(string))
		}
	}
	assert.Equal(t, []string{"Other", "Sample"}, groups)

	sample := items[len(items)-1].(map[string]any)["pages"].([]any)
	assert.Contains(t, sample, "api-reference/Sample.SampleClass")
	assert.Contains(t, sample, "api-reference/Sample.Helper")
}

func TestMintlifyByAssembly(t *testing.T) {
	c := testContext(t)
	c.Mintlify.NavigationMode = project.NavigationByAssembly
	r := NewMintlify(c)
	require.NoError(t, r.Render(context.Background(), sampleAssembly()))
	require.NoError(t, r.Render(context.Background(), otherAssembly()))

	pages := readDocsJSON(t, c)["navigation"].(map[string]any)["pages"].([]any)
	require.Len(t, pages, 2)
	assert.Equal(t, "Sample", pages[0].(map[string]any)["group"])
	assert.Equal(t, "Other", pages[1].(map[string]any)["group"])
}

func TestMintlifyMergesExistingManifest(t *testing.T) {
	c := testContext(t)
	existing := `{"name": "My Docs", "theme": "maple", "navigation": {"pages": ["introduction", {"group": "Guides", "pages": ["guides/start"]}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(c.DocumentationRootPath, NavigationFile), []byte(existing), 0o644))

	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	m := readDocsJSON(t, c)
	assert.Equal(t, "My Docs", m["name"])
	assert.Equal(t, "maple", m["theme"])
	pages := m["navigation"].(map[string]any)["pages"].([]any)
	require.Len(t, pages, 3)
	assert.Equal(t, "introduction", pages[0])
	assert.Equal(t, "Guides", pages[1].(map[string]any)["group"])
	assert.Equal(t, project.DefaultUnifiedGroupName, pages[2].(map[string]any)["group"])
}

func TestMintlifyTemplate(t *testing.T) {
	c := testContext(t)
	tmpl := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(tmpl, []byte(`{"name": "Templated", "colors": {"primary": "#000000"}}`), 0o644))
	c.Mintlify.TemplatePath = tmpl
	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))

	m := readDocsJSON(t, c)
	assert.Equal(t, "Templated", m["name"])
	assert.Equal(t, "#000000", m["colors"].(map[string]any)["primary"])
	assert.Equal(t, "mint", m["theme"])
}

func TestMintlifyInvalidTemplateUsesDefaults(t *testing.T) {
	c := testContext(t)
	tmpl := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(tmpl, []byte(`{not json`), 0o644))
	c.Mintlify.TemplatePath = tmpl

	require.NoError(t, NewMintlify(c).Render(context.Background(), sampleAssembly()))
	m := readDocsJSON(t, c)
	assert.Equal(t, "Sample", m["name"])
	assert.Contains(t, m, "navigation")
}

func TestMintlifyAddReferences(t *testing.T) {
	c := testContext(t)
	refRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(refRoot, "guides"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(refRoot, "guides", "start.mdx"), []byte("# Start"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(refRoot, NavigationFile),
		[]byte(`{"navigation": {"tabs": [{"tab": "Docs", "groups": [{"group": "Guides", "pages": ["guides/start"]}]}]}}`), 0o644))

	r := NewMintlify(c)
	require.NoError(t, r.Render(context.Background(), sampleAssembly()))
	require.NoError(t, r.AddReferences(context.Background(), []project.DocumentationReference{
		{Name: "Extensions", DocumentationRoot: refRoot, DestinationPath: "ext"},
	}))
	require.NoError(t, r.WriteNavigation(context.Background()))

	assert.Equal(t, "# Start", readOutput(t, filepath.Join(c.DocumentationRootPath, "ext", "guides", "start.mdx")))
	_, err := os.Stat(filepath.Join(c.DocumentationRootPath, "ext", NavigationFile))
	assert.True(t, os.IsNotExist(err))

	pages := readDocsJSON(t, c)["navigation"].(map[string]any)["pages"].([]any)
	require.Len(t, pages, 2)
	ref := pages[1].(map[string]any)
	assert.Equal(t, "Extensions", ref["group"])
	guides := ref["pages"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"ext/guides/start"}, guides["pages"])
}

func TestMintlifyAddReferencesReportsFailures(t *testing.T) {
	c := testContext(t)
	r := NewMintlify(c)
	err := r.AddReferences(context.Background(), []project.DocumentationReference{
		{Name: "Missing", DocumentationRoot: filepath.Join(t.TempDir(), "nope"), DestinationPath: "x"},
		{Name: "Invalid"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
	assert.Contains(t, err.Error(), `"Invalid"`)
}

func TestEscapeMDX(t *testing.T) {
	assert.Equal(t, "List&lt;T> and \\{x\\}", EscapeMDX("List<T> and {x}"))
	assert.Equal(t, "use `List<T>` here", EscapeMDX("use `List<T>` here"))
	assert.Equal(t, "```csharp\nvar x = new List<int> { 1 };\n```", EscapeMDX("```csharp\nvar x = new List<int> { 1 };\n```"))

	out := EscapeMDX(model.PlaceholderMarker + "\nAdd usage here.")
	assert.True(t, strings.HasPrefix(out, "{/* TODO:"))
	assert.NotContains(t, out, "<!--")
}
