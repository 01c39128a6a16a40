package render

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/julianshen/dotnetdocs/internal/model"
)

func TestJSONRender(t *testing.T) {
	c := testContext(t)
	require.NoError(t, NewJSON(c).Render(context.Background(), sampleAssembly()))

	files := listFiles(t, c.APIReferenceRoot())
	assert.ElementsMatch(t, []string{"documentation.json", "Sample.json", "global.json"}, files)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), "documentation.json"))), &doc))
	assert.Equal(t, "Sample", doc["name"])
	assert.NotContains(t, doc, "summary")

	namespaces := doc["namespaces"].([]any)
	sample := namespaces[1].(map[string]any)
	types := sample["types"].([]any)
	class := types[1].(map[string]any)
	assert.Equal(t, "Sample.SampleClass", class["fullName"])
	assert.NotContains(t, class, "baseType")
	assert.NotContains(t, class, "enum")

	method := class["members"].([]any)[0].(map[string]any)
	assert.Equal(t, "public int Calculate(int x, int y)", method["signature"])
	param := method["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, false, param["isOptional"])
	assert.Equal(t, false, param["hasDefaultValue"])
	assert.NotContains(t, param, "defaultValue")
}

func TestJSONNamespaceFileUsesFileNaming(t *testing.T) {
	c := testContext(t)
	asm := sampleAssembly()
	asm.Namespaces[1].Name = "Sample.Core"
	require.NoError(t, NewJSON(c).RenderNamespace(context.Background(), asm, asm.Namespaces[1]))

	content := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample-Core.json"))
	assert.True(t, strings.HasPrefix(content, "{\n  \"name\": \"Sample.Core\""))
}

func TestJSONEnumValuesAreStrings(t *testing.T) {
	c := testContext(t)
	require.NoError(t, NewJSON(c).Render(context.Background(), sampleAssembly()))
	content := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.json"))
	assert.Contains(t, content, `"value": "15"`)
	assert.Contains(t, content, `"value": "10"`)
	assert.Contains(t, content, `"isFlags": true`)
}

func TestYAMLRender(t *testing.T) {
	c := testContext(t)
	r := NewYAML(c)
	require.NoError(t, r.Render(context.Background(), sampleAssembly()))

	files := listFiles(t, c.APIReferenceRoot())
	assert.ElementsMatch(t, []string{"documentation.yaml", "toc.yaml", "Sample.yaml", "global.yaml"}, files)

	var toc TOC
	require.NoError(t, yaml.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), "toc.yaml"))), &toc))
	assert.Equal(t, "Sample", toc.Title)
	require.Len(t, toc.Items, 1)
	assert.Equal(t, "Sample", toc.Items[0].Name)
	assert.Equal(t, "Sample.yaml", toc.Items[0].Href)
	require.Len(t, toc.Items[0].Items, 2)
	assert.Equal(t, "Permissions", toc.Items[0].Items[0].Name)
	assert.Equal(t, "Sample.SampleClass", toc.Items[0].Items[1].UID)

	doc := readOutput(t, filepath.Join(c.APIReferenceRoot(), "documentation.yaml"))
	assert.Contains(t, doc, "fullName: Sample.SampleClass")
	assert.Contains(t, doc, "isOptional: false")
	assert.Contains(t, doc, "hasDefaultValue: false")
	assert.Contains(t, doc, "value: \"15\"")
	assert.NotContains(t, doc, "summary:")
}

func TestRenderMemberStructured(t *testing.T) {
	var b strings.Builder
	NewJSON(testContext(t)).RenderMember(&b, calculateMethod())
	assert.Contains(t, b.String(), `"name": "Calculate"`)

	b.Reset()
	NewYAML(testContext(t)).RenderMember(&b, calculateMethod())
	assert.Contains(t, b.String(), "name: Calculate")
	assert.Contains(t, b.String(), "returnType: int")
}

func TestStructuredRenderTypeWritesNothing(t *testing.T) {
	c := testContext(t)
	asm := sampleAssembly()
	ns := asm.Namespaces[1]
	require.NoError(t, NewJSON(c).RenderType(context.Background(), asm, ns, ns.Types[0]))
	require.NoError(t, NewYAML(c).RenderType(context.Background(), asm, ns, ns.Types[0]))
	matches, err := filepath.Glob(filepath.Join(c.APIReferenceRoot(), "*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStructuredSharedNamespaceMerges(t *testing.T) {
	c := testContext(t)
	j, y := NewJSON(c), NewYAML(c)
	for _, r := range []Renderer{j, y} {
		require.NoError(t, r.Render(context.Background(), sampleAssembly()))
		require.NoError(t, r.Render(context.Background(), otherAssembly()))
	}

	var ns model.DocNamespace
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.json"))), &ns))
	var names []string
	for _, typ := range ns.Types {
		names = append(names, typ.FullName)
	}
	assert.Equal(t, []string{"Sample.Helper", "Sample.Permissions", "Sample.SampleClass"}, names)

	yml := readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.yaml"))
	assert.Contains(t, yml, "fullName: Sample.Helper")
	assert.Contains(t, yml, "fullName: Sample.SampleClass")
}

var narrativeKeys = []string{"remarks", "usage", "examples", "bestPractices", "patterns", "considerations", "relatedApis"}

// collectKeys returns every map key found anywhere in a decoded document.
func collectKeys(v any, keys map[string]bool) {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			keys[k] = true
			collectKeys(child, keys)
		}
	case []any:
		for _, child := range v {
			collectKeys(child, keys)
		}
	}
}

func TestStructuredSectionOmission(t *testing.T) {
	c := testContext(t)
	require.NoError(t, NewJSON(c).Render(context.Background(), sampleAssembly()))
	require.NoError(t, NewYAML(c).Render(context.Background(), sampleAssembly()))

	for _, f := range []string{"documentation.json", "Sample.json", "global.json"} {
		var doc any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), f))), &doc))
		keys := map[string]bool{}
		collectKeys(doc, keys)
		for _, k := range narrativeKeys {
			assert.False(t, keys[k], "%s has %q", f, k)
		}
	}
	for _, f := range []string{"documentation.yaml", "Sample.yaml", "global.yaml"} {
		var doc any
		require.NoError(t, yaml.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), f))), &doc))
		keys := map[string]bool{}
		collectKeys(doc, keys)
		for _, k := range narrativeKeys {
			assert.False(t, keys[k], "%s has %q", f, k)
		}
	}
}

func TestStructuredPopulatedSectionOnly(t *testing.T) {
	c := testContext(t)
	asm := sampleAssembly()
	asm.Namespaces[1].Types[1].Usage = "Create one and call Calculate."
	require.NoError(t, NewJSON(c).Render(context.Background(), asm))

	var ns map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, filepath.Join(c.APIReferenceRoot(), "Sample.json"))), &ns))
	class := ns["types"].([]any)[1].(map[string]any)
	assert.Equal(t, "Create one and call Calculate.", class["usage"])
	assert.NotContains(t, class, "examples")
	assert.NotContains(t, class, "remarks")
}
