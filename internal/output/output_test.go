package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/manager"
	"github.com/julianshen/dotnetdocs/internal/model"
)

func sampleResult() *manager.Result {
	return &manager.Result{
		RunID: "run-1",
		Assemblies: []*model.DocAssembly{{
			Name:    "Sample",
			Version: "1.2.3",
			Namespaces: []*model.DocNamespace{{
				Name: "Sample",
				Types: []*model.DocType{
					{Name: "Widget", Members: []*model.DocMember{{Name: "Spin"}, {Name: "Stop"}}},
					{Name: "Gizmo"},
				},
			}},
		}},
		Files:  []string{"docs/api-reference/index.md", "docs/api-reference/Sample.md"},
		Pruned: []string{"docs/api-reference/Sample.Old.md"},
		Failures: []manager.Failure{
			{Input: manager.Input{AssemblyPath: "bin/Missing.dll"}, Err: errors.New("assembly not found")},
		},
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(sampleResult(), []string{"markdown"}, 1500*time.Millisecond)
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, int64(1500), s.DurationMs)
	require.Len(t, s.Assemblies, 1)
	assert.Equal(t, AssemblySummary{Name: "Sample", Version: "1.2.3", Namespaces: 1, Types: 2, Members: 2}, s.Assemblies[0])
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "bin/Missing.dll", s.Failures[0].Assembly)

	empty := NewSummary(nil, nil, 0)
	assert.Empty(t, empty.Assemblies)
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(NewSummary(sampleResult(), []string{"markdown", "json"}, time.Second))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(1000), decoded["duration_ms"])
	assert.Len(t, decoded["files"], 2)
	assert.Len(t, decoded["failures"], 1)
	assert.True(t, strings.HasSuffix(string(out), "}\n"))
}

func TestJSONFormatterKeepsGenericNames(t *testing.T) {
	res := sampleResult()
	res.Failures[0].Err = errors.New("rendering Cache<TKey, TValue> & friends")

	out, err := (&JSONFormatter{}).Format(NewSummary(res, nil, 0))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"error":"rendering Cache<TKey, TValue> & friends"`)
	assert.Equal(t, 1, strings.Count(string(out), "\n"), "empty indent writes one line")
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(NewSummary(sampleResult(), []string{"markdown", "json"}, 2*time.Second))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "| Sample | 1.2.3 | 1 | 2 | 2 |")
	assert.Contains(t, s, "## Failures")
	assert.Contains(t, s, "**bin/Missing.dll**: assembly not found")
	assert.Contains(t, s, "`docs/api-reference/Sample.Old.md`")
	assert.Contains(t, s, "Wrote 2 files as markdown, json in 2s")
}

func TestMarkdownFormatterEmpty(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&Summary{Formats: []string{"yaml"}, Files: []string{"toc.yml"}})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "No assemblies were documented.")
	assert.Contains(t, s, "Wrote 1 file as yaml")
	assert.NotContains(t, s, "Failures")
}

func TestNewFormatter(t *testing.T) {
	f, ok := New("json")
	require.True(t, ok)
	assert.IsType(t, &JSONFormatter{}, f)

	f, ok = New("markdown")
	require.True(t, ok)
	assert.IsType(t, &MarkdownFormatter{}, f)

	_, ok = New("xml")
	assert.False(t, ok)
}
