package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestCompareIdentical(t *testing.T) {
	files := map[string]string{"index.md": "# Sample\n", "Sample/index.md": "# Sample namespace\n"}
	diffs, err := Compare(writeTree(t, files), writeTree(t, files))
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCompareNormalizesLineEndings(t *testing.T) {
	expected := writeTree(t, map[string]string{"index.md": "a\r\nb\r\n"})
	actual := writeTree(t, map[string]string{"index.md": "a\nb\n"})
	diffs, err := Compare(expected, actual)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCompareReportsDifferences(t *testing.T) {
	expected := writeTree(t, map[string]string{
		"index.md":       "# Sample\nold line\n",
		"Sample.Gone.md": "gone\n",
	})
	actual := writeTree(t, map[string]string{
		"index.md":      "# Sample\nnew line\n",
		"Sample.New.md": "new\n",
	})

	diffs, err := Compare(expected, actual)
	require.NoError(t, err)
	require.Len(t, diffs, 3)

	assert.Equal(t, "Sample.Gone.md", diffs[0].Path)
	assert.Equal(t, Missing, diffs[0].Status)
	assert.Contains(t, diffs[0].Diff, "-gone")

	assert.Equal(t, "Sample.New.md", diffs[1].Path)
	assert.Equal(t, Extra, diffs[1].Status)
	assert.Contains(t, diffs[1].Diff, "+new")

	assert.Equal(t, "index.md", diffs[2].Path)
	assert.Equal(t, Changed, diffs[2].Status)
	assert.Contains(t, diffs[2].Diff, "--- expected/index.md")
	assert.Contains(t, diffs[2].Diff, "+++ actual/index.md")
	assert.Contains(t, diffs[2].Diff, "-old line")
	assert.Contains(t, diffs[2].Diff, "+new line")

	report := Report(diffs)
	assert.Contains(t, report, "missing: Sample.Gone.md\n")
	assert.Contains(t, report, "changed: index.md\n")
}

func TestCompareMissingBaseline(t *testing.T) {
	_, err := Compare(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
