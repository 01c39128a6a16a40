// internal/runner/input_test.go
package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/manager"
)

func TestResolveInputsFromArgs(t *testing.T) {
	inputs, err := ResolveInputs([]string{"bin/A.dll:bin/A.xml", "src/B"}, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []manager.Input{
		{AssemblyPath: "bin/A.dll", XMLPath: "bin/A.xml"},
		{AssemblyPath: "src/B"},
	}, inputs)
}

func TestResolveInputsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	require.NoError(t, os.WriteFile(path, []byte("# libraries\nbin/A.dll\n\n  bin/B.dll:docs/B.xml  \n"), 0644))

	inputs, err := ResolveInputs(nil, path, nil, nil)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "bin/A.dll", inputs[0].AssemblyPath)
	assert.Equal(t, "docs/B.xml", inputs[1].XMLPath)
}

func TestResolveInputsFromStdin(t *testing.T) {
	inputs, err := ResolveInputs(nil, "", strings.NewReader("bin/A.dll\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []manager.Input{{AssemblyPath: "bin/A.dll"}}, inputs)
}

func TestResolveInputsArgsTakePrecedence(t *testing.T) {
	inputs, err := ResolveInputs([]string{"arg.dll"}, "", strings.NewReader("stdin.dll"), []manager.Input{{AssemblyPath: "cfg.dll"}})
	require.NoError(t, err)
	assert.Equal(t, "arg.dll", inputs[0].AssemblyPath)
}

func TestResolveInputsFileTakesPrecedenceOverStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	require.NoError(t, os.WriteFile(path, []byte("file.dll"), 0644))

	inputs, err := ResolveInputs(nil, path, strings.NewReader("stdin.dll"), nil)
	require.NoError(t, err)
	assert.Equal(t, "file.dll", inputs[0].AssemblyPath)
}

func TestResolveInputsEmptyStdinFallsBackToConfig(t *testing.T) {
	inputs, err := ResolveInputs(nil, "", strings.NewReader("  \n"), []manager.Input{{AssemblyPath: "cfg.dll"}})
	require.NoError(t, err)
	assert.Equal(t, "cfg.dll", inputs[0].AssemblyPath)
}

func TestResolveInputsNoInput(t *testing.T) {
	_, err := ResolveInputs(nil, "", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assemblies given")
}

func TestResolveInputsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0644))

	_, err := ResolveInputs(nil, path, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input list is empty")
}

func TestResolveInputsMissingFile(t *testing.T) {
	_, err := ResolveInputs(nil, "/nonexistent/inputs.txt", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
