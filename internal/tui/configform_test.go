package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/dotnetdocs/internal/config"
)

func TestConfigFormCreation(t *testing.T) {
	cfg := config.DefaultConfig()
	form := NewConfigForm(cfg, "/tmp/test-config.toml")
	assert.NotNil(t, form)
	assert.NotNil(t, form.Form())
	assert.False(t, form.IsCompleted())
	assert.False(t, form.IsAborted())
}

func TestConfigFormGroupCount(t *testing.T) {
	cfg := config.DefaultConfig()
	form := NewConfigForm(cfg, "/tmp/test-config.toml")
	assert.Equal(t, 3, form.GroupCount())
}

func TestConfigFormSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotnetdocs.toml")
	cfg := config.DefaultConfig()
	cfg.Output.Formats = []string{"mintlify"}

	form := NewConfigForm(cfg, path)
	form.SetAssembly("bin/Sample.dll")
	form.concurrencyStr = "4"
	require.NoError(t, form.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mintlify"}, loaded.Output.Formats)
	assert.Equal(t, 4, loaded.Output.Concurrency)
	require.Len(t, loaded.Assemblies, 1)
	assert.Equal(t, "bin/Sample.dll", loaded.Assemblies[0].Path)
}

func TestConfigFormSaveIgnoresBadConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotnetdocs.toml")
	cfg := config.DefaultConfig()
	form := NewConfigForm(cfg, path)
	form.concurrencyStr = "many"
	require.NoError(t, form.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Output.Concurrency)
	assert.Empty(t, loaded.Assemblies)
}
