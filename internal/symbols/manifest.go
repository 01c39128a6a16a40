package symbols

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedInput is returned by Resolve for paths no provider handles.
var ErrUnsupportedInput = errors.New("unsupported symbol input")

// ManifestProvider reads symbol manifests in JSON or YAML. The format is
// chosen by file extension.
type ManifestProvider struct{}

// compile-time check: ManifestProvider implements Provider.
var _ Provider = ManifestProvider{}

// Load parses the manifest at path.
func (ManifestProvider) Load(ctx context.Context, path string) (*Assembly, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbol manifest: %w", err)
	}

	var asm Assembly
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&asm); err != nil {
			return nil, fmt.Errorf("parsing symbol manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &asm); err != nil {
			return nil, fmt.Errorf("parsing symbol manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}

	if asm.Name == "" {
		asm.Name = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), ".symbols")
	}
	return &asm, nil
}

// Resolver picks a Provider for an input path.
type Resolver struct {
	// Source handles directories of source files. Directories are rejected
	// when it is nil.
	Source Provider
}

// Resolve returns the provider for path and the path it should load.
// Directories and C# sources or projects go to the source provider, manifests
// to ManifestProvider, and
// compiled assemblies to the manifest written next to them
// (<name>.symbols.json, .yaml or .yml).
func (r Resolver) Resolve(path string) (Provider, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		if r.Source == nil {
			return nil, "", fmt.Errorf("%w: %s is a directory", ErrUnsupportedInput, path)
		}
		return r.Source, path, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cs", ".csproj":
		if r.Source == nil {
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
		}
		return r.Source, path, nil
	case ".json", ".yaml", ".yml":
		return ManifestProvider{}, path, nil
	case ".dll", ".exe":
		base := strings.TrimSuffix(path, filepath.Ext(path))
		for _, candidate := range SidecarCandidates(base) {
			if _, err := os.Stat(candidate); err == nil {
				return ManifestProvider{}, candidate, nil
			}
		}
		return nil, "", fmt.Errorf("%w: no symbol manifest for %s (expected %s)", ErrUnsupportedInput, path, SidecarCandidates(base)[0])
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
}

// SidecarCandidates lists the manifest names checked for an assembly whose
// path without extension is base.
func SidecarCandidates(base string) []string {
	return []string{base + ".symbols.json", base + ".symbols.yaml", base + ".symbols.yml"}
}
