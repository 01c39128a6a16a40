// Package config loads the dotnetdocs TOML configuration and converts it into
// the per-pass project context.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/julianshen/dotnetdocs/internal/model"
	"github.com/julianshen/dotnetdocs/internal/project"
	"github.com/julianshen/dotnetdocs/internal/transform"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "dotnetdocs.toml"

// Config represents the top-level application configuration.
type Config struct {
	// Transforms lists prose passes run before rendering: "markdown-xml" or
	// paths to Starlark scripts. Defaults to markdown-xml; set it to an empty
	// list to render raw doc-comment XML.
	Transforms []string          `toml:"transforms"`
	Project    ProjectConfig     `toml:"project"`
	Output     OutputConfig      `toml:"output"`
	Mintlify   MintlifyConfig    `toml:"mintlify"`
	Assemblies []AssemblyConfig  `toml:"assemblies"`
	References []ReferenceConfig `toml:"references"`
}

// ProjectConfig holds what gets documented.
type ProjectConfig struct {
	Include          []string `toml:"include"`
	References       []string `toml:"references"`
	ConceptualPath   string   `toml:"conceptual_path"`
	ConceptualDocs   bool     `toml:"conceptual_docs"`
	ShowPlaceholders bool     `toml:"show_placeholders"`
}

// OutputConfig holds where and how files are written.
type OutputConfig struct {
	Root          string   `toml:"root"`
	APIPath       string   `toml:"api_path"`
	Formats       []string `toml:"formats"`
	NamespaceMode string   `toml:"namespace_mode"`
	Separator     string   `toml:"separator"`
	// Ledger is the SQLite file recording rendered files. Empty disables it.
	Ledger      string `toml:"ledger"`
	Prune       bool   `toml:"prune"`
	Concurrency int    `toml:"concurrency"`
}

// MintlifyConfig holds Mintlify navigation settings.
type MintlifyConfig struct {
	NavigationType   string `toml:"navigation_type"`
	NavigationMode   string `toml:"navigation_mode"`
	NavigationName   string `toml:"navigation_name"`
	UnifiedGroupName string `toml:"unified_group_name"`
	IncludeIcons     bool   `toml:"include_icons"`
	Template         string `toml:"template"`
}

// AssemblyConfig is one input: a compiled assembly, symbol manifest, C#
// project or source directory, with an optional XML documentation file.
type AssemblyConfig struct {
	Path string `toml:"path"`
	XML  string `toml:"xml,omitempty"`
}

// ReferenceConfig is an external documentation set merged into the Mintlify
// navigation.
type ReferenceConfig struct {
	Name              string `toml:"name,omitempty"`
	DocumentationRoot string `toml:"documentation_root"`
	DestinationPath   string `toml:"destination_path"`
	NavigationFile    string `toml:"navigation_file,omitempty"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Transforms: []string{transform.MarkdownXMLName},
		Project: ProjectConfig{
			Include:        []string{string(model.Public)},
			ConceptualPath: "conceptual",
			ConceptualDocs: true,
		},
		Output: OutputConfig{
			Root:          "docs",
			APIPath:       "api-reference",
			Formats:       []string{"markdown"},
			NamespaceMode: string(project.FileMode),
			Separator:     string(project.DefaultSeparator),
			Concurrency:   8,
		},
		Mintlify: MintlifyConfig{
			NavigationType:   string(project.NavigationPages),
			NavigationMode:   string(project.NavigationUnified),
			UnifiedGroupName: project.DefaultUnifiedGroupName,
			IncludeIcons:     true,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}
	return nil
}

// ProjectContext converts the configuration into a project.Context. Invalid
// values are logged as warnings and replaced with their defaults.
func (c *Config) ProjectContext(logger *log.Logger) *project.Context {
	if logger == nil {
		logger = log.Default()
	}
	warnf := func(format string, args ...any) {
		logger.Printf("WARNING: "+format, args...)
	}

	pc := project.NewContext()
	if len(c.Project.Include) > 0 {
		pc.IncludedAccessibilities = nil
		for _, s := range c.Project.Include {
			if strings.TrimSpace(s) == "" {
				continue
			}
			a, ok := model.ParseAccessibility(s)
			if !ok {
				warnf("ignoring unknown accessibility %q in project.include", s)
				continue
			}
			pc.IncludedAccessibilities = append(pc.IncludedAccessibilities, a)
		}
		if len(pc.IncludedAccessibilities) == 0 {
			warnf("project.include selects nothing; documenting public APIs")
			pc.IncludedAccessibilities = []model.Accessibility{model.Public}
		}
	}
	pc.ReferencePaths = append(pc.ReferencePaths, c.Project.References...)
	pc.ConceptualPath = c.Project.ConceptualPath
	pc.ConceptualDocsEnabled = c.Project.ConceptualDocs
	pc.ShowPlaceholders = c.Project.ShowPlaceholders

	if c.Output.Root != "" {
		pc.DocumentationRootPath = c.Output.Root
	}
	pc.APIReferencePath = c.Output.APIPath

	if c.Output.NamespaceMode != "" {
		mode, ok := project.ParseNamespaceMode(c.Output.NamespaceMode)
		if !ok {
			warnf("unknown output.namespace_mode %q; using %s", c.Output.NamespaceMode, mode)
		}
		pc.FileNaming.Mode = mode
	}
	if c.Output.Separator != "" {
		r, size := utf8.DecodeRuneInString(c.Output.Separator)
		if size != len(c.Output.Separator) || r == filepath.Separator || r == '/' {
			warnf("invalid output.separator %q; using %q", c.Output.Separator, project.DefaultSeparator)
		} else {
			pc.FileNaming.Separator = r
		}
	}

	m := &pc.Mintlify
	if c.Mintlify.NavigationType != "" {
		t, ok := project.ParseNavigationType(c.Mintlify.NavigationType)
		if !ok {
			warnf("unknown mintlify.navigation_type %q; using %s", c.Mintlify.NavigationType, t)
		}
		m.NavigationType = t
	}
	if c.Mintlify.NavigationMode != "" {
		mode, ok := project.ParseNavigationMode(c.Mintlify.NavigationMode)
		if !ok {
			warnf("unknown mintlify.navigation_mode %q; using %s", c.Mintlify.NavigationMode, mode)
		}
		m.NavigationMode = mode
	}
	m.NavigationName = c.Mintlify.NavigationName
	if c.Mintlify.UnifiedGroupName != "" {
		m.UnifiedGroupName = c.Mintlify.UnifiedGroupName
	}
	m.IncludeIcons = c.Mintlify.IncludeIcons
	m.TemplatePath = c.Mintlify.Template

	for _, r := range c.References {
		pc.References = append(pc.References, project.DocumentationReference{
			Name:               r.Name,
			DocumentationRoot:  r.DocumentationRoot,
			DestinationPath:    r.DestinationPath,
			NavigationFilePath: r.NavigationFile,
		})
	}
	return pc
}
