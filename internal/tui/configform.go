package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/dotnetdocs/internal/config"
	"github.com/julianshen/dotnetdocs/internal/render"
)

// ConfigForm wraps a Huh form for writing a dotnetdocs configuration.
type ConfigForm struct {
	form           *huh.Form
	cfg            *config.Config
	savePath       string
	assemblyPath   string
	concurrencyStr string
}

// NewConfigForm creates a config editor form populated from the given config.
func NewConfigForm(cfg *config.Config, savePath string) *ConfigForm {
	cf := &ConfigForm{
		cfg:            cfg,
		savePath:       savePath,
		concurrencyStr: fmt.Sprintf("%d", cfg.Output.Concurrency),
	}
	if len(cfg.Assemblies) > 0 {
		cf.assemblyPath = cfg.Assemblies[0].Path
	}

	formatOptions := make([]huh.Option[string], 0, len(render.Formats))
	for _, f := range render.Formats {
		formatOptions = append(formatOptions, huh.NewOption(f, f))
	}

	projectGroup := huh.NewGroup(
		huh.NewInput().
			Title("Assembly").
			Description("Compiled assembly, symbol manifest, .csproj or source directory").
			Placeholder("bin/Release/net8.0/MyLib.dll").
			Value(&cf.assemblyPath),
		huh.NewMultiSelect[string]().
			Title("Documented accessibility").
			Options(
				huh.NewOption("Public", "public"),
				huh.NewOption("Protected", "protected"),
				huh.NewOption("Protected internal", "protected internal"),
				huh.NewOption("Internal", "internal"),
			).
			Value(&cfg.Project.Include),
		huh.NewConfirm().
			Title("Merge conceptual docs").
			Value(&cfg.Project.ConceptualDocs),
		huh.NewConfirm().
			Title("Show placeholders").
			Value(&cfg.Project.ShowPlaceholders),
	).Title("Project")

	outputGroup := huh.NewGroup(
		huh.NewInput().
			Title("Documentation root").
			Placeholder("docs").
			Value(&cfg.Output.Root),
		huh.NewMultiSelect[string]().
			Title("Formats").
			Options(formatOptions...).
			Value(&cfg.Output.Formats),
		huh.NewSelect[string]().
			Title("Namespace layout").
			Options(
				huh.NewOption("Flat files", "file"),
				huh.NewOption("Folders", "folder"),
			).
			Value(&cfg.Output.NamespaceMode),
		huh.NewInput().
			Title("Concurrent writes").
			Placeholder("8").
			Value(&cf.concurrencyStr),
	).Title("Output")

	mintlifyGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Navigation type").
			Options(
				huh.NewOption("Pages", "pages"),
				huh.NewOption("Tabs", "tabs"),
				huh.NewOption("Products", "products"),
			).
			Value(&cfg.Mintlify.NavigationType),
		huh.NewSelect[string]().
			Title("Navigation mode").
			Options(
				huh.NewOption("Unified", "unified"),
				huh.NewOption("By assembly", "by-assembly"),
			).
			Value(&cfg.Mintlify.NavigationMode),
		huh.NewConfirm().
			Title("Include icons").
			Value(&cfg.Mintlify.IncludeIcons),
	).Title("Mintlify")

	cf.form = huh.NewForm(projectGroup, outputGroup, mintlifyGroup)

	return cf
}

// GroupCount returns the number of form groups.
func (c *ConfigForm) GroupCount() int { return 3 }

// SetAssembly sets the assembly field as if the user had typed it.
func (c *ConfigForm) SetAssembly(path string) { c.assemblyPath = path }

// Run shows the form and saves the result unless the user aborts.
func (c *ConfigForm) Run() error {
	if err := c.form.Run(); err != nil {
		return err
	}
	return c.Save()
}

// Save persists the config to disk. The concurrency string is parsed back to
// an int and the assembly field becomes the first [[assemblies]] entry.
func (c *ConfigForm) Save() error {
	if v, err := strconv.Atoi(c.concurrencyStr); err == nil && v > 0 {
		c.cfg.Output.Concurrency = v
	}
	if c.assemblyPath != "" {
		if len(c.cfg.Assemblies) == 0 {
			c.cfg.Assemblies = []config.AssemblyConfig{{Path: c.assemblyPath}}
		} else {
			c.cfg.Assemblies[0].Path = c.assemblyPath
		}
	}
	return config.Save(c.savePath, c.cfg)
}

// Form returns the underlying huh.Form.
func (c *ConfigForm) Form() *huh.Form { return c.form }

// IsCompleted returns true if the form has been completed (submitted).
func (c *ConfigForm) IsCompleted() bool { return c.form.State == huh.StateCompleted }

// IsAborted returns true if the form has been aborted (cancelled).
func (c *ConfigForm) IsAborted() bool { return c.form.State == huh.StateAborted }
