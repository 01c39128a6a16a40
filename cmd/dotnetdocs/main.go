// cmd/dotnetdocs/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianshen/dotnetdocs/internal/config"
	"github.com/julianshen/dotnetdocs/internal/manager"
	"github.com/julianshen/dotnetdocs/internal/render"
	"github.com/julianshen/dotnetdocs/internal/runner"
	"github.com/julianshen/dotnetdocs/internal/transform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath  string
	outputFlag  string
	formatFlag  string
	fromFlag    string
	verboseFlag bool
)

func versionString() string {
	return fmt.Sprintf("dotnetdocs %s (commit: %s, built: %s)", version, commit, date)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dotnetdocs",
		Short: "Generate API documentation for .NET assemblies",
		Long: `dotnetdocs builds a documentation model from .NET symbols and XML doc
comments and renders it as Markdown, JSON, YAML or Mintlify MDX.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "", "override the documentation root directory")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "comma-separated render formats: "+strings.Join(render.Formats, ", "))
	rootCmd.PersistentFlags().StringVar(&fromFlag, "from", "", "file listing assembly[:xml] inputs, one per line")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "print progress to stderr")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(scaffoldCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(initCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(runner.ExitFailure)
	}
}

// resolveConfigPath returns --config or dotnetdocs.toml in the working
// directory.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultFile
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if outputFlag != "" {
		cfg.Output.Root = outputFlag
	}
	if formats := parseListFlag(formatFlag); formats != nil {
		cfg.Output.Formats = formats
	}
	return cfg, nil
}

// parseListFlag splits a comma-separated flag value. Returns nil if the
// input is empty.
func parseListFlag(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "dotnetdocs: ", 0)
}

// resolveInputs collects inputs from args, --from, piped stdin and finally
// the [[assemblies]] entries of the config.
func resolveInputs(args []string, cfg *config.Config, stdin io.Reader) ([]manager.Input, error) {
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		stdin = nil
	}
	var configured []manager.Input
	for _, a := range cfg.Assemblies {
		configured = append(configured, manager.Input{AssemblyPath: a.Path, XMLPath: a.XML})
	}
	inputs, err := runner.ResolveInputs(args, fromFlag, stdin, configured)
	if err != nil {
		return nil, fmt.Errorf("%w (or add [[assemblies]] to %s)", err, resolveConfigPath())
	}
	return inputs, nil
}

// buildTransforms resolves transform names: "markdown-xml" is built in and
// anything else is a Starlark script path.
func buildTransforms(names []string, logger *log.Logger) ([]transform.Transformer, error) {
	var passes []transform.Transformer
	for _, name := range names {
		if name == transform.MarkdownXMLName {
			passes = append(passes, transform.NewMarkdownXML(logger))
			continue
		}
		if filepath.Ext(name) != ".star" {
			return nil, fmt.Errorf("unknown transform %q: use %s or a .star script", name, transform.MarkdownXMLName)
		}
		s, err := transform.LoadScript(name, logger)
		if err != nil {
			return nil, err
		}
		passes = append(passes, s)
	}
	return passes, nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of f, or fallback when it is not a
// terminal.
func terminalWidth(f *os.File, fallback int) int {
	if !isTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
