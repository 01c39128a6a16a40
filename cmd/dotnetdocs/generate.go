// cmd/dotnetdocs/generate.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/dotnetdocs/internal/config"
	"github.com/julianshen/dotnetdocs/internal/manager"
	"github.com/julianshen/dotnetdocs/internal/output"
	"github.com/julianshen/dotnetdocs/internal/runner"
	"github.com/julianshen/dotnetdocs/internal/store"
	"github.com/julianshen/dotnetdocs/internal/tui"
)

func generateCmd() *cobra.Command {
	var summaryFlag string

	cmd := &cobra.Command{
		Use:   "generate [assembly[:xml]]...",
		Short: "Render documentation for one or more assemblies",
		Long: `Build the documentation model for each assembly and render it with every
configured format. An assembly is a compiled .dll with a symbol manifest next
to it, a .symbols.json/.yaml manifest, a .csproj or a directory of C# sources.
Without arguments the [[assemblies]] entries of the config are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, ok := output.New(summaryFlag)
			if !ok {
				return fmt.Errorf("unknown summary format %q: use json or markdown", summaryFlag)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			inputs, err := resolveInputs(args, cfg, cmd.InOrStdin())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr())
			m, closeLedger, err := newManager(cfg, logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLedger()

			start := time.Now()
			res, runErr := m.ProcessAll(cmd.Context(), inputs)
			summary := output.NewSummary(res, cfg.Output.Formats, time.Since(start))

			out, err := formatter.Format(summary)
			if err != nil {
				return fmt.Errorf("formatting summary: %w", err)
			}
			w := cmd.OutOrStdout()
			if _, err := w.Write(out); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
			if f, ok := w.(*os.File); ok && isTerminal(f) {
				fmt.Fprintln(w, tui.Status(len(summary.Failures),
					fmt.Sprintf("%d assemblies, %d files, %d failures", len(summary.Assemblies), len(summary.Files), len(summary.Failures))))
			}
			return runner.WithCode(runner.ExitCodeFromResult(res), runErr)
		},
	}

	cmd.Flags().StringVar(&summaryFlag, "summary", "markdown", "run summary format: json, markdown")
	return cmd
}

// newManager wires a manager from cfg. The returned func closes the ledger.
func newManager(cfg *config.Config, logger *log.Logger, progress io.Writer) (*manager.Manager, func(), error) {
	transforms, err := buildTransforms(cfg.Transforms, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []manager.Option{
		manager.WithLogger(logger),
		manager.WithFormats(cfg.Output.Formats...),
		manager.WithTransformers(transforms...),
		manager.WithConcurrency(cfg.Output.Concurrency),
	}
	if verboseFlag {
		opts = append(opts, manager.WithProgress(progress))
	}

	closeLedger := func() {}
	if cfg.Output.Ledger != "" {
		ledger, err := store.NewLedger(cfg.Output.Ledger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening ledger: %w", err)
		}
		closeLedger = func() { ledger.Close() }
		opts = append(opts, manager.WithLedger(ledger, cfg.Output.Prune))
	}

	m, err := manager.New(cfg.ProjectContext(logger), opts...)
	if err != nil {
		closeLedger()
		return nil, nil, err
	}
	return m, closeLedger, nil
}
