// cmd/dotnetdocs/verify.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/dotnetdocs/internal/runner"
	"github.com/julianshen/dotnetdocs/internal/verify"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <baseline-dir> [assembly[:xml]]...",
		Short: "Regenerate documentation and compare it with a baseline",
		Long: `Render every assembly into a temporary directory and diff the result
against baseline-dir. Exits non-zero when any file was changed, removed or
added.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline := args[0]
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			inputs, err := resolveInputs(args[1:], cfg, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tmp, err := os.MkdirTemp("", "dotnetdocs-verify-*")
			if err != nil {
				return fmt.Errorf("creating temporary directory: %w", err)
			}
			defer os.RemoveAll(tmp)

			// Conceptual content stays under the real documentation root.
			if p := cfg.Project.ConceptualPath; p != "" && !filepath.IsAbs(p) {
				if cfg.Project.ConceptualPath, err = filepath.Abs(filepath.Join(cfg.Output.Root, p)); err != nil {
					return err
				}
			}
			cfg.Output.Root = tmp
			cfg.Output.Ledger = ""

			logger := newLogger(cmd.ErrOrStderr())
			m, closeLedger, err := newManager(cfg, logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLedger()

			if _, err := m.ProcessAll(cmd.Context(), inputs); err != nil {
				return err
			}

			diffs, err := verify.Compare(baseline, tmp)
			if err != nil {
				return err
			}
			if len(diffs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "output matches baseline")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), verify.Report(diffs))
			return runner.WithCode(runner.ExitDiff, fmt.Errorf("%d files differ from baseline %s", len(diffs), baseline))
		},
	}
	return cmd
}
