// cmd/dotnetdocs/scaffold.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func scaffoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [assembly[:xml]]...",
		Short: "Write placeholder conceptual docs for every documented entity",
		Long: `Create usage, examples, best-practices, patterns, considerations and
related-apis files below the conceptual path for every assembly, namespace,
type and member that does not have them yet. Existing files are never
touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			files, err := m.Scaffold(cmd.Context(), inputs)
			for _, f := range files {
				if verboseFlag {
					fmt.Fprintln(cmd.ErrOrStderr(), "created", f)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d conceptual files\n", len(files))
			return err
		},
	}
	return cmd
}
