// cmd/dotnetdocs/init.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/julianshen/dotnetdocs/internal/config"
	"github.com/julianshen/dotnetdocs/internal/tui"
)

func initCmd() *cobra.Command {
	var (
		defaultsFlag bool
		forceFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "init [assembly]",
		Short: "Create a dotnetdocs.toml",
		Long: `Walk through the main settings interactively and write them to the config
file. With --defaults, or when stdin is not a terminal, the default
configuration is written without prompting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil && !forceFlag {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if outputFlag != "" {
				cfg.Output.Root = outputFlag
			}
			if formats := parseListFlag(formatFlag); formats != nil {
				cfg.Output.Formats = formats
			}

			if defaultsFlag || !isTerminal(os.Stdin) {
				if len(args) > 0 {
					cfg.Assemblies = []config.AssemblyConfig{{Path: args[0]}}
				}
				if err := config.Save(path, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			}

			form := tui.NewConfigForm(cfg, path)
			if len(args) > 0 {
				form.SetAssembly(args[0])
			}
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted; nothing written")
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.Success("wrote "+path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&defaultsFlag, "defaults", false, "write the default configuration without prompting")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "overwrite an existing config file")
	return cmd
}
