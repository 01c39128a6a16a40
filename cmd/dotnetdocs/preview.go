// cmd/dotnetdocs/preview.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/dotnetdocs/internal/tui"
)

func previewCmd() *cobra.Command {
	var styleFlag string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a generated Markdown page in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			style := styleFlag
			width := 80
			if f, ok := cmd.OutOrStdout().(*os.File); ok {
				width = terminalWidth(f, width)
				if style == "" && !isTerminal(f) {
					style = "notty"
				}
			} else if style == "" {
				style = "notty"
			}

			r, err := tui.NewMarkdownRenderer(width, style)
			if err != nil {
				return err
			}
			out, err := r.Render(string(data))
			if err != nil {
				return fmt.Errorf("rendering %s: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&styleFlag, "style", "", "glamour style (dark, light, notty); default dark on a terminal")
	return cmd
}
