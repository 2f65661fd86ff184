package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sage/internal/ctxutil"
	"github.com/example/sage/internal/wire"
)

// ContextCmd returns the context command
func ContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context [query]",
		Short: "Build the layered prompt context for a query",
		Long: `Assemble the three-tier prompt context for a query:
baseline policy first, user personalization next, safety corrections last.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			userID, _ := cmd.Flags().GetString("user")
			if userID == "" {
				userID = ctxutil.UserFromContext(ctx)
			}
			renderedOnly, _ := cmd.Flags().GetBool("rendered")

			prompt, err := wire.ContextService().BuildContext(ctx, args[0], userID)
			if err != nil {
				return fmt.Errorf("failed to build context: %w", err)
			}

			if renderedOnly {
				fmt.Println(prompt.Rendered)
				return nil
			}

			for i, section := range prompt.Sections {
				if i > 0 {
					fmt.Println()
				}
				color.New(color.FgCyan).Printf("-- %s --\n", section.Layer)
				fmt.Println(section.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringP("user", "u", "", "User ID for personalization and correction scoping")
	cmd.Flags().Bool("rendered", false, "Print only the rendered prompt text")

	return cmd
}
