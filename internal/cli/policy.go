package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/wire"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect the learned policy",
	Long:  "Show the current policy instructions and their mutation history",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		policy, err := wire.PolicyService().GetPolicy(ctx)
		if err != nil {
			return fmt.Errorf("failed to get policy: %w", err)
		}

		fmt.Printf("Version: %d\n", policy.Version)
		fmt.Printf("Updated: %s\n", policy.UpdatedAt)
		fmt.Println()
		fmt.Println(policy.Instructions)
		return nil
	},
}

var policyHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the policy mutation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		history, err := wire.PolicyService().GetHistory(ctx)
		if err != nil {
			return fmt.Errorf("failed to get policy history: %w", err)
		}

		if len(history) == 0 {
			fmt.Println("No mutations recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tCREATED\tCRITIQUE")
		fmt.Fprintln(w, "-------\t-------\t--------")
		for _, m := range history {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.CreatedAt, truncate(m.Critique, 64))
		}
		w.Flush()
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyHistoryCmd)
}

// PolicyCmd returns the policy command
func PolicyCmd() *cobra.Command {
	return policyCmd
}
