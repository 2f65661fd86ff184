package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/wire"
)

var prefCmd = &cobra.Command{
	Use:   "pref",
	Short: "Manage user preferences",
	Long:  "Set and list per-user preferences that shape the personalization layer",
}

var prefSetCmd = &cobra.Command{
	Use:   "set [user-id]",
	Short: "Set a preference for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetInt("priority")

		if key == "" || value == "" {
			return fmt.Errorf("must specify --key and --value")
		}

		err := wire.SafetyService().SetPreference(ctx, primary.SetPreferenceRequest{
			UserID:      args[0],
			Key:         key,
			Value:       value,
			Description: description,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("failed to set preference: %w", err)
		}

		fmt.Printf("✓ Preference %s=%s set for %s (priority %d)\n", key, value, args[0], priority)
		return nil
	},
}

var prefListCmd = &cobra.Command{
	Use:   "list [user-id]",
	Short: "List a user's preferences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		prefs, err := wire.SafetyService().ListPreferences(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list preferences: %w", err)
		}

		if len(prefs) == 0 {
			fmt.Println("No preferences set.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tPRIORITY\tDESCRIPTION")
		fmt.Fprintln(w, "---\t-----\t--------\t-----------")
		for _, p := range prefs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Key, p.Value, p.Priority, orDash(p.Description))
		}
		w.Flush()
		return nil
	},
}

func init() {
	// pref set flags
	prefSetCmd.Flags().StringP("key", "k", "", "Preference key")
	prefSetCmd.Flags().StringP("value", "v", "", "Preference value")
	prefSetCmd.Flags().StringP("description", "d", "", "Optional description")
	prefSetCmd.Flags().IntP("priority", "p", 5, "Priority 1-10, higher wins")

	// Register subcommands
	prefCmd.AddCommand(prefSetCmd)
	prefCmd.AddCommand(prefListCmd)
}

// PrefCmd returns the pref command
func PrefCmd() *cobra.Command {
	return prefCmd
}
