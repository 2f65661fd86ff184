package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/wire"
)

var correctionCmd = &cobra.Command{
	Use:   "correction",
	Short: "Manage safety corrections",
	Long:  "List and purge recorded safety corrections",
}

var correctionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List safety corrections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		corrections, err := wire.SafetyService().ListCorrections(ctx)
		if err != nil {
			return fmt.Errorf("failed to list corrections: %w", err)
		}

		if len(corrections) == 0 {
			fmt.Println("No corrections recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPATTERN\tCORRECTION\tUSER\tCOUNT\tLAST SEEN")
		fmt.Fprintln(w, "--\t-------\t----------\t----\t-----\t---------")
		for _, c := range corrections {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				c.ID, truncate(c.TaskPattern, 32), truncate(c.Correction, 40),
				orDash(c.UserID), c.OccurrenceCount, c.Timestamp)
		}
		w.Flush()
		return nil
	},
}

var correctionPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Bulk-remove corrections",
	Long:  "Remove corrections by ID, by user, or older than a timestamp. At least one selector is required.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ids, _ := cmd.Flags().GetInt64Slice("id")
		userID, _ := cmd.Flags().GetString("user")
		before, _ := cmd.Flags().GetString("all-before")

		if len(ids) == 0 && userID == "" && before == "" {
			return fmt.Errorf("must specify --id, --user, or --all-before")
		}

		if userID != "" || before != "" {
			corrections, err := wire.SafetyService().ListCorrections(ctx)
			if err != nil {
				return fmt.Errorf("failed to list corrections: %w", err)
			}
			for _, c := range corrections {
				if userID != "" && c.UserID != userID {
					continue
				}
				if before != "" && c.Timestamp >= before {
					continue
				}
				ids = append(ids, c.ID)
			}
		}

		if len(ids) == 0 {
			fmt.Println("No corrections matched.")
			return nil
		}

		deleted, err := wire.SafetyService().PurgeCorrections(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to purge corrections: %w", err)
		}

		fmt.Printf("✓ Purged %d correction(s)\n", deleted)
		return nil
	},
}

func init() {
	// correction purge flags
	correctionPurgeCmd.Flags().Int64Slice("id", nil, "Correction ID to purge (repeatable)")
	correctionPurgeCmd.Flags().StringP("user", "u", "", "Purge all corrections for this user")
	correctionPurgeCmd.Flags().String("all-before", "", "Purge corrections older than this RFC3339 timestamp")

	// Register subcommands
	correctionCmd.AddCommand(correctionListCmd)
	correctionCmd.AddCommand(correctionPurgeCmd)
}

// CorrectionCmd returns the correction command
func CorrectionCmd() *cobra.Command {
	return correctionCmd
}
