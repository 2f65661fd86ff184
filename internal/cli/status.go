package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sage/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the overall pipeline status",
		Long: `Display where the learning pipeline stands:
- Current policy version
- Learning checkpoint and unprocessed event count
- Pending review items
- Recorded safety corrections`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			status, err := wire.LearningService().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get learning status: %w", err)
			}

			corrections, err := wire.SafetyService().ListCorrections(ctx)
			if err != nil {
				return fmt.Errorf("failed to list corrections: %w", err)
			}

			color.New(color.Bold).Println("sage status")
			fmt.Println()
			fmt.Printf("Policy version: %d\n", status.PolicyVersion)
			if status.LastProcessedTimestamp == "" {
				fmt.Println("Checkpoint: (nothing processed yet)")
			} else {
				fmt.Printf("Checkpoint: %s\n", status.LastProcessedTimestamp)
			}
			fmt.Printf("Lessons learned: %d\n", status.LessonsLearned)

			if status.UnprocessedEvents > 0 {
				color.New(color.FgYellow).Printf("Unprocessed events: %d (run `sage learn run`)\n", status.UnprocessedEvents)
			} else {
				fmt.Println("Unprocessed events: 0")
			}
			if status.PendingReviews > 0 {
				color.New(color.FgYellow).Printf("Pending reviews: %d (run `sage review list --status pending`)\n", status.PendingReviews)
			} else {
				fmt.Println("Pending reviews: 0")
			}
			fmt.Printf("Safety corrections: %d\n", len(corrections))

			return nil
		},
	}
}
