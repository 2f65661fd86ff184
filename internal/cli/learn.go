package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sage/internal/wire"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Run the learning loop",
	Long:  "Process unprocessed telemetry events into policy mutations, corrections, and review items",
}

var learnRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Process all events since the checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		summary, err := wire.LearningService().RunBatch(ctx)
		if err != nil {
			return fmt.Errorf("learning batch failed: %w", err)
		}

		if summary.EventsProcessed == 0 {
			fmt.Println("Nothing to process.")
			return nil
		}

		fmt.Printf("✓ Processed %d events\n", summary.EventsProcessed)
		fmt.Printf("  Lessons learned: %d\n", summary.LessonsLearned)
		if summary.VersionAfter != summary.VersionBefore {
			fmt.Printf("  Policy version: %d -> %d\n", summary.VersionBefore, summary.VersionAfter)
		} else {
			fmt.Printf("  Policy version: %d (unchanged)\n", summary.VersionAfter)
		}
		for signalType, count := range summary.SignalCounts {
			fmt.Printf("  Signal %s: %d\n", signalType, count)
		}
		if summary.PolicyReviewsCreated > 0 {
			color.New(color.FgYellow).Printf("  %d mutation(s) held for review, run `sage review list --status pending`\n", summary.PolicyReviewsCreated)
		}
		if summary.SamplesCreated > 0 {
			fmt.Printf("  Strategic samples: %d\n", summary.SamplesCreated)
		}
		if summary.OracleFailures > 0 {
			color.New(color.FgRed).Printf("  Oracle failures: %d (fail-safe scoring applied)\n", summary.OracleFailures)
		}
		return nil
	},
}

var learnStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the learning loop checkpoint and queue depth",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		status, err := wire.LearningService().Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get learning status: %w", err)
		}

		if status.LastProcessedTimestamp == "" {
			fmt.Println("Checkpoint: (nothing processed yet)")
		} else {
			fmt.Printf("Checkpoint: %s\n", status.LastProcessedTimestamp)
		}
		fmt.Printf("Lessons learned: %d\n", status.LessonsLearned)
		fmt.Printf("Unprocessed events: %d\n", status.UnprocessedEvents)
		fmt.Printf("Pending reviews: %d\n", status.PendingReviews)
		fmt.Printf("Policy version: %d\n", status.PolicyVersion)
		return nil
	},
}

func init() {
	learnCmd.AddCommand(learnRunCmd)
	learnCmd.AddCommand(learnStatusCmd)
}

// LearnCmd returns the learn command
func LearnCmd() *cobra.Command {
	return learnCmd
}
