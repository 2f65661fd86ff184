package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/wire"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage the human review queue",
	Long:  "List, inspect, approve, and reject pending review items",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		kind, _ := cmd.Flags().GetString("kind")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		reviews, err := wire.ReviewService().ListReviews(ctx, primary.ReviewFilters{
			Kind:   kind,
			Status: status,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		if len(reviews) == 0 {
			fmt.Println("No review items found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSTATUS\tCREATED\tDECIDED")
		fmt.Fprintln(w, "--\t----\t------\t-------\t-------")
		for _, r := range reviews {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Kind, statusLabel(r.Status), r.CreatedAt, orDash(r.DecidedAt))
		}
		w.Flush()
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show [review-id]",
	Short: "Show review item details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		review, err := wire.ReviewService().GetReview(ctx, args[0])
		if err != nil {
			return fmt.Errorf("review not found: %w", err)
		}

		fmt.Printf("Review: %s\n", review.ID)
		fmt.Printf("Kind: %s\n", review.Kind)
		fmt.Printf("Status: %s\n", statusLabel(review.Status))
		fmt.Printf("Created: %s\n", review.CreatedAt)
		if review.DecidedAt != "" {
			fmt.Printf("Decided: %s\n", review.DecidedAt)
		}
		if review.ReviewerNotes != "" {
			fmt.Printf("Notes: %s\n", review.ReviewerNotes)
		}
		fmt.Println()

		switch review.Kind {
		case primary.ReviewKindPolicyReview:
			var content primary.PolicyReviewContent
			if err := json.Unmarshal([]byte(review.ContentJSON), &content); err != nil {
				return fmt.Errorf("failed to decode review content: %w", err)
			}
			if len(content.Violations) > 0 {
				color.New(color.FgRed).Println("Violations:")
				for _, v := range content.Violations {
					fmt.Printf("  [%s] %q\n", v.Type, v.Pattern)
				}
				fmt.Println()
			}
			fmt.Printf("Critique: %s\n", content.Critique)
			fmt.Println()
			fmt.Println("Current policy:")
			fmt.Printf("  %s\n", content.CurrentText)
			fmt.Println("Candidate policy:")
			fmt.Printf("  %s\n", content.CandidateText)
		case primary.ReviewKindStrategicSample:
			var content primary.StrategicSampleContent
			if err := json.Unmarshal([]byte(review.ContentJSON), &content); err != nil {
				return fmt.Errorf("failed to decode sample content: %w", err)
			}
			fmt.Printf("Score: %.2f\n", content.Score)
			fmt.Printf("Critique: %s\n", content.Critique)
			fmt.Printf("Query: %s\n", content.Query)
			fmt.Printf("Response: %s\n", content.Response)
		default:
			fmt.Println(review.ContentJSON)
		}
		return nil
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve [review-id]",
	Short: "Approve a pending review item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		notes, _ := cmd.Flags().GetString("notes")

		if err := wire.ReviewService().Approve(ctx, args[0], notes); err != nil {
			return fmt.Errorf("failed to approve review: %w", err)
		}

		fmt.Printf("✓ Review %s approved\n", args[0])
		return nil
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject [review-id]",
	Short: "Reject a pending review item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		notes, _ := cmd.Flags().GetString("notes")

		if err := wire.ReviewService().Reject(ctx, args[0], notes); err != nil {
			return fmt.Errorf("failed to reject review: %w", err)
		}

		fmt.Printf("✓ Review %s rejected\n", args[0])
		return nil
	},
}

func statusLabel(status string) string {
	switch status {
	case primary.ReviewStatusPending:
		return color.New(color.FgYellow).Sprint(status)
	case primary.ReviewStatusApproved:
		return color.New(color.FgGreen).Sprint(status)
	case primary.ReviewStatusRejected:
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func init() {
	// review list flags
	reviewListCmd.Flags().StringP("kind", "k", "", "Filter by kind (policy_review, strategic_sample, design_check)")
	reviewListCmd.Flags().StringP("status", "s", "", "Filter by status (pending, approved, rejected)")
	reviewListCmd.Flags().Int("limit", 0, "Maximum items to show")

	// review approve/reject flags
	reviewApproveCmd.Flags().StringP("notes", "n", "", "Reviewer notes")
	reviewRejectCmd.Flags().StringP("notes", "n", "", "Reviewer notes (required)")

	// Register subcommands
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewRejectCmd)
}

// ReviewCmd returns the review command
func ReviewCmd() *cobra.Command {
	return reviewCmd
}
