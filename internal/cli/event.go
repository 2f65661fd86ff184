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

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage telemetry events",
	Long:  "Append to and inspect the append-only telemetry event log",
}

var eventAppendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append a telemetry event",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		eventType, _ := cmd.Flags().GetString("type")
		query, _ := cmd.Flags().GetString("query")
		response, _ := cmd.Flags().GetString("response")
		success, _ := cmd.Flags().GetString("success")
		feedback, _ := cmd.Flags().GetString("feedback")
		userID, _ := cmd.Flags().GetString("user")
		conversationID, _ := cmd.Flags().GetString("conversation")
		turn, _ := cmd.Flags().GetInt("turn")
		intent, _ := cmd.Flags().GetString("intent")
		signalType, _ := cmd.Flags().GetString("signal-type")
		signalContext, _ := cmd.Flags().GetString("signal-context")
		metadata, _ := cmd.Flags().GetString("metadata")

		if eventType == "" {
			return fmt.Errorf("must specify --type")
		}

		policy, err := wire.PolicyService().GetPolicy(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve policy version: %w", err)
		}

		event, err := wire.EventService().AppendEvent(ctx, primary.AppendEventRequest{
			EventType:      eventType,
			Query:          query,
			AgentResponse:  response,
			Success:        success,
			UserFeedback:   feedback,
			PolicyVersion:  policy.Version,
			MetadataJSON:   metadata,
			SignalType:     signalType,
			SignalContext:  signalContext,
			ConversationID: conversationID,
			TurnNumber:     turn,
			IntentType:     intent,
			UserID:         userID,
		})
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}

		fmt.Printf("✓ Appended event #%d (%s) at %s\n", event.Seq, event.EventType, event.Timestamp)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List telemetry events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		since, _ := cmd.Flags().GetString("since")

		events, err := wire.EventService().ListEvents(ctx, primary.EventFilters{Since: since})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEQ\tTYPE\tTIMESTAMP\tUSER\tQUERY")
		fmt.Fprintln(w, "---\t----\t---------\t----\t-----")
		for _, e := range events {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				e.Seq, e.EventType, e.Timestamp, orDash(e.UserID), truncate(e.Query, 48))
		}
		w.Flush()
		return nil
	},
}

func init() {
	// event append flags
	eventAppendCmd.Flags().StringP("type", "t", "", "Event type (task_start, task_complete, signal_undo, signal_abandonment, signal_acceptance)")
	eventAppendCmd.Flags().StringP("query", "q", "", "User query")
	eventAppendCmd.Flags().StringP("response", "r", "", "Agent response")
	eventAppendCmd.Flags().String("success", "", "Success flag (true|false)")
	eventAppendCmd.Flags().String("feedback", "", "Explicit user feedback")
	eventAppendCmd.Flags().StringP("user", "u", "", "User ID")
	eventAppendCmd.Flags().String("conversation", "", "Conversation ID")
	eventAppendCmd.Flags().Int("turn", 0, "Turn number within the conversation")
	eventAppendCmd.Flags().String("intent", "", "Intent type")
	eventAppendCmd.Flags().String("signal-type", "", "Signal type for signal_* events")
	eventAppendCmd.Flags().String("signal-context", "", "Signal context for signal_* events")
	eventAppendCmd.Flags().String("metadata", "", "Extra metadata as JSON")

	// event list flags
	eventListCmd.Flags().String("since", "", "Only events strictly after this RFC3339 timestamp")

	// Register subcommands
	eventCmd.AddCommand(eventAppendCmd)
	eventCmd.AddCommand(eventListCmd)
}

// EventCmd returns the event command
func EventCmd() *cobra.Command {
	return eventCmd
}
