package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/wire"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run the background signal observer",
	Long:  "Consume implicit-feedback signals, learn recurring patterns, and feed the event log",
}

var observeRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll for pushed signals until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wire.Config().Capabilities.SignalObserver {
			return fmt.Errorf("signal observer is disabled in .sage/config.json")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println("Signal observer running (Ctrl-C to stop)...")
		err := wire.SignalObserver().Run(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Println("Stopped.")
			return nil
		}
		return err
	},
}

var observePushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a signal and process it immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		signalType, _ := cmd.Flags().GetString("type")
		signalContext, _ := cmd.Flags().GetString("context")
		query, _ := cmd.Flags().GetString("query")
		userID, _ := cmd.Flags().GetString("user")

		if signalType == "" {
			return fmt.Errorf("must specify --type")
		}

		policy, err := wire.PolicyService().GetPolicy(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve policy version: %w", err)
		}

		observer := wire.SignalObserver()
		if err := observer.Push(primary.PushedSignal{
			SignalType:    signalType,
			SignalContext: signalContext,
			Query:         query,
			UserID:        userID,
			PolicyVersion: policy.Version,
		}); err != nil {
			return err
		}

		processed, err := observer.ProcessPending(ctx)
		if err != nil {
			return fmt.Errorf("failed to process signal: %w", err)
		}

		fmt.Printf("✓ Recorded %d signal(s)\n", processed)
		return nil
	},
}

var observePatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List observed signal patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		patterns, err := wire.SignalObserver().Patterns(ctx)
		if err != nil {
			return fmt.Errorf("failed to list patterns: %w", err)
		}

		if len(patterns) == 0 {
			fmt.Println("No signal patterns observed.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCONTEXT\tCOUNT\tLAST SEEN")
		fmt.Fprintln(w, "----\t-------\t-----\t---------")
		for _, p := range patterns {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				p.SignalType, orDash(p.SignalContext), p.OccurrenceCount, p.LastSeen)
		}
		w.Flush()
		return nil
	},
}

func init() {
	// observe push flags
	observePushCmd.Flags().StringP("type", "t", "", "Signal type (signal_undo, signal_abandonment, signal_acceptance)")
	observePushCmd.Flags().StringP("context", "c", "", "Signal context")
	observePushCmd.Flags().StringP("query", "q", "", "Query the signal relates to")
	observePushCmd.Flags().StringP("user", "u", "", "User ID")

	// Register subcommands
	observeCmd.AddCommand(observeRunCmd)
	observeCmd.AddCommand(observePushCmd)
	observeCmd.AddCommand(observePatternsCmd)
}

// ObserveCmd returns the observe command
func ObserveCmd() *cobra.Command {
	return observeCmd
}
