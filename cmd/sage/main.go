package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sage/internal/cli"
	"github.com/example/sage/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sage",
		Short:   "sage - feedback-driven learning pipeline",
		Version: version.String(),
		Long: `sage turns interaction telemetry into an evolving policy.
It scores completed tasks, rewrites the policy from critiques, keeps a
safety ledger of corrections and preferences, and routes risky mutations
through a human review queue.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.EventCmd())
	rootCmd.AddCommand(cli.LearnCmd())
	rootCmd.AddCommand(cli.ReviewCmd())
	rootCmd.AddCommand(cli.PolicyCmd())
	rootCmd.AddCommand(cli.CorrectionCmd())
	rootCmd.AddCommand(cli.PrefCmd())
	rootCmd.AddCommand(cli.ContextCmd())
	rootCmd.AddCommand(cli.ObserveCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
