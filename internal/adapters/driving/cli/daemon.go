package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run on a schedule until interrupted",
	Long: `Runs the configured templates on a fixed interval and prunes the
novelty store periodically. Stops cleanly on SIGINT or SIGTERM.

Intervals come from configuration:
  scheduler.templates        templates to cycle (defaults to "auto")
  scheduler.interval_hours   hours between run cycles (default 6)
  scheduler.prune_hours      hours between novelty prunes (default 24)`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler started. Press Ctrl+C to stop.")
	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}
