package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run store not configured")
	}

	runs, err := runStore.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs yet.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %-9s  %-8s  %s\n",
			run.StartedAt.Format("2006-01-02 15:04"), run.Status, run.Template, run.Topic)
		if run.Status == domain.RunAborted && run.Reason != "" {
			cmd.Printf("%19s%s\n", "", run.Reason)
		}
	}
	return nil
}
