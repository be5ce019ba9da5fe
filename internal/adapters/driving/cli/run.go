package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run [template]",
	Short: "Execute one content run",
	Long: `Collects intelligence from the template's sources, admits the best
novel topic, and drives it through the generation pipeline.

With --dry-run the pipeline stops after packaging: nothing is written
to the output store, no notification is pushed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "stop after packaging, skip delivery")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	result, err := runService.Run(cmd.Context(), args[0], runDryRun)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateContent) {
			cmd.Println("Nothing novel: every candidate was too similar to a prior topic.")
			return nil
		}
		return fmt.Errorf("run failed: %w", err)
	}

	printRunResult(cmd, result)
	return nil
}

func printRunResult(cmd *cobra.Command, result *domain.RunResult) {
	cmd.Printf("Run %s %s\n", result.Run.ID, result.Run.Status)
	cmd.Printf("  Template: %s\n", result.Run.Template)
	cmd.Printf("  Topic:    %s\n", result.Run.Topic)
	cmd.Printf("  Stages:   %d artifacts\n", len(result.Artifacts))

	if result.Delivery == nil {
		cmd.Println("  Delivery: skipped (dry run)")
		return
	}
	if result.Delivery.Persisted {
		cmd.Printf("  Article:  %s\n", result.Delivery.Location)
	}
	switch {
	case result.Delivery.Pushed:
		cmd.Println("  Push:     delivered")
	case result.Delivery.Reason != "":
		cmd.Printf("  Push:     %s\n", result.Delivery.Reason)
	}
}
