package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunterworks/hunter-factory/internal/core/domain"
)

var (
	topicsLimit int
	topicsJSON  bool
)

var topicsCmd = &cobra.Command{
	Use:   "topics [template]",
	Short: "Preview candidate topics",
	Long: `Collects and scores signals from the template's sources without
starting a run. The novelty store is not consulted and nothing is
recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().IntVarP(&topicsLimit, "limit", "n", 10, "maximum number of candidates")
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "output candidates as JSON")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	if intelService == nil {
		return errors.New("intel service not configured")
	}

	candidates, err := intelService.Preview(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	if topicsLimit > 0 && len(candidates) > topicsLimit {
		candidates = candidates[:topicsLimit]
	}

	if topicsJSON {
		return outputTopicsJSON(cmd, candidates)
	}
	return outputTopicsTable(cmd, candidates)
}

func outputTopicsJSON(cmd *cobra.Command, candidates []domain.CandidateTopic) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputTopicsTable(cmd *cobra.Command, candidates []domain.CandidateTopic) error {
	if len(candidates) == 0 {
		cmd.Println("No candidates found.")
		return nil
	}

	cmd.Println("Candidates:")
	cmd.Println()
	for i, c := range candidates {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, c.Text, c.Score)
		for _, item := range c.Supporting {
			cmd.Printf("      %s: %s\n", item.Source, item.URL)
		}
		cmd.Println()
	}
	return nil
}
