// Package cli implements the hunter command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/hunterworks/hunter-factory/internal/core/ports/driven"
	"github.com/hunterworks/hunter-factory/internal/core/ports/driving"
	"github.com/hunterworks/hunter-factory/internal/core/services"
	"github.com/hunterworks/hunter-factory/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services carries everything the commands need. The bootstrap in
// cmd/hunter wires it before Execute.
type Services struct {
	Run       driving.RunService
	Intel     driving.IntelService
	Registry  *services.Registry
	Scheduler *services.Scheduler
	Runs      driven.RunStore
	Config    driven.ConfigStore
}

var (
	runService      driving.RunService
	intelService    driving.IntelService
	registryService *services.Registry
	scheduler       *services.Scheduler
	runStore        driven.RunStore
	configStore     driven.ConfigStore
)

// SetServices installs the service wiring used by all commands.
func SetServices(s Services) {
	runService = s.Run
	intelService = s.Intel
	registryService = s.Registry
	scheduler = s.Scheduler
	runStore = s.Runs
	configStore = s.Config
}

var rootCmd = &cobra.Command{
	Use:   "hunter",
	Short: "Automated content factory",
	Long: `Hunter collects signals from GitHub, Hacker News, Reddit and RSS
feeds, picks the most promising novel topic, and drives it through a
staged generation pipeline to a published article.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
