package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available content templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("template registry not configured")
	}

	templates := registryService.List()
	if len(templates) == 0 {
		cmd.Println("No templates configured.")
		return nil
	}

	cmd.Println("Templates:")
	cmd.Println()
	for _, tmpl := range templates {
		cmd.Printf("  %-10s %s\n", tmpl.Name, tmpl.Description)
		cmd.Printf("  %-10s sources: %s\n", "", strings.Join(tmpl.Sources, ", "))
		if len(tmpl.RequiredConfigKeys) > 0 {
			cmd.Printf("  %-10s requires: %s\n", "", strings.Join(tmpl.RequiredConfigKeys, ", "))
		}
		cmd.Println()
	}
	return nil
}
