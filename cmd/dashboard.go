package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/actions"
)

var verboseDashboard bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the dashboard from the current snapshot",
	Long: `Renders the latest successfully collected snapshot through the HTML template
and replaces the dashboard artifact atomically. Rendering is deterministic:
the same snapshot always produces byte-identical output.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := actions.RenderDashboard(newLogger(verboseDashboard)); err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().BoolVarP(&verboseDashboard, "verbose", "v", false, "Enable verbose output")
	rootCmd.AddCommand(dashboardCmd)
}
