package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/actions"
)

var verboseAll bool

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Collect metrics and render the dashboard",
	Long: `Runs the collect and render stages in sequence, so the dashboard always
reflects the snapshot just collected. Aborts on the first failure. Publishing
is not part of this sequence; use the push command separately.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := actions.RunAll(newLogger(verboseAll)); err != nil {
			return fmt.Errorf("all failed: %w", err)
		}
		return nil
	},
}

func init() {
	allCmd.Flags().BoolVarP(&verboseAll, "verbose", "v", false, "Enable verbose output")
	rootCmd.AddCommand(allCmd)
}
