package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/actions"
)

var verboseMetrics bool

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Collect metrics from all configured sources",
	Long: `Collects metrics from every source in the sources file and writes a fresh
snapshot. The snapshot is replaced atomically; if any source is unavailable
the previous snapshot is kept.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := actions.CollectMetrics(newLogger(verboseMetrics)); err != nil {
			return fmt.Errorf("metrics failed: %w", err)
		}
		return nil
	},
}

func init() {
	metricsCmd.Flags().BoolVarP(&verboseMetrics, "verbose", "v", false, "Enable verbose output")
	rootCmd.AddCommand(metricsCmd)
}
