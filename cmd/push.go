package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/actions"
	"github.com/pulseboard/pulseboard/internal/interactive"
)

var (
	verbosePush bool
	yesPush     bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Commit and push the dashboard artifact",
	Long: `Stages the dashboard artifact and, if it changed since the last commit,
commits and pushes it to the configured remote. An unchanged artifact is a
no-op and creates no commit. A rejected push leaves the local commit in
place for manual resolution.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !yesPush {
			if !interactive.Confirm("Push the dashboard to the configured remote?") {
				fmt.Println("Push canceled.")
				return nil
			}
		}

		if _, err := actions.Publish(newLogger(verbosePush)); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		return nil
	},
}

func init() {
	pushCmd.Flags().BoolVarP(&verbosePush, "verbose", "v", false, "Enable verbose output")
	pushCmd.Flags().BoolVarP(&yesPush, "yes", "y", false, "Skip confirmation and push")
	rootCmd.AddCommand(pushCmd)
}
