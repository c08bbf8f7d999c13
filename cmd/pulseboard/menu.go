package main

import (
	"errors"
	"fmt"

	"github.com/pulseboard/pulseboard/cmd"
	"github.com/pulseboard/pulseboard/internal/actions"
	"github.com/pulseboard/pulseboard/internal/interactive"
)

func runInteractive() {
	fmt.Println("Pulseboard - Interactive Mode")
	fmt.Println("=============================")
	fmt.Println()

	options := []interactive.Option{
		{
			Label:  "📡 Refresh Metrics",
			Detail: "Collect metrics from all configured sources",
			Run: func() error {
				if err := actions.CollectMetrics(cmd.Logger); err != nil {
					fmt.Printf("\n❌ Error: %v\n", err)
				}
				interactive.PauseForEnter()
				return nil
			},
		},
		{
			Label:  "📄 Render Dashboard",
			Detail: "Render the dashboard from the current snapshot",
			Run: func() error {
				if err := actions.RenderDashboard(cmd.Logger); err != nil {
					fmt.Printf("\n❌ Error: %v\n", err)
				}
				interactive.PauseForEnter()
				return nil
			},
		},
		{
			Label:  "🔄 Run Pipeline",
			Detail: "Collect metrics and render the dashboard",
			Run: func() error {
				if err := actions.RunAll(cmd.Logger); err != nil {
					fmt.Printf("\n❌ Error: %v\n", err)
				}
				interactive.PauseForEnter()
				return nil
			},
		},
		{
			Label:  "🚀 Publish",
			Detail: "Commit and push the dashboard artifact",
			Run: func() error {
				if !interactive.Confirm("Push the dashboard to the configured remote?") {
					fmt.Println("Push canceled.")
					interactive.PauseForEnter()
					return nil
				}

				if _, err := actions.Publish(cmd.Logger); err != nil {
					fmt.Printf("\n❌ Error: %v\n", err)
				}
				interactive.PauseForEnter()
				return nil
			},
		},
		{
			Label:  "📋 Show Config",
			Detail: "Display current environment configuration",
			Run: func() error {
				if err := actions.ShowConfig(); err != nil {
					fmt.Printf("\n❌ Error: %v\n", err)
				}
				interactive.PauseForEnter()
				return nil
			},
		},
	}

	for {
		if err := interactive.Run(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			fmt.Printf("\n❌ Error: %v\n", err)
		}

		fmt.Println()
	}
}
