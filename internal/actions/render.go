package actions

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/renderer"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

// RenderDashboard renders the latest successfully collected snapshot into
// the dashboard artifact. The previous artifact is left untouched on failure.
func RenderDashboard(log logrus.FieldLogger) error {
	return withLock(log, func(cfg *config.Config) error {
		return runRender(log, cfg)
	})
}

// runRender is the render stage without locking, shared with RunAll.
func runRender(log logrus.FieldLogger, cfg *config.Config) error {
	snap, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return stageErr("rendering dashboard", err)
	}

	r := renderer.New(log, cfg.TemplatePath, cfg.ArtifactPath)
	if err := r.Render(snap); err != nil {
		return stageErr("rendering dashboard", err)
	}

	fmt.Printf("✅ Dashboard written to %s\n", cfg.ArtifactPath)

	return nil
}
