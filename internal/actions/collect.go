package actions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/collector"
	"github.com/pulseboard/pulseboard/internal/config"
)

// CollectMetrics gathers all configured metric sources and writes a fresh
// snapshot. The prior snapshot is left untouched on failure.
func CollectMetrics(log logrus.FieldLogger) error {
	return withLock(log, func(cfg *config.Config) error {
		return runCollect(log, cfg)
	})
}

// runCollect is the collect stage without locking, shared with RunAll.
func runCollect(log logrus.FieldLogger, cfg *config.Config) error {
	defs, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		return stageErr("collecting metrics", err)
	}

	c, err := collector.New(log, cfg, defs)
	if err != nil {
		return stageErr("collecting metrics", err)
	}

	fmt.Printf("📡 Collecting metrics from %d sources...\n", len(defs.Sources))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CollectTimeout)
	defer cancel()

	snap, err := c.Collect(ctx)
	if err != nil {
		return stageErr("collecting metrics", err)
	}

	fmt.Printf("✅ Snapshot written to %s (%d groups)\n", cfg.SnapshotPath, len(snap.Groups))

	return nil
}
