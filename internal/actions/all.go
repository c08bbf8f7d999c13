package actions

import (
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
)

// RunAll collects a fresh snapshot and then renders it, holding the run lock
// across both stages so the render always sees the snapshot just collected.
// It aborts on the first failure and never publishes; pushing is a separate,
// deliberately manual entry point.
func RunAll(log logrus.FieldLogger) error {
	return withLock(log, func(cfg *config.Config) error {
		if err := runCollect(log, cfg); err != nil {
			return err
		}

		return runRender(log, cfg)
	})
}
