// Package actions contains the core pipeline operations behind the CLI
// commands: collect, render, publish, and the combined run.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/runlock"
)

// ErrTimeout is returned when a stage exceeds its bounded I/O timeout.
var ErrTimeout = errors.New("operation timed out")

// stageErr wraps a stage failure with the stage name, surfacing timeouts
// distinctly so an operator can tell a hang from a source failure.
func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", stage, ErrTimeout, err)
	}

	return fmt.Errorf("%s: %w", stage, err)
}

// withLock loads the configuration, holds the run lock for the duration of
// fn, and releases it afterwards. Every entry point goes through here so two
// pipeline runs can never interleave on the same files or working tree.
func withLock(log logrus.FieldLogger, fn func(cfg *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lock, err := runlock.Acquire(cfg.LockFile)
	if err != nil {
		return err
	}

	defer func() {
		if err := lock.Release(); err != nil {
			log.WithError(err).Warn("failed to release run lock")
		}
	}()

	return fn(cfg)
}

// ShowConfig displays the current configuration.
func ShowConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(cfg.String())

	return nil
}
