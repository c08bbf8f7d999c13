// Package publisher stages, commits, and pushes the dashboard artifact to a
// version-controlled repository.
package publisher

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Status describes the outcome of a publish invocation.
type Status string

const (
	// StatusNoOp means the artifact was unchanged and no commit was created.
	StatusNoOp Status = "no-op"
	// StatusPublished means a new commit was created and pushed.
	StatusPublished Status = "published"
)

// Record is the operational result of a publish run.
type Record struct {
	Status Status
	Commit string
}

// Publisher runs the stage-diff-commit-push sequence against a GitClient.
type Publisher struct {
	git     GitClient
	message string
	log     logrus.FieldLogger
}

// New creates a publisher that commits with the given fixed message.
func New(log logrus.FieldLogger, git GitClient, message string) *Publisher {
	return &Publisher{
		git:     git,
		message: message,
		log:     log.WithField("component", "publisher"),
	}
}

// Publish stages the artifact and, if its content differs from the last
// commit, commits and pushes it. When nothing changed the result is a no-op
// and no commit is created. Any failure before the commit step unstages the
// artifact so the working tree is left clean; a push failure after the
// commit keeps the local commit for manual resolution.
func (p *Publisher) Publish(ctx context.Context, artifactPath string) (*Record, error) {
	// Git commands run inside the repository directory, so a relative
	// artifact path would resolve against the repo instead of the file the
	// renderer just wrote. Anchor it to the current working directory.
	artifactPath, err := filepath.Abs(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact path: %w", err)
	}

	p.log.WithField("artifact", artifactPath).Info("publishing dashboard")

	if err := p.git.Stage(ctx, artifactPath); err != nil {
		return nil, fmt.Errorf("staging artifact: %w", err)
	}

	changed, err := p.git.HasStagedChanges(ctx, artifactPath)
	if err != nil {
		p.unstage(ctx, artifactPath)
		return nil, fmt.Errorf("diffing staged artifact: %w", err)
	}

	if !changed {
		p.unstage(ctx, artifactPath)
		p.log.Info("artifact unchanged, nothing to publish")

		return &Record{Status: StatusNoOp}, nil
	}

	if err := p.git.Commit(ctx, p.message); err != nil {
		p.unstage(ctx, artifactPath)
		return nil, fmt.Errorf("committing artifact: %w", err)
	}

	// From here on the commit exists; it is intentionally not rolled back
	// on push failure so the operator can resolve and retry.
	if err := p.git.Push(ctx); err != nil {
		return nil, fmt.Errorf("pushing commit: %w", err)
	}

	head, err := p.git.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving pushed commit: %w", err)
	}

	p.log.WithField("commit", head).Info("dashboard published")

	return &Record{Status: StatusPublished, Commit: head}, nil
}

// unstage restores a clean tree after a pre-commit failure.
func (p *Publisher) unstage(ctx context.Context, artifactPath string) {
	if err := p.git.Unstage(ctx, artifactPath); err != nil {
		p.log.WithError(err).Warn("failed to unstage artifact, working tree may be dirty")
	}
}
