package actions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/publisher"
)

// Publish stages, commits, and pushes the current dashboard artifact. An
// unchanged artifact results in a no-op with no new commit.
func Publish(log logrus.FieldLogger) (*publisher.Record, error) {
	var record *publisher.Record

	err := withLock(log, func(cfg *config.Config) error {
		git := publisher.NewGitClient(log, cfg.RepoDir, cfg.Remote, cfg.Branch, cfg.PushTimeout)
		p := publisher.New(log, git, cfg.CommitMessage)

		fmt.Printf("🚀 Publishing %s to %s/%s...\n", cfg.ArtifactPath, cfg.Remote, cfg.Branch)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.PushTimeout)
		defer cancel()

		rec, err := p.Publish(ctx, cfg.ArtifactPath)
		if err != nil {
			return stageErr("publishing dashboard", err)
		}

		record = rec

		switch rec.Status {
		case publisher.StatusNoOp:
			fmt.Println("✅ Nothing to publish, artifact unchanged")
		case publisher.StatusPublished:
			fmt.Printf("✅ Published commit %s\n", rec.Commit)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}
