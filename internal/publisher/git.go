package publisher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrPushConflict is returned when the remote has diverged and the push
	// is rejected. The local commit is kept for manual resolution.
	ErrPushConflict = errors.New("push rejected: remote has diverged")
	// ErrPushAuth is returned when the remote refuses the push for
	// credential or permission reasons.
	ErrPushAuth = errors.New("push rejected: authentication or permission failure")
)

const commandTimeout = 2 * time.Minute

// GitClient is the version-control surface the publisher needs.
type GitClient interface {
	Stage(ctx context.Context, path string) error
	Unstage(ctx context.Context, path string) error
	HasStagedChanges(ctx context.Context, path string) (bool, error)
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
	Head(ctx context.Context) (string, error)
}

type gitClient struct {
	repoDir     string
	remote      string
	branch      string
	pushTimeout time.Duration
	log         logrus.FieldLogger
}

// NewGitClient creates a GitClient backed by the git binary, operating on
// the working tree at repoDir.
func NewGitClient(log logrus.FieldLogger, repoDir, remote, branch string, pushTimeout time.Duration) GitClient {
	return &gitClient{
		repoDir:     repoDir,
		remote:      remote,
		branch:      branch,
		pushTimeout: pushTimeout,
		log:         log.WithField("component", "git_client"),
	}
}

// Stage adds the file to the index.
func (g *gitClient) Stage(ctx context.Context, path string) error {
	if _, err := g.execGit(ctx, commandTimeout, "add", "--", path); err != nil {
		return fmt.Errorf("executing git add: %w", err)
	}

	return nil
}

// Unstage removes the file from the index, restoring a clean tree.
func (g *gitClient) Unstage(ctx context.Context, path string) error {
	if _, err := g.execGit(ctx, commandTimeout, "reset", "--quiet", "HEAD", "--", path); err != nil {
		return fmt.Errorf("executing git reset: %w", err)
	}

	return nil
}

// HasStagedChanges reports whether the staged content of path differs from
// the last commit.
func (g *gitClient) HasStagedChanges(ctx context.Context, path string) (bool, error) {
	// diff --cached --quiet exits 1 when the index differs from HEAD
	_, err := g.execGit(ctx, commandTimeout, "diff", "--cached", "--quiet", "--", path)
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}

	return false, fmt.Errorf("executing git diff: %w", err)
}

// Commit records the staged changes with the given message.
func (g *gitClient) Commit(ctx context.Context, message string) error {
	if _, err := g.execGit(ctx, commandTimeout, "commit", "-m", message); err != nil {
		return fmt.Errorf("executing git commit: %w", err)
	}

	return nil
}

// Push sends the current branch to the configured remote. Rejections are
// classified into conflict and auth failures from git's stderr.
func (g *gitClient) Push(ctx context.Context) error {
	output, err := g.execGit(ctx, g.pushTimeout, "push", g.remote, g.branch)
	if err == nil {
		return nil
	}

	if kind := classifyPushFailure(output); kind != nil {
		return fmt.Errorf("%w: %s", kind, strings.TrimSpace(output))
	}

	return fmt.Errorf("executing git push: %w", err)
}

// Head returns the commit hash the branch currently points at.
func (g *gitClient) Head(ctx context.Context) (string, error) {
	output, err := g.execGit(ctx, commandTimeout, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("executing git rev-parse: %w", err)
	}

	return strings.TrimSpace(output), nil
}

// classifyPushFailure maps well-known git push output to the error taxonomy.
func classifyPushFailure(output string) error {
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "non-fast-forward"),
		strings.Contains(lower, "fetch first"),
		strings.Contains(lower, "[rejected]"):
		return ErrPushConflict
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "403"):
		return ErrPushAuth
	default:
		return nil
	}
}

// execGit runs a git command in the repository directory and returns its
// combined output. The original exec error is wrapped so callers can inspect
// the exit code.
func (g *gitClient) execGit(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "git", args...)
	cmd.Dir = g.repoDir

	g.log.WithField("command", cmd.String()).Debug("executing git command")

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return string(output), fmt.Errorf("git %s: %w", args[0], ctxErr)
		}

		return string(output), fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, string(output))
	}

	return string(output), nil
}
