package actions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/runlock"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stderr)

	return log
}

const testTemplate = `<html>
<p>Updated {{ .Month }}</p>
<p>confirmed: {{ comma (index .Metrics.Groups "planets" "confirmed_count") }}</p>
</html>
`

// setupPipelineEnv points the pipeline at files inside a temp dir and a
// metric source backed by the given URL. Returns the artifact path.
func setupPipelineEnv(t *testing.T, sourceURL string) string {
	t.Helper()

	dir := t.TempDir()

	sourcesPath := filepath.Join(dir, "sources.yaml")
	sources := fmt.Sprintf(`
description: "test metrics"
sources:
  - name: planets
    type: http_csv
    metrics:
      confirmed_count: %q
`, sourceURL)
	require.NoError(t, os.WriteFile(sourcesPath, []byte(sources), 0o644))

	templatePath := filepath.Join(dir, "dashboard-template.html")
	require.NoError(t, os.WriteFile(templatePath, []byte(testTemplate), 0o644))

	artifactPath := filepath.Join(dir, "index.html")

	t.Setenv("PULSEBOARD_SOURCES", sourcesPath)
	t.Setenv("PULSEBOARD_TEMPLATE", templatePath)
	t.Setenv("PULSEBOARD_ARTIFACT", artifactPath)
	t.Setenv("PULSEBOARD_SNAPSHOT", filepath.Join(dir, "metrics.json"))
	t.Setenv("PULSEBOARD_LOCK_FILE", filepath.Join(dir, "pipeline.lock"))

	return artifactPath
}

func TestRunAllCollectsThenRenders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("count(*)\n2328\n"))
	}))
	defer server.Close()

	artifactPath := setupPipelineEnv(t, server.URL)

	require.NoError(t, RunAll(newTestLogger()))

	// The artifact must reflect the snapshot collected in the same run.
	snap, err := snapshot.Load(os.Getenv("PULSEBOARD_SNAPSHOT"))
	require.NoError(t, err)
	assert.Equal(t, 2328.0, snap.Groups["planets"]["confirmed_count"])

	artifact, err := os.ReadFile(artifactPath)
	require.NoError(t, err)
	assert.Contains(t, string(artifact), "confirmed: 2,328")
	assert.Contains(t, string(artifact), snap.CollectedAt.Format("January 2006"))

	// The run lock must be released after the run.
	_, statErr := os.Stat(os.Getenv("PULSEBOARD_LOCK_FILE"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunAllAbortsWhenCollectFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	artifactPath := setupPipelineEnv(t, server.URL)
	server.Close()

	err := RunAll(newTestLogger())
	require.Error(t, err)

	_, statErr := os.Stat(artifactPath)
	assert.True(t, os.IsNotExist(statErr), "render must not run after a failed collect")
}

func TestCollectMetricsRefusedWhileLocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("count(*)\n1\n"))
	}))
	defer server.Close()

	setupPipelineEnv(t, server.URL)

	lock, err := runlock.Acquire(os.Getenv("PULSEBOARD_LOCK_FILE"))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, lock.Release())
	}()

	err = CollectMetrics(newTestLogger())
	assert.ErrorIs(t, err, runlock.ErrLocked)
}

func TestStageErr(t *testing.T) {
	assert.NoError(t, stageErr("collecting metrics", nil))

	plain := stageErr("collecting metrics", errors.New("boom"))
	require.Error(t, plain)
	assert.NotErrorIs(t, plain, ErrTimeout)
	assert.Contains(t, plain.Error(), "collecting metrics")

	timeout := stageErr("pushing", fmt.Errorf("git push: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, timeout, ErrTimeout)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
}
