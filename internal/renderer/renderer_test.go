package renderer

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/snapshot"
)

const testTemplate = `<html>
<p>Updated {{ .Month }}</p>
{{ range $group, $metrics := .Metrics.Groups }}
<h2>{{ $group }}</h2>
{{ range $name, $value := $metrics }}
<p>{{ $name }}: {{ comma $value }}</p>
{{ end }}
{{ end }}
</html>
`

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stderr)

	return log
}

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "dashboard-template.html")
	require.NoError(t, os.WriteFile(path, []byte(testTemplate), 0o644))

	return path
}

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Description: "test metrics",
		CollectedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Groups: map[string]snapshot.Group{
			"system": {"cpu": 10},
		},
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "index.html")

	r := New(newTestLogger(), writeTemplate(t, dir), artifact)
	require.NoError(t, r.Render(testSnapshot()))

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)

	assert.Contains(t, string(data), "cpu: 10")
	assert.Contains(t, string(data), "Updated August 2026")
}

func TestRenderDeterministic(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "index.html")

	r := New(newTestLogger(), writeTemplate(t, dir), artifact)

	require.NoError(t, r.Render(testSnapshot()))
	first, err := os.ReadFile(artifact)
	require.NoError(t, err)

	require.NoError(t, r.Render(testSnapshot()))
	second, err := os.ReadFile(artifact)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot must render to identical bytes")
}

func TestRenderInvalidSnapshotKeepsArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(artifact, []byte("previous"), 0o644))

	r := New(newTestLogger(), writeTemplate(t, dir), artifact)

	bad := testSnapshot()
	bad.CollectedAt = time.Time{}

	err := r.Render(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, snapshot.ErrInvalid)

	data, readErr := os.ReadFile(artifact)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data), "failed render must not touch the previous artifact")
}

func TestRenderMissingTemplate(t *testing.T) {
	dir := t.TempDir()

	r := New(newTestLogger(), filepath.Join(dir, "nope.html"), filepath.Join(dir, "index.html"))

	err := r.Render(testSnapshot())
	assert.ErrorIs(t, err, ErrRender)
}

func TestCommaFormat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "zero", value: 0, want: "0"},
		{name: "under a thousand", value: 999, want: "999"},
		{name: "thousands", value: 2328, want: "2,328"},
		{name: "millions", value: 1234567, want: "1,234,567"},
		{name: "negative", value: -1234, want: "-1,234"},
		{name: "fractional", value: 10.5, want: "10.5"},
		{name: "beyond int64", value: 1e19, want: "10000000000000000000"},
		{name: "negative beyond int64", value: -1e19, want: "-10000000000000000000"},
		{name: "NaN", value: math.NaN(), want: "NaN"},
		{name: "positive infinity", value: math.Inf(1), want: "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commaFormat(tt.value))
		})
	}
}
