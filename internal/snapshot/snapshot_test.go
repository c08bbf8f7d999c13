package snapshot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Description: "test metrics",
		CollectedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Groups: map[string]Group{
			"system": {"cpu": 10, "memory": 42.5},
			"social": {"followers_count": 41000},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	snap := validSnapshot()
	require.NoError(t, snap.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, snap.Description, loaded.Description)
	assert.True(t, snap.CollectedAt.Equal(loaded.CollectedAt))
	assert.Equal(t, snap.Groups, loaded.Groups)
}

func TestSnapshotWriteDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	snap := validSnapshot()
	require.NoError(t, snap.Write(first))
	require.NoError(t, snap.Write(second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical snapshots must encode to identical bytes")
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{
			name:   "zero collection time",
			mutate: func(s *Snapshot) { s.CollectedAt = time.Time{} },
		},
		{
			name:   "no groups",
			mutate: func(s *Snapshot) { s.Groups = nil },
		},
		{
			name:   "empty group name",
			mutate: func(s *Snapshot) { s.Groups[""] = Group{"x": 1} },
		},
		{
			name:   "empty metric name",
			mutate: func(s *Snapshot) { s.Groups["system"][""] = 1 },
		},
		{
			name:   "NaN value",
			mutate: func(s *Snapshot) { s.Groups["system"]["cpu"] = math.NaN() },
		},
		{
			name:   "infinite value",
			mutate: func(s *Snapshot) { s.Groups["system"]["cpu"] = math.Inf(1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(snap)

			err := snap.Validate()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestSnapshotWriteInvalidKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	require.NoError(t, validSnapshot().Write(path))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := validSnapshot()
	bad.Groups = nil
	require.Error(t, bad.Write(path))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed write must not touch the existing snapshot")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
