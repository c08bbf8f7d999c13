// Package snapshot defines the on-disk metrics snapshot and its encoding.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pulseboard/pulseboard/internal/atomicfile"
)

// ErrInvalid is returned when a snapshot fails validation.
var ErrInvalid = errors.New("invalid snapshot")

// Group is a set of related metric values keyed by metric name.
type Group map[string]float64

// Snapshot is a point-in-time record of collected metric values. Encoding is
// JSON with sorted keys, so identical content always produces identical bytes.
type Snapshot struct {
	Description string           `json:"description"`
	CollectedAt time.Time        `json:"collected_at"`
	Groups      map[string]Group `json:"groups"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalid, path, err)
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	return &snap, nil
}

// Write encodes the snapshot and writes it atomically. The previous snapshot
// remains intact if encoding or the write fails.
func (s *Snapshot) Write(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	return nil
}

// Validate checks the snapshot is well formed enough to render.
func (s *Snapshot) Validate() error {
	if s.CollectedAt.IsZero() {
		return fmt.Errorf("%w: collected_at is not set", ErrInvalid)
	}

	if len(s.Groups) == 0 {
		return fmt.Errorf("%w: no metric groups", ErrInvalid)
	}

	for groupName, group := range s.Groups {
		if groupName == "" {
			return fmt.Errorf("%w: empty group name", ErrInvalid)
		}

		for name, value := range group {
			if name == "" {
				return fmt.Errorf("%w: empty metric name in group %s", ErrInvalid, groupName)
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("%w: metric %s.%s is not finite", ErrInvalid, groupName, name)
			}
		}
	}

	return nil
}
