// Package storage persists the last good weather snapshot so a restart
// can paint real data before the first fetch completes.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dannybellieveit/weather-display/internal/weather"
)

const snapshotFile = "last_snapshot.json"

// SnapshotStore keeps exactly one snapshot in a JSON file. It is not
// safe for concurrent use; the scheduler goroutine is its only caller.
type SnapshotStore struct {
	filePath string
	maxAge   time.Duration
}

// NewSnapshotStore creates the data directory if needed. maxAge bounds
// how old a stored snapshot may be before Load discards it; zero means
// never discard.
func NewSnapshotStore(dataDir string, maxAge time.Duration) (*SnapshotStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &SnapshotStore{
		filePath: filepath.Join(dataDir, snapshotFile),
		maxAge:   maxAge,
	}, nil
}

// Save replaces the stored snapshot. The write goes through a temp file
// and rename so a power cut cannot leave a torn file behind.
func (s *SnapshotStore) Save(snap *weather.Snapshot) error {
	tmp := s.filePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when there is none or the
// stored one has aged out.
func (s *SnapshotStore) Load() (*weather.Snapshot, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var snap weather.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.maxAge > 0 && time.Since(snap.FetchedAt) > s.maxAge {
		return nil, nil
	}
	return &snap, nil
}
