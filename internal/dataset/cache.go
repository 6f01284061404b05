package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"superstore-dashboard/internal/models"
)

const snapshotVersion = "v2"

// snapshot is the gob-encoded result of a successful parse. It is reused
// only while the source file keeps the same modification time.
type snapshot struct {
	Version       string
	SourceModTime time.Time
	Skipped       int
	Records       []models.SalesRecord
}

func (s *snapshot) validFor(info os.FileInfo, strict bool) bool {
	if s.Version != snapshotVersion || len(s.Records) == 0 {
		return false
	}
	if !s.SourceModTime.Equal(info.ModTime()) {
		return false
	}
	// a strict load must fail on the rows a lenient load skipped
	return !strict || s.Skipped == 0
}

func snapshotFilename(cacheDir, csvPath string) string {
	abs, err := filepath.Abs(csvPath)
	if err != nil {
		abs = csvPath
	}
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(abs)
	return filepath.Join(cacheDir, fmt.Sprintf("%s_%s.gob", name, snapshotVersion))
}

func saveSnapshot(cacheDir, csvPath string, snap *snapshot) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(cacheDir, "snapshot-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), snapshotFilename(cacheDir, csvPath))
}

func loadSnapshot(cacheDir, csvPath string) (*snapshot, error) {
	file, err := os.Open(snapshotFilename(cacheDir, csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
