// Package buildcache persists the previous build's resolved output records
// so a rebuild can diff old vs. new notUsedAfter values. Snapshots are
// zstd-compressed and written with an atomic tmp-then-rename so a crash
// mid-write never leaves a corrupt file in place.
package buildcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"tzcore/internal/country"
	"tzcore/internal/tzdata"
)

// Snapshot is the persisted shape: one OutputRecord per country, keyed by
// iso code, plus the iana version it was built from.
type Snapshot struct {
	IanaVersion string                          `json:"ianaVersion"`
	Countries   map[string]*country.OutputRecord `json:"countries"`
}

// FileManager reads and writes Snapshots to a single zstd-compressed file.
type FileManager struct {
	path string
}

// NewFileManager returns a FileManager rooted at dir/snapshot.json.zst.
func NewFileManager(dir string) *FileManager {
	return &FileManager{path: filepath.Join(dir, "snapshot.json.zst")}
}

// Load reads the previous snapshot, or (nil, nil) if none exists yet.
func (f *FileManager) Load() (*Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", f.path, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	decoded, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot %s: %w", f.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(decoded, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", f.path, err)
	}
	return &snap, nil
}

// Save writes snap, compressing it and swapping it into place atomically.
func (f *FileManager) Save(snap *Snapshot) error {
	encoded, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	compressed := enc.EncodeAll(encoded, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp snapshot into place: %w", err)
	}
	return nil
}

// Diff reports the countries whose notUsedAfter set changed between prev
// and the newly-resolved records, one line per changed zone.
func Diff(prev *Snapshot, current map[string]*country.OutputRecord) []string {
	if prev == nil {
		return nil
	}
	var changes []string
	for iso, rec := range current {
		old, ok := prev.Countries[iso]
		if !ok {
			continue
		}
		oldByZone := make(map[string]*country.OutputZone, len(old.Zones))
		for i := range old.Zones {
			oldByZone[string(old.Zones[i].ZoneId)] = &old.Zones[i]
		}
		for i := range rec.Zones {
			z := &rec.Zones[i]
			prevZ, ok := oldByZone[string(z.ZoneId)]
			if !ok {
				continue
			}
			if notAfterChanged(prevZ.NotUsedAfter, z.NotUsedAfter) {
				changes = append(changes, fmt.Sprintf("%s/%s: notUsedAfter changed", iso, z.ZoneId))
			}
		}
	}
	return changes
}

func notAfterChanged(a, b *tzdata.Instant) bool {
	if (a == nil) != (b == nil) {
		return true
	}
	return a != nil && b != nil && *a != *b
}
