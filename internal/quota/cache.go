package quota

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ccline/ccline/internal/errors"
)

// Snapshot is the persisted result of the most recent successful
// fetch. It is replaced wholesale on every save, never mutated in
// place.
type Snapshot struct {
	Quotas   []ModelQuota `json:"quotas"`
	CachedAt string       `json:"cached_at"`
}

// IsValid reports whether the snapshot is younger than ttl relative to
// now. A timestamp that does not parse as RFC3339 makes the snapshot
// stale, not an error.
func (s *Snapshot) IsValid(ttl time.Duration, now time.Time) bool {
	cachedAt, err := time.Parse(time.RFC3339, s.CachedAt)
	if err != nil {
		return false
	}
	return now.Sub(cachedAt) < ttl
}

// Cache is a single-slot, last-writer-wins store for the latest fetch
// result. Concurrent statusline renders may race on it; the atomic
// rename in Save keeps readers from ever seeing a torn file.
type Cache struct {
	path string
}

// NewCache creates a cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// DefaultCachePath returns the fixed cache location under the user's
// config directory.
func DefaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "ccline", ".cli_proxy_api_quota_cache.json"), nil
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the snapshot from disk. A missing, unreadable, or
// malformed file reads as no snapshot.
func (c *Cache) Load() (*Snapshot, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Save overwrites the snapshot via write-temp-then-rename so a
// concurrent Load sees either the old or the new snapshot, never a
// partial write.
func (c *Cache) Save(snap *Snapshot) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &errors.ErrDirectoryCreate{Path: dir, Err: err}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".quota_cache_*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
