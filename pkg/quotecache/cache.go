// Package quotecache is a disk-backed freshness cache for normalized quote
// series. One file per (source, instrument, period, shape) key lives under a
// fixed root; the file's modification time is the sole freshness signal.
package quotecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"finlens-api/pkg/quote"
)

// DefaultFreshness is how long an entry counts as fresh after being written.
const DefaultFreshness = 24 * time.Hour

// Key identifies one cache entry.
type Key struct {
	Source     string
	Instrument string
	Period     string
	Shape      quote.Shape
}

// Filename renders the key as a flat file name under the cache root.
func (k Key) Filename() string {
	parts := []string{k.Source, k.Instrument, k.Period, string(k.Shape)}
	for i, p := range parts {
		parts[i] = sanitize(p)
	}
	return strings.Join(parts, "_") + ".msgpack"
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Cache stores successfully fetched series on disk, bounded by a freshness
// window. Keys are logically independent; same-key writers race safely
// because writes go to a temp file first and are moved into place, so a
// reader never observes a torn entry.
type Cache struct {
	dir       string
	freshness time.Duration
}

// New creates the cache root if needed. A non-positive freshness falls back
// to DefaultFreshness.
func New(dir string, freshness time.Duration) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("quotecache: dir is required")
	}
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("quotecache: create dir: %w", err)
	}
	return &Cache{dir: dir, freshness: freshness}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// Freshness returns the configured freshness window.
func (c *Cache) Freshness() time.Duration { return c.freshness }

// Get returns the cached series for key, or ok=false on a miss. Absent,
// stale and undecodable entries are all misses; stale data is never served.
func (c *Cache) Get(key Key) (*quote.Series, bool) {
	path := filepath.Join(c.dir, key.Filename())
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= c.freshness {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var s quote.Series
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// Put writes the series for key, unconditionally replacing any existing
// entry. The payload is written to a temp file and renamed into place.
func (c *Cache) Put(key Key, s *quote.Series) error {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("quotecache: encode %s: %w", key.Filename(), err)
	}

	tmp, err := os.CreateTemp(c.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("quotecache: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("quotecache: write %s: %w", key.Filename(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("quotecache: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(c.dir, key.Filename())); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("quotecache: move %s into place: %w", key.Filename(), err)
	}
	return nil
}
