package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"exclusioncheck/importer"
)

const (
	snapshotPrefix = "reference_"
	snapshotExt    = ".sqlite"
	buildingExt    = ".building"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ReferenceCache manages the per-month reference snapshots stored in one
// directory. Builds of the same month are serialized; builds of different
// months may run concurrently.
type ReferenceCache struct {
	dir       string
	batchSize int
	logger    *slog.Logger

	mu       sync.Mutex
	building map[string]bool
}

// CacheOption configures a ReferenceCache.
type CacheOption func(*ReferenceCache)

// WithBatchSize sets how many SAM rows are committed per transaction.
func WithBatchSize(size int) CacheOption {
	return func(c *ReferenceCache) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *ReferenceCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewReferenceCache creates a cache rooted at dir, creating the directory if needed.
func NewReferenceCache(dir string, opts ...CacheOption) (*ReferenceCache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("reference cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reference cache directory: %w", err)
	}

	c := &ReferenceCache{
		dir:       dir,
		batchSize: importer.DefaultSAMBatchSize,
		logger:    slog.Default().With("component", "reference_cache"),
		building:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *ReferenceCache) Dir() string {
	return c.dir
}

// ValidateMonth checks that month is a YYYY-MM reporting month.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return fmt.Errorf("%w: %q (expected YYYY-MM)", ErrInvalidMonth, month)
	}
	return nil
}

// CachePath returns the snapshot file path for a month.
func (c *ReferenceCache) CachePath(month string) string {
	return filepath.Join(c.dir, snapshotPrefix+month+snapshotExt)
}

// Exists reports whether a snapshot has been built for month.
func (c *ReferenceCache) Exists(month string) bool {
	if ValidateMonth(month) != nil {
		return false
	}
	info, err := os.Stat(c.CachePath(month))
	return err == nil && info.Mode().IsRegular()
}

// SnapshotInfo describes a built snapshot file.
type SnapshotInfo struct {
	Month     string    `json:"month"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"modified_at"`
}

// List returns the built snapshots ordered by month. In-progress builds are
// not listed.
func (c *ReferenceCache) List() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference cache directory: %w", err)
	}

	snapshots := make([]SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		month := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotExt)
		if ValidateMonth(month) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, SnapshotInfo{
			Month:     month,
			Path:      filepath.Join(c.dir, name),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Month < snapshots[j].Month
	})
	return snapshots, nil
}

// Open opens the snapshot of a month read-only.
func (c *ReferenceCache) Open(month string) (*Snapshot, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}
	if !c.Exists(month) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, month)
	}
	return OpenSnapshot(c.CachePath(month))
}

// acquire marks month as being built. It fails when another build of the
// same month holds it.
func (c *ReferenceCache) acquire(month string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.building[month] {
		return fmt.Errorf("%w: %s", ErrBuildInProgress, month)
	}
	c.building[month] = true
	return nil
}

func (c *ReferenceCache) release(month string) {
	c.mu.Lock()
	delete(c.building, month)
	c.mu.Unlock()
}

// FileChecksum returns the hex SHA-256 of a file, read in streaming fashion.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
