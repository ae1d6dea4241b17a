package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
)

// FileCache stores one JSON envelope per key under a base directory. Writes
// go through a temp file and rename so readers never see a torn entry.
// Entries survive process restarts, which matters for the 7-day dividend
// TTL.
type FileCache struct {
	basePath string
	logger   *common.Logger
	now      func() time.Time
}

type fileEnvelope struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	Value     []byte    `json:"value"`
}

// NewFileCache creates a file-backed cache rooted at path.
func NewFileCache(logger *common.Logger, path string) (*FileCache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache path %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("File cache opened")
	return &FileCache{
		basePath: path,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Get returns the cached value for the key, or ok=false on miss or expiry.
// Stale files are removed on read.
func (c *FileCache) Get(ctx context.Context, key interfaces.CacheKey) ([]byte, bool) {
	path := c.filePath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		// A corrupt entry is a miss, not an error.
		c.logger.Warn().Str("file", path).Msg("Removing corrupt cache entry")
		os.Remove(path)
		return nil, false
	}

	if c.now().After(env.ExpiresAt) {
		os.Remove(path)
		return nil, false
	}
	return env.Value, true
}

// Set stores the value under the key for the given TTL.
func (c *FileCache) Set(ctx context.Context, key interfaces.CacheKey, value []byte, ttl time.Duration) error {
	env := fileEnvelope{
		Key:       key.String(),
		ExpiresAt: c.now().Add(ttl),
		Value:     value,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	target := c.filePath(key)
	tmpFile, err := os.CreateTemp(c.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Purge removes every cache file and returns the count removed.
func (c *FileCache) Purge() int {
	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if os.Remove(filepath.Join(c.basePath, entry.Name())) == nil {
			removed++
		}
	}
	return removed
}

// Close is a no-op for file-based storage.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) filePath(key interfaces.CacheKey) string {
	return filepath.Join(c.basePath, sanitizeKey(key.String())+".json")
}

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_", "?", "_", "&", "_", "=", "_", "^", "idx-")
	return r.Replace(key)
}

// Ensure FileCache implements Cache
var _ interfaces.Cache = (*FileCache)(nil)
