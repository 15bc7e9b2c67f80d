// Package storage provides the file-backed cache store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/interfaces"
	"github.com/bobmcallan/fundagent/internal/models"
)

// envelope wraps every cached payload with its write time. The timestamp is
// stored inside the file rather than taken from mtime so entries survive
// copies and restores intact.
type envelope struct {
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// FileStore persists cache entries as one JSON file per key under a base
// directory. Writes are atomic (temp file then rename); reads treat any
// missing, empty, or malformed file as a miss.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileStore creates the base directory if needed and returns a store.
func NewFileStore(basePath string, logger *common.Logger) (*FileStore, error) {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", basePath, err)
	}

	logger.Debug().Str("path", basePath).Msg("File cache store initialized")

	return &FileStore{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// Get reads the entry for key into dest and returns its age.
func (s *FileStore) Get(ctx context.Context, key string, dest any) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	raw, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, models.ErrCacheMiss
		}
		return 0, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("Discarding malformed cache entry")
		return 0, models.ErrCacheMiss
	}

	writtenAt, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		s.logger.Warn().Str("key", key).Str("timestamp", env.Timestamp).Msg("Discarding cache entry with unreadable timestamp")
		return 0, models.ErrCacheMiss
	}

	if len(env.Data) == 0 {
		return 0, models.ErrCacheMiss
	}

	if err := json.Unmarshal(env.Data, dest); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("Discarding cache entry with incompatible payload")
		return 0, models.ErrCacheMiss
	}

	return time.Since(writtenAt), nil
}

// Put writes the entry for key, replacing any previous value.
func (s *FileStore) Put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache payload for %s: %w", key, err)
	}

	raw, err := json.Marshal(envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("marshaling cache entry for %s: %w", key, err)
	}

	path := s.pathFor(key)
	tmp, err := os.CreateTemp(s.basePath, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache entry %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing cache entry %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(raw)).Msg("Cache entry written")
	return nil
}

// Delete removes the entry for key if present.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry %s: %w", key, err)
	}
	return nil
}

// SweepExpired removes entries older than maxAge and returns how many were
// deleted. Malformed entries count as expired.
func (s *FileStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("listing cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.basePath, entry.Name())
		if !s.expired(path, maxAge) {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Str("file", entry.Name()).Err(err).Msg("Failed to remove expired cache entry")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Cache sweep completed")
	}
	return removed, nil
}

func (s *FileStore) expired(path string, maxAge time.Duration) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return true
	}
	writtenAt, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		return true
	}
	return time.Since(writtenAt) > maxAge
}

// Close releases the store. The file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) pathFor(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// Ensure FileStore implements CacheStore
var _ interfaces.CacheStore = (*FileStore)(nil)

// sanitizeKey keeps keys filesystem-safe without losing uniqueness for the
// key shapes the services use (letters, digits, underscore, dot, dash).
func sanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
