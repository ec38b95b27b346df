// File: lixenwraith/gs/config/cache/file.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/gs/config/internal/fsutil"
)

// fileEntry is the on-disk form of one cache entry.
type fileEntry struct {
	Value      string  `json:"value"`
	ValidUntil float64 `json:"valid_until"` // unix seconds
}

// File stores one JSON file per key in a directory.
type File struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// NewFile returns a file cache rooted at dir, creating the directory.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory '%s': %w", dir, err)
	}
	return &File{dir: dir, now: time.Now, logger: zap.NewNop()}, nil
}

func openFile(conn string, o *options) (Cache, bool, error) {
	dir, ok := strings.CutPrefix(conn, "path:")
	if !ok {
		return nil, false, nil
	}
	if dir == "" {
		return nil, true, errors.New("empty cache directory")
	}
	f, err := NewFile(dir)
	if err != nil {
		return nil, true, err
	}
	f.now = o.now
	f.logger = o.logger.Named("file")
	return f, true, nil
}

// Dir returns the cache directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) filename(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(f.dir, "cache_"+hex.EncodeToString(sum[:])+".json")
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	path := f.filename(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache file '%s': %w", path, err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		f.logger.Error("corrupt cache file", zap.String("file", path), zap.Error(err))
	} else if entry.ValidUntil > unixSeconds(f.now()) {
		return entry.Value, true, nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger.Warn("failed to remove cache file", zap.String("file", path), zap.Error(err))
	}
	return "", false, nil
}

func (f *File) Set(_ context.Context, key, value string, ttl time.Duration) error {
	data, err := json.Marshal(fileEntry{
		Value:      value,
		ValidUntil: unixSeconds(expiry(f.now(), ttl)),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return fsutil.WriteFileAtomic(f.filename(key), data, 0644)
}

func (f *File) Close() error {
	return nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
