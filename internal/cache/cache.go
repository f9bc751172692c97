package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a content-addressed blob store keyed by listing URL. The
// fetch path depends on this capability instead of the filesystem
// directly so it can be exercised without network or disk.
type Store interface {
	// Get returns the blob for url, or ok=false on a miss.
	Get(url string) ([]byte, bool, error)
	// Put stores the blob for url, replacing any previous content.
	Put(url string, data []byte) error
}

var keyReplacer = strings.NewReplacer("/", "_", ":", "_", ".", "_")

// Key derives the filesystem-safe cache file name for a listing URL.
// The transform is deterministic so cached blobs can be inspected and
// edited by hand.
func Key(url string) string {
	return keyReplacer.Replace(url) + ".json"
}

// Dir is a Store holding one file per URL under a single directory.
type Dir struct {
	path string
}

// NewDir creates the cache directory if needed and returns a store
// over it.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Get reads the cached blob for url. An absent or empty file is a
// miss: an empty blob is never trusted, it forces a re-fetch.
func (d *Dir) Get(url string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(d.path, Key(url)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

func (d *Dir) Put(url string, data []byte) error {
	return os.WriteFile(filepath.Join(d.path, Key(url)), data, 0644)
}
