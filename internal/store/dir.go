package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a file-backed Adapter that stores one JSON file per key under a data
// directory. It is the CLI analogue of the browser's local storage.
type Dir struct {
	root string
}

// NewDir creates (if needed) and opens a directory-backed adapter.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("data directory path is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Get returns the value for key and whether it exists.
func (d *Dir) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *Dir) Set(_ context.Context, key string, value []byte) error {
	path := d.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (d *Dir) Delete(_ context.Context, key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// path maps a key to a filename, replacing characters that are unsafe on
// common filesystems.
func (d *Dir) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(d.root, safe+".json")
}
