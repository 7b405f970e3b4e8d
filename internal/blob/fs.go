package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps blobs as files under a root directory. Keys map to paths
// relative to the root; the uploader's original filename never appears on
// disk, so hostile names cannot influence the filesystem layout.
type FileStore struct {
	root string
}

var _ Store = (*FileStore)(nil)
var _ Pinger = (*FileStore)(nil)

// NewFileStore creates the root directory if needed and returns the store.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creating root %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Put(_ context.Context, data []byte) (string, error) {
	key := NewKey(time.Now())
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("blob: creating directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("blob: writing %s: %w", key, err)
	}
	return key, nil
}

func (s *FileStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, ErrNotExist
	}
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("blob: opening %s: %w", key, err)
	}
	return f, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return nil
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: deleting %s: %w", key, err)
	}
	return nil
}

// Ping verifies the root directory is writable, the same way the health
// endpoint of the original service did: touch and remove a probe file.
func (s *FileStore) Ping(_ context.Context) error {
	probe := filepath.Join(s.root, ".health_check")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("blob: storage root not writable: %w", err)
	}
	return os.Remove(probe)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// validKey rejects anything that could escape the root. Keys are generated
// by NewKey, so a non-conforming key can only come from a corrupted row.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
