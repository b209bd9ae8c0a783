// Package storage provides ManifestStore implementations: a file inside the
// content root, an S3 compatible object and a row in a sqlite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-contentjson/pkg/interfaces"
)

// FileStore keeps the manifest at a fixed path on disk.
type FileStore struct {
	path string
	perm fs.FileMode
}

var _ interfaces.ManifestStore = (*FileStore)(nil)

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path), perm: 0o644}
}

// Path returns the manifest location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the manifest. A missing file yields interfaces.ErrManifestNotFound.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, interfaces.ErrManifestNotFound
		}
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}
	return data, nil
}

// Save replaces the manifest through a temporary file and a rename, so readers
// never observe a partial document.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("storage: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("storage: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("storage: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return fmt.Errorf("storage: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("storage: replace %s: %w", s.path, err)
	}
	return nil
}
