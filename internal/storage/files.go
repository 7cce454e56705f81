// Package storage is the photo-attachment store: files land on local
// disk under the media dir and are served back at BASE_URL/media/<path>.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (fs *FileStore) Dir() string {
	return fs.dir
}

// Upload writes the blob and returns its public URL.
func (fs *FileStore) Upload(path string, data []byte) (string, error) {
	clean, err := fs.safePath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(clean, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return fs.baseURL + "/media/" + path, nil
}

func (fs *FileStore) Remove(path string) error {
	clean, err := fs.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (fs *FileStore) safePath(path string) (string, error) {
	clean := filepath.Join(fs.dir, filepath.Clean("/"+path))
	if !strings.HasPrefix(clean, filepath.Clean(fs.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid media path %q", path)
	}
	return clean, nil
}
