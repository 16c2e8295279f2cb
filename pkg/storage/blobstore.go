package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileRoute is the public route prefix blobs are served under.
const FileRoute = "/files/"

// BlobStore persists uploaded binaries on disk under a base directory and
// maps stored paths to retrievable URLs on the public file route.
type BlobStore struct {
	baseDir       string
	publicBaseURL string
}

// NewBlobStore ensures the base directory exists and returns a handle.
func NewBlobStore(baseDir, publicBaseURL string) (*BlobStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &BlobStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Save copies the reader into the given relative path and returns the URL
// the stored blob is retrievable under.
func (s *BlobStore) Save(relPath string, r io.Reader) (string, error) {
	clean, err := s.cleanRel(relPath)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return s.URL(clean), nil
}

// Open returns a read-only handle for the stored blob.
func (s *BlobStore) Open(relPath string) (*os.File, error) {
	clean, err := s.cleanRel(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes a stored blob if present.
func (s *BlobStore) Delete(relPath string) error {
	clean, err := s.cleanRel(relPath)
	if err != nil {
		return err
	}
	target := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// DeleteByURL removes the blob a previously returned URL points at.
func (s *BlobStore) DeleteByURL(url string) error {
	rel, err := s.PathFromURL(url)
	if err != nil {
		return err
	}
	return s.Delete(rel)
}

// URL maps a stored relative path onto the public file route.
func (s *BlobStore) URL(relPath string) string {
	return s.publicBaseURL + FileRoute + relPath
}

// PathFromURL extracts the stored relative path from a blob URL.
func (s *BlobStore) PathFromURL(url string) (string, error) {
	idx := strings.Index(url, FileRoute)
	if idx < 0 {
		return "", fmt.Errorf("not a blob URL: %s", url)
	}
	rel := url[idx+len(FileRoute):]
	return s.cleanRel(rel)
}

func (s *BlobStore) cleanRel(relPath string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(relPath, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob path: %s", relPath)
	}
	return clean, nil
}
