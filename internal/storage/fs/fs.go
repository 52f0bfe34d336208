// Package fs stores uploaded background images in a managed directory.
package fs

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/startdash-dev/startdash/internal/service"
)

type Storage struct {
	rootPath     string
	publicPrefix string
}

var _ service.FileStore = (*Storage)(nil)

// New prepares the managed upload directory. publicPrefix is the URL prefix
// the files are served under, e.g. "/static/uploads/".
func New(rootPath, publicPrefix string) (*Storage, error) {
	// filepath.Clean prevents path traversal like "uploads/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", p, err)
	}

	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &Storage{rootPath: p, publicPrefix: publicPrefix}, nil
}

// Root returns the managed directory for static file serving.
func (s *Storage) Root() string {
	return s.rootPath
}

// Save writes a file under the managed directory and returns its public URL.
// The name is reduced to its base component, it can never escape the root.
func (s *Storage) Save(name string, data io.Reader) (string, error) {
	base := filepath.Base(name)
	fullPath := filepath.Join(s.rootPath, base)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // best effort, don't leave a truncated file behind
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return s.publicPrefix + base, nil
}

// Remove deletes a managed file by its public URL. URLs outside the managed
// prefix are ignored: arbitrary paths are never deleted. Missing files are
// not an error.
func (s *Storage) Remove(publicURL string) error {
	if !strings.HasPrefix(publicURL, s.publicPrefix) {
		return nil
	}
	base := path.Base(publicURL)
	if base == "." || base == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.rootPath, base))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
