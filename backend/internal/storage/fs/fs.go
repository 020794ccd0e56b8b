package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage keeps research update attachments on the local filesystem,
// grouped by research id.
type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// filepath.Clean prevents traversal like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Save writes a file under research/<id>/ and returns its path relative
// to the media root. storedName must already be safe (the service derives
// it from a uuid plus the cleaned original extension).
func (s *Storage) Save(fileData io.Reader, researchId, storedName string) (string, error) {
	relativePath := filepath.Join(researchId, storedName)
	fullPath := filepath.Join(s.rootPath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		os.Remove(fullPath) // best effort
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return relativePath, nil
}

func (s *Storage) Read(filePath string) (io.ReadCloser, error) {
	cleaned := filepath.Clean("/" + filePath) // keep lookups inside the root
	fullPath := filepath.Join(s.rootPath, cleaned)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("attachment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

func (s *Storage) DeleteFile(filePath string) error {
	fullPath := filepath.Join(s.rootPath, filePath)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		// Already gone is fine, anything else is not
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
