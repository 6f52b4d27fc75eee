package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileReader reads descriptor and source files, caching contents until the
// file changes on disk
type FileReader struct {
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, []byte](),
	}
}

// ReadFile returns the contents of filePath
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}

	return fr.contentCache.Load(cleanPath, cleanPath, func() ([]byte, error) {
		content, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
		}
		return content, nil
	})
}

// HasPrefix reports whether the file starts with prefix, reading no more
// than needed
func (fr *FileReader) HasPrefix(filePath, prefix string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(prefix))
	n, _ := io.ReadFull(f, buf)
	return string(buf[:n]) == prefix, nil
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// GetCacheStats returns statistics about the cache
func (fr *FileReader) GetCacheStats() CacheStats {
	return fr.contentCache.GetStats()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	// .. is only allowed as a leading relative segment
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}
