package cli

import (
	"path/filepath"
	"slices"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/utils"
)

// DirectoryScanner resolves path patterns into descriptor files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// NewDirectoryScannerWithReader creates a scanner sharing reader's file cache
func NewDirectoryScannerWithReader(reader *utils.FileReader) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessorWithReader(reader),
	}
}

// ScanDescriptors returns the descriptor files matched by patterns, sorted
// and without duplicates. Supports "./..." style recursive patterns.
func (s *DirectoryScanner) ScanDescriptors(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	files, err := s.fileProcessor.ExpandPatterns(patterns)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan descriptor paths", err).
			WithContext("patterns", patterns).
			WithSuggestion("Check that the specified paths exist")
	}
	return files, nil
}

// WatchRoots returns the directories to watch for the given patterns and
// whether each one is watched recursively
func (s *DirectoryScanner) WatchRoots(patterns []string) map[string]bool {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	roots := make(map[string]bool, len(patterns))
	for _, pattern := range patterns {
		root, recursive := utils.SplitRecursivePattern(pattern)
		if utils.IsDescriptorFile(root) {
			root = filepath.Dir(root)
		}
		root = filepath.Clean(root)
		roots[root] = roots[root] || recursive
	}
	return roots
}

// FileProcessor exposes the underlying file processor
func (s *DirectoryScanner) FileProcessor() *utils.FileProcessor {
	return s.fileProcessor
}

// sortedUnique returns paths sorted without duplicates
func sortedUnique(paths []string) []string {
	out := slices.Clone(paths)
	slices.Sort(out)
	return slices.Compact(out)
}
