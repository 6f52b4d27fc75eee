package cli

import (
	"github.com/toyz/propgen/internal/errors"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
	}
}

// CleanGeneratedFiles removes generated fragments from the directories named
// by patterns. A "dir/..." pattern is cleaned recursively, a plain directory
// only at its top level. Descriptor file patterns clean their directory.
// Extra directories, such as the configured output directory, are cleaned
// without recursion.
func (c *Cleaner) CleanGeneratedFiles(patterns []string, extraDirs ...string) ([]string, error) {
	var flat, recursive []string
	for root, rec := range c.scanner.WatchRoots(patterns) {
		if rec {
			recursive = append(recursive, root)
		} else {
			flat = append(flat, root)
		}
	}
	flat = append(flat, extraDirs...)

	processor := c.scanner.FileProcessor()

	removed, err := processor.CleanGenerated(sortedUnique(recursive), true)
	if err != nil {
		return removed, errors.Wrap(errors.FileSystemErrorCode, "failed to clean generated files", err).
			WithContext("directories", recursive)
	}

	more, err := processor.CleanGenerated(sortedUnique(flat), false)
	removed = append(removed, more...)
	if err != nil {
		return removed, errors.Wrap(errors.FileSystemErrorCode, "failed to clean generated files", err).
			WithContext("directories", flat)
	}
	return removed, nil
}
