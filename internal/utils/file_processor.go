package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// DescriptorSuffixYAML and DescriptorSuffixYML mark type descriptor files
	DescriptorSuffixYAML = ".propgen.yaml"
	DescriptorSuffixYML  = ".propgen.yml"

	// GeneratedSuffix is appended to every fragment key
	GeneratedSuffix = ".g.cs"

	// GeneratedHeader opens every generated fragment
	GeneratedHeader = "// <auto-generated/>"

	recursiveSuffix = "/..."
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	// Recursive descends into subdirectories accepted by DirectoryFilter
	Recursive  bool
	SkipErrors bool
}

// DescriptorFileFilter matches *.propgen.yaml and *.propgen.yml files
func DescriptorFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return IsDescriptorFile(info.Name())
	}
}

// GeneratedFileFilter matches *.g.cs files
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return strings.HasSuffix(info.Name(), GeneratedSuffix)
	}
}

// IsDescriptorFile reports whether name carries a descriptor suffix
func IsDescriptorFile(name string) bool {
	return strings.HasSuffix(name, DescriptorSuffixYAML) || strings.HasSuffix(name, DescriptorSuffixYML)
}

// DefaultDirectoryFilter skips VCS metadata, dependency folders and C# build output
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"bin":          true,
		"obj":          true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles walks rootDir and returns matching files in lexical order
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// ExpandPatterns resolves path patterns into descriptor files. A directory
// contributes its own descriptors, a "dir/..." pattern descends recursively
// and a plain file is taken as is. The result is deduplicated and sorted.
func (fp *FileProcessor) ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(paths ...string) {
		for _, p := range paths {
			p = filepath.Clean(p)
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, pattern := range patterns {
		root, recursive := SplitRecursivePattern(pattern)

		info, err := os.Stat(root)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("pattern %s", pattern), err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		matched, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      DescriptorFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory walk %s", root), err)
		}
		add(matched...)
	}

	slices.Sort(files)
	return files, nil
}

// SplitRecursivePattern strips a trailing "/..." and reports whether it was present
func SplitRecursivePattern(pattern string) (string, bool) {
	p := filepath.ToSlash(pattern)
	if p == "..." {
		return ".", true
	}
	if strings.HasSuffix(p, recursiveSuffix) {
		root := strings.TrimSuffix(p, recursiveSuffix)
		if root == "" {
			root = "/"
		}
		return filepath.FromSlash(root), true
	}
	return pattern, false
}

// CleanGenerated removes *.g.cs files in the given directories that start
// with the generated header. Hand-written files with the same suffix are kept.
// With recursive set, subdirectories accepted by DefaultDirectoryFilter are
// cleaned too.
func (fp *FileProcessor) CleanGenerated(baseDirs []string, recursive bool) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		candidates, err := fp.WalkFiles(baseDir, FileWalkOptions{
			FileFilter:      GeneratedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}

		for _, path := range candidates {
			generated, err := fp.fileReader.HasPrefix(path, GeneratedHeader)
			if err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file check %s", path), err)
			}
			if !generated {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", path), err)
			}
			fp.fileReader.InvalidateFile(path)
			removedFiles = append(removedFiles, path)
		}
	}

	return removedFiles, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

// WrapProcessError prefixes err with the operation that failed
func WrapProcessError(operation string, err error) error {
	return fmt.Errorf("%s failed: %w", operation, err)
}
