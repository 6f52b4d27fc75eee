package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFileProcessor_Filters(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"person.propgen.yaml":   "types: []",
		"address.propgen.yml":   "types: []",
		"settings.yaml":         "x: 1",
		"Demo.Person.g.cs":      GeneratedHeader,
		"Person.cs":             "class Person {}",
		"propgen.yaml.g.cs.bak": "",
	})

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)

	var descriptors, generated []string
	for _, entry := range entries {
		path := filepath.Join(tmpDir, entry.Name())
		if DescriptorFileFilter()(path, entry) {
			descriptors = append(descriptors, entry.Name())
		}
		if GeneratedFileFilter()(path, entry) {
			generated = append(generated, entry.Name())
		}
	}

	assert.ElementsMatch(t, []string{"person.propgen.yaml", "address.propgen.yml"}, descriptors)
	assert.Equal(t, []string{"Demo.Person.g.cs"}, generated)
}

func TestFileProcessor_DirectoryFilter(t *testing.T) {
	tmpDir := t.TempDir()
	for _, dir := range []string{"models", "bin", "obj", ".git", "node_modules"} {
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, dir), 0o755))
	}

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)

	filter := DefaultDirectoryFilter()
	var kept []string
	for _, entry := range entries {
		if filter(filepath.Join(tmpDir, entry.Name()), entry) {
			kept = append(kept, entry.Name())
		}
	}
	assert.Equal(t, []string{"models"}, kept)
}

func TestFileProcessor_ExpandPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.propgen.yaml":               "",
		"nested/b.propgen.yaml":        "",
		"nested/deeper/c.propgen.yml":  "",
		"obj/skipped.propgen.yaml":     "",
		"nested/readme.md":             "",
		"explicit/single.propgen.yaml": "",
	})

	fp := NewFileProcessor()

	flat, err := fp.ExpandPatterns([]string{tmpDir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "a.propgen.yaml")}, flat)

	recursive, err := fp.ExpandPatterns([]string{tmpDir + "/...", filepath.Join(tmpDir, "a.propgen.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.propgen.yaml"),
		filepath.Join(tmpDir, "explicit", "single.propgen.yaml"),
		filepath.Join(tmpDir, "nested", "b.propgen.yaml"),
		filepath.Join(tmpDir, "nested", "deeper", "c.propgen.yml"),
	}, recursive)

	_, err = fp.ExpandPatterns([]string{filepath.Join(tmpDir, "missing")})
	assert.Error(t, err)
}

func TestSplitRecursivePattern(t *testing.T) {
	tests := []struct {
		pattern   string
		root      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"models/...", "models", true},
		{"models", "models", false},
		{"a.propgen.yaml", "a.propgen.yaml", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			root, recursive := SplitRecursivePattern(tt.pattern)
			assert.Equal(t, filepath.FromSlash(tt.root), root)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestFileProcessor_CleanGenerated(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"Demo.Person.g.cs":         GeneratedHeader + "\n#nullable enable\n",
		"nested/Demo.Order.g.cs":   GeneratedHeader + "\n",
		"HandWritten.g.cs":         "// mine\nclass X {}\n",
		"person.propgen.yaml":      "types: []",
		"bin/Demo.Cached.g.cs":     GeneratedHeader + "\n",
		"nested/Person.partial.cs": "partial class Person {}",
	})

	fp := NewFileProcessor()
	flat, err := fp.CleanGenerated([]string{tmpDir}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "Demo.Person.g.cs")}, flat)

	removed, err := fp.CleanGenerated([]string{tmpDir, filepath.Join(tmpDir, "does-not-exist")}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(tmpDir, "nested", "Demo.Order.g.cs")}, removed)

	assert.FileExists(t, filepath.Join(tmpDir, "HandWritten.g.cs"))
	assert.FileExists(t, filepath.Join(tmpDir, "person.propgen.yaml"))
	assert.FileExists(t, filepath.Join(tmpDir, "bin", "Demo.Cached.g.cs"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "Demo.Person.g.cs"))
}
