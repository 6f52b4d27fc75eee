package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/propgen/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg, err := LoadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(missing, true)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestLoadConfig_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
paths = ["models/...", "/abs/descriptors"]
out = "generated"
jobs = 3
verbose = true

[watch]
debounce = "1s"
`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "models/..."), "/abs/descriptors"}, cfg.Paths)
	assert.Equal(t, filepath.Join(dir, "generated"), cfg.OutDir)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, 3, cfg.EffectiveJobs())
	assert.True(t, cfg.Verbose)

	debounce, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, debounce)
}

func TestLoadConfig_KeepsDefaultsForUnsetKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "jobs = 1\n")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"./..."}, cfg.Paths)
	assert.Empty(t, cfg.OutDir)
	assert.Equal(t, "300ms", cfg.Watch.Debounce)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: "paths = [", want: "parse"},
		{name: "unknown key", content: "output = \"x\"\n", want: "unknown key \"output\""},
		{name: "negative jobs", content: "jobs = -1\n", want: "jobs must not be negative"},
		{name: "verbose and quiet", content: "verbose = true\nquiet = true\n", want: "mutually exclusive"},
		{name: "bad debounce", content: "[watch]\ndebounce = \"soon\"\n", want: "invalid watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			_, err := LoadConfig(path, true)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_EffectiveJobsDefaultsToGOMAXPROCS(t *testing.T) {
	assert.Equal(t, runtime.GOMAXPROCS(0), DefaultConfig().EffectiveJobs())
}

func TestConfig_DebounceDuration(t *testing.T) {
	d, err := Config{}.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, d)

	_, err = Config{Watch: WatchConfig{Debounce: "-1s"}}.DebounceDuration()
	assert.Error(t, err)
}
