package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/toyz/propgen/internal/errors"
)

// DefaultConfigFile is read from the working directory when -config is not given
const DefaultConfigFile = "propgen.toml"

const defaultDebounce = 300 * time.Millisecond

// Config holds the configuration for the CLI generator
type Config struct {
	// Paths are descriptor files or directories to scan. "dir/..." scans recursively.
	Paths []string `toml:"paths"`

	// OutDir receives every fragment. Empty writes each fragment next to its descriptor.
	OutDir string `toml:"out"`

	// Jobs bounds the number of types generated concurrently. Zero means GOMAXPROCS.
	Jobs int `toml:"jobs"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `toml:"verbose"`

	// Quiet only shows errors
	Quiet bool `toml:"quiet"`

	Watch WatchConfig `toml:"watch"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait after the last change before regenerating
	Debounce string `toml:"debounce"`
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() Config {
	return Config{
		Paths: []string{"./..."},
		Watch: WatchConfig{Debounce: defaultDebounce.String()},
	}
}

// LoadConfig decodes a TOML config file over DefaultConfig. Relative paths in
// the file are resolved against the file's directory. With required false a
// missing file yields the defaults.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, errors.WrapConfigurationError(path, "read", err)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.WrapConfigurationError(path, "parse", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.WrapConfigurationError(path, "parse",
			fmt.Errorf("unknown key %q", undecoded[0].String())).
			WithSuggestion("supported keys: paths, out, jobs, verbose, quiet, watch.debounce")
	}

	base := filepath.Dir(path)
	if meta.IsDefined("paths") {
		for i, p := range cfg.Paths {
			cfg.Paths[i] = resolveRelative(base, p)
		}
	}
	if meta.IsDefined("out") && cfg.OutDir != "" {
		cfg.OutDir = resolveRelative(base, cfg.OutDir)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.WrapConfigurationError(path, "validate", err)
	}
	return cfg, nil
}

func resolveRelative(base, p string) string {
	if filepath.IsAbs(p) || base == "." {
		return p
	}
	return filepath.Join(base, p)
}

// Validate checks the settings for conflicts
func (c Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// EffectiveJobs returns Jobs, or GOMAXPROCS when unset
func (c Config) EffectiveJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// DebounceDuration parses the watch debounce setting
func (c Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return defaultDebounce, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must not be negative")
	}
	return d, nil
}
