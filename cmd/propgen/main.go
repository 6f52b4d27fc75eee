package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/toyz/propgen/internal/cli"
	"github.com/toyz/propgen/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command-line flags before they are layered over the config file
type options struct {
	configPath string
	out        string
	jobs       int
	verbose    bool
	quiet      bool
	clean      bool
	explain    bool
	watch      bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("propgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML config file (defaults to ./"+cli.DefaultConfigFile+" when present)")
	fs.StringVar(&opts.out, "out", "", "Write every fragment to this directory instead of next to its descriptor")
	fs.IntVar(&opts.jobs, "jobs", 0, "Number of types generated concurrently (0 uses all CPUs)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only show errors and final results")
	fs.BoolVar(&opts.clean, "clean", false, "Delete generated *.g.cs fragments from the specified paths")
	fs.BoolVar(&opts.explain, "explain", false, "Print the resolved settings of every type without writing fragments")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate whenever a descriptor file changes")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: propgen [options] [paths...]\n\n")
		fmt.Fprintf(stderr, "Propgen Property Accessor Generator\n")
		fmt.Fprintf(stderr, "Reads *.propgen.yaml type descriptors and generates C# property accessors as *.g.cs fragments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  paths              Descriptor files or directories to scan (default ./...)\n")
		fmt.Fprintf(stderr, "\nPath Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./models/...       Scan the models directory and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./models           Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  propgen                          # Generate for everything below the current directory\n")
		fmt.Fprintf(stderr, "  propgen -out Generated ./...     # Collect all fragments in one directory\n")
		fmt.Fprintf(stderr, "  propgen -explain ./models        # Show how modifiers resolve\n")
		fmt.Fprintf(stderr, "  propgen -watch ./...             # Regenerate on every descriptor change\n")
		fmt.Fprintf(stderr, "  propgen -clean ./...             # Delete all generated fragments\n")
	}
	return fs
}

// loadConfig reads the config file and applies the flags that were set on
// the command line over it
func loadConfig(fs *flag.FlagSet, opts options) (cli.Config, error) {
	path, required := opts.configPath, true
	if path == "" {
		path, required = cli.DefaultConfigFile, false
	}

	cfg, err := cli.LoadConfig(path, required)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutDir = opts.out
		case "jobs":
			cfg.Jobs = opts.jobs
		case "verbose":
			cfg.Verbose = opts.verbose
		case "quiet":
			cfg.Quiet = opts.quiet
		}
	})
	if args := fs.Args(); len(args) > 0 {
		cfg.Paths = args
	}

	return cfg, cfg.Validate()
}

func newDiagnostics(cfg cli.Config, stdout, stderr io.Writer) *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case cfg.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case cfg.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)
	return diagnostics
}

// run executes propgen and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.clean && (opts.explain || opts.watch) {
		fmt.Fprintf(stderr, "Error: -clean cannot be combined with -explain or -watch\n\n")
		fs.Usage()
		return 2
	}
	if opts.explain && opts.watch {
		fmt.Fprintf(stderr, "Error: -explain cannot be combined with -watch\n\n")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		reporter := cli.NewDiagnosticReporter(opts.verbose)
		reporter.SetOutput(stderr)
		reporter.ReportError(err)
		return 1
	}

	diagnostics := newDiagnostics(cfg, stdout, stderr)
	diagnostics.Debug("Configuration: paths=%s out=%q jobs=%d", strings.Join(cfg.Paths, ","), cfg.OutDir, cfg.EffectiveJobs())

	switch {
	case opts.clean:
		return runClean(cfg, diagnostics, stderr)
	case opts.explain:
		return runExplain(ctx, cfg, diagnostics, stdout, stderr)
	case opts.watch:
		return runWatch(ctx, cfg, diagnostics, stderr)
	default:
		return runGenerate(ctx, cfg, diagnostics, stdout, stderr)
	}
}

func newGenerator(cfg cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer) *cli.Generator {
	generator := cli.NewGenerator(cfg, diagnostics)
	generator.Reporter().SetOutput(stderr)
	return generator
}

func runGenerate(ctx context.Context, cfg cli.Config, diagnostics *utils.DiagnosticSystem, stdout, stderr io.Writer) int {
	generator := newGenerator(cfg, diagnostics, stderr)
	if err := generator.Run(ctx); err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}

	generator.ReportSuccess()
	if cfg.Verbose {
		generator.Reporter().ReportSuccess(stdout, generator.GetSummary())
	}
	return 0
}

func runClean(cfg cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer) int {
	diagnostics.Header("Cleaning generated fragments")

	var extra []string
	if cfg.OutDir != "" {
		extra = append(extra, cfg.OutDir)
	}

	removed, err := cli.NewCleaner().CleanGeneratedFiles(cfg.Paths, extra...)
	for _, path := range removed {
		diagnostics.PhaseProgress("Removing " + path)
	}
	if err != nil {
		reporter := cli.NewDiagnosticReporter(cfg.Verbose)
		reporter.SetOutput(stderr)
		reporter.ReportError(err)
		return 1
	}

	diagnostics.Success("Removed %d generated fragments", len(removed))
	return 0
}

func runExplain(ctx context.Context, cfg cli.Config, diagnostics *utils.DiagnosticSystem, stdout, stderr io.Writer) int {
	generator := newGenerator(cfg, diagnostics, stderr)
	if err := generator.Explain(ctx, stdout); err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}
	return 0
}

func runWatch(ctx context.Context, cfg cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer) int {
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}

	generator := newGenerator(cfg, diagnostics, stderr)
	if err := generator.Run(ctx); err != nil {
		generator.Reporter().ReportError(err)
		generator.Reporter().ReportWarning("Initial generation failed, waiting for descriptor changes",
			"Fix the problems above and save a descriptor to retry")
	} else {
		generator.ReportSuccess()
	}

	watcher := cli.NewWatcher(debounce, func(ctx context.Context, changed []string) error {
		if err := generator.Regenerate(ctx, changed); err != nil {
			return err
		}
		generator.ReportSuccess()
		return nil
	}, diagnostics)
	watcher.OnError(generator.Reporter().ReportError)

	if err := watcher.Start(cfg.Paths); err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}

	diagnostics.Info("Watching for descriptor changes (Ctrl+C to stop)")
	if err := watcher.Run(ctx); err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}
	return 0
}
