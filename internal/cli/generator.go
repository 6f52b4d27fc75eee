package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/propgen/internal/discovery"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/generator"
	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/utils"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Generator coordinates the CLI generation process: scan descriptor paths,
// load candidate types, generate fragments in parallel and write them.
type Generator struct {
	config        Config
	scanner       *DirectoryScanner
	loader        *discovery.Loader
	codeGenerator generator.CodeGenerator
	reporter      *DiagnosticReporter
	diagnostics   *utils.DiagnosticSystem
	summary       GenerationSummary
}

// NewGenerator creates a new CLI generator. A nil diagnostics system
// discards informational output.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	reader := utils.NewFileReader()
	return &Generator{
		config:        config,
		scanner:       NewDirectoryScannerWithReader(reader),
		loader:        discovery.NewLoaderWithReader(nil, reader),
		codeGenerator: generator.NewGenerator(),
		reporter:      NewDiagnosticReporter(config.Verbose),
		diagnostics:   diagnostics,
	}
}

// Config returns the configuration the generator runs with
func (g *Generator) Config() Config {
	return g.config
}

// Loader returns the descriptor loader; watch mode invalidates its cache
func (g *Generator) Loader() *discovery.Loader {
	return g.loader
}

// Reporter returns the reporter used for failures
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// typeResult is the outcome of one candidate type
type typeResult struct {
	candidate discovery.Candidate
	fragment  models.Fragment
	path      string
}

// Run executes the complete generation process
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Header("Generating property accessors")
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning paths: %v", g.config.Paths)

	source, candidates, err := g.discover()
	if err != nil {
		return err
	}

	g.diagnostics.PhaseHeader("Generation")
	results, err := g.generate(ctx, source, candidates)
	if err != nil {
		return err
	}

	if err := g.checkKeys(results); err != nil {
		return err
	}

	g.reportWarnings(results)

	g.diagnostics.PhaseHeader("Writing")
	for _, r := range results {
		written, err := g.writeFragment(r)
		if err != nil {
			return err
		}
		if written {
			g.summary.FragmentsWritten++
			g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, r.path)
			g.diagnostics.PhaseProgress("Writing " + r.path)
		} else {
			g.summary.FragmentsUnchanged++
			g.diagnostics.Verbose("Unchanged %s", r.path)
		}
	}

	g.summary.Duration = time.Since(startTime)
	g.diagnostics.Debug("File cache holds %d entries", g.files().GetCacheStats().Size)
	return nil
}

// files is the reader shared by scanning, descriptor loading and writing
func (g *Generator) files() *utils.FileReader {
	return g.scanner.FileProcessor().GetFileReader()
}

// Regenerate drops cached descriptors for the changed files and runs again
func (g *Generator) Regenerate(ctx context.Context, changed []string) error {
	for _, path := range changed {
		g.loader.Invalidate(path)
	}
	g.diagnostics.Info("Regenerating after %d changed descriptor files", len(changed))
	return g.Run(ctx)
}

// discover scans the configured paths and loads every descriptor file
func (g *Generator) discover() (discovery.Source, []discovery.Candidate, error) {
	g.diagnostics.PhaseHeader("Discovery")

	files, err := g.scanner.ScanDescriptors(g.config.Paths)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, errors.New(errors.DescriptorErrorCode, "no descriptor files found").
			WithContext("paths", g.config.Paths).
			WithSuggestion("Descriptor files are named *.propgen.yaml or *.propgen.yml").
			WithSuggestion("Use a './...' pattern to scan subdirectories")
	}
	g.summary.DescriptorFiles = len(files)
	g.diagnostics.PhaseItem(fmt.Sprintf("Found %d descriptor files", len(files)))
	for _, f := range files {
		g.diagnostics.Debug("descriptor %s", f)
	}

	source := discovery.NewFileSource(g.loader, files...)
	candidates, err := source.Candidates()
	if err != nil {
		return nil, nil, err
	}
	g.summary.TypesProcessed = len(candidates)
	g.diagnostics.PhaseItem(fmt.Sprintf("Loaded %d candidate types", len(candidates)))
	return source, candidates, nil
}

// generate fans out one task per candidate type. Results keep the candidate
// order regardless of completion order.
func (g *Generator) generate(ctx context.Context, source discovery.Source, candidates []discovery.Candidate) ([]typeResult, error) {
	results := make([]typeResult, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(g.config.EffectiveJobs(), len(candidates)))

	for i, c := range candidates {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}

			desc := c.Type
			members, err := source.ListMembers(desc)
			if err != nil {
				return errors.WrapDescriptorError(c.File, err)
			}
			desc.Members = members

			fragment, err := g.codeGenerator.GenerateType(desc)
			if err != nil {
				return errors.WrapGenerateError(c.Type.QualifiedName(), err).
					WithLocation(c.Type.Location)
			}
			results[i] = typeResult{
				candidate: c,
				fragment:  fragment,
				path:      g.outputPath(c.File, fragment.Key),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		g.diagnostics.PhaseItem(fmt.Sprintf("Generated %s", r.fragment.TypeName))
	}
	return results, nil
}

// checkKeys rejects two types producing the same output file
func (g *Generator) checkKeys(results []typeResult) error {
	registry := utils.NewBaseRegistry[string, string]("fragment")
	registry.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[string]("output file"),
		utils.NoDuplicateValidator[string, string]("output file"),
	))

	errs := errors.NewMultipleErrors()
	for _, r := range results {
		owner := r.fragment.TypeName + " (" + r.candidate.File + ")"
		if err := registry.Register(r.path, owner); err != nil {
			claimed, _ := registry.Get(r.path)
			errs.Add(errors.Wrap(errors.GenerationErrorCode, "fragment key collision", err).
				WithLocation(r.candidate.Type.Location).
				WithContext("type_name", r.fragment.TypeName).
				WithContext("claimed_by", claimed).
				WithSuggestion("Give the types distinct names or namespaces"))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	g.diagnostics.Debug("Claimed %d output files", registry.Size())
	for _, path := range registry.List() {
		g.diagnostics.Debug("output %s", path)
	}
	return nil
}

func (g *Generator) reportWarnings(results []typeResult) {
	for _, r := range results {
		for _, w := range r.fragment.Warnings {
			g.summary.Warnings++
			g.reporter.ReportWarningTo(g.diagnostics, r.candidate.File, w)
		}
	}
}

// outputPath places a fragment in the configured output directory or next
// to the descriptor it came from
func (g *Generator) outputPath(descriptorFile, key string) string {
	if g.config.OutDir != "" {
		return filepath.Join(g.config.OutDir, key)
	}
	return filepath.Join(filepath.Dir(descriptorFile), key)
}

// writeFragment writes a fragment unless the file already holds the same
// content. It reports whether the file was written.
func (g *Generator) writeFragment(r typeResult) (bool, error) {
	content := []byte(r.fragment.Content)

	if existing, err := g.files().ReadFile(r.path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := g.ensureDirectory(filepath.Dir(r.path)); err != nil {
		return false, err
	}
	defer g.files().InvalidateFile(r.path)
	if err := os.WriteFile(r.path, content, filePerm); err != nil {
		return false, errors.WrapFileSystemError("write", r.path, err)
	}
	return true, nil
}

func (g *Generator) ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.WrapFileSystemError("create directory", dir, err)
	}
	return nil
}

// Explain loads every candidate type and dumps its resolved settings and
// notification dependencies to w without writing any fragment
func (g *Generator) Explain(ctx context.Context, w io.Writer) error {
	source, candidates, err := g.discover()
	if err != nil {
		return err
	}

	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		desc := c.Type
		if desc.Members, err = source.ListMembers(desc); err != nil {
			return errors.WrapDescriptorError(c.File, err)
		}
		report := g.codeGenerator.Explain(desc)
		fmt.Fprintf(w, "# %s (%s)\n", report.TypeName, c.Type.Location)
		dumper.Fdump(w, report)
	}
	return nil
}

// ReportSuccess prints the summary of the last run
func (g *Generator) ReportSuccess() {
	stats := map[string]interface{}{
		"Descriptor files":    g.summary.DescriptorFiles,
		"Types processed":     g.summary.TypesProcessed,
		"Fragments written":   g.summary.FragmentsWritten,
		"Fragments unchanged": g.summary.FragmentsUnchanged,
		"Warnings":            g.summary.Warnings,
	}
	g.diagnostics.Summary("Summary", stats)
	g.diagnostics.Verbose("Finished in %s", g.summary.Duration.Round(time.Millisecond))
	g.diagnostics.GenerationComplete()
}
