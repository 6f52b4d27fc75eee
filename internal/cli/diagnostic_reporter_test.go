package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/utils"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(verbose)
	reporter.SetOutput(&buf)
	reporter.SetColors(false)
	return reporter, &buf
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	reporter, buf := newTestReporter(false)

	reporter.ReportWarning("This is a test warning")
	reporter.ReportWarning("This is another warning", "First suggestion")

	output := buf.String()
	assert.Contains(t, output, "! This is a test warning\n")
	assert.Contains(t, output, "! This is another warning\n  hint: First suggestion\n")
}

func TestDiagnosticReporter_ReportPropgenError(t *testing.T) {
	reporter, buf := newTestReporter(false)

	err := errors.New(errors.DescriptorErrorCode, "member _age is declared twice in Person").
		WithLocation(errors.SourceLocation{File: "models/person.propgen.yaml", Line: 9, Column: 9}).
		WithContext("type_name", "Demo.Person").
		WithContext("zeta", 1).
		WithContext("alpha", "first").
		WithSuggestion("Rename one of the members\nor remove the duplicate")

	reporter.ReportError(err)
	output := buf.String()

	assert.Contains(t, output, "ERROR: Code Generation Failed")
	assert.Contains(t, output, "Type: Descriptor Error\n")
	assert.Contains(t, output, "Location: models/person.propgen.yaml:9:9\n")
	assert.Contains(t, output, "   Type Name: Demo.Person\n")
	assert.Contains(t, output, "   1. Rename one of the members\n      or remove the duplicate\n")
	assert.NotContains(t, output, "Error Chain:")

	alpha := strings.Index(output, "Alpha: first")
	zeta := strings.Index(output, "Zeta: 1")
	assert.True(t, alpha > 0 && zeta > alpha, "remaining context keys are sorted")
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	reporter, buf := newTestReporter(false)

	inner := errors.NewMultipleErrors()
	inner.Add(errors.New(errors.SyntaxErrorCode, "cannot parse modifier"))
	outer := errors.NewMultipleErrors()
	outer.Add(errors.New(errors.FileSystemErrorCode, "missing file"))
	outer.Add(inner)
	outer.Add(fmt.Errorf("plain failure"))

	reporter.ReportError(outer)
	output := buf.String()

	assert.Contains(t, output, "3 problems found")
	assert.Contains(t, output, "Type: File System Error")
	assert.Contains(t, output, "Type: Modifier Syntax Error")
	assert.Contains(t, output, "Message: plain failure")
}

func TestDiagnosticReporter_VerboseShowsChain(t *testing.T) {
	reporter, buf := newTestReporter(true)

	cause := fmt.Errorf("open x.propgen.yaml: %w", assert.AnError)
	reporter.ReportError(errors.WrapFileSystemError("read", "x.propgen.yaml", cause))

	output := buf.String()
	assert.Contains(t, output, "Error Chain:")
	assert.Contains(t, output, "Error Code: FileSystemError (5)")
	assert.Contains(t, output, "1. open x.propgen.yaml: "+assert.AnError.Error())
	assert.Contains(t, output, "2. "+assert.AnError.Error())
}

func TestDiagnosticReporter_ReportWarningTo(t *testing.T) {
	reporter, _ := newTestReporter(true)

	var out bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticVerbose)
	diagnostics.SetOutput(&out, &out)
	diagnostics.SetColors(false)
	diagnostics.SetShowTime(false)

	located := errors.NewMalformedModifierError("Range", "min", "must be a number").
		WithLocation(errors.SourceLocation{Line: 7, Column: 11}).
		WithSuggestion("Use Range(0, 100)")
	reporter.ReportWarningTo(diagnostics, "person.propgen.yaml", located)
	reporter.ReportWarningTo(diagnostics, "person.propgen.yaml", fmt.Errorf("loose warning"))

	output := out.String()
	assert.Contains(t, output, "[WARN] person.propgen.yaml:7:11: ")
	assert.Contains(t, output, "modifier 'Range' skipped: parameter 'min' must be a number")
	assert.Contains(t, output, "\n  [VERBOSE] hint: Use Range(0, 100)\n")
	assert.Contains(t, output, "[WARN] person.propgen.yaml: loose warning")
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	reporter, _ := newTestReporter(false)

	var buf bytes.Buffer
	reporter.ReportSuccess(&buf, GenerationSummary{
		DescriptorFiles:    2,
		TypesProcessed:     3,
		FragmentsUnchanged: 1,
		GeneratedFiles:     []string{"Demo.Person.g.cs", "Demo.Order.g.cs"},
	})

	output := buf.String()
	assert.Contains(t, output, "Processed 2 descriptor files")
	assert.Contains(t, output, "Generated 3 types")
	assert.Contains(t, output, "1 fragments were already up to date")
	assert.NotContains(t, output, "warnings")
	assert.Contains(t, output, "  - Demo.Order.g.cs\n")
}
