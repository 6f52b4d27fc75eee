package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/utils"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	warn    *color.Color
	fail    *color.Color
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
		warn:    color.New(color.FgYellow, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
	}
}

// SetOutput redirects the report
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// SetColors forces colored output on or off
func (r *DiagnosticReporter) SetColors(enabled bool) {
	for _, c := range []*color.Color{r.warn, r.fail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	r.warn.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	for _, s := range suggestions {
		fmt.Fprintf(r.out, "  hint: %s\n", s)
	}
}

// ReportWarningTo routes a fragment warning through diagnostics, pointing at
// the modifier that caused it when the location is known
func (r *DiagnosticReporter) ReportWarningTo(diagnostics *utils.DiagnosticSystem, file string, warning error) {
	var pe errors.PropgenError
	if !stderrors.As(warning, &pe) {
		diagnostics.Warn("%s: %v", file, warning)
		return
	}

	loc := pe.Location()
	if loc.File == "" {
		loc.File = file
	}
	if loc.Line == 0 {
		diagnostics.Warn("%s: %v", loc.File, warning)
		return
	}
	diagnostics.Location(loc.File, loc.Line, loc.Column, "%v", warning)
	if r.verbose {
		diagnostics.Indent()
		for _, s := range pe.Suggestions() {
			diagnostics.Verbose("hint: %s", s)
		}
		diagnostics.Unindent()
	}
}

// ReportError prints err with its location, context and suggestions. A
// collection is reported entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	entries := flatten(err)

	fmt.Fprintln(r.out)
	r.fail.Fprintln(r.out, "ERROR: Code Generation Failed")
	fmt.Fprintf(r.out, "=============================\n\n")
	if len(entries) > 1 {
		fmt.Fprintf(r.out, "%d problems found\n\n", len(entries))
	}

	for _, entry := range entries {
		var pe errors.PropgenError
		if stderrors.As(entry, &pe) {
			r.reportPropgenError(pe)
		} else {
			fmt.Fprintf(r.out, "Message: %s\n\n", entry.Error())
		}
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with -verbose for more detailed output\n")
	fmt.Fprintf(r.out, "  - Run with -explain to inspect the resolved settings of each type\n\n")
}

// flatten expands MultipleErrors, including nested ones, in order
func flatten(err error) []error {
	multi, ok := err.(*errors.MultipleErrors)
	if !ok || multi.Count() == 0 {
		return []error{err}
	}
	var out []error
	for _, e := range multi.Errors {
		out = append(out, flatten(e)...)
	}
	return out
}

func (r *DiagnosticReporter) reportPropgenError(pe errors.PropgenError) {
	r.printErrorHeader(pe.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", pe.Error())

	if loc := pe.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if ctx := pe.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := pe.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printErrorChain(pe)
	}
}

func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var title string
	switch code {
	case errors.SyntaxErrorCode:
		title = "Modifier Syntax Error"
	case errors.MalformedModifierCode:
		title = "Malformed Modifier Arguments"
	case errors.UnsupportedValueKindCode:
		title = "Unsupported Value Kind"
	case errors.GenerationErrorCode:
		title = "Code Generation Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.DescriptorErrorCode:
		title = "Descriptor Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	default:
		title = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints the well-known keys first, then the rest sorted
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"type_name", "member_name", "modifier", "operation", "path"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, ok := context[key]; ok {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintln(r.out)
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printErrorChain(pe errors.PropgenError) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	fmt.Fprintf(r.out, "  Error Code: %s (%d)\n", pe.ErrorCode(), int(pe.ErrorCode()))

	level := 1
	for err := pe.Unwrap(); err != nil; level++ {
		fmt.Fprintf(r.out, "    %d. %s\n", level, err.Error())
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}

	fmt.Fprintln(r.out)
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.out, "[DEBUG] "+format+"\n", args...)
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	DescriptorFiles    int
	TypesProcessed     int
	FragmentsWritten   int
	FragmentsUnchanged int
	Warnings           int
	GeneratedFiles     []string
	Duration           time.Duration
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(w io.Writer, summary GenerationSummary) {
	fmt.Fprintf(w, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(w, "=======================================\n\n")

	fmt.Fprintf(w, "Processed %d descriptor files\n", summary.DescriptorFiles)
	fmt.Fprintf(w, "Generated %d types\n", summary.TypesProcessed)
	if summary.FragmentsUnchanged > 0 {
		fmt.Fprintf(w, "%d fragments were already up to date\n", summary.FragmentsUnchanged)
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(w, "%d warnings\n", summary.Warnings)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(w, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(w, "  - %s\n", file)
		}
	}
}
