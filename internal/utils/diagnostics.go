package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides leveled, colored console output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
	started   time.Time

	levelColors map[string]*color.Color
	cyan        *color.Color
	blue        *color.Color
	green       *color.Color
	magenta     *color.Color
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	d := &DiagnosticSystem{
		level:    level,
		showTime: level >= DiagnosticVerbose,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
	d.levelColors = map[string]*color.Color{
		"ERROR":   color.New(color.FgRed, color.Bold),
		"WARN":    color.New(color.FgYellow),
		"INFO":    color.New(color.FgBlue),
		"SUCCESS": color.New(color.FgGreen),
		"VERBOSE": color.New(color.FgHiBlack),
		"DEBUG":   color.New(color.FgMagenta),
	}
	d.cyan = color.New(color.FgCyan)
	d.blue = color.New(color.FgBlue)
	d.green = color.New(color.FgGreen)
	d.magenta = color.New(color.FgMagenta)
	d.SetColors(shouldUseColors())
	return d
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects regular and error output
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.output = out
	d.errorOut = errOut
}

// SetColors forces colors on or off
func (d *DiagnosticSystem) SetColors(enabled bool) {
	d.useColors = enabled
	all := []*color.Color{d.cyan, d.blue, d.green, d.magenta}
	for _, c := range d.levelColors {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// SetShowTime toggles timestamps on leveled messages
func (d *DiagnosticSystem) SetShowTime(show bool) {
	d.showTime = show
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.errorOut, "WARN", format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", format, args...)
	}
}

// Raw writes text unchanged at info level. Used for explain dumps.
func (d *DiagnosticSystem) Raw(text string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprint(d.output, text)
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics in key order
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	fmt.Fprintf(d.output, "\n%s\n", title)

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
}

// Header outputs the tool banner
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.started = time.Now()
		d.cyan.Fprintf(d.output, "Propgen: %s\n", message)
	}
}

// PhaseHeader outputs a phase header
func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.level >= DiagnosticInfo {
		d.blue.Fprintf(d.output, "%s:\n", phase)
	}
}

// PhaseItem outputs a phase item with checkmark
func (d *DiagnosticSystem) PhaseItem(message string) {
	if d.level >= DiagnosticInfo {
		d.green.Fprint(d.output, "✓ ")
		fmt.Fprintf(d.output, "%s\n", message)
	}
}

// PhaseProgress outputs a phase progress item
func (d *DiagnosticSystem) PhaseProgress(message string) {
	if d.level < DiagnosticInfo {
		return
	}
	if strings.HasPrefix(message, "Writing") || strings.HasPrefix(message, "Removing") {
		d.magenta.Fprint(d.output, "✏ ")
		fmt.Fprintf(d.output, "%s\n", message)
		return
	}
	fmt.Fprintf(d.output, "- %s\n", message)
}

// Location outputs a warning tied to a source position
func (d *DiagnosticSystem) Location(file string, line, column int, format string, args ...interface{}) {
	if d.level < DiagnosticWarn {
		return
	}
	prefix := file
	if line > 0 {
		prefix = fmt.Sprintf("%s:%d:%d", file, line, column)
	}
	d.writeMessage(d.errorOut, "WARN", "%s: %s", prefix, fmt.Sprintf(format, args...))
}

// GenerationComplete outputs the completion message
func (d *DiagnosticSystem) GenerationComplete() {
	if d.level < DiagnosticInfo {
		return
	}
	fmt.Fprintln(d.output)
	if d.showTime && !d.started.IsZero() {
		d.green.Fprintf(d.output, "Propgen: Generation complete in %s\n", time.Since(d.started).Round(time.Millisecond))
		return
	}
	d.green.Fprintln(d.output, "Propgen: Generation complete!")
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	var output strings.Builder
	output.WriteString(strings.Repeat("  ", d.indent))

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	tag := "[" + level + "]"
	if c, ok := d.levelColors[level]; ok {
		tag = c.Sprint(tag)
	}
	output.WriteString(tag)
	output.WriteString(" ")
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}
