package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	d := NewDiagnosticSystem(level)
	var out, errOut bytes.Buffer
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		level      DiagnosticLevel
		wantOut    string
		wantErrOut string
	}{
		{DiagnosticSilent, "", ""},
		{DiagnosticError, "", "[ERROR] e\n"},
		{DiagnosticWarn, "", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticInfo, "[INFO] i\n[SUCCESS] s\n", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticVerbose, "[INFO] i\n[SUCCESS] s\n[VERBOSE] v\n", "[ERROR] e\n[WARN] w\n"},
		{DiagnosticDebug, "[INFO] i\n[SUCCESS] s\n[VERBOSE] v\n[DEBUG] d\n", "[ERROR] e\n[WARN] w\n"},
	}

	for _, tt := range tests {
		d, out, errOut := newTestDiagnostics(tt.level)
		d.Error("e")
		d.Warn("w")
		d.Info("i")
		d.Success("s")
		d.Verbose("v")
		d.Debug("d")

		assert.Equal(t, tt.wantOut, out.String(), "level %d stdout", tt.level)
		assert.Equal(t, tt.wantErrOut, errOut.String(), "level %d stderr", tt.level)
	}
}

func TestDiagnosticSystem_Indent(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Indent()
	d.Info("nested %d", 1)
	d.Unindent()
	d.Unindent()
	d.Info("top")

	assert.Equal(t, "  [INFO] nested 1\n[INFO] top\n", out.String())
}

func TestDiagnosticSystem_Phases(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Header("Generating property accessors")
	d.PhaseHeader("Discovery")
	d.PhaseItem("Loaded 2 descriptor files")
	d.PhaseProgress("Writing Demo.Person.g.cs")
	d.PhaseProgress("Resolving Person")
	d.Summary("Summary", map[string]interface{}{"types": 2, "fragments": 2})
	d.GenerationComplete()

	assert.Equal(t, "Propgen: Generating property accessors\n"+
		"Discovery:\n"+
		"✓ Loaded 2 descriptor files\n"+
		"✏ Writing Demo.Person.g.cs\n"+
		"- Resolving Person\n"+
		"\nSummary\n"+
		"   fragments: 2\n"+
		"   types: 2\n"+
		"\nPropgen: Generation complete!\n", out.String())
}

func TestDiagnosticSystem_Location(t *testing.T) {
	d, _, errOut := newTestDiagnostics(DiagnosticWarn)
	d.Location("person.propgen.yaml", 12, 9, "unknown modifier %q", "Rnage")
	d.Location("person.propgen.yaml", 0, 0, "no types")

	assert.Equal(t, "[WARN] person.propgen.yaml:12:9: unknown modifier \"Rnage\"\n"+
		"[WARN] person.propgen.yaml: no types\n", errOut.String())

	quiet, _, quietErr := newTestDiagnostics(DiagnosticError)
	quiet.Location("a", 1, 1, "ignored")
	assert.Empty(t, quietErr.String())
}

func TestDiagnosticSystem_QuietSkipsBanner(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticError)
	d.Header("x")
	d.Raw("dump")
	d.GenerationComplete()
	assert.Empty(t, out.String())
	assert.Equal(t, DiagnosticError, d.Level())
	assert.Equal(t, DiagnosticError, NewQuietDiagnostics().Level())
	assert.Equal(t, DiagnosticVerbose, NewVerboseDiagnostics().Level())
}
