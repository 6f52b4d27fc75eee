package templates

import (
	"fmt"
	"strings"
)

// CodeWriter accumulates indented C# lines. Each emission owns its writer.
type CodeWriter struct {
	buf   strings.Builder
	level int
}

// Line writes one line at the current indentation
func (w *CodeWriter) Line(format string, args ...interface{}) {
	if w.buf.Len() > 0 {
		w.buf.WriteByte('\n')
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if text == "" {
		return
	}
	w.buf.WriteString(strings.Repeat(indentUnit, w.level))
	w.buf.WriteString(text)
}

// Lines writes each line at the current indentation
func (w *CodeWriter) Lines(lines []string) {
	for _, line := range lines {
		w.Line("%s", line)
	}
}

// Open writes an opening brace and indents
func (w *CodeWriter) Open() {
	w.Line("{")
	w.level++
}

// Close dedents and writes a closing brace
func (w *CodeWriter) Close() {
	if w.level > 0 {
		w.level--
	}
	w.Line("}")
}

// Block writes header, then body inside braces
func (w *CodeWriter) Block(header string, body func()) {
	w.Line("%s", header)
	w.Open()
	body()
	w.Close()
}

// String returns the written text without a trailing newline
func (w *CodeWriter) String() string {
	return w.buf.String()
}
