// Package templates renders the C# text of generated fragments: property
// declarations built line by line and the file layout around them.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Notification interfaces implemented by re-opened types
const (
	NotifyChangedInterface  = "global::System.ComponentModel.INotifyPropertyChanged"
	NotifyChangingInterface = "global::System.ComponentModel.INotifyPropertyChanging"
)

// FragmentData is the input of the fragment template
type FragmentData struct {
	Namespace string
	Body      string
}

// TypeBodyData is the input of the type-body template
type TypeBodyData struct {
	Kind       string // declaration keyword
	Name       string // display name with generic parameters
	Interfaces []string
	Blocks     []string // events and members, each unindented
}

// EventsData selects which notification events are declared
type EventsData struct {
	Changed  bool
	Changing bool
}

// Interfaces returns the notification interfaces matching the events
func (d EventsData) Interfaces() []string {
	var out []string
	if d.Changed {
		out = append(out, NotifyChangedInterface)
	}
	if d.Changing {
		out = append(out, NotifyChangingInterface)
	}
	return out
}

// GenerateFragment renders a whole generated file ending in a newline
func GenerateFragment(data FragmentData) (string, error) {
	return executeTemplate(FragmentTemplate, DefaultTemplateRegistry.MustGet(FragmentTemplate), data)
}

// GenerateTypeBody renders the re-opened type declaration
func GenerateTypeBody(data TypeBodyData) (string, error) {
	return executeTemplate(TypeBodyTemplate, DefaultTemplateRegistry.MustGet(TypeBodyTemplate), data)
}

// GenerateEvents renders the notification event declarations, "" for none
func GenerateEvents(data EventsData) (string, error) {
	return executeTemplate(EventsTemplate, DefaultTemplateRegistry.MustGet(EventsTemplate), data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"indent": DefaultTemplateUtils.Indent,
		"join":   strings.Join,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
