package templates

// Template names
const (
	FragmentTemplate = "fragment"
	TypeBodyTemplate = "type-body"
	EventsTemplate   = "events"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFragmentTemplates()
	registry.registerNotificationTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerFragmentTemplates registers the file and type layout
func (tr *TemplateRegistry) registerFragmentTemplates() {
	// Whole generated file; Body is the rendered type-body template
	tr.templates[FragmentTemplate] = `// <auto-generated/>
#nullable enable

{{if .Namespace -}}
namespace {{.Namespace}}
{
{{indent 1 .Body}}
}
{{else -}}
{{.Body}}
{{end -}}`

	// Re-opened type with its blocks separated by blank lines
	tr.templates[TypeBodyTemplate] = `partial {{.Kind}} {{.Name}}{{if .Interfaces}} : {{join .Interfaces ", "}}{{end}}
{
{{- range $i, $block := .Blocks}}
{{if $i}}
{{end}}{{indent 1 $block}}
{{- end}}
}`
}

// registerNotificationTemplates registers the notification event declarations
func (tr *TemplateRegistry) registerNotificationTemplates() {
	tr.templates[EventsTemplate] = `{{- if .Changed}}public event global::System.ComponentModel.PropertyChangedEventHandler? PropertyChanged;{{end}}
{{- if and .Changed .Changing}}
{{end}}
{{- if .Changing}}public event global::System.ComponentModel.PropertyChangingEventHandler? PropertyChanging;{{end}}`
}

// DefaultTemplateRegistry holds the built-in templates
var DefaultTemplateRegistry = NewTemplateRegistry()
