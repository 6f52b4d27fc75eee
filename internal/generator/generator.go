// Package generator assembles the generated fragment of a type: it resolves
// the type-level modifiers once, tracks notification dependencies, and emits
// every member in declaration order.
package generator

import (
	"strings"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/notify"
	"github.com/toyz/propgen/internal/resolver"
	"github.com/toyz/propgen/internal/templates"
)

// Generator implements the CodeGenerator interface. It holds no per-type
// state; concurrent GenerateType calls are safe.
type Generator struct {
	resolver *resolver.Resolver
}

// NewGenerator creates a generator for the built-in modifier vocabulary
func NewGenerator() *Generator {
	return NewGeneratorWithRegistry(nil)
}

// NewGeneratorWithRegistry creates a generator reading modifier schemas from
// registry; nil selects the default registry.
func NewGeneratorWithRegistry(registry annotations.Registry) *Generator {
	return &Generator{resolver: resolver.New(registry)}
}

// MemberReport is the resolved view of one member
type MemberReport struct {
	Member   string
	Property string
	Settings resolver.Settings
	Warnings []error
}

// TypeReport is the resolved view of a type and its members
type TypeReport struct {
	TypeName     string
	TypeSettings resolver.Settings
	Members      []MemberReport
	Dependencies notify.Map
	Warnings     []error // type-level modifier problems
}

// Explain resolves a type without emitting it
func (g *Generator) Explain(desc models.TypeDescriptor) TypeReport {
	typeRes := g.resolver.Apply(desc.Modifiers, resolver.TypeScope)
	report := TypeReport{
		TypeName:     desc.QualifiedName(),
		TypeSettings: typeRes.Settings,
		Warnings:     typeRes.Warnings,
	}

	names := make(map[string]string, len(desc.Members))
	for _, member := range desc.Members {
		res := g.resolver.ResolveMember(member.Modifiers, typeRes.Settings)
		prop := templates.DefaultTemplateUtils.PropertyName(member, res.Settings)
		names[member.Name] = prop
		report.Members = append(report.Members, MemberReport{
			Member:   member.Name,
			Property: prop,
			Settings: res.Settings,
			Warnings: res.Warnings,
		})
	}
	report.Dependencies = notify.Build(notify.MembersOf(desc.Members, func(md models.MemberDescriptor) string {
		return names[md.Name]
	}))
	return report
}

// GenerateType emits the fragment of one type. Modifier problems never fail
// the type; they are returned as fragment warnings. An error means the
// fragment could not be rendered at all.
func (g *Generator) GenerateType(desc models.TypeDescriptor) (models.Fragment, error) {
	fragment := models.Fragment{
		Key:      models.FragmentKey(desc.Namespace, desc.Name, desc.Generics),
		TypeName: desc.QualifiedName(),
	}
	if strings.TrimSpace(desc.Name) == "" {
		return fragment, errors.New(errors.GenerationErrorCode, "type descriptor has no name").
			WithLocation(desc.Location)
	}

	report := g.Explain(desc)
	fragment.Warnings = append(fragment.Warnings, report.Warnings...)
	for _, cycle := range report.Dependencies.Cycles() {
		fragment.Warnings = append(fragment.Warnings,
			errors.Newf(errors.GenerationErrorCode, "notification dependency cycle in %s: %s -> %s",
				desc.DisplayName(), strings.Join(cycle, " -> "), cycle[0]).
				WithLocation(desc.Location).
				WithSuggestion("each setter still raises its dependents once; remove one NotifyOn to break the cycle"))
	}

	events := templates.EventsData{
		Changed:  report.TypeSettings.UsesChangedEvent(),
		Changing: report.TypeSettings.UsesChangingEvent(),
	}
	var blocks []string
	eventBlock, err := templates.GenerateEvents(events)
	if err != nil {
		return fragment, errors.WrapGenerateError("events of "+desc.QualifiedName(), err)
	}
	if eventBlock != "" {
		blocks = append(blocks, eventBlock)
	}

	for i, member := range desc.Members {
		mr := report.Members[i]
		fragment.Warnings = append(fragment.Warnings, mr.Warnings...)
		prop := templates.EmitProperty(member, mr.Settings, report.Dependencies)
		fragment.Warnings = append(fragment.Warnings, prop.Warnings...)
		if prop.Code != "" {
			blocks = append(blocks, prop.Code)
		}
	}

	body, err := templates.GenerateTypeBody(templates.TypeBodyData{
		Kind:       desc.Kind.String(),
		Name:       desc.DisplayName(),
		Interfaces: events.Interfaces(),
		Blocks:     blocks,
	})
	if err != nil {
		return fragment, errors.WrapGenerateError(desc.QualifiedName(), err)
	}

	content, err := templates.GenerateFragment(templates.FragmentData{Namespace: desc.Namespace, Body: body})
	if err != nil {
		return fragment, errors.WrapGenerateError(desc.QualifiedName(), err)
	}
	fragment.Content = content
	return fragment, nil
}

var defaultGenerator = NewGenerator()

// GenerateType emits a fragment with the built-in vocabulary
func GenerateType(desc models.TypeDescriptor) (models.Fragment, error) {
	return defaultGenerator.GenerateType(desc)
}
