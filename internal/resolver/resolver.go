package resolver

import (
	"fmt"
	"strings"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
)

// Scope says where a modifier list is attached
type Scope int

const (
	MemberScope Scope = iota
	TypeScope
)

// Resolver maps modifier instances onto Settings
type Resolver struct {
	registry annotations.Registry
}

// New creates a resolver reading parameter schemas from registry. A nil
// registry selects annotations.DefaultRegistry.
func New(registry annotations.Registry) *Resolver {
	if registry == nil {
		registry = annotations.DefaultRegistry()
	}
	return &Resolver{registry: registry}
}

// Resolve resolves the type-level list into defaults, the member-level list
// into specific settings, and merges specific over defaults.
func (r *Resolver) Resolve(memberMods, typeMods []annotations.ModifierInstance) Result {
	defaults := r.Apply(typeMods, TypeScope)
	specific := r.Apply(memberMods, MemberScope)
	return Result{
		Settings: Merge(specific.Settings, defaults.Settings),
		Warnings: append(defaults.Warnings, specific.Warnings...),
	}
}

// ResolveMember resolves a member's list over already resolved type defaults
func (r *Resolver) ResolveMember(memberMods []annotations.ModifierInstance, defaults Settings) Result {
	specific := r.Apply(memberMods, MemberScope)
	return Result{
		Settings: Merge(specific.Settings, defaults),
		Warnings: specific.Warnings,
	}
}

// Apply resolves a single modifier list. Later instances of a scalar kind
// replace earlier ones; malformed instances are skipped with a warning.
func (r *Resolver) Apply(mods []annotations.ModifierInstance, scope Scope) Result {
	var res Result
	for _, m := range mods {
		if err := r.apply(&res.Settings, m, scope); err != nil {
			res.Warnings = append(res.Warnings, err)
		}
	}
	return res
}

func (r *Resolver) apply(s *Settings, m annotations.ModifierInstance, scope Scope) error {
	if m.Kind == annotations.Unrecognized {
		if scope == MemberScope {
			// Best effort: modifiers without a literal form are dropped.
			if text, err := m.Render(); err == nil {
				s.Takeover.Items = append(s.Takeover.Items, text)
			}
		}
		return nil
	}

	schema, err := r.registry.Schema(m.Kind)
	if err != nil {
		return errors.NewMalformedModifierError(m.Name, "", err.Error()).WithLocation(m.Location)
	}
	if err := annotations.Validate(m, schema); err != nil {
		return err
	}
	arg := func(name string) literal.Value {
		v, _ := schema.Argument(m, name)
		return v
	}

	switch m.Kind {
	case annotations.Generate:
		s.Generate = ptr(true)
	case annotations.NoProperty:
		s.Generate = ptr(false)
	case annotations.NotifyChanged:
		s.NotifyChanged, s.NotifyChangedMethod = notification(arg("generate"), arg("callMethod"))
	case annotations.NotifyChanging:
		s.NotifyChanging, s.NotifyChangingMethod = notification(arg("generate"), arg("callMethod"))
	case annotations.NotifyOn:
		// consumed by the notification dependency tracker
	case annotations.ValidationStrategy:
		s.ValidationStrategy = ptr(ValidationStrategy(enumIndex(arg("strategy"), annotations.ValidationStrategyMembers)))
	case annotations.PropertyName:
		name, _ := arg("name").AsString()
		if strings.TrimSpace(name) == "" {
			return errors.NewMalformedModifierError(m.Name, "name", "must not be empty").WithLocation(m.Location)
		}
		s.PropertyName = ptr(strings.TrimSpace(name))
	case annotations.PropertyEncapsulation:
		s.Encapsulation = ptr(Encapsulation(enumIndex(arg("level"), annotations.EncapsulationMembers)))
	case annotations.VirtualProperty:
		s.VirtualProperty = ptr(true)
	case annotations.EqualityCheck:
		eq, err := equalityCheck(m, arg)
		if err != nil {
			return err
		}
		s.EqualityCheck = &eq
	case annotations.Guard:
		method, _ := arg("methodName").AsString()
		if strings.TrimSpace(method) == "" {
			return errors.NewMalformedModifierError(m.Name, "methodName", "is required").WithLocation(m.Location)
		}
		class, _ := arg("className").AsString()
		s.GuardMethods = append(s.GuardMethods, GuardMethod{Method: method, Class: class})
	case annotations.PropertyAttribute:
		text, _ := arg("name").AsString()
		text = strings.TrimSpace(text)
		if text == "" {
			return errors.NewMalformedModifierError(m.Name, "name", "must not be empty").WithLocation(m.Location)
		}
		s.Passthrough.Items = append(s.Passthrough.Items, bracket(text))
		if inherit, ok := arg("inherit").AsBool(); ok && inherit {
			s.Passthrough.Flag = true
		}
	case annotations.DisableAttributeTakeover:
		s.Takeover.Flag = true
	case annotations.DefaultValue:
		v := arg("value")
		s.DefaultValue = &v
	case annotations.Getter:
		s.Getter = ptr(GetterMode(enumIndex(arg("mode"), annotations.GetterModeMembers)))
	case annotations.Setter:
		s.Setter = ptr(SetterMode(enumIndex(arg("mode"), annotations.SetterModeMembers)))
	case annotations.Range:
		rng, err := rangeOf(m, arg)
		if err != nil {
			return err
		}
		s.Range = &rng
		takeover(s, m)
	case annotations.MaxLength:
		n, _ := arg("length").AsInt()
		if n < 0 {
			return errors.NewMalformedModifierError(m.Name, "length", "must not be negative").WithLocation(m.Location)
		}
		s.MaxLength = &n
		takeover(s, m)
	case annotations.Unrecognized:
		// handled above
	default:
		panic(fmt.Sprintf("resolver: unhandled modifier kind %s", m.Kind))
	}
	return nil
}

// takeover re-emits a validation modifier onto the generated member
func takeover(s *Settings, m annotations.ModifierInstance) {
	if text, err := m.Render(); err == nil {
		s.Takeover.Items = append(s.Takeover.Items, text)
	}
}

func notification(generate, method literal.Value) (*bool, *string) {
	enabled, ok := generate.AsBool()
	if !ok {
		enabled = true
	}
	name, ok := method.AsString()
	if !ok || strings.TrimSpace(name) == "" {
		return &enabled, nil
	}
	name = strings.TrimSpace(name)
	return &enabled, &name
}

func equalityCheck(m annotations.ModifierInstance, arg func(string) literal.Value) (EqualityCheck, error) {
	eq := EqualityCheck{
		Mode:          EqualityMode(enumIndex(arg("mode"), annotations.EqualityModeMembers)),
		FloatEpsilon:  annotations.DefaultFloatEpsilon,
		DoubleEpsilon: annotations.DefaultDoubleEpsilon,
	}
	if f, ok := arg("floatEpsilon").AsFloat(); ok {
		eq.FloatEpsilon = literal.SingleValue(float32(f))
	}
	if f, ok := arg("doubleEpsilon").AsFloat(); ok {
		eq.DoubleEpsilon = literal.DoubleValue(f)
	}
	if custom, ok := arg("custom").AsString(); ok {
		eq.Custom = strings.TrimSpace(custom)
	}
	if eq.Mode == EqualityCustom && eq.Custom == "" {
		return EqualityCheck{}, errors.NewMalformedModifierError(m.Name, "custom",
			"is required in Custom mode").WithLocation(m.Location)
	}
	return eq, nil
}

// rangeOf reads Range(from, to) or Range(typeof(T), "from", "to")
func rangeOf(m annotations.ModifierInstance, arg func(string) literal.Value) (Range, error) {
	if len(m.Positional) >= 3 && m.Positional[0].Kind == literal.Type {
		operand := m.Positional[0].Text
		from, to := m.Positional[1], m.Positional[2]
		kind, ok := literal.KindForTypeName(operand)
		if !ok || !kind.IsNumeric() {
			return Range{OperandType: operand, From: from, To: to}, nil
		}
		fromText, toText := literal.Display(from), literal.Display(to)
		fv, err := literal.ParseAs(kind, fromText)
		if err != nil {
			return Range{}, errors.NewMalformedModifierError(m.Name, "minimum", err.Error()).WithLocation(m.Location)
		}
		tv, err := literal.ParseAs(kind, toText)
		if err != nil {
			return Range{}, errors.NewMalformedModifierError(m.Name, "maximum", err.Error()).WithLocation(m.Location)
		}
		return Range{Kind: kind, From: fv, To: tv}, nil
	}

	from, to := arg("minimum"), arg("maximum")
	if from.IsNull() || to.IsNull() {
		return Range{}, errors.NewMalformedModifierError(m.Name, "", "bounds must not be null").WithLocation(m.Location)
	}
	switch {
	case from.Kind.IsNumeric() && to.Kind.IsNumeric() && from.Kind != to.Kind:
		// mixed bounds select the double overload
		f, _ := from.AsFloat()
		t, _ := to.AsFloat()
		return Range{Kind: literal.Double, From: literal.DoubleValue(f), To: literal.DoubleValue(t)}, nil
	case from.Kind.IsNumeric():
		return Range{Kind: from.Kind, From: from, To: to}, nil
	}
	return Range{From: from, To: to}, nil
}

func enumIndex(v literal.Value, members []string) int {
	i, ok := annotations.EnumMember(v, members)
	if !ok {
		return 0
	}
	return i
}

// bracket wraps attribute text in [...] unless it already is
func bracket(text string) string {
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return text
	}
	return "[" + text + "]"
}

func ptr[T any](v T) *T {
	return &v
}

var defaultResolver = New(nil)

// Resolve resolves with the built-in vocabulary
func Resolve(memberMods, typeMods []annotations.ModifierInstance) Result {
	return defaultResolver.Resolve(memberMods, typeMods)
}
