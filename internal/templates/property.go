package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/notify"
	"github.com/toyz/propgen/internal/resolver"
)

const (
	componentModel    = "global::System.ComponentModel"
	argumentException = "global::System.ArgumentException"
	mathAbs           = "global::System.Math.Abs"
)

// PropertyFragment is the generated code for one member
type PropertyFragment struct {
	Name     string // resolved property name
	Storage  string // field the accessors read and write
	Code     string // declarations, unindented
	Warnings []error
}

// SetterKind is the accessor shape a setter takes
type SetterKind int

const (
	NoSetter SetterKind = iota
	SetSetter
	InitSetter
)

// SetterKindFor selects the setter shape. An unset mode yields init for
// read-only storage and set otherwise.
func SetterKindFor(member models.MemberDescriptor, settings resolver.Settings) SetterKind {
	switch settings.SetterMode() {
	case resolver.SetterNone:
		return NoSetter
	case resolver.SetterInit:
		return InitSetter
	case resolver.SetterSet:
		return SetSetter
	}
	if member.IsReadOnly() {
		return InitSetter
	}
	return SetSetter
}

// EmitProperty generates the property for member. Members whose settings do
// not enable generation, and hand-written properties, produce an empty
// fragment.
func EmitProperty(member models.MemberDescriptor, settings resolver.Settings, deps notify.Map) PropertyFragment {
	tu := DefaultTemplateUtils
	name := tu.PropertyName(member, settings)
	if !settings.ShouldGenerate() || member.Kind == models.MemberKindProperty {
		return PropertyFragment{Name: name}
	}

	e := &propertyEmitter{
		member:   member,
		settings: settings,
		name:     name,
		storage:  member.Name,
		deps:     deps.Dependents(name),
	}
	if member.Kind == models.MemberKindPartialProperty {
		e.storage = tu.BackingFieldName(name)
		e.backingField()
		e.w.Line("")
	} else if settings.DefaultValue != nil {
		e.warn(errors.New(errors.GenerationErrorCode,
			fmt.Sprintf("default value of %s has no effect: field %s is its own storage", name, member.Name)).
			WithLocation(member.Location).
			WithSuggestion("Initialize the field in its declaration instead"))
	}
	e.header()
	e.w.Open()
	e.getter()
	e.setter()
	e.w.Close()

	return PropertyFragment{
		Name:     name,
		Storage:  e.storage,
		Code:     e.w.String(),
		Warnings: e.warnings,
	}
}

type propertyEmitter struct {
	w        CodeWriter
	member   models.MemberDescriptor
	settings resolver.Settings
	name     string
	storage  string
	deps     []string
	warnings []error
}

func (e *propertyEmitter) warn(err error) {
	e.warnings = append(e.warnings, err)
}

func (e *propertyEmitter) backingField() {
	if e.settings.Passthrough.Flag {
		e.w.Lines(e.settings.Passthrough.Items)
	}
	decl := fmt.Sprintf("private %s %s", e.member.Type.Text(), e.storage)
	if dv := e.settings.DefaultValue; dv != nil {
		text, err := literal.Serialize(*dv)
		if err != nil {
			e.warn(errors.WrapGenerateError("default value of "+e.name, err).WithLocation(e.member.Location))
		} else {
			decl += " = " + text
		}
	}
	e.w.Line("%s;", decl)
}

func (e *propertyEmitter) header() {
	e.w.Lines(e.settings.TakeoverAttributes())
	e.w.Lines(e.settings.Passthrough.Items)
	e.w.Lines(DefaultTemplateUtils.DocLines(e.member.Documentation))

	parts := []string{e.settings.Access().Keyword()}
	if e.settings.IsVirtual() {
		parts = append(parts, "virtual")
	}
	if e.member.Kind == models.MemberKindPartialProperty {
		parts = append(parts, "partial")
	}
	parts = append(parts, e.member.Type.Text(), e.name)
	e.w.Line("%s", strings.Join(parts, " "))
}

func (e *propertyEmitter) getter() {
	switch e.settings.GetterMode() {
	case resolver.GetterDefault:
		e.w.Line("get => %s;", e.storage)
	}
}

func (e *propertyEmitter) setter() {
	switch SetterKindFor(e.member, e.settings) {
	case NoSetter:
		return
	case InitSetter:
		e.w.Line("init { %s = value; }", e.storage)
		return
	}

	e.w.Block("set", func() {
		e.equality()
		e.notify(changing)
		e.rangeCheck()
		e.maxLength()
		e.guards()
		e.w.Line("%s = value;", e.storage)
		e.notify(changed)
	})
}

func (e *propertyEmitter) equality() {
	cond := EqualityExpression(e.member.Type, e.settings.Equality(), e.storage)
	if cond == "" {
		return
	}
	e.w.Block(fmt.Sprintf("if (%s)", cond), func() {
		e.w.Line("return;")
	})
}

// EqualityExpression returns the condition under which value equals the
// current storage, or "" when the check is disabled.
func EqualityExpression(t models.TypeRef, eq resolver.EqualityCheck, storage string) string {
	switch eq.Mode {
	case resolver.EqualityNone:
		return ""
	case resolver.EqualityCustom:
		return fmt.Sprintf("%s(%s, value)", eq.Custom, storage)
	}

	switch {
	case t.IsFloat() && !t.Nullable:
		eps := eq.DoubleEpsilon
		if t.Special == literal.Single {
			eps = eq.FloatEpsilon
		}
		return fmt.Sprintf("%s(value - %s) < %s", mathAbs, storage, literal.MustSerialize(eps))
	case t.Primitive:
		return fmt.Sprintf("%s == value", storage)
	case t.IsReference:
		return fmt.Sprintf("(value is null && %[1]s is null) || (value is not null && value.Equals(%[1]s))", storage)
	case t.Nullable:
		return fmt.Sprintf("global::System.Nullable.Equals(%s, value)", storage)
	}
	return fmt.Sprintf("value.Equals(%s)", storage)
}

type notification int

const (
	changing notification = iota
	changed
)

// notify raises the notification for the property and then its dependents
func (e *propertyEmitter) notify(kind notification) {
	e.raise(kind, fmt.Sprintf("nameof(%s)", e.name))
	for _, dep := range e.deps {
		e.raise(kind, DefaultTemplateUtils.QuoteString(dep))
	}
}

func (e *propertyEmitter) raise(kind notification, nameExpr string) {
	var (
		enabled bool
		method  *string
		event   string
	)
	switch kind {
	case changing:
		enabled, method, event = e.settings.ChangingEnabled(), e.settings.NotifyChangingMethod, "PropertyChanging"
	case changed:
		enabled, method, event = e.settings.ChangedEnabled(), e.settings.NotifyChangedMethod, "PropertyChanged"
	}
	if !enabled {
		return
	}
	if method != nil {
		e.w.Line("%s(this, %s);", *method, nameExpr)
		return
	}
	e.w.Line("%s?.Invoke(this, new %s.%sEventArgs(%s));", event, componentModel, event, nameExpr)
}

// fail writes the body of a failed check
func (e *propertyEmitter) fail(reason string) {
	switch e.settings.Strategy() {
	case resolver.SilentRevertWithNotify:
		e.raise(changed, fmt.Sprintf("nameof(%s)", e.name))
		e.w.Line("return;")
	case resolver.SilentRevertNoNotify:
		e.w.Line("return;")
	default:
		e.w.Line("throw new %s(%s, nameof(%s));", argumentException, DefaultTemplateUtils.QuoteString(reason), e.name)
	}
}

func (e *propertyEmitter) check(cond, reason string) {
	e.w.Block(fmt.Sprintf("if (%s)", cond), func() {
		e.fail(reason)
	})
}

func (e *propertyEmitter) rangeCheck() {
	rng := e.settings.Range
	if rng == nil {
		return
	}
	cond, err := RangeCondition(e.member.Type, *rng)
	if err != nil {
		e.warn(errors.WrapGenerateError("range check of "+e.name, err).WithLocation(e.member.Location))
		return
	}
	e.check(cond, RangeMessage(*rng))
}

// RangeMessage is the failure reason of a range check
func RangeMessage(rng resolver.Range) string {
	return fmt.Sprintf("Value must be between %s and %s", literal.Display(rng.From), literal.Display(rng.To))
}

// RangeCondition returns the condition under which value is out of range
func RangeCondition(t models.TypeRef, rng resolver.Range) (string, error) {
	from, to, err := rangeBounds(rng)
	if err != nil {
		return "", err
	}
	if rng.IsNumeric() {
		return fmt.Sprintf("value < %s || value > %s", from, to), nil
	}
	cond := fmt.Sprintf("value.CompareTo(%s) < 0 || value.CompareTo(%s) > 0", from, to)
	if t.IsReference || t.Nullable {
		cond = fmt.Sprintf("value is not null && (%s)", cond)
	}
	return cond, nil
}

func rangeBounds(rng resolver.Range) (string, string, error) {
	if rng.OperandType != "" {
		return convertedBound(rng.OperandType, rng.From), convertedBound(rng.OperandType, rng.To), nil
	}
	from, err := literal.Serialize(rng.From)
	if err != nil {
		return "", "", err
	}
	to, err := literal.Serialize(rng.To)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

// convertedBound converts a bound from its invariant text through the
// operand type's converter
func convertedBound(operand string, v literal.Value) string {
	return fmt.Sprintf("((%[1]s)%[2]s.TypeDescriptor.GetConverter(typeof(%[1]s)).ConvertFromInvariantString(%[3]s)!)",
		operand, componentModel, DefaultTemplateUtils.QuoteString(literal.Display(v)))
}

func (e *propertyEmitter) maxLength() {
	if e.settings.MaxLength == nil {
		return
	}
	n := *e.settings.MaxLength
	e.check(MaxLengthCondition(e.member.Type, n), fmt.Sprintf("Length must not exceed %d", n))
}

// MaxLengthCondition returns the condition under which value is too long
func MaxLengthCondition(t models.TypeRef, n int) string {
	length := "Count"
	if t.IsString() || t.IsArray {
		length = "Length"
	}
	if t.IsReference && !t.NonNull {
		return fmt.Sprintf("value is not null && value.%s > %d", length, n)
	}
	return fmt.Sprintf("value.%s > %d", length, n)
}

func (e *propertyEmitter) guards() {
	for _, g := range e.settings.GuardMethods {
		e.check(fmt.Sprintf("!%s(%s, value)", g.Call(), e.storage), fmt.Sprintf("Guard %s rejected the value", g.Method))
	}
}
