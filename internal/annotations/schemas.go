package annotations

import (
	"fmt"
	"math"
	"strings"

	"github.com/toyz/propgen/internal/literal"
)

// ParameterType represents the accepted value form of a modifier parameter
type ParameterType int

const (
	AnyType ParameterType = iota
	BoolType
	StringType
	IntType
	NumberType
	EnumType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case AnyType:
		return "any"
	case BoolType:
		return "bool"
	case StringType:
		return "string"
	case IntType:
		return "int"
	case NumberType:
		return "number"
	case EnumType:
		return "enum"
	default:
		return "unknown"
	}
}

// ParameterSpec defines one parameter of a modifier, in positional order
type ParameterSpec struct {
	Name        string         // named-argument spelling, matched case-insensitively
	Type        ParameterType  // accepted value form
	Required    bool           // instance is malformed without it
	Default     *literal.Value // used when neither positional nor named
	Members     []string       // EnumType member names, ordinal order
	Description string
}

// ModifierSchema defines the parameter layout of a modifier kind
type ModifierSchema struct {
	Kind        ModifierKind
	Description string
	Parameters  []ParameterSpec
	Namespaces  []string // qualifiers the kind name may carry besides PropGen
	Repeatable  bool
	Examples    []string
}

// Parameter looks up a parameter definition and its positional index by name
func (s ModifierSchema) Parameter(name string) (ParameterSpec, int, bool) {
	for i, p := range s.Parameters {
		if strings.EqualFold(p.Name, name) {
			return p, i, true
		}
	}
	return ParameterSpec{}, -1, false
}

// Argument reads a parameter from an instance: positional first, then the
// named argument, then the schema default.
func (s ModifierSchema) Argument(m ModifierInstance, name string) (literal.Value, bool) {
	param, index, ok := s.Parameter(name)
	if !ok {
		return literal.Value{}, false
	}
	if v, ok := m.Arg(index, param.Name); ok {
		return v, true
	}
	if param.Default != nil {
		return *param.Default, true
	}
	return literal.Value{}, false
}

// EnumMember maps an argument onto an enum parameter's member index. Enum
// member references, strings and ordinals are accepted.
func EnumMember(v literal.Value, members []string) (int, bool) {
	switch {
	case v.Kind == literal.Enum && v.Text != "":
		return memberIndex(v.Text, members)
	case v.Kind == literal.String:
		return memberIndex(v.Text, members)
	}
	if n, ok := v.AsInt(); ok && n >= 0 && n < len(members) {
		return n, true
	}
	return -1, false
}

func memberIndex(name string, members []string) (int, bool) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	for i, m := range members {
		if m == name {
			return i, true
		}
	}
	for i, m := range members {
		if strings.EqualFold(m, name) {
			return i, true
		}
	}
	return -1, false
}

// accepts reports whether a value fits the parameter type
func (p ParameterSpec) accepts(v literal.Value) error {
	switch p.Type {
	case BoolType:
		if v.Kind != literal.Bool {
			return fmt.Errorf("expected bool, got %s", v.Kind)
		}
	case StringType:
		if v.Kind != literal.String && !v.IsNull() {
			return fmt.Errorf("expected string, got %s", v.Kind)
		}
	case IntType:
		if _, ok := v.AsInt(); !ok {
			return fmt.Errorf("expected int, got %s", v.Kind)
		}
	case NumberType:
		if !v.Kind.IsNumeric() {
			return fmt.Errorf("expected number, got %s", v.Kind)
		}
	case EnumType:
		if _, ok := EnumMember(v, p.Members); !ok {
			return fmt.Errorf("expected one of %s, got %s", strings.Join(p.Members, ", "), literal.Display(v))
		}
	}
	return nil
}

func defaultOf(v literal.Value) *literal.Value { return &v }

// Enumeration member lists shared by the schemas and the resolver
var (
	ValidationStrategyMembers = []string{"Throw", "SilentRevertWithNotify", "SilentRevertNoNotify"}
	EncapsulationMembers      = []string{"Public", "Protected", "Private", "Internal", "ProtectedInternal"}
	EqualityModeMembers       = []string{"Default", "Custom", "None"}
	GetterModeMembers         = []string{"Default"}
	SetterModeMembers         = []string{"Default", "Set", "Init", "None"}
)

// DefaultFloatEpsilon and DefaultDoubleEpsilon are the smallest positive
// values of each type, used when EqualityCheck leaves them unset.
var (
	DefaultFloatEpsilon  = literal.SingleValue(math.SmallestNonzeroFloat32)
	DefaultDoubleEpsilon = literal.DoubleValue(math.SmallestNonzeroFloat64)
)

func notifySchema(kind ModifierKind, event string) ModifierSchema {
	return ModifierSchema{
		Kind:        kind,
		Description: "Raises " + event + " from the generated setter",
		Parameters: []ParameterSpec{
			{Name: "generate", Type: BoolType, Default: defaultOf(literal.BoolValue(true)),
				Description: "Whether the notification is emitted"},
			{Name: "callMethod", Type: StringType,
				Description: "Method invoked as method(this, propertyName) instead of the event"},
		},
		Examples: []string{
			kind.String(),
			kind.String() + "(false)",
			kind.String() + `(callMethod: "OnChanged")`,
		},
	}
}

func flagSchema(kind ModifierKind, description string) ModifierSchema {
	return ModifierSchema{Kind: kind, Description: description, Examples: []string{kind.String()}}
}

func enumSchema(kind ModifierKind, param string, members []string, description string) ModifierSchema {
	return ModifierSchema{
		Kind:        kind,
		Description: description,
		Parameters: []ParameterSpec{
			{Name: param, Type: EnumType, Required: true, Members: members},
		},
		Examples: []string{fmt.Sprintf("%s(%s.%s)", kind, kind, members[len(members)-1])},
	}
}

// BuiltinSchemas returns the schema of every recognized modifier kind
func BuiltinSchemas() []ModifierSchema {
	return []ModifierSchema{
		flagSchema(Generate, "Synthesizes a property for the member, or for every member of the type"),
		flagSchema(NoProperty, "Suppresses property synthesis"),
		notifySchema(NotifyChanged, "PropertyChanged"),
		notifySchema(NotifyChanging, "PropertyChanging"),
		{
			Kind:        NotifyOn,
			Description: "Raises this property's notifications whenever the named property changes",
			Parameters: []ParameterSpec{
				{Name: "propertyName", Type: StringType, Required: true},
			},
			Repeatable: true,
			Examples:   []string{`NotifyOn("FirstName")`},
		},
		enumSchema(ValidationStrategy, "strategy", ValidationStrategyMembers,
			"Selects what a failing setter check does"),
		{
			Kind:        PropertyName,
			Description: "Overrides the generated property name",
			Parameters: []ParameterSpec{
				{Name: "name", Type: StringType, Required: true},
			},
			Examples: []string{`PropertyName("Total")`},
		},
		enumSchema(PropertyEncapsulation, "level", EncapsulationMembers,
			"Sets the accessibility of the generated property"),
		flagSchema(VirtualProperty, "Marks the generated property virtual"),
		{
			Kind:        EqualityCheck,
			Description: "Configures the equality short-circuit of the setter",
			Parameters: []ParameterSpec{
				{Name: "mode", Type: EnumType, Members: EqualityModeMembers,
					Default: defaultOf(literal.EnumValue("EqualityCheck", "Default"))},
				{Name: "floatEpsilon", Type: NumberType, Default: defaultOf(DefaultFloatEpsilon)},
				{Name: "doubleEpsilon", Type: NumberType, Default: defaultOf(DefaultDoubleEpsilon)},
				{Name: "custom", Type: StringType, Description: "Comparer invoked as custom(old, new)"},
			},
			Examples: []string{
				"EqualityCheck(EqualityCheck.None)",
				`EqualityCheck(EqualityCheck.Custom, custom: "SameId")`,
				"EqualityCheck(doubleEpsilon: 0.001)",
			},
		},
		{
			Kind:        Guard,
			Description: "Rejects a new value when method(old, new) returns false",
			Parameters: []ParameterSpec{
				{Name: "methodName", Type: StringType, Required: true},
				{Name: "className", Type: StringType},
			},
			Repeatable: true,
			Examples:   []string{`Guard("IsValid")`, `Guard("IsPositive", "Checks")`},
		},
		{
			Kind:        PropertyAttribute,
			Description: "Copies an attribute onto the generated property",
			Parameters: []ParameterSpec{
				{Name: "name", Type: StringType, Required: true},
				{Name: "inherit", Type: BoolType, Default: defaultOf(literal.BoolValue(false))},
			},
			Repeatable: true,
			Examples:   []string{`PropertyAttribute("JsonIgnore")`, `PropertyAttribute("[Key]", true)`},
		},
		flagSchema(DisableAttributeTakeover, "Stops modifiers from being re-emitted on the property"),
		{
			Kind:        DefaultValue,
			Description: "Initializes the backing storage",
			Parameters: []ParameterSpec{
				{Name: "value", Type: AnyType, Required: true},
			},
			Examples: []string{"DefaultValue(42)", `DefaultValue("none")`},
		},
		enumSchema(Getter, "mode", GetterModeMembers, "Selects the getter shape"),
		enumSchema(Setter, "mode", SetterModeMembers, "Selects the setter shape"),
		{
			Kind:        Range,
			Description: "Rejects values outside [minimum, maximum]",
			Parameters: []ParameterSpec{
				{Name: "minimum", Type: AnyType, Required: true},
				{Name: "maximum", Type: AnyType, Required: true},
			},
			Namespaces: []string{"System.ComponentModel.DataAnnotations"},
			Examples:   []string{"Range(0, 100)", `Range(typeof(decimal), "0", "9.99")`},
		},
		{
			Kind:        MaxLength,
			Description: "Rejects values longer than length",
			Parameters: []ParameterSpec{
				{Name: "length", Type: IntType, Required: true},
			},
			Namespaces: []string{"System.ComponentModel.DataAnnotations"},
			Examples:   []string{"MaxLength(32)"},
		},
	}
}
