package annotations

import (
	"fmt"
	"strings"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
)

// ModifierKind identifies a recognized modifier. The set is closed: the
// resolver switches over every kind exhaustively.
type ModifierKind int

const (
	// Unrecognized marks a modifier outside the vocabulary. It is carried
	// through so it can be re-emitted as a takeover attribute.
	Unrecognized ModifierKind = iota
	Generate
	NoProperty
	NotifyChanged
	NotifyChanging
	NotifyOn
	ValidationStrategy
	PropertyName
	PropertyEncapsulation
	VirtualProperty
	EqualityCheck
	Guard
	PropertyAttribute
	DisableAttributeTakeover
	DefaultValue
	Getter
	Setter
	Range
	MaxLength
)

var kindNames = [...]string{
	Unrecognized:             "Unrecognized",
	Generate:                 "Generate",
	NoProperty:               "NoProperty",
	NotifyChanged:            "NotifyChanged",
	NotifyChanging:           "NotifyChanging",
	NotifyOn:                 "NotifyOn",
	ValidationStrategy:       "ValidationStrategy",
	PropertyName:             "PropertyName",
	PropertyEncapsulation:    "PropertyEncapsulation",
	VirtualProperty:          "VirtualProperty",
	EqualityCheck:            "EqualityCheck",
	Guard:                    "Guard",
	PropertyAttribute:        "PropertyAttribute",
	DisableAttributeTakeover: "DisableAttributeTakeover",
	DefaultValue:             "DefaultValue",
	Getter:                   "Getter",
	Setter:                   "Setter",
	Range:                    "Range",
	MaxLength:                "MaxLength",
}

// String returns the short modifier name
func (k ModifierKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unrecognized"
	}
	return kindNames[k]
}

// ParseModifierKind converts a short modifier name to its kind
func ParseModifierKind(s string) (ModifierKind, error) {
	for k, name := range kindNames {
		if ModifierKind(k) != Unrecognized && name == s {
			return ModifierKind(k), nil
		}
	}
	return Unrecognized, fmt.Errorf("unknown modifier kind: %s", s)
}

// Kinds returns every recognized kind in declaration order
func Kinds() []ModifierKind {
	kinds := make([]ModifierKind, 0, len(kindNames)-1)
	for k := range kindNames {
		if ModifierKind(k) != Unrecognized {
			kinds = append(kinds, ModifierKind(k))
		}
	}
	return kinds
}

// NamedArg is a name = value argument
type NamedArg struct {
	Name  string
	Value literal.Value
}

// ModifierInstance is one modifier applied to a type or member
type ModifierInstance struct {
	Kind       ModifierKind
	Name       string // name as written, used when re-emitting the modifier
	Positional []literal.Value
	Named      []NamedArg
	Location   errors.SourceLocation
}

// NewModifier builds an instance of a recognized kind with positional arguments
func NewModifier(kind ModifierKind, args ...literal.Value) ModifierInstance {
	return ModifierInstance{Kind: kind, Name: kind.String(), Positional: args}
}

// WithNamed returns a copy of the instance with an extra named argument
func (m ModifierInstance) WithNamed(name string, value literal.Value) ModifierInstance {
	named := make([]NamedArg, len(m.Named), len(m.Named)+1)
	copy(named, m.Named)
	m.Named = append(named, NamedArg{Name: name, Value: value})
	return m
}

// NamedValue looks up a named argument, ignoring case
func (m ModifierInstance) NamedValue(name string) (literal.Value, bool) {
	for _, arg := range m.Named {
		if strings.EqualFold(arg.Name, name) {
			return arg.Value, true
		}
	}
	return literal.Value{}, false
}

// Arg returns positional argument index, falling back to the named argument
func (m ModifierInstance) Arg(index int, name string) (literal.Value, bool) {
	if index >= 0 && index < len(m.Positional) {
		return m.Positional[index], true
	}
	if name == "" {
		return literal.Value{}, false
	}
	return m.NamedValue(name)
}

// Render produces attribute application text, e.g. [Range(0, 100)]. It fails
// when any argument has no literal form.
func (m ModifierInstance) Render() (string, error) {
	name := m.Name
	if name == "" {
		name = m.Kind.String()
	}
	if len(m.Positional) == 0 && len(m.Named) == 0 {
		return "[" + name + "]", nil
	}

	args := make([]string, 0, len(m.Positional)+len(m.Named))
	for _, v := range m.Positional {
		text, err := literal.Serialize(v)
		if err != nil {
			return "", err
		}
		args = append(args, text)
	}
	for _, arg := range m.Named {
		text, err := literal.Serialize(arg.Value)
		if err != nil {
			return "", err
		}
		args = append(args, arg.Name+" = "+text)
	}
	return "[" + name + "(" + strings.Join(args, ", ") + ")]", nil
}

// String returns the rendered form, or the bare name when rendering fails
func (m ModifierInstance) String() string {
	text, err := m.Render()
	if err != nil {
		return m.Name
	}
	return text
}
