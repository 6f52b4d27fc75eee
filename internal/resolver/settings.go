// Package resolver merges the modifiers of a member and its enclosing type
// into the settings that drive property emission.
package resolver

import (
	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/literal"
)

// ValidationStrategy selects what a failing setter check does
type ValidationStrategy int

const (
	Throw ValidationStrategy = iota
	SilentRevertWithNotify
	SilentRevertNoNotify
)

func (s ValidationStrategy) String() string {
	return memberName(annotations.ValidationStrategyMembers, int(s))
}

// Encapsulation is the accessibility of the generated property
type Encapsulation int

const (
	Public Encapsulation = iota
	Protected
	Private
	Internal
	ProtectedInternal
)

func (e Encapsulation) String() string {
	return memberName(annotations.EncapsulationMembers, int(e))
}

// Keyword returns the C# accessibility keywords
func (e Encapsulation) Keyword() string {
	switch e {
	case Protected:
		return "protected"
	case Private:
		return "private"
	case Internal:
		return "internal"
	case ProtectedInternal:
		return "protected internal"
	default:
		return "public"
	}
}

// EqualityMode selects the setter's equality short-circuit
type EqualityMode int

const (
	EqualityDefault EqualityMode = iota
	EqualityCustom
	EqualityNone
)

func (m EqualityMode) String() string {
	return memberName(annotations.EqualityModeMembers, int(m))
}

// GetterMode selects the getter shape
type GetterMode int

const (
	GetterDefault GetterMode = iota
)

func (m GetterMode) String() string {
	return memberName(annotations.GetterModeMembers, int(m))
}

// SetterMode selects the setter shape
type SetterMode int

const (
	SetterDefault SetterMode = iota
	SetterSet
	SetterInit
	SetterNone
)

func (m SetterMode) String() string {
	return memberName(annotations.SetterModeMembers, int(m))
}

func memberName(members []string, i int) string {
	if i < 0 || i >= len(members) {
		return "Unknown"
	}
	return members[i]
}

// Range is a configured bounds check
type Range struct {
	// Kind is the numeric kind compared with < and >. literal.Null means the
	// bounds are compared through CompareTo.
	Kind literal.Kind
	From literal.Value
	To   literal.Value
	// OperandType is set for Range(typeof(T), "from", "to") with a non-numeric
	// T; the bounds are then converted from their invariant string form.
	OperandType string
}

// IsNumeric reports whether the bounds compare with relational operators
func (r Range) IsNumeric() bool {
	return r.Kind.IsNumeric()
}

// EqualityCheck configures the equality short-circuit
type EqualityCheck struct {
	Mode          EqualityMode
	FloatEpsilon  literal.Value
	DoubleEpsilon literal.Value
	Custom        string // comparer name for EqualityCustom
}

// DefaultEqualityCheck is the policy used when no EqualityCheck applies
func DefaultEqualityCheck() EqualityCheck {
	return EqualityCheck{
		Mode:          EqualityDefault,
		FloatEpsilon:  annotations.DefaultFloatEpsilon,
		DoubleEpsilon: annotations.DefaultDoubleEpsilon,
	}
}

// GuardMethod is one guard check, invoked as Method(old, new)
type GuardMethod struct {
	Method string
	Class  string // owning type, empty for an instance or local method
}

// Call returns the invocation target text
func (g GuardMethod) Call() string {
	if g.Class == "" {
		return g.Method
	}
	return g.Class + "." + g.Method
}

// AttributeList is an accumulating list of rendered attributes plus its
// companion flag. The flag is ORed across every contributing modifier.
type AttributeList struct {
	Items []string
	Flag  bool
}

// Settings is the resolved configuration of one member. Pointer fields are
// tri-state: nil means unset. GuardMethods, Passthrough and Takeover
// accumulate instead of overriding.
type Settings struct {
	Generate             *bool
	NotifyChanged        *bool
	NotifyChangedMethod  *string
	NotifyChanging       *bool
	NotifyChangingMethod *string
	ValidationStrategy   *ValidationStrategy
	PropertyName         *string
	Encapsulation        *Encapsulation
	VirtualProperty      *bool
	Range                *Range
	MaxLength            *int
	EqualityCheck        *EqualityCheck
	Getter               *GetterMode
	Setter               *SetterMode
	DefaultValue         *literal.Value // non-nil means present, possibly the null literal

	GuardMethods []GuardMethod
	Passthrough  AttributeList // Flag: copy passthrough attributes onto the backing field
	Takeover     AttributeList // Flag: suppress takeover attributes
}

// ShouldGenerate reports whether a property is synthesized
func (s Settings) ShouldGenerate() bool {
	return s.Generate != nil && *s.Generate
}

// ChangedEnabled reports whether property-changed notification is emitted
func (s Settings) ChangedEnabled() bool {
	return s.NotifyChanged != nil && *s.NotifyChanged
}

// ChangingEnabled reports whether property-changing notification is emitted
func (s Settings) ChangingEnabled() bool {
	return s.NotifyChanging != nil && *s.NotifyChanging
}

// UsesChangedEvent reports whether the PropertyChanged event is raised
// rather than a notification method being called.
func (s Settings) UsesChangedEvent() bool {
	return s.ChangedEnabled() && s.NotifyChangedMethod == nil
}

// UsesChangingEvent is UsesChangedEvent for the PropertyChanging event
func (s Settings) UsesChangingEvent() bool {
	return s.ChangingEnabled() && s.NotifyChangingMethod == nil
}

// Strategy returns the validation strategy, Throw when unset
func (s Settings) Strategy() ValidationStrategy {
	if s.ValidationStrategy == nil {
		return Throw
	}
	return *s.ValidationStrategy
}

// Access returns the encapsulation, Public when unset
func (s Settings) Access() Encapsulation {
	if s.Encapsulation == nil {
		return Public
	}
	return *s.Encapsulation
}

// IsVirtual reports whether the property is declared virtual
func (s Settings) IsVirtual() bool {
	return s.VirtualProperty != nil && *s.VirtualProperty
}

// Equality returns the equality policy, DefaultEqualityCheck when unset
func (s Settings) Equality() EqualityCheck {
	if s.EqualityCheck == nil {
		return DefaultEqualityCheck()
	}
	return *s.EqualityCheck
}

// GetterMode returns the getter mode, GetterDefault when unset
func (s Settings) GetterMode() GetterMode {
	if s.Getter == nil {
		return GetterDefault
	}
	return *s.Getter
}

// SetterMode returns the setter mode, SetterDefault when unset
func (s Settings) SetterMode() SetterMode {
	if s.Setter == nil {
		return SetterDefault
	}
	return *s.Setter
}

// TakeoverAttributes returns the takeover attributes to emit, none when
// takeover is disabled.
func (s Settings) TakeoverAttributes() []string {
	if s.Takeover.Flag {
		return nil
	}
	return s.Takeover.Items
}

// Result is the outcome of resolving modifiers. Warnings report modifier
// instances that were skipped; they never abort resolution.
type Result struct {
	Settings Settings
	Warnings []error
}
