package errors

import "fmt"

// ModifierError reports a modifier instance that was skipped because its
// arguments could not be interpreted. It is never fatal: the rest of the
// member's modifiers still resolve.
type ModifierError struct {
	*BaseError
	Modifier  string // modifier name as written
	Parameter string // offending parameter, empty when the whole instance is malformed
}

// NewMalformedModifierError creates a MalformedModifierArguments error
func NewMalformedModifierError(modifier, parameter, reason string) *ModifierError {
	var message string
	if parameter == "" {
		message = fmt.Sprintf("modifier '%s' skipped: %s", modifier, reason)
	} else {
		message = fmt.Sprintf("modifier '%s' skipped: parameter '%s' %s", modifier, parameter, reason)
	}
	return &ModifierError{
		BaseError: New(MalformedModifierCode, message),
		Modifier:  modifier,
		Parameter: parameter,
	}
}

// WithLocation adds location information to the error
func (e *ModifierError) WithLocation(loc SourceLocation) *ModifierError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *ModifierError) WithSuggestion(suggestion string) *ModifierError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// UnsupportedValueError reports a constant value with no literal representation
type UnsupportedValueError struct {
	*BaseError
	GoType string // Go type of the rejected value
}

// NewUnsupportedValueError creates an UnsupportedValueKind error
func NewUnsupportedValueError(goType string) *UnsupportedValueError {
	return &UnsupportedValueError{
		BaseError: Newf(UnsupportedValueKindCode, "value of type %s has no literal representation", goType),
		GoType:    goType,
	}
}

// SyntaxError represents a modifier text that could not be parsed
type SyntaxError struct {
	*BaseError
	Input string // text that failed to parse
}

// NewSyntaxError creates a syntax error for the given modifier text
func NewSyntaxError(input string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrapf(SyntaxErrorCode, cause, "cannot parse modifier %q", input),
		Input:     input,
	}
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}
