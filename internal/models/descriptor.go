package models

import (
	"strings"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
)

// TypeDescriptor is one candidate type as handed over by a discovery source.
// It is self-contained: nothing in it refers back to the source.
type TypeDescriptor struct {
	Namespace string                         // may be empty
	Name      string                         // simple name without generic parameters
	Kind      TypeKind                       // declaration keyword
	Generics  []string                       // generic parameter names
	Modifiers []annotations.ModifierInstance // type-level modifiers
	Members   []MemberDescriptor             // in declaration order
	Location  errors.SourceLocation          // where the type was declared
}

// DisplayName returns the name with its generic parameter list, e.g. Box<T>
func (t TypeDescriptor) DisplayName() string {
	if len(t.Generics) == 0 {
		return t.Name
	}
	return t.Name + "<" + strings.Join(t.Generics, ", ") + ">"
}

// QualifiedName returns the namespace-qualified display name
func (t TypeDescriptor) QualifiedName() string {
	if t.Namespace == "" {
		return t.DisplayName()
	}
	return t.Namespace + "." + t.DisplayName()
}

// MemberDescriptor is one field or property of a candidate type
type MemberDescriptor struct {
	Name          string
	Type          TypeRef
	Mutability    Mutability
	Kind          MemberKind
	Documentation string // raw doc text, one entry per line
	Modifiers     []annotations.ModifierInstance
	Location      errors.SourceLocation
}

// IsReadOnly reports whether the member storage is read-only
func (m MemberDescriptor) IsReadOnly() bool {
	return m.Mutability == ReadOnly
}

// TypeRef is the declared type of a member as far as emission needs it
type TypeRef struct {
	Name        string       // type text without a trailing nullable marker
	Special     literal.Kind // literal kind for built-in types, literal.Null otherwise
	Primitive   bool         // compared with == (built-in numerics, bool, char, nint, nuint)
	IsReference bool
	IsEnum      bool
	IsArray     bool
	Nullable    bool // value type written as T?
	NonNull     bool // reference type known never to hold null
}

// IsFloat reports whether the type is float or double
func (t TypeRef) IsFloat() bool {
	return t.Special.IsFloat()
}

// IsNumeric reports whether the type is a built-in numeric type
func (t TypeRef) IsNumeric() bool {
	return t.Special.IsNumeric()
}

// IsString reports whether the type is string
func (t TypeRef) IsString() bool {
	return t.Special == literal.String
}

// Text returns the type as written in the property header. Reference types
// carry the nullable marker unless known non-null.
func (t TypeRef) Text() string {
	switch {
	case t.IsReference && !t.NonNull:
		return t.Name + "?"
	case !t.IsReference && t.Nullable:
		return t.Name + "?"
	}
	return t.Name
}

var pointerSized = map[string]bool{
	"nint": true, "nuint": true,
	"IntPtr": true, "UIntPtr": true,
	"System.IntPtr": true, "System.UIntPtr": true,
}

var knownValueTypes = map[string]bool{
	"DateTime": true, "DateTimeOffset": true, "TimeSpan": true, "Guid": true,
	"DateOnly": true, "TimeOnly": true, "Half": true, "Int128": true, "UInt128": true,
}

// ParseTypeRef infers a TypeRef from C# type text. Built-in keywords and
// System names are recognized, T[] is an array, T? marks nullability. Any
// other name is assumed to be a reference type; descriptors override the
// inference where it is wrong.
func ParseTypeRef(text string) TypeRef {
	text = strings.TrimSpace(text)
	nullable := strings.HasSuffix(text, "?")
	name := strings.TrimSpace(strings.TrimSuffix(text, "?"))
	ref := TypeRef{Name: name}

	if strings.HasSuffix(name, "]") {
		ref.IsArray = true
		ref.IsReference = true
		return ref
	}

	short := strings.TrimPrefix(strings.TrimPrefix(name, "global::"), "System.")
	if kind, ok := literal.KindForTypeName(name); ok {
		ref.Special = kind
		ref.IsReference = kind == literal.String
		ref.Primitive = !ref.IsReference
	} else if pointerSized[short] || pointerSized[name] {
		ref.Primitive = true
	} else if knownValueTypes[short] {
		ref.IsReference = false
	} else {
		ref.IsReference = true
	}

	if !ref.IsReference {
		ref.Nullable = nullable
	}
	return ref
}

// ValueType returns a copy marked as a non-reference type. Enums are value
// types compared with ==.
func (t TypeRef) ValueType(isEnum bool) TypeRef {
	t.IsReference = false
	t.IsEnum = isEnum
	if isEnum {
		t.Primitive = true
	}
	return t
}
