package models

import "fmt"

// TypeKind is the declaration keyword of a candidate type
type TypeKind int

const (
	TypeKindClass TypeKind = iota
	TypeKindStruct
	TypeKindRecord
	TypeKindRecordStruct
)

// String returns the C# declaration keyword
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindRecord:
		return "record"
	case TypeKindRecordStruct:
		return "record struct"
	default:
		return "class"
	}
}

// TypeKindKeywords are the accepted spellings of a type kind
var TypeKindKeywords = []string{"class", "struct", "record", "record class", "record struct"}

// ParseTypeKind converts a declaration keyword to TypeKind. The empty string
// means class.
func ParseTypeKind(s string) (TypeKind, error) {
	switch s {
	case "", "class":
		return TypeKindClass, nil
	case "struct":
		return TypeKindStruct, nil
	case "record", "record class":
		return TypeKindRecord, nil
	case "record struct":
		return TypeKindRecordStruct, nil
	default:
		return TypeKindClass, fmt.Errorf("unknown type kind: %s", s)
	}
}

// MemberKind says how a member stores its value
type MemberKind int

const (
	// MemberKindField is a plain field; the generated property wraps it.
	MemberKindField MemberKind = iota
	// MemberKindPartialProperty is a partial property declaration whose
	// implementing part, backing field included, is generated.
	MemberKindPartialProperty
	// MemberKindProperty is a hand-written property. It is never generated
	// but its NotifyOn modifiers still count.
	MemberKindProperty
)

// String returns the string representation of the member kind
func (k MemberKind) String() string {
	switch k {
	case MemberKindPartialProperty:
		return "partial"
	case MemberKindProperty:
		return "property"
	default:
		return "field"
	}
}

// MemberKindKeywords are the accepted spellings of a member kind
var MemberKindKeywords = []string{"field", "partial", "partialProperty", "partial_property", "property"}

// ParseMemberKind converts a descriptor spelling to MemberKind
func ParseMemberKind(s string) (MemberKind, error) {
	switch s {
	case "", "field":
		return MemberKindField, nil
	case "partial", "partialProperty", "partial_property":
		return MemberKindPartialProperty, nil
	case "property":
		return MemberKindProperty, nil
	default:
		return MemberKindField, fmt.Errorf("unknown member kind: %s", s)
	}
}

// IsPropertyLike reports whether the member is declared as a property
func (k MemberKind) IsPropertyLike() bool {
	return k == MemberKindPartialProperty || k == MemberKindProperty
}

// Mutability of the member's storage
type Mutability int

const (
	Mutable Mutability = iota
	ReadOnly
)

// String returns the string representation of the mutability
func (m Mutability) String() string {
	if m == ReadOnly {
		return "readonly"
	}
	return "mutable"
}
