package models

import (
	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
)

// TypeBuilder provides a fluent interface for assembling type descriptors
type TypeBuilder struct {
	desc TypeDescriptor
}

// NewTypeBuilder creates a builder for a class in the given namespace
func NewTypeBuilder(namespace, name string) *TypeBuilder {
	return &TypeBuilder{desc: TypeDescriptor{Namespace: namespace, Name: name}}
}

// WithKind sets the declaration keyword
func (b *TypeBuilder) WithKind(kind TypeKind) *TypeBuilder {
	b.desc.Kind = kind
	return b
}

// WithGenerics sets the generic parameter names
func (b *TypeBuilder) WithGenerics(generics ...string) *TypeBuilder {
	b.desc.Generics = append(b.desc.Generics, generics...)
	return b
}

// WithModifiers appends type-level modifiers
func (b *TypeBuilder) WithModifiers(mods ...annotations.ModifierInstance) *TypeBuilder {
	b.desc.Modifiers = append(b.desc.Modifiers, mods...)
	return b
}

// WithLocation sets the declaration location
func (b *TypeBuilder) WithLocation(loc errors.SourceLocation) *TypeBuilder {
	b.desc.Location = loc
	return b
}

// WithMembers appends members in declaration order
func (b *TypeBuilder) WithMembers(members ...MemberDescriptor) *TypeBuilder {
	b.desc.Members = append(b.desc.Members, members...)
	return b
}

// Build returns the assembled descriptor
func (b *TypeBuilder) Build() TypeDescriptor {
	desc := b.desc
	desc.Generics = append([]string(nil), b.desc.Generics...)
	desc.Modifiers = append([]annotations.ModifierInstance(nil), b.desc.Modifiers...)
	desc.Members = append([]MemberDescriptor(nil), b.desc.Members...)
	return desc
}

// MemberBuilder provides a fluent interface for assembling member descriptors
type MemberBuilder struct {
	desc MemberDescriptor
}

// NewField starts a mutable field member with an inferred type
func NewField(name, typeText string) *MemberBuilder {
	return &MemberBuilder{desc: MemberDescriptor{Name: name, Type: ParseTypeRef(typeText)}}
}

// NewPartialProperty starts a partial property member with an inferred type
func NewPartialProperty(name, typeText string) *MemberBuilder {
	b := NewField(name, typeText)
	b.desc.Kind = MemberKindPartialProperty
	return b
}

// NewProperty starts a hand-written property member
func NewProperty(name, typeText string) *MemberBuilder {
	b := NewField(name, typeText)
	b.desc.Kind = MemberKindProperty
	return b
}

// ReadOnly marks the member storage read-only
func (b *MemberBuilder) ReadOnly() *MemberBuilder {
	b.desc.Mutability = ReadOnly
	return b
}

// NonNull marks a reference-typed member as never null
func (b *MemberBuilder) NonNull() *MemberBuilder {
	b.desc.Type.NonNull = true
	return b
}

// Enum marks the member type as an enum
func (b *MemberBuilder) Enum() *MemberBuilder {
	b.desc.Type = b.desc.Type.ValueType(true)
	return b
}

// Struct marks the member type as a non-enum value type
func (b *MemberBuilder) Struct() *MemberBuilder {
	b.desc.Type = b.desc.Type.ValueType(false)
	return b
}

// WithDoc sets the documentation text
func (b *MemberBuilder) WithDoc(doc string) *MemberBuilder {
	b.desc.Documentation = doc
	return b
}

// WithModifiers appends member-level modifiers
func (b *MemberBuilder) WithModifiers(mods ...annotations.ModifierInstance) *MemberBuilder {
	b.desc.Modifiers = append(b.desc.Modifiers, mods...)
	return b
}

// WithLocation sets the declaration location
func (b *MemberBuilder) WithLocation(loc errors.SourceLocation) *MemberBuilder {
	b.desc.Location = loc
	return b
}

// Build returns the assembled descriptor
func (b *MemberBuilder) Build() MemberDescriptor {
	desc := b.desc
	desc.Modifiers = append([]annotations.ModifierInstance(nil), b.desc.Modifiers...)
	return desc
}
