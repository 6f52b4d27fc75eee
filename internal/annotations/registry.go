package annotations

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// vocabularyNamespace qualifies every kind of the built-in vocabulary
const vocabularyNamespace = "PropGen"

// Registry defines the interface for managing modifier schemas
type Registry interface {
	// Register adds a schema for its kind
	Register(schema ModifierSchema) error

	// Schema retrieves the schema for a kind
	Schema(kind ModifierKind) (ModifierSchema, error)

	// Lookup resolves a modifier name as written to its kind
	Lookup(name string) (ModifierKind, bool)

	// Kinds returns all registered kinds in ascending order
	Kinds() []ModifierKind

	// IsRegistered checks if a kind is registered
	IsRegistered(kind ModifierKind) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[ModifierKind]ModifierSchema
}

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return &registry{
		schemas: make(map[ModifierKind]ModifierSchema),
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry holding the built-in schemas
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		if err := RegisterBuiltinSchemas(r); err != nil {
			panic(fmt.Sprintf("registering built-in modifier schemas: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// RegisterBuiltinSchemas registers every built-in schema with r
func RegisterBuiltinSchemas(r Registry) error {
	for _, schema := range BuiltinSchemas() {
		if err := r.Register(schema); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a schema to the registry
func (r *registry) Register(schema ModifierSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Kind == Unrecognized {
		return fmt.Errorf("cannot register a schema for %s", schema.Kind)
	}
	if _, exists := r.schemas[schema.Kind]; exists {
		return fmt.Errorf("modifier kind %s is already registered", schema.Kind)
	}
	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", schema.Kind, err)
	}

	r.schemas[schema.Kind] = schema
	return nil
}

// Schema retrieves the schema for a kind
func (r *registry) Schema(kind ModifierKind) (ModifierSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[kind]
	if !exists {
		return ModifierSchema{}, fmt.Errorf("modifier kind %s is not registered", kind)
	}
	return schema, nil
}

// Lookup strips a global:: prefix, then matches the short name alone,
// qualified with PropGen, or qualified with one of the schema's extra
// namespaces. The name is tried as written first and without its Attribute
// suffix second, so PropertyAttribute and PropertyAttributeAttribute both
// resolve.
func (r *registry) Lookup(name string) (ModifierKind, bool) {
	namespace, short := SplitModifierName(name)
	if kind, ok := r.match(namespace, short); ok {
		return kind, true
	}
	if trimmed := strings.TrimSuffix(short, "Attribute"); trimmed != "" && trimmed != short {
		return r.match(namespace, trimmed)
	}
	return Unrecognized, false
}

func (r *registry) match(namespace, short string) (ModifierKind, bool) {
	kind, err := ParseModifierKind(short)
	if err != nil {
		return Unrecognized, false
	}

	r.mu.RLock()
	schema, exists := r.schemas[kind]
	r.mu.RUnlock()
	if !exists {
		return Unrecognized, false
	}

	if namespace == "" || namespace == vocabularyNamespace {
		return kind, true
	}
	for _, ns := range schema.Namespaces {
		if namespace == ns {
			return kind, true
		}
	}
	return Unrecognized, false
}

// Kinds returns all registered kinds
func (r *registry) Kinds() []ModifierKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]ModifierKind, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsRegistered checks if a kind is registered
func (r *registry) IsRegistered(kind ModifierKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[kind]
	return exists
}

// SplitModifierName separates a modifier name into its namespace and short
// name: "global::PropGen.RangeAttribute" becomes ("PropGen", "RangeAttribute").
func SplitModifierName(name string) (string, string) {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "global::"))
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func validateSchema(schema ModifierSchema) error {
	seen := make(map[string]bool, len(schema.Parameters))
	optional := false
	for _, p := range schema.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("duplicate parameter %s", p.Name)
		}
		seen[key] = true

		if p.Type == EnumType && len(p.Members) == 0 {
			return fmt.Errorf("enum parameter %s has no members", p.Name)
		}
		if p.Required && optional {
			return fmt.Errorf("required parameter %s follows an optional one", p.Name)
		}
		if !p.Required {
			optional = true
		}
		if p.Default != nil {
			if err := p.accepts(*p.Default); err != nil {
				return fmt.Errorf("default value for %s: %w", p.Name, err)
			}
		}
	}
	return nil
}
