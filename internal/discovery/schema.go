package discovery

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DescriptorFile is the YAML layout of a *.propgen.yaml file
type DescriptorFile struct {
	Namespace string      `yaml:"namespace"`
	Types     []TypeEntry `yaml:"types"`
}

// TypeEntry describes one candidate type
type TypeEntry struct {
	Name      string          `yaml:"name"`
	Kind      string          `yaml:"kind"`
	Namespace *string         `yaml:"namespace"` // overrides the file namespace
	Generics  []string        `yaml:"generics"`
	Modifiers []ModifierEntry `yaml:"modifiers"`
	Members   []MemberEntry   `yaml:"members"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the entry position
func (t *TypeEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeEntry
	if err := node.Decode((*plain)(t)); err != nil {
		return err
	}
	t.Line, t.Column = node.Line, node.Column
	return nil
}

// MemberEntry describes one field or property
type MemberEntry struct {
	Name      string          `yaml:"name"`
	Type      string          `yaml:"type"`
	Kind      string          `yaml:"kind"`
	ReadOnly  bool            `yaml:"readonly"`
	NonNull   bool            `yaml:"nonNull"`
	Reference *bool           `yaml:"reference"` // overrides inferred reference-ness
	Enum      bool            `yaml:"enum"`
	Doc       string          `yaml:"doc"`
	Modifiers []ModifierEntry `yaml:"modifiers"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the entry position
func (m *MemberEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain MemberEntry
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	m.Line, m.Column = node.Line, node.Column
	return nil
}

// NamedEntry is a name = value argument of a structured modifier
type NamedEntry struct {
	Name  string
	Value any
}

// ModifierEntry is either modifier text such as `Range(0, 100)` or a
// mapping with kind, args and named keys
type ModifierEntry struct {
	Text  string
	Kind  string
	Args  []any
	Named []NamedEntry

	Line   int
	Column int
}

// IsText reports whether the entry was written in textual syntax
func (m ModifierEntry) IsText() bool {
	return m.Text != ""
}

// UnmarshalYAML accepts a scalar or a mapping
func (m *ModifierEntry) UnmarshalYAML(node *yaml.Node) error {
	m.Line, m.Column = node.Line, node.Column

	switch node.Kind {
	case yaml.ScalarNode:
		if err := node.Decode(&m.Text); err != nil {
			return err
		}
		if m.Text == "" {
			return fmt.Errorf("line %d: empty modifier", node.Line)
		}
		return nil

	case yaml.MappingNode:
		var raw struct {
			Kind  string    `yaml:"kind"`
			Args  []any     `yaml:"args"`
			Named yaml.Node `yaml:"named"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Kind == "" {
			return fmt.Errorf("line %d: modifier mapping requires a kind", node.Line)
		}
		m.Kind = raw.Kind
		m.Args = raw.Args

		named, err := decodeOrderedMap(&raw.Named)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		m.Named = named
		return nil

	default:
		return fmt.Errorf("line %d: expected modifier text or mapping", node.Line)
	}
}

// decodeOrderedMap keeps the key order of a YAML mapping
func decodeOrderedMap(node *yaml.Node) ([]NamedEntry, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("named arguments must be a mapping")
	}

	entries := make([]NamedEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, NamedEntry{Name: node.Content[i].Value, Value: value})
	}
	return entries, nil
}
