package models

import (
	"strings"
)

// FragmentSuffix is appended to every fragment key
const FragmentSuffix = ".g.cs"

// Fragment is the generated source for one type
type Fragment struct {
	Key      string  // file-system safe identifier, see FragmentKey
	TypeName string  // qualified display name of the type
	Content  string  // generated C# source
	Warnings []error // recovered modifier problems, in encounter order
}

// HasWarnings reports whether generation recovered from any problem
func (f Fragment) HasWarnings() bool {
	return len(f.Warnings) > 0
}

// FragmentKey derives the deterministic key of a type's fragment:
// Namespace.Name_P1_P2.g.cs with generic parameters flattened.
func FragmentKey(namespace, name string, generics []string) string {
	var b strings.Builder
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte('.')
	}
	b.WriteString(name)
	for _, g := range generics {
		b.WriteByte('_')
		b.WriteString(sanitize(g))
	}
	b.WriteString(FragmentSuffix)
	return b.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
}
