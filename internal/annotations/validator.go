package annotations

import (
	"fmt"

	"github.com/toyz/propgen/internal/errors"
)

// Validate checks an instance against its schema: required parameters must
// be present and every supplied parameter must fit its declared type. The
// first problem is returned as a MalformedModifierArguments error.
func Validate(m ModifierInstance, schema ModifierSchema) error {
	for i, param := range schema.Parameters {
		v, ok := m.Arg(i, param.Name)
		if !ok {
			if param.Required {
				return errors.NewMalformedModifierError(m.Name, param.Name, "is required").
					WithLocation(m.Location).
					WithSuggestion(fmt.Sprintf("pass %s as argument %d or as %s: <value>", param.Name, i+1, param.Name))
			}
			continue
		}
		if param.Required && v.IsNull() && param.Type != AnyType {
			return errors.NewMalformedModifierError(m.Name, param.Name, "must not be null").
				WithLocation(m.Location)
		}
		if err := param.accepts(v); err != nil {
			return errors.NewMalformedModifierError(m.Name, param.Name, err.Error()).
				WithLocation(m.Location)
		}
	}

	for _, arg := range m.Named {
		if _, _, ok := schema.Parameter(arg.Name); !ok && len(schema.Parameters) > 0 && !schema.allowsExtra() {
			return errors.NewMalformedModifierError(m.Name, arg.Name, "is not a known parameter").
				WithLocation(m.Location)
		}
	}
	return nil
}

// allowsExtra reports whether unknown named arguments pass through. The
// data-annotation kinds carry properties such as ErrorMessage that only
// matter to the takeover copy.
func (s ModifierSchema) allowsExtra() bool {
	return len(s.Namespaces) > 0
}
