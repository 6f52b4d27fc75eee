package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/toyz/propgen/internal/errors"
)

// objectType is the element type used for heterogeneous arrays
const objectType = "object"

// Serialize converts a value into C# literal source text. It fails with an
// UnsupportedValueKind error for values that have no literal representation.
// The output is byte-stable: generated fragments embed it verbatim.
func Serialize(v Value) (string, error) {
	switch v.Kind {
	case Null:
		return "null", nil
	case Bool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case Char:
		r, _ := utf8.DecodeRuneInString(v.Text)
		if r > 0xFFFF {
			// a C# char is a single UTF-16 code unit
			return "", errors.NewUnsupportedValueError(fmt.Sprintf("char %U", r))
		}
		return "'" + escapeChar(r) + "'", nil
	case String:
		return quoteString(v.Text), nil
	case SByte, Int16:
		return fmt.Sprintf("(%s)%d", v.Kind, v.Int), nil
	case Byte, UInt16:
		return fmt.Sprintf("(%s)%d", v.Kind, v.Uint), nil
	case Int32:
		return strconv.FormatInt(v.Int, 10), nil
	case UInt32:
		return strconv.FormatUint(v.Uint, 10) + "U", nil
	case Int64:
		return strconv.FormatInt(v.Int, 10) + "L", nil
	case UInt64:
		return strconv.FormatUint(v.Uint, 10) + "UL", nil
	case Single:
		return floatLiteral(v.Float, 32, "float", "F"), nil
	case Double:
		return floatLiteral(v.Float, 64, "double", "D"), nil
	case Decimal:
		if v.Text == "" {
			return "0M", nil
		}
		return v.Text + "M", nil
	case Enum:
		if v.Text == "" {
			return fmt.Sprintf("(%s)%d", v.TypeName, v.Int), nil
		}
		if v.TypeName == "" {
			return v.Text, nil
		}
		return v.TypeName + "." + v.Text, nil
	case Type:
		return "typeof(" + v.Text + ")", nil
	case Array:
		return serializeArray(v)
	case Opaque:
		return "", errors.NewUnsupportedValueError(fmt.Sprintf("%T", v.Raw))
	}
	return "", errors.NewUnsupportedValueError(v.Kind.String())
}

// MustSerialize is Serialize for values known to be supported; it panics otherwise.
func MustSerialize(v Value) string {
	s, err := Serialize(v)
	if err != nil {
		panic(err)
	}
	return s
}

// TypeName returns the C# type name a value literal has, or "" for null
func TypeName(v Value) string {
	switch v.Kind {
	case Null:
		return ""
	case Enum:
		if v.TypeName == "" {
			return objectType
		}
		return v.TypeName
	case Type:
		return "global::System.Type"
	case Array:
		return ElementType(v) + "[]"
	case Opaque:
		return objectType
	}
	return v.Kind.String()
}

// ElementType returns the declared element type of an array, or the common
// type across its elements, or object when the elements disagree.
func ElementType(v Value) string {
	if v.TypeName != "" {
		return v.TypeName
	}
	common := ""
	for _, e := range v.Elems {
		name := TypeName(e)
		if name == "" {
			continue
		}
		if common == "" {
			common = name
			continue
		}
		if common != name {
			return objectType
		}
	}
	if common == "" {
		return objectType
	}
	return common
}

func serializeArray(v Value) (string, error) {
	parts := make([]string, 0, len(v.Elems))
	for _, e := range v.Elems {
		s, err := Serialize(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "new " + ElementType(v) + "[] { }", nil
	}
	return "new " + ElementType(v) + "[] { " + strings.Join(parts, ", ") + " }", nil
}

func floatLiteral(f float64, bits int, keyword, suffix string) string {
	switch {
	case math.IsNaN(f):
		return keyword + ".NaN"
	case math.IsInf(f, 1):
		return keyword + ".PositiveInfinity"
	case math.IsInf(f, -1):
		return keyword + ".NegativeInfinity"
	}
	return formatInvariant(f, bits) + suffix
}

// formatInvariant renders the shortest round-trip text for f at the given
// precision, independent of locale.
func formatInvariant(f float64, bits int) string {
	return strconv.FormatFloat(f, 'G', -1, bits)
}

func quoteString(s string) string {
	if s == "" {
		return `""`
	}
	if needsVerbatim(s) {
		return `@"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return `"` + s + `"`
}

func needsVerbatim(s string) bool {
	for _, r := range s {
		if r == '"' || r == '\\' || r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

func escapeChar(r rune) string {
	switch r {
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\v':
		return `\v`
	}
	if r < 0x20 || r == 0x7f {
		return fmt.Sprintf(`\u%04X`, r)
	}
	return string(r)
}
