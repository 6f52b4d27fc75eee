// Package literal models constant values carried by modifier arguments and
// serializes them into C# literal source text.
package literal

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"fortio.org/safecast"
)

// Kind identifies the literal form of a Value
type Kind int

const (
	Null Kind = iota
	Bool
	Char
	String
	SByte
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Single
	Double
	Decimal
	Enum
	Type
	Array
	// Opaque wraps a Go value that has no literal form; serializing it fails.
	Opaque
)

var kindNames = [...]string{
	Null:    "null",
	Bool:    "bool",
	Char:    "char",
	String:  "string",
	SByte:   "sbyte",
	Byte:    "byte",
	Int16:   "short",
	UInt16:  "ushort",
	Int32:   "int",
	UInt32:  "uint",
	Int64:   "long",
	UInt64:  "ulong",
	Single:  "float",
	Double:  "double",
	Decimal: "decimal",
	Enum:    "enum",
	Type:    "System.Type",
	Array:   "array",
	Opaque:  "opaque",
}

// String returns the C# keyword (or a descriptive name) for the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsInteger reports whether the kind is one of the integral numeric kinds
func (k Kind) IsInteger() bool {
	return k >= SByte && k <= UInt64
}

// IsUnsigned reports whether the kind is an unsigned integral kind
func (k Kind) IsUnsigned() bool {
	return k == Byte || k == UInt16 || k == UInt32 || k == UInt64
}

// IsFloat reports whether the kind is a binary floating-point kind
func (k Kind) IsFloat() bool {
	return k == Single || k == Double
}

// IsNumeric reports whether the kind is any numeric kind
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat() || k == Decimal
}

// Value is one constant argument value. Only the fields relevant to Kind are set.
type Value struct {
	Kind     Kind
	Bool     bool
	Int      int64   // signed integral kinds, numeric enum values
	Uint     uint64  // unsigned integral kinds
	Float    float64 // Single and Double
	Text     string  // String, Char, Decimal digits, enum member, type name
	TypeName string  // enum type, declared array element type
	Elems    []Value // Array elements
	Raw      any     // Opaque payload
}

// NullValue returns the null literal
func NullValue() Value { return Value{Kind: Null} }

// BoolValue returns a boolean literal
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// CharValue returns a character literal
func CharValue(r rune) Value { return Value{Kind: Char, Text: string(r)} }

// StringValue returns a string literal
func StringValue(s string) Value { return Value{Kind: String, Text: s} }

// IntValue returns a signed integral literal of the given kind
func IntValue(kind Kind, v int64) Value { return Value{Kind: kind, Int: v} }

// UintValue returns an unsigned integral literal of the given kind
func UintValue(kind Kind, v uint64) Value { return Value{Kind: kind, Uint: v} }

// Int32Value is shorthand for an int literal
func Int32Value(v int32) Value { return Value{Kind: Int32, Int: int64(v)} }

// SingleValue returns a float literal
func SingleValue(f float32) Value { return Value{Kind: Single, Float: float64(f)} }

// DoubleValue returns a double literal
func DoubleValue(f float64) Value { return Value{Kind: Double, Float: f} }

// DecimalValue returns a decimal literal from its invariant digits
func DecimalValue(digits string) Value { return Value{Kind: Decimal, Text: digits} }

// EnumValue returns a named enum member literal
func EnumValue(typeName, member string) Value {
	return Value{Kind: Enum, TypeName: typeName, Text: member}
}

// EnumNumber returns an enum literal known only by its numeric value
func EnumNumber(typeName string, n int64) Value {
	return Value{Kind: Enum, TypeName: typeName, Int: n}
}

// TypeValue returns a type reference literal
func TypeValue(typeName string) Value { return Value{Kind: Type, Text: typeName} }

// ArrayValue returns an array literal. elemType may be empty, in which case
// the element type is inferred from the elements.
func ArrayValue(elemType string, elems ...Value) Value {
	return Value{Kind: Array, TypeName: elemType, Elems: elems}
}

// IsNull reports whether the value is the null literal
func (v Value) IsNull() bool { return v.Kind == Null }

// AsString returns the textual payload of string, char, enum and type values
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case String, Char, Type:
		return v.Text, true
	case Enum:
		if v.Text != "" {
			return v.Text, true
		}
	}
	return "", false
}

// AsBool returns the payload of a boolean value
func (v Value) AsBool() (bool, bool) {
	if v.Kind != Bool {
		return false, false
	}
	return v.Bool, true
}

// AsInt returns the payload of any integral or numeric enum value as an int
func (v Value) AsInt() (int, bool) {
	switch {
	case v.Kind.IsUnsigned():
		n, err := safecast.Conv[int](v.Uint)
		return n, err == nil
	case v.Kind.IsInteger(), v.Kind == Enum && v.Text == "":
		n, err := safecast.Conv[int](v.Int)
		return n, err == nil
	}
	return 0, false
}

// AsFloat returns the payload of any numeric value as a float64
func (v Value) AsFloat() (float64, bool) {
	switch {
	case v.Kind.IsFloat():
		return v.Float, true
	case v.Kind == Decimal:
		f, err := strconv.ParseFloat(v.Text, 64)
		return f, err == nil
	case v.Kind.IsUnsigned():
		return float64(v.Uint), true
	case v.Kind.IsInteger():
		return float64(v.Int), true
	}
	return 0, false
}

// FromGo converts a Go value into a literal Value. Values without a literal
// form are wrapped as Opaque rather than rejected, so the failure surfaces
// where the value is serialized.
func FromGo(x any) Value {
	switch t := x.(type) {
	case nil:
		return NullValue()
	case Value:
		return t
	case bool:
		return BoolValue(t)
	case rune:
		return IntValue(Int32, int64(t))
	case string:
		return StringValue(t)
	case int8:
		return IntValue(SByte, int64(t))
	case uint8:
		return UintValue(Byte, uint64(t))
	case int16:
		return IntValue(Int16, int64(t))
	case uint16:
		return UintValue(UInt16, uint64(t))
	case uint32:
		return UintValue(UInt32, uint64(t))
	case int64:
		return IntValue(Int64, t)
	case uint64:
		return UintValue(UInt64, t)
	case int:
		if n, err := safecast.Conv[int32](t); err == nil {
			return Int32Value(n)
		}
		return IntValue(Int64, int64(t))
	case uint:
		if n, err := safecast.Conv[uint32](t); err == nil {
			return UintValue(UInt32, uint64(n))
		}
		return UintValue(UInt64, uint64(t))
	case float32:
		return SingleValue(t)
	case float64:
		return DoubleValue(t)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = FromGo(e)
		}
		return ArrayValue("", elems...)
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = FromGo(rv.Index(i).Interface())
		}
		elemType := ""
		if kind, ok := goElemKind(rv.Type().Elem()); ok {
			elemType = kind.String()
		}
		return ArrayValue(elemType, elems...)
	}
	return Value{Kind: Opaque, Raw: x}
}

func goElemKind(t reflect.Type) (Kind, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return Bool, true
	case reflect.String:
		return String, true
	case reflect.Int8:
		return SByte, true
	case reflect.Uint8:
		return Byte, true
	case reflect.Int16:
		return Int16, true
	case reflect.Uint16:
		return UInt16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Uint32:
		return UInt32, true
	case reflect.Int64:
		return Int64, true
	case reflect.Uint64:
		return UInt64, true
	case reflect.Float32:
		return Single, true
	case reflect.Float64:
		return Double, true
	}
	return Null, false
}

// Display renders the value as plain text for human-readable messages
func Display(v Value) string {
	switch v.Kind {
	case Null:
		return "null"
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case String, Char, Decimal, Type:
		return v.Text
	case Single:
		return formatFloat(v.Float, 32)
	case Double:
		return formatFloat(v.Float, 64)
	case Enum:
		if v.Text != "" {
			return v.Text
		}
		return fmt.Sprintf("%d", v.Int)
	case Array:
		return fmt.Sprintf("%d items", len(v.Elems))
	case Opaque:
		return fmt.Sprintf("%v", v.Raw)
	}
	if v.Kind.IsUnsigned() {
		return fmt.Sprintf("%d", v.Uint)
	}
	return fmt.Sprintf("%d", v.Int)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return formatInvariant(f, bits)
}
