package literal

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ParseNumber interprets C# numeric literal text, honoring the U, L, UL, F,
// D and M suffixes and 0x hex prefixes. Integer literals without a suffix
// take the first of int, long and ulong that can hold them.
func ParseNumber(text string) (Value, error) {
	body, suffix := splitSuffix(text)
	if body == "" {
		return Value{}, fmt.Errorf("empty numeric literal %q", text)
	}

	switch suffix {
	case "f":
		f, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q: %w", text, err)
		}
		return DoubleToSingle(f), nil
	case "d":
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid double literal %q: %w", text, err)
		}
		return DoubleValue(f), nil
	case "m":
		if _, err := strconv.ParseFloat(body, 64); err != nil {
			return Value{}, fmt.Errorf("invalid decimal literal %q: %w", text, err)
		}
		return DecimalValue(strings.TrimPrefix(body, "+")), nil
	}

	if !isHexText(body) && isFloatText(body) {
		if suffix != "" {
			return Value{}, fmt.Errorf("suffix %q is not valid on %q", suffix, text)
		}
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid double literal %q: %w", text, err)
		}
		return DoubleValue(f), nil
	}

	negative := strings.HasPrefix(body, "-")
	digits := strings.TrimLeft(body, "+-")
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid integer literal %q: %w", text, err)
	}

	if negative {
		if strings.Contains(suffix, "u") {
			return Value{}, fmt.Errorf("unsigned literal %q cannot be negative", text)
		}
		if u > 1<<63 {
			return Value{}, fmt.Errorf("integer literal %q overflows long", text)
		}
		n := -int64(u)
		if suffix == "" {
			if small, err := safecast.Conv[int32](n); err == nil {
				return Int32Value(small), nil
			}
		}
		return IntValue(Int64, n), nil
	}

	switch suffix {
	case "u":
		if _, err := safecast.Conv[uint32](u); err == nil {
			return UintValue(UInt32, u), nil
		}
		return UintValue(UInt64, u), nil
	case "l":
		n, err := safecast.Conv[int64](u)
		if err != nil {
			return UintValue(UInt64, u), nil
		}
		return IntValue(Int64, n), nil
	case "ul":
		return UintValue(UInt64, u), nil
	}

	if n, err := safecast.Conv[int32](u); err == nil {
		return Int32Value(n), nil
	}
	if n, err := safecast.Conv[int64](u); err == nil {
		return IntValue(Int64, n), nil
	}
	return UintValue(UInt64, u), nil
}

// ParseAs parses text as a literal of the requested numeric kind
func ParseAs(kind Kind, text string) (Value, error) {
	text = strings.TrimSpace(text)
	switch {
	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, kind.floatBits())
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		if kind == Single {
			return DoubleToSingle(f), nil
		}
		return DoubleValue(f), nil
	case kind == Decimal:
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return Value{}, fmt.Errorf("invalid decimal value %q: %w", text, err)
		}
		return DecimalValue(text), nil
	case kind.IsUnsigned():
		u, err := strconv.ParseUint(text, 10, kind.intBits())
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		return UintValue(kind, u), nil
	case kind.IsInteger():
		n, err := strconv.ParseInt(text, 10, kind.intBits())
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		return IntValue(kind, n), nil
	}
	return Value{}, fmt.Errorf("%s is not a numeric kind", kind)
}

// DoubleToSingle narrows a float64 that was parsed at 32-bit precision
func DoubleToSingle(f float64) Value {
	return SingleValue(float32(f))
}

// KindForTypeName maps a C# keyword or System type name to a literal kind
func KindForTypeName(name string) (Kind, bool) {
	name = strings.TrimPrefix(name, "global::")
	name = strings.TrimPrefix(name, "System.")
	switch name {
	case "bool", "Boolean":
		return Bool, true
	case "char", "Char":
		return Char, true
	case "string", "String":
		return String, true
	case "sbyte", "SByte":
		return SByte, true
	case "byte", "Byte":
		return Byte, true
	case "short", "Int16":
		return Int16, true
	case "ushort", "UInt16":
		return UInt16, true
	case "int", "Int32":
		return Int32, true
	case "uint", "UInt32":
		return UInt32, true
	case "long", "Int64":
		return Int64, true
	case "ulong", "UInt64":
		return UInt64, true
	case "float", "Single":
		return Single, true
	case "double", "Double":
		return Double, true
	case "decimal", "Decimal":
		return Decimal, true
	}
	return Null, false
}

func (k Kind) intBits() int {
	switch k {
	case SByte, Byte:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32:
		return 32
	}
	return 64
}

func (k Kind) floatBits() int {
	if k == Single {
		return 32
	}
	return 64
}

func splitSuffix(text string) (string, string) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if isHexText(lower) {
		// hex digits include d and f, so only integral suffixes apply
		for _, s := range []string{"ul", "lu", "u", "l"} {
			if strings.HasSuffix(lower, s) {
				return lower[:len(lower)-len(s)], normalizeSuffix(s)
			}
		}
		return lower, ""
	}
	for _, s := range []string{"ul", "lu", "u", "l", "f", "d", "m"} {
		if strings.HasSuffix(lower, s) {
			return lower[:len(lower)-len(s)], normalizeSuffix(s)
		}
	}
	return lower, ""
}

func normalizeSuffix(s string) string {
	if s == "lu" {
		return "ul"
	}
	return s
}

func isHexText(body string) bool {
	return strings.HasPrefix(strings.TrimLeft(body, "+-"), "0x")
}

func isFloatText(body string) bool {
	return strings.ContainsAny(body, ".e")
}
