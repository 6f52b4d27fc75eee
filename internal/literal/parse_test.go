package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text     string
		expected Value
	}{
		{"0", Int32Value(0)},
		{"100", Int32Value(100)},
		{"-5", Int32Value(-5)},
		{"+5", Int32Value(5)},
		{"2147483648", IntValue(Int64, 2147483648)},
		{"-2147483649", IntValue(Int64, -2147483649)},
		{"18446744073709551615", UintValue(UInt64, 18446744073709551615)},
		{"5u", UintValue(UInt32, 5)},
		{"5U", UintValue(UInt32, 5)},
		{"5L", IntValue(Int64, 5)},
		{"5UL", UintValue(UInt64, 5)},
		{"5lu", UintValue(UInt64, 5)},
		{"0xFF", Int32Value(255)},
		{"0x1E", Int32Value(30)},
		{"1.5", DoubleValue(1.5)},
		{"1e3", DoubleValue(1000)},
		{"1.5f", SingleValue(1.5)},
		{"2F", SingleValue(2)},
		{"2d", DoubleValue(2)},
		{"1.25m", DecimalValue("1.25")},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseNumber(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseNumberErrors(t *testing.T) {
	for _, text := range []string{"", "abc", "-5u", "1.5u", "0xZZ"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseNumber(text)
			assert.Error(t, err)
		})
	}
}

func TestParseAs(t *testing.T) {
	v, err := ParseAs(Decimal, "1.5")
	require.NoError(t, err)
	assert.Equal(t, "1.5M", MustSerialize(v))

	v, err = ParseAs(Byte, "200")
	require.NoError(t, err)
	assert.Equal(t, "(byte)200", MustSerialize(v))

	_, err = ParseAs(Byte, "300")
	assert.Error(t, err)

	_, err = ParseAs(String, "x")
	assert.Error(t, err)
}

func TestKindForTypeName(t *testing.T) {
	k, ok := KindForTypeName("System.Int32")
	assert.True(t, ok)
	assert.Equal(t, Int32, k)

	k, ok = KindForTypeName("global::System.Decimal")
	assert.True(t, ok)
	assert.Equal(t, Decimal, k)

	_, ok = KindForTypeName("DateTime")
	assert.False(t, ok)
}
