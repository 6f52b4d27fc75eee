package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
)

func TestParserBasic(t *testing.T) {
	parser := NewParser(nil)
	location := errors.SourceLocation{File: "person.propgen.yaml", Line: 4, Column: 9}

	tests := []struct {
		name     string
		input    string
		expected ModifierInstance
	}{
		{
			name:     "bare flag",
			input:    "Generate",
			expected: ModifierInstance{Kind: Generate, Name: "Generate"},
		},
		{
			name:     "empty parens",
			input:    "VirtualProperty()",
			expected: ModifierInstance{Kind: VirtualProperty, Name: "VirtualProperty"},
		},
		{
			name:     "attribute brackets and suffix",
			input:    "[NoPropertyAttribute]",
			expected: ModifierInstance{Kind: NoProperty, Name: "NoPropertyAttribute"},
		},
		{
			name:  "range",
			input: "Range(0, 100)",
			expected: ModifierInstance{Kind: Range, Name: "Range",
				Positional: []literal.Value{literal.Int32Value(0), literal.Int32Value(100)}},
		},
		{
			name:  "qualified data annotation",
			input: "global::System.ComponentModel.DataAnnotations.Range(-1.5, 2.5)",
			expected: ModifierInstance{Kind: Range, Name: "global::System.ComponentModel.DataAnnotations.Range",
				Positional: []literal.Value{literal.DoubleValue(-1.5), literal.DoubleValue(2.5)}},
		},
		{
			name:  "typed range",
			input: `Range(typeof(decimal), "0", "9.99")`,
			expected: ModifierInstance{Kind: Range, Name: "Range",
				Positional: []literal.Value{literal.TypeValue("decimal"), literal.StringValue("0"), literal.StringValue("9.99")}},
		},
		{
			name:  "guard with named class",
			input: `Guard("IsValid", className: "Checks")`,
			expected: ModifierInstance{Kind: Guard, Name: "Guard",
				Positional: []literal.Value{literal.StringValue("IsValid")},
				Named:      []NamedArg{{Name: "className", Value: literal.StringValue("Checks")}}},
		},
		{
			name:  "enum member",
			input: "ValidationStrategy(ValidationStrategy.SilentRevertNoNotify)",
			expected: ModifierInstance{Kind: ValidationStrategy, Name: "ValidationStrategy",
				Positional: []literal.Value{literal.EnumValue("ValidationStrategy", "SilentRevertNoNotify")}},
		},
		{
			name:  "bare enum member",
			input: "Setter(Init)",
			expected: ModifierInstance{Kind: Setter, Name: "Setter",
				Positional: []literal.Value{literal.EnumValue("", "Init")}},
		},
		{
			name:  "named with equals",
			input: "EqualityCheck(mode = EqualityCheck.None)",
			expected: ModifierInstance{Kind: EqualityCheck, Name: "EqualityCheck",
				Named: []NamedArg{{Name: "mode", Value: literal.EnumValue("EqualityCheck", "None")}}},
		},
		{
			name:  "verbatim string",
			input: `PropertyAttribute(@"Description(""a\b"")")`,
			expected: ModifierInstance{Kind: PropertyAttribute, Name: "PropertyAttribute",
				Positional: []literal.Value{literal.StringValue(`Description("a\b")`)}},
		},
		{
			name:  "escaped string and char",
			input: `Foo("a\tb", '\n', null, true)`,
			expected: ModifierInstance{Kind: Unrecognized, Name: "Foo",
				Positional: []literal.Value{
					literal.StringValue("a\tb"), literal.CharValue('\n'), literal.NullValue(), literal.BoolValue(true),
				}},
		},
		{
			name:  "typed array",
			input: "DefaultValue(new int[] { 1, 2, 3 })",
			expected: ModifierInstance{Kind: DefaultValue, Name: "DefaultValue",
				Positional: []literal.Value{literal.ArrayValue("int",
					literal.Int32Value(1), literal.Int32Value(2), literal.Int32Value(3))}},
		},
		{
			name:  "implicit array",
			input: `DefaultValue(new[] { "a", "b", })`,
			expected: ModifierInstance{Kind: DefaultValue, Name: "DefaultValue",
				Positional: []literal.Value{literal.ArrayValue("",
					literal.StringValue("a"), literal.StringValue("b"))}},
		},
		{
			name:  "bracket list",
			input: "DefaultValue([1L, 2L])",
			expected: ModifierInstance{Kind: DefaultValue, Name: "DefaultValue",
				Positional: []literal.Value{literal.ArrayValue("",
					literal.IntValue(literal.Int64, 1), literal.IntValue(literal.Int64, 2))}},
		},
		{
			name:  "generic typeof",
			input: "Foo(typeof(global::System.Collections.Generic.List<int?>[]))",
			expected: ModifierInstance{Kind: Unrecognized, Name: "Foo",
				Positional: []literal.Value{literal.TypeValue("global::System.Collections.Generic.List<int?>[]")}},
		},
		{
			name:  "numeric suffixes",
			input: "Foo(1.5f, 2m, 3UL, 0xFF)",
			expected: ModifierInstance{Kind: Unrecognized, Name: "Foo",
				Positional: []literal.Value{
					literal.SingleValue(1.5), literal.DecimalValue("2"),
					literal.UintValue(literal.UInt64, 3), literal.Int32Value(255),
				}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input, location)
			require.NoError(t, err)
			tt.expected.Location = location
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParserErrors(t *testing.T) {
	parser := NewParser(nil)
	location := errors.SourceLocation{File: "a.propgen.yaml", Line: 2, Column: 5}

	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{"empty", "  ", errors.SyntaxErrorCode},
		{"unclosed parens", "Range(0, 100", errors.SyntaxErrorCode},
		{"missing value", "Guard(className: )", errors.SyntaxErrorCode},
		{"positional after named", `Guard(className: "C", "M")`, errors.MalformedModifierCode},
		{"bad number", "Foo(-5u)", errors.MalformedModifierCode},
		{"new without rank", "Foo(new int { 1 })", errors.MalformedModifierCode},
		{"bad escape", `Foo("\q")`, errors.MalformedModifierCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input, location)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)

			var pe errors.PropgenError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "a.propgen.yaml", pe.Location().File)
		})
	}
}

func TestParseAllCollectsErrors(t *testing.T) {
	parser := NewParser(nil)
	mods, err := parser.ParseAll([]string{"Generate", "Range(", "NotifyChanged", "Foo("}, errors.SourceLocation{})
	require.Error(t, err)
	assert.Len(t, mods, 2)
	assert.Equal(t, Generate, mods[0].Kind)
	assert.Equal(t, NotifyChanged, mods[1].Kind)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Count())
}

func TestRenderRoundTrip(t *testing.T) {
	parser := NewParser(nil)
	inputs := []string{
		"[Range(0, 100)]",
		`[Display(Name = "Full name", Order = 2)]`,
		"[Required]",
		"[Foo(typeof(Demo.Widget), Demo.Color.Red, new int[] { 1, 2 })]",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			m, err := parser.Parse(input, errors.SourceLocation{})
			require.NoError(t, err)
			rendered, err := m.Render()
			require.NoError(t, err)
			assert.Equal(t, input, rendered)
		})
	}
}

func TestRenderUnsupportedValue(t *testing.T) {
	m := NewModifier(Unrecognized, literal.FromGo(map[string]int{}))
	m.Name = "Custom"
	_, err := m.Render()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.UnsupportedValueKindCode))
	assert.Equal(t, "Custom", m.String())
}
