package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/resolver"
)

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct {
		field    string
		expected string
	}{
		{"_name", "Name"},
		{"__count", "Count"},
		{"fooField", "Foo"},
		{"_barField", "Bar"},
		{"Value", "ValueProperty"},
		{"Field", "FieldProperty"},
		{"_field", "Field"},
		{"age", "Age"},
		{"_", "_Property"},
		{"_élan", "Élan"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultTemplateUtils.NormalizeFieldName(tt.field))
		})
	}
}

func TestPropertyName(t *testing.T) {
	tu := NewTemplateUtils()
	override := "DisplayName"

	field := models.NewField("_name", "string").Build()
	partial := models.NewPartialProperty("Title", "string").Build()

	assert.Equal(t, "Name", tu.PropertyName(field, resolver.Settings{}))
	assert.Equal(t, "Title", tu.PropertyName(partial, resolver.Settings{}))
	assert.Equal(t, "DisplayName", tu.PropertyName(field, resolver.Settings{PropertyName: &override}))
	assert.Equal(t, "DisplayName", tu.PropertyName(partial, resolver.Settings{PropertyName: &override}))
}

func TestBackingFieldName(t *testing.T) {
	assert.Equal(t, "_titleBackingField", DefaultTemplateUtils.BackingFieldName("Title"))
	assert.Equal(t, "_uRLBackingField", DefaultTemplateUtils.BackingFieldName("URL"))
}

func TestDocLines(t *testing.T) {
	tu := DefaultTemplateUtils
	assert.Nil(t, tu.DocLines("  \n"))
	assert.Equal(t, []string{"/// The age."}, tu.DocLines("The age.\n"))
	assert.Equal(t,
		[]string{"/// <summary>", "/// Age in years.", "///", "/// </summary>"},
		tu.DocLines("/// <summary>\r\nAge in years.\n\n/// </summary>"))
}

func TestIndent(t *testing.T) {
	tu := DefaultTemplateUtils
	assert.Equal(t, "    a\n\n    b", tu.Indent(1, "a\n\nb"))
	assert.Equal(t, "        a", tu.Indent(2, "a"))
	assert.Equal(t, "a", tu.Indent(0, "a"))
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"Age"`, DefaultTemplateUtils.QuoteString("Age"))
	assert.Equal(t, `@"say ""hi"""`, DefaultTemplateUtils.QuoteString(`say "hi"`))
}
