package templates

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/propgen/internal/literal"
	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/resolver"
)

const (
	// fieldSuffix is stripped from field names when deriving a property name
	fieldSuffix = "Field"
	// collisionSuffix is appended when the derived name equals the field name
	collisionSuffix = "Property"
	// backingSuffix names the storage generated for partial properties
	backingSuffix = "BackingField"

	indentUnit = "    "
)

// TemplateUtils provides common utilities for template generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// ToCamelCase lower-cases the first letter
func (tu *TemplateUtils) ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// ToPascalCase upper-cases the first letter
func (tu *TemplateUtils) ToPascalCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeFieldName derives a property name from a field name. One leading
// run of underscores is removed, the first letter is capitalized and a
// trailing "Field" is dropped unless nothing would remain. A result equal to
// the field name gets the "Property" suffix so the two never collide.
func (tu *TemplateUtils) NormalizeFieldName(field string) string {
	candidate := strings.TrimLeft(field, "_")
	if candidate == "" {
		candidate = field
	}
	candidate = tu.ToPascalCase(candidate)
	if trimmed := strings.TrimSuffix(candidate, fieldSuffix); trimmed != candidate && trimmed != "" {
		candidate = trimmed
	}
	if candidate == field {
		candidate += collisionSuffix
	}
	return candidate
}

// PropertyName resolves the name of the property generated for member: an
// explicit PropertyName override, else the member's own name for property
// declarations, else the normalized field name.
func (tu *TemplateUtils) PropertyName(member models.MemberDescriptor, settings resolver.Settings) string {
	if settings.PropertyName != nil && *settings.PropertyName != "" {
		return *settings.PropertyName
	}
	if member.Kind.IsPropertyLike() {
		return member.Name
	}
	return tu.NormalizeFieldName(member.Name)
}

// BackingFieldName returns the storage name for a generated partial property
func (tu *TemplateUtils) BackingFieldName(property string) string {
	return "_" + tu.ToCamelCase(property) + backingSuffix
}

// QuoteString renders s as a C# string literal
func (tu *TemplateUtils) QuoteString(s string) string {
	return literal.MustSerialize(literal.StringValue(s))
}

// DocLines turns documentation text into /// comment lines. Lines that
// already carry the marker are kept as they are.
func (tu *TemplateUtils) DocLines(doc string) []string {
	doc = strings.TrimRight(doc, "\r\n\t ")
	if strings.TrimSpace(doc) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "///"):
			lines = append(lines, trimmed)
		case trimmed == "":
			lines = append(lines, "///")
		default:
			lines = append(lines, "/// "+trimmed)
		}
	}
	return lines
}

// Indent prefixes every non-empty line of text with level indentation units
func (tu *TemplateUtils) Indent(level int, text string) string {
	if level <= 0 || text == "" {
		return text
	}
	prefix := strings.Repeat(indentUnit, level)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// DefaultTemplateUtils provides a global instance for convenience
var DefaultTemplateUtils = NewTemplateUtils()
