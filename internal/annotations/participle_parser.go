package annotations

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
)

// Parser turns modifier text such as `Range(0, 100)` or
// `Guard("IsValid", className: "Checks")` into ModifierInstances.
type Parser struct {
	parser   *participle.Parser[modifierAST]
	registry Registry
}

type modifierAST struct {
	Pos  lexer.Position
	Name *qualifiedName `parser:"@@"`
	Args []*argAST      `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type qualifiedName struct {
	Global bool     `parser:"( @'global' '::' )?"`
	Parts  []string `parser:"@Ident ( '.' @Ident )*"`
}

func (q *qualifiedName) String() string {
	name := strings.Join(q.Parts, ".")
	if q.Global {
		return "global::" + name
	}
	return name
}

type argAST struct {
	Pos   lexer.Position
	Name  *string   `parser:"( @Ident ( '=' | ':' ) )?"`
	Value *valueAST `parser:"@@"`
}

type valueAST struct {
	Pos      lexer.Position
	Null     bool           `parser:"  @'null'"`
	Bool     *string        `parser:"| @( 'true' | 'false' )"`
	Number   *string        `parser:"| @Number"`
	Verbatim *string        `parser:"| @Verbatim"`
	String   *string        `parser:"| @String"`
	Char     *string        `parser:"| @Char"`
	TypeOf   *typeAST       `parser:"| 'typeof' '(' @@ ')'"`
	NewArray *newArrayAST   `parser:"| @@"`
	List     *listAST       `parser:"| @@"`
	Member   *qualifiedName `parser:"| @@"`
}

type typeAST struct {
	Name     *qualifiedName `parser:"@@"`
	Args     []*typeAST     `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Nullable bool           `parser:"@'?'?"`
	Ranks    []string       `parser:"( @'[' ']' )*"`
}

func (t *typeAST) String() string {
	var b strings.Builder
	b.WriteString(t.Name.String())
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Nullable {
		b.WriteString("?")
	}
	for range t.Ranks {
		b.WriteString("[]")
	}
	return b.String()
}

type newArrayAST struct {
	Pos      lexer.Position
	Type     *typeAST    `parser:"'new' ( @@ | '[' ']' )"`
	Elements []*valueAST `parser:"'{' ( @@ ( ',' @@ )* ','? )? '}'"`
}

type listAST struct {
	Elements []*valueAST `parser:"'[' ( @@ ( ',' @@ )* ','? )? ']'"`
}

var modifierLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Verbatim", Pattern: `@"(""|[^"])*"`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\u[0-9a-fA-F]{4}|\\.|[^'\\])'`},
	{Name: "Number", Pattern: `[-+]?(0[xX][0-9a-fA-F]+([uU][lL]?|[lL][uU]?)?|(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?([uU][lL]?|[lL][uU]?|[fFdDmM])?)`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(){}\[\],.=:<>?]`},
})

// NewParser creates a parser resolving kind names against registry. A nil
// registry selects DefaultRegistry.
func NewParser(registry Registry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	parser := participle.MustBuild[modifierAST](
		participle.Lexer(modifierLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(4),
	)
	return &Parser{parser: parser, registry: registry}
}

// Parse parses a single modifier. The text may be wrapped in attribute
// brackets. location is where the text starts and is carried into the
// instance and any error.
func (p *Parser) Parse(text string, location errors.SourceLocation) (ModifierInstance, error) {
	input := strings.TrimSpace(text)
	if strings.HasPrefix(input, "[") && strings.HasSuffix(input, "]") {
		input = strings.TrimSpace(input[1 : len(input)-1])
	}
	if input == "" {
		return ModifierInstance{}, errors.NewSyntaxError(text, fmt.Errorf("empty modifier")).WithLocation(location)
	}

	ast, err := p.parser.ParseString(location.File, input)
	if err != nil {
		loc := location
		var perr participle.Error
		if stderrors.As(err, &perr) {
			loc = offset(location, perr.Position())
		}
		return ModifierInstance{}, errors.NewSyntaxError(text, err).WithLocation(loc)
	}

	name := ast.Name.String()
	kind, ok := p.registry.Lookup(name)
	if !ok {
		kind = Unrecognized
	}
	m := ModifierInstance{Kind: kind, Name: name, Location: location}

	for _, arg := range ast.Args {
		v, err := convertValue(arg.Value)
		if err != nil {
			return ModifierInstance{}, errors.NewMalformedModifierError(name, argName(arg), err.Error()).
				WithLocation(offset(location, arg.Pos))
		}
		if arg.Name != nil {
			m.Named = append(m.Named, NamedArg{Name: *arg.Name, Value: v})
			continue
		}
		if len(m.Named) > 0 {
			return ModifierInstance{}, errors.NewMalformedModifierError(name, "",
				"positional argument follows a named argument").WithLocation(offset(location, arg.Pos))
		}
		m.Positional = append(m.Positional, v)
	}
	return m, nil
}

// ParseAll parses a list of modifiers, collecting every failure
func (p *Parser) ParseAll(texts []string, location errors.SourceLocation) ([]ModifierInstance, error) {
	result := make([]ModifierInstance, 0, len(texts))
	errs := errors.NewMultipleErrors()
	for _, text := range texts {
		m, err := p.Parse(text, location)
		if err != nil {
			errs.Add(err)
			continue
		}
		result = append(result, m)
	}
	return result, errs.ErrorOrNil()
}

// Registry returns the registry the parser resolves names with
func (p *Parser) Registry() Registry {
	return p.registry
}

func argName(arg *argAST) string {
	if arg.Name != nil {
		return *arg.Name
	}
	return ""
}

// offset moves a base location by a position inside the parsed text
func offset(base errors.SourceLocation, pos lexer.Position) errors.SourceLocation {
	if pos.Line <= 1 {
		if base.Column > 0 {
			base.Column += pos.Column - 1
		} else {
			base.Column = pos.Column
		}
		return base
	}
	if base.Line > 0 {
		base.Line += pos.Line - 1
	}
	base.Column = pos.Column
	return base
}

func convertValue(v *valueAST) (literal.Value, error) {
	switch {
	case v.Null:
		return literal.NullValue(), nil
	case v.Bool != nil:
		return literal.BoolValue(*v.Bool == "true"), nil
	case v.Number != nil:
		return literal.ParseNumber(*v.Number)
	case v.Verbatim != nil:
		body := (*v.Verbatim)[2 : len(*v.Verbatim)-1]
		return literal.StringValue(strings.ReplaceAll(body, `""`, `"`)), nil
	case v.String != nil:
		s, err := unescape((*v.String)[1 : len(*v.String)-1])
		if err != nil {
			return literal.Value{}, err
		}
		return literal.StringValue(s), nil
	case v.Char != nil:
		s, err := unescape((*v.Char)[1 : len(*v.Char)-1])
		if err != nil {
			return literal.Value{}, err
		}
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) || r == utf8.RuneError {
			return literal.Value{}, fmt.Errorf("invalid character literal %s", *v.Char)
		}
		return literal.CharValue(r), nil
	case v.TypeOf != nil:
		return literal.TypeValue(v.TypeOf.String()), nil
	case v.NewArray != nil:
		return convertNewArray(v.NewArray)
	case v.List != nil:
		elems, err := convertValues(v.List.Elements)
		if err != nil {
			return literal.Value{}, err
		}
		return literal.ArrayValue("", elems...), nil
	case v.Member != nil:
		parts := v.Member.Parts
		if len(parts) == 1 && !v.Member.Global {
			return literal.EnumValue("", parts[0]), nil
		}
		owner := &qualifiedName{Global: v.Member.Global, Parts: parts[:len(parts)-1]}
		return literal.EnumValue(owner.String(), parts[len(parts)-1]), nil
	}
	return literal.Value{}, fmt.Errorf("empty value")
}

func convertNewArray(a *newArrayAST) (literal.Value, error) {
	elemType := ""
	if a.Type != nil {
		if len(a.Type.Ranks) == 0 {
			return literal.Value{}, fmt.Errorf("array creation of %s requires []", a.Type)
		}
		elem := *a.Type
		elem.Ranks = elem.Ranks[:len(elem.Ranks)-1]
		elemType = elem.String()
	}
	elems, err := convertValues(a.Elements)
	if err != nil {
		return literal.Value{}, err
	}
	return literal.ArrayValue(elemType, elems...), nil
}

func convertValues(values []*valueAST) ([]literal.Value, error) {
	out := make([]literal.Value, 0, len(values))
	for _, v := range values {
		lv, err := convertValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, lv)
	}
	return out, nil
}

// unescape resolves C# simple, \uXXXX and \UXXXXXXXX escape sequences
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash")
		}
		switch s[i] {
		case '\'', '"', '\\':
			b.WriteByte(s[i])
		case '0':
			b.WriteByte(0)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+1+width > len(s) {
				return "", fmt.Errorf("short unicode escape")
			}
			n, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape: %w", err)
			}
			b.WriteRune(rune(n))
			i += width
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", s[i])
		}
	}
	return b.String(), nil
}
