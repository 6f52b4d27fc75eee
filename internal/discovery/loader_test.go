package discovery

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
	"github.com/toyz/propgen/internal/models"
)

const personDescriptor = `namespace: Demo.Models
types:
  - name: Person
    kind: class
    modifiers: [Generate, NotifyChanged]
    members:
      - name: _age
        type: int
        doc: The person's age.
        modifiers:
          - Range(0, 100)
          - kind: Guard
            args: [CheckAge]
            named: {className: Validators}
      - name: Status
        type: Status
        kind: partial
        enum: true
      - name: _tags
        type: string[]
        readonly: true
        nonNull: true
      - name: _id
        type: Identifier
        reference: false
  - name: Box
    kind: record struct
    namespace: Demo.Containers
    generics: [T]
`

func TestLoaderParse(t *testing.T) {
	types, err := NewLoader(nil).Parse([]byte(personDescriptor), "person.propgen.yaml")
	require.NoError(t, err)
	require.Len(t, types, 2)

	person := types[0]
	assert.Equal(t, "Demo.Models", person.Namespace)
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, models.TypeKindClass, person.Kind)
	assert.Equal(t, errors.SourceLocation{File: "person.propgen.yaml", Line: 3, Column: 5}, person.Location)
	require.Len(t, person.Modifiers, 2)
	assert.Equal(t, annotations.Generate, person.Modifiers[0].Kind)
	assert.Equal(t, annotations.NotifyChanged, person.Modifiers[1].Kind)

	require.Len(t, person.Members, 4)

	age := person.Members[0]
	assert.Equal(t, "_age", age.Name)
	assert.Equal(t, models.MemberKindField, age.Kind)
	assert.Equal(t, "int", age.Type.Text())
	assert.Equal(t, "The person's age.", age.Documentation)
	assert.Equal(t, errors.SourceLocation{File: "person.propgen.yaml", Line: 7, Column: 9}, age.Location)
	require.Len(t, age.Modifiers, 2)

	rng := age.Modifiers[0]
	assert.Equal(t, annotations.Range, rng.Kind)
	assert.Equal(t, []literal.Value{literal.Int32Value(0), literal.Int32Value(100)}, rng.Positional)
	assert.Equal(t, 11, rng.Location.Line)
	assert.Equal(t, 13, rng.Location.Column)

	guard := age.Modifiers[1]
	assert.Equal(t, annotations.Guard, guard.Kind)
	assert.Equal(t, "Guard", guard.Name)
	assert.Equal(t, []literal.Value{literal.StringValue("CheckAge")}, guard.Positional)
	assert.Equal(t, []annotations.NamedArg{{Name: "className", Value: literal.StringValue("Validators")}}, guard.Named)
	assert.Equal(t, 12, guard.Location.Line)

	status := person.Members[1]
	assert.Equal(t, models.MemberKindPartialProperty, status.Kind)
	assert.True(t, status.Type.IsEnum)
	assert.False(t, status.Type.IsReference)
	assert.Equal(t, "Status", status.Type.Text())

	tags := person.Members[2]
	assert.True(t, tags.IsReadOnly())
	assert.True(t, tags.Type.IsArray)
	assert.Equal(t, "string[]", tags.Type.Text())

	id := person.Members[3]
	assert.False(t, id.Type.IsReference)
	assert.Equal(t, "Identifier", id.Type.Text())

	box := types[1]
	assert.Equal(t, "Demo.Containers", box.Namespace)
	assert.Equal(t, models.TypeKindRecordStruct, box.Kind)
	assert.Equal(t, []string{"T"}, box.Generics)
	assert.Empty(t, box.Members)
}

func TestLoaderReferenceOverride(t *testing.T) {
	data := `types:
  - name: Holder
    members:
      - name: _stamp
        type: DateTime
        reference: true
      - name: _when
        type: DateTime?
`
	types, err := NewLoader(nil).Parse([]byte(data), "holder.propgen.yaml")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Empty(t, types[0].Namespace)

	stamp := types[0].Members[0]
	assert.True(t, stamp.Type.IsReference)
	assert.Equal(t, "DateTime?", stamp.Type.Text(), "reference types carry the nullable marker")

	when := types[0].Members[1]
	assert.False(t, when.Type.IsReference)
	assert.True(t, when.Type.Nullable)
}

func TestLoaderUnrecognizedStructuredModifier(t *testing.T) {
	data := `types:
  - name: Person
    members:
      - name: _name
        type: string
        modifiers:
          - kind: JsonPropertyName
            args: [name]
          - kind: MaxLength
            args: [12]
          - kind: PropertyAttribute
            args: ["[Key]"]
`
	types, err := NewLoader(nil).Parse([]byte(data), "p.propgen.yaml")
	require.NoError(t, err)

	member := types[0].Members[0]
	require.Len(t, member.Modifiers, 3)
	assert.Equal(t, annotations.PropertyAttribute, member.Modifiers[2].Kind)
	assert.Equal(t, annotations.Unrecognized, member.Modifiers[0].Kind)
	assert.Equal(t, "JsonPropertyName", member.Modifiers[0].Name)
	assert.Equal(t, annotations.MaxLength, member.Modifiers[1].Kind)
	assert.Equal(t, []literal.Value{literal.Int32Value(12)}, member.Modifiers[1].Positional)
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains []string
	}{
		{
			name:     "invalid yaml",
			data:     "types: [",
			contains: []string{"invalid descriptor file 'bad.propgen.yaml'", "failed to parse YAML"},
		},
		{
			name:     "modifier mapping without kind",
			data:     "types:\n  - name: A\n    modifiers:\n      - args: [1]\n",
			contains: []string{"requires a kind"},
		},
		{
			name:     "invalid namespace",
			data:     "namespace: Demo Models\ntypes: []\n",
			contains: []string{"invalid namespace"},
		},
		{
			name: "collects every problem",
			data: `namespace: Demo
types:
  - name: Bad Name
  - name: Person
    kind: interface
  - name: Order
  - name: Invoice
    members:
      - name: _a
        type: int
      - name: _a
        type: int
      - name: _b
        type: ""
      - name: _c
        type: int
        kind: method
  - name: Order
  - name: Receipt
    modifiers: ["Range("]
`,
			contains: []string{
				`type "Bad Name"`,
				"type Person: validation error for field 'kind': must be one of: [class struct record record class record struct]",
				"member _a is declared twice in Invoice",
				"member _b",
				"member _c: validation error for field 'kind'",
				"type Order is already declared on line 6",
				`cannot parse modifier "Range("`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Parse([]byte(tt.data), "bad.propgen.yaml")
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.DescriptorErrorCode))
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoaderSyntaxErrorLocation(t *testing.T) {
	data := "types:\n  - name: Invoice\n    modifiers:\n      - Range(\n"
	_, err := NewLoader(nil).Parse([]byte(data), "bad.propgen.yaml")
	require.Error(t, err)

	var syntaxErr *errors.SyntaxError
	require.True(t, stderrors.As(err, &syntaxErr))
	assert.Equal(t, "bad.propgen.yaml", syntaxErr.Location().File)
	assert.Equal(t, 4, syntaxErr.Location().Line)
}

func TestLoaderLoadFileCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "person.propgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(personDescriptor), 0o644))

	loader := NewLoader(nil)
	first, err := loader.LoadFile(path)
	require.NoError(t, err)
	second, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := loader.CacheStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.True(t, strings.HasPrefix(loader.String(), "descriptor cache: 1 files"))

	updated := strings.Replace(personDescriptor, "Demo.Models", "Demo.People", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo.People", third[0].Namespace)

	loader.Invalidate(path)
	assert.Equal(t, 0, loader.CacheStats().Size)

	_, err = loader.LoadFile(filepath.Join(dir, "missing.propgen.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
}
