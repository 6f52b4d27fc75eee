package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/generator"
	"github.com/toyz/propgen/internal/models"
)

func TestStaticSource(t *testing.T) {
	person := models.NewTypeBuilder("Demo", "Person").
		WithMembers(models.NewField("_name", "string").Build()).
		Build()

	var source Source = NewStaticSource(person)
	types, err := source.ListCandidateTypes()
	require.NoError(t, err)
	require.Len(t, types, 1)

	members, err := source.ListMembers(types[0])
	require.NoError(t, err)
	require.Len(t, members, 1)

	members[0].Name = "_changed"
	again, _ := source.ListMembers(types[0])
	assert.Equal(t, "_name", again[0].Name, "members are returned as copies")
}

func TestFileSourceOrdersByFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.propgen.yaml")
	b := filepath.Join(dir, "b.propgen.yaml")
	require.NoError(t, os.WriteFile(a, []byte("namespace: A\ntypes:\n  - name: First\n  - name: Second\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("namespace: B\ntypes:\n  - name: Third\n"), 0o644))

	source := NewFileSource(nil, a, b)
	assert.Equal(t, []string{a, b}, source.Files())

	candidates, err := source.Candidates()
	require.NoError(t, err)

	var names []string
	for _, c := range candidates {
		names = append(names, c.Type.QualifiedName())
	}
	assert.Equal(t, []string{"A.First", "A.Second", "B.Third"}, names)
	assert.Equal(t, b, candidates[2].File)

	types, err := source.ListCandidateTypes()
	require.NoError(t, err)
	assert.Len(t, types, 3)
}

func TestFileSourceReportsEveryBrokenFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.propgen.yaml")
	bad := filepath.Join(dir, "bad.propgen.yaml")
	require.NoError(t, os.WriteFile(good, []byte("types:\n  - name: Fine\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("types: ["), 0o644))
	missing := filepath.Join(dir, "missing.propgen.yaml")

	_, err := NewFileSource(nil, good, bad, missing).ListCandidateTypes()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Count())
	assert.Contains(t, err.Error(), "bad.propgen.yaml")
	assert.Contains(t, err.Error(), "missing.propgen.yaml")
}

func TestDescriptorToFragment(t *testing.T) {
	data := `namespace: Demo.Models
types:
  - name: Person
    modifiers: [Generate, NotifyChanged]
    members:
      - name: _age
        type: int
        modifiers: ["Range(0, 100)"]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "person.propgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	source := NewFileSource(NewLoader(nil), path)
	types, err := source.ListCandidateTypes()
	require.NoError(t, err)
	require.Len(t, types, 1)

	desc := types[0]
	desc.Members, err = source.ListMembers(desc)
	require.NoError(t, err)

	fragment, err := generator.NewGenerator().GenerateType(desc)
	require.NoError(t, err)
	assert.Empty(t, fragment.Warnings)
	assert.Equal(t, "Demo.Models.Person.g.cs", fragment.Key)

	expected := strings.Join([]string{
		"// <auto-generated/>",
		"#nullable enable",
		"",
		"namespace Demo.Models",
		"{",
		"    partial class Person : global::System.ComponentModel.INotifyPropertyChanged",
		"    {",
		"        public event global::System.ComponentModel.PropertyChangedEventHandler? PropertyChanged;",
		"",
		"        [Range(0, 100)]",
		"        public int Age",
		"        {",
		"            get => _age;",
		"            set",
		"            {",
		"                if (_age == value)",
		"                {",
		"                    return;",
		"                }",
		"                if (value < 0 || value > 100)",
		"                {",
		`                    throw new global::System.ArgumentException("Value must be between 0 and 100", nameof(Age));`,
		"                }",
		"                _age = value;",
		"                PropertyChanged?.Invoke(this, new global::System.ComponentModel.PropertyChangedEventArgs(nameof(Age)));",
		"            }",
		"        }",
		"    }",
		"}",
	}, "\n") + "\n"
	assert.Equal(t, expected, fragment.Content)
}
