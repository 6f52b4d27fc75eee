package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/literal"
	"github.com/toyz/propgen/internal/models"
)

func notifyOn(trigger string) annotations.ModifierInstance {
	return annotations.NewModifier(annotations.NotifyOn, literal.StringValue(trigger))
}

func TestBuild(t *testing.T) {
	m := Build([]Member{
		{PropertyName: "FirstName"},
		{PropertyName: "LastName"},
		{PropertyName: "FullName", Modifiers: []annotations.ModifierInstance{notifyOn("FirstName"), notifyOn("LastName")}},
		{PropertyName: "Initials", Modifiers: []annotations.ModifierInstance{
			annotations.NewModifier(annotations.Generate),
			notifyOn("FirstName"),
		}},
		{PropertyName: "Ghost", Modifiers: []annotations.ModifierInstance{notifyOn("Missing")}},
	})

	assert.Equal(t, []string{"FullName", "Initials"}, m.Dependents("FirstName"))
	assert.Equal(t, []string{"FullName"}, m.Dependents("LastName"))
	assert.Equal(t, []string{"Ghost"}, m.Dependents("Missing"))
	assert.Empty(t, m.Dependents("FullName"))
	assert.Equal(t, []string{"FirstName", "LastName", "Missing"}, m.Triggers())
	assert.Equal(t, 3, m.Len())
	assert.Empty(t, m.Cycles())
}

func TestBuildNamedArgumentAndMalformed(t *testing.T) {
	named := annotations.NewModifier(annotations.NotifyOn).WithNamed("PropertyName", literal.StringValue("A"))
	empty := annotations.NewModifier(annotations.NotifyOn)
	wrong := annotations.NewModifier(annotations.NotifyOn, literal.Int32Value(3))

	m := Build([]Member{{PropertyName: "B", Modifiers: []annotations.ModifierInstance{named, empty, wrong}}})
	assert.Equal(t, []string{"B"}, m.Dependents("A"))
	assert.Equal(t, 1, m.Len())
}

func TestCycles(t *testing.T) {
	m := Build([]Member{
		{PropertyName: "A", Modifiers: []annotations.ModifierInstance{notifyOn("C")}},
		{PropertyName: "B", Modifiers: []annotations.ModifierInstance{notifyOn("A")}},
		{PropertyName: "C", Modifiers: []annotations.ModifierInstance{notifyOn("B")}},
		{PropertyName: "Self", Modifiers: []annotations.ModifierInstance{notifyOn("Self")}},
		{PropertyName: "D", Modifiers: []annotations.ModifierInstance{notifyOn("A")}},
	})

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"Self"}}, m.Cycles())
	// flat lists are unaffected by the cycle
	assert.Equal(t, []string{"B", "D"}, m.Dependents("A"))
}

func TestMembersOf(t *testing.T) {
	members := []models.MemberDescriptor{
		models.NewField("_age", "int").WithModifiers(notifyOn("Birthday")).Build(),
		models.NewPartialProperty("Birthday", "DateTime").Build(),
		models.NewProperty("IsAdult", "bool").WithModifiers(notifyOn("Age")).Build(),
	}
	upper := func(md models.MemberDescriptor) string { return "P" + md.Name }

	out := MembersOf(members, upper)
	assert.Equal(t, "P_age", out[0].PropertyName)
	assert.Equal(t, "PBirthday", out[1].PropertyName)
	assert.Equal(t, "IsAdult", out[2].PropertyName)

	m := Build(out)
	assert.Equal(t, []string{"P_age"}, m.Dependents("Birthday"))
	assert.Equal(t, []string{"IsAdult"}, m.Dependents("Age"))
}
