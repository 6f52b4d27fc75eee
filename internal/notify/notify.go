// Package notify tracks NotifyOn declarations: which properties must also
// raise change notifications when another property changes.
package notify

import (
	"sort"
	"strings"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/models"
)

// Member is the view of a member the tracker needs: the property name it
// will be known by and its modifiers.
type Member struct {
	PropertyName string
	Modifiers    []annotations.ModifierInstance
}

// Map maps a trigger property name to its dependents in declaration order
type Map struct {
	dependents map[string][]string
	triggers   []string // first-seen order
}

// Build scans every member for NotifyOn declarations. A dependent is listed
// once per declaration; triggers naming no member are kept but never
// consumed.
func Build(members []Member) Map {
	m := Map{dependents: make(map[string][]string)}
	for _, member := range members {
		for _, mod := range member.Modifiers {
			if mod.Kind != annotations.NotifyOn {
				continue
			}
			v, ok := mod.Arg(0, "propertyName")
			if !ok {
				continue
			}
			trigger, ok := v.AsString()
			if !ok || trigger == "" {
				continue
			}
			if _, seen := m.dependents[trigger]; !seen {
				m.triggers = append(m.triggers, trigger)
			}
			m.dependents[trigger] = append(m.dependents[trigger], member.PropertyName)
		}
	}
	return m
}

// Dependents returns the names notified when trigger changes
func (m Map) Dependents(trigger string) []string {
	return m.dependents[trigger]
}

// Triggers returns every trigger name in first-seen order
func (m Map) Triggers() []string {
	return m.triggers
}

// Len returns the number of triggers
func (m Map) Len() int {
	return len(m.triggers)
}

// Cycles reports every dependency cycle, each as the property names along
// it starting from its smallest name. Cycles do not change emission: each
// setter fires its own flat list once.
func (m Map) Cycles() [][]string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var stack []string
	seen := make(map[string]bool)
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		state[name] = active
		stack = append(stack, name)
		for _, next := range m.dependents[name] {
			switch state[next] {
			case unvisited:
				visit(next)
			case active:
				cycle := canonical(cycleFrom(stack, next))
				key := joinKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, trigger := range m.triggers {
		if state[trigger] == unvisited {
			visit(trigger)
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return joinKey(cycles[i]) < joinKey(cycles[j]) })
	return cycles
}

func cycleFrom(stack []string, start string) []string {
	for i, name := range stack {
		if name == start {
			return append([]string(nil), stack[i:]...)
		}
	}
	return nil
}

// canonical rotates a cycle so it starts at its smallest name
func canonical(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	lo := 0
	for i, name := range cycle {
		if name < cycle[lo] {
			lo = i
		}
	}
	return append(append([]string(nil), cycle[lo:]...), cycle[:lo]...)
}

func joinKey(names []string) string {
	return strings.Join(names, "\x00")
}

// MembersOf adapts type members for Build. name resolves the property name
// of members whose property is generated; hand-written properties keep
// their own name.
func MembersOf(members []models.MemberDescriptor, name func(models.MemberDescriptor) string) []Member {
	out := make([]Member, 0, len(members))
	for _, md := range members {
		propName := md.Name
		if md.Kind != models.MemberKindProperty && name != nil {
			propName = name(md)
		}
		out = append(out, Member{PropertyName: propName, Modifiers: md.Modifiers})
	}
	return out
}
