package actions

import (
	"fmt"

	"fabula/internal/compiler"
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// World is a compiled world definition materialized into live state:
// the entity roster and a timeline with the declared rules registered.
type World struct {
	Timeline *knowledge.Timeline
	Actions  *Registry

	entities map[string]*world.Entity
	names    []string
}

// BuildWorld materializes a compiled world spec. Declared rules are
// registered through timeline updates, so rule registrations occupy
// story time like any other clause.
func BuildWorld(spec *compiler.WorldSpec, opts ...knowledge.Option) (*World, error) {
	exclusive := make([]knowledge.Property, len(spec.Exclusive))
	for i, p := range spec.Exclusive {
		exclusive[i] = knowledge.Property(p)
	}

	w := &World{
		Timeline: knowledge.New(exclusive, opts...),
		Actions:  Default(),
		entities: make(map[string]*world.Entity, len(spec.Entities)),
	}

	for _, es := range spec.Entities {
		if _, dup := w.entities[es.Name]; dup {
			return nil, fmt.Errorf("duplicate entity %q", es.Name)
		}
		kinds := make([]world.Kind, len(es.Kinds))
		for i, k := range es.Kinds {
			kind, err := world.ParseKind(k)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", es.Name, err)
			}
			kinds[i] = kind
		}
		w.entities[es.Name] = world.NewEntity(es.Name, kinds...)
		w.names = append(w.names, es.Name)
	}

	rules := Rules()
	for _, name := range spec.Rules {
		rule, ok := rules[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
		w.Timeline.Update(knowledge.RuleStep{Rule: rule})
	}

	return w, nil
}

// Entity resolves an entity by name.
func (w *World) Entity(name string) (*world.Entity, bool) {
	e, ok := w.entities[name]
	return e, ok
}

// Names returns the declared entity names in declaration order.
func (w *World) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Clause assembles an event clause from wire-level names.
func (w *World) Clause(truth bool, actor, action string, args []string) (*knowledge.Clause, error) {
	act, ok := w.entities[actor]
	if !ok {
		return nil, fmt.Errorf("unknown actor %q", actor)
	}
	a, ok := w.Actions.Get(action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	resolved := make([]*world.Entity, len(args))
	for i, name := range args {
		e, ok := w.entities[name]
		if !ok {
			return nil, fmt.Errorf("unknown entity %q", name)
		}
		resolved[i] = e
	}
	return &knowledge.Clause{Truth: truth, Actor: act, Action: a, Args: resolved}, nil
}
