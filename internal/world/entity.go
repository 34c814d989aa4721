package world

import (
	"fmt"
	"strings"
)

// Kind is a capability tag fixed on an entity at creation.
// The world model decides which tags an entity carries; the knowledge
// core only reads them (carrier indirection, graph export labels).
type Kind string

const (
	KindActor      Kind = "actor"
	KindLocation   Kind = "location"
	KindGettable   Kind = "gettable"
	KindAnimal     Kind = "animal"
	KindMotivation Kind = "motivation"

	// KindRecord marks the derived history-record entities materialized
	// by the knowledge core. No other entity carries it.
	KindRecord Kind = "record"
)

// validKinds is the closed set accepted by ParseKind.
var validKinds = map[Kind]bool{
	KindActor:      true,
	KindLocation:   true,
	KindGettable:   true,
	KindAnimal:     true,
	KindMotivation: true,
	KindRecord:     true,
}

// ParseKind validates a capability tag name from an external definition
// (CUE world files, YAML scenarios).
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !validKinds[k] {
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
	return k, nil
}

// Entity is an opaque world object: a name plus a fixed set of capability
// tags. Entities are compared by identity - two entities with the same
// name are still distinct facts-holders. The knowledge core never creates
// entities except for history records.
type Entity struct {
	Name  string
	kinds []Kind // creation order, deduplicated
}

// NewEntity creates an entity with the given capability tags.
// Duplicate tags are dropped, first occurrence wins.
func NewEntity(name string, kinds ...Kind) *Entity {
	e := &Entity{Name: name}
	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true
		e.kinds = append(e.kinds, k)
	}
	return e
}

// Is reports whether the entity carries the given capability tag.
func (e *Entity) Is(k Kind) bool {
	for _, have := range e.kinds {
		if have == k {
			return true
		}
	}
	return false
}

// Kinds returns the capability tags in creation order.
func (e *Entity) Kinds() []Kind {
	out := make([]Kind, len(e.kinds))
	copy(out, e.kinds)
	return out
}

// TagString returns the hyphen-joined capability tags used in graph
// export edge types, e.g. "actor-animal".
func (e *Entity) TagString() string {
	parts := make([]string, len(e.kinds))
	for i, k := range e.kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, "-")
}

func (e *Entity) String() string {
	return e.Name
}
