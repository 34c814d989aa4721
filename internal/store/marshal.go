package store

import (
	"encoding/json"
	"fmt"

	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// EventRecord is the wire form of one event clause: entity and action
// references flattened to their stable names.
type EventRecord struct {
	Seq    int64
	Truth  bool
	Actor  string
	Action string
	Args   []string
}

// EncodeClause flattens a clause for persistence.
func EncodeClause(c *knowledge.Clause) EventRecord {
	rec := EventRecord{
		Seq:    c.Seq,
		Truth:  c.Truth,
		Actor:  c.Actor.Name,
		Action: c.Action.Tag(),
		Args:   make([]string, len(c.Args)),
	}
	for i, a := range c.Args {
		rec.Args[i] = a.Name
	}
	return rec
}

// DecodeClause reconstructs a clause from its wire form, resolving
// names through the caller's entity roster and action registry.
func DecodeClause(
	rec EventRecord,
	entity func(string) (*world.Entity, bool),
	action func(string) (knowledge.Action, bool),
) (*knowledge.Clause, error) {
	actor, ok := entity(rec.Actor)
	if !ok {
		return nil, fmt.Errorf("decode event %d: unknown actor %q", rec.Seq, rec.Actor)
	}
	act, ok := action(rec.Action)
	if !ok {
		return nil, fmt.Errorf("decode event %d: unknown action %q", rec.Seq, rec.Action)
	}
	args := make([]*world.Entity, len(rec.Args))
	for i, name := range rec.Args {
		e, ok := entity(name)
		if !ok {
			return nil, fmt.Errorf("decode event %d: unknown entity %q", rec.Seq, name)
		}
		args[i] = e
	}
	return &knowledge.Clause{
		Truth:  rec.Truth,
		Actor:  actor,
		Action: act,
		Args:   args,
		Seq:    rec.Seq,
	}, nil
}

// marshalArgs serializes the argument name list for the args column.
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses the args column.
func unmarshalArgs(data string) ([]string, error) {
	var args []string
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}
