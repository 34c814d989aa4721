// Package compiler turns CUE world definitions into the data the
// knowledge layer is built from: the entity roster with capability
// tags, the exclusive property set, and the rule registrations.
//
// A world file has the shape:
//
//	world: {
//		exclusive: ["is_in"]
//		rule: ["carry"]
//		entity: {
//			john:    {kinds: ["actor"]}
//			kitchen: {kinds: ["location"]}
//			apple:   {kinds: ["gettable"]}
//		}
//	}
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"fabula/internal/world"
)

// EntitySpec declares one entity and its capability tags.
type EntitySpec struct {
	Name  string
	Kinds []string
}

// WorldSpec is the compiled world definition. Entity and rule order
// follow declaration order and are preserved for determinism.
type WorldSpec struct {
	Entities  []EntitySpec
	Exclusive []string
	Rules     []string
}

// Hash returns the content-addressed identity of the world definition,
// used by the event log to pin a story to the world it ran against.
func (s *WorldSpec) Hash() (string, error) {
	entities := make([]any, len(s.Entities))
	for i, e := range s.Entities {
		kinds := make([]any, len(e.Kinds))
		for j, k := range e.Kinds {
			kinds[j] = k
		}
		entities[i] = map[string]any{"name": e.Name, "kinds": kinds}
	}
	exclusive := make([]any, len(s.Exclusive))
	for i, p := range s.Exclusive {
		exclusive[i] = p
	}
	rules := make([]any, len(s.Rules))
	for i, r := range s.Rules {
		rules[i] = r
	}
	return world.CanonicalHash(world.DomainWorld, map[string]any{
		"entities":  entities,
		"exclusive": exclusive,
		"rules":     rules,
	})
}

// CompileWorld parses the CUE value of a `world` struct into a
// WorldSpec. Uses the CUE SDK's Go API directly, not CLI subprocess.
func CompileWorld(v cue.Value) (*WorldSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &WorldSpec{}
	var err error

	spec.Entities, err = parseEntities(v)
	if err != nil {
		return nil, err
	}
	if len(spec.Entities) == 0 {
		return nil, &CompileError{
			Field:   "entity",
			Message: "at least one entity is required",
			Pos:     v.Pos(),
		}
	}

	spec.Exclusive, err = parseStringList(v, "exclusive")
	if err != nil {
		return nil, err
	}

	spec.Rules, err = parseStringList(v, "rule")
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// parseEntities extracts the entity roster in declaration order.
func parseEntities(v cue.Value) ([]EntitySpec, error) {
	var entities []EntitySpec

	entityVal := v.LookupPath(cue.ParsePath("entity"))
	if !entityVal.Exists() {
		return entities, nil
	}

	iter, err := entityVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		ent := EntitySpec{Name: name}

		kindsVal := iter.Value().LookupPath(cue.ParsePath("kinds"))
		if kindsVal.Exists() {
			kindIter, err := kindsVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for kindIter.Next() {
				kind, err := kindIter.Value().String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				if _, err := world.ParseKind(kind); err != nil {
					return nil, &CompileError{
						Field:   fmt.Sprintf("entity.%s.kinds", name),
						Message: err.Error(),
						Pos:     kindIter.Value().Pos(),
					}
				}
				ent.Kinds = append(ent.Kinds, kind)
			}
		}

		entities = append(entities, ent)
	}

	return entities, nil
}

// parseStringList extracts an optional list of strings at path.
func parseStringList(v cue.Value, path string) ([]string, error) {
	var out []string

	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return out, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}

	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
