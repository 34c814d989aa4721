package knowledge

import (
	"fmt"

	"fabula/internal/world"
)

// ValueHistory walks every snapshot 1..T and collects the distinct
// true values an entity held for a property, in chronological order,
// with a parallel support list. Consecutive duplicates are eliminated:
// a value is appended only when it differs from the previous retained
// value, so a property that never changes yields a single entry.
//
// With resolveCarrier set, a value that is itself an actor entity is
// resolved one step further: the carrier's own value for the same
// property replaces it, collapsing "located via a carrier" chains. The
// support of a resolved value is the union of the carried fact's
// support and the carrier's location support.
func (tl *Timeline) ValueHistory(e *world.Entity, p Property, resolveCarrier bool) ([]world.Value, []Support, error) {
	var vals []world.Value
	var sups []Support

	for t := 1; t <= tl.Len(); t++ {
		ledger, ok := tl.Snapshot(t).Peek(e)
		if !ok {
			continue
		}
		v, sup, err := ledger.Value(p)
		if err != nil {
			return nil, nil, fmt.Errorf("value history of %s.%s at t=%d: %w", e.Name, p, t, err)
		}
		if v == nil {
			continue
		}

		if resolveCarrier {
			if ev, isEntity := v.(world.EntityValue); isEntity && ev.Entity.Is(world.KindActor) {
				carrier, carrierOK := tl.Snapshot(t).Peek(ev.Entity)
				if carrierOK {
					cv, csup, cerr := carrier.Value(p)
					if cerr != nil {
						return nil, nil, fmt.Errorf("value history of %s.%s at t=%d: %w", e.Name, p, t, cerr)
					}
					if cv != nil {
						v = cv
						sup = sup.Union(csup)
					}
				}
			}
		}

		if len(vals) > 0 && world.Equal(vals[len(vals)-1], v) {
			continue
		}
		vals = append(vals, v)
		sups = append(sups, sup)
	}

	return vals, sups, nil
}
