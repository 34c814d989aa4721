package knowledge

import (
	"fmt"

	"fabula/internal/world"
)

// Record-chain relations written by AugmentValueHistories.
const (
	PropPrev  Property = "prev"
	PropValue Property = "value"
)

// HistoryProperty names the cumulative record relation for a property.
func HistoryProperty(p Property) Property {
	return Property("history_" + string(p))
}

// HistoryNowProperty names the latest-record relation for a property.
func HistoryNowProperty(p Property) Property {
	return Property("history_now_" + string(p))
}

// AugmentValueHistories materializes, on the current snapshot, each
// entity's deduplicated value history for a property as a chain of
// freshly created record entities: record i carries the i-th distinct
// value via the "value" relation and points to record i-1 via "prev".
// Every record is linked back from the entity through the cumulative
// history relation, and the history_now relation is kept pointing at
// the latest record.
//
// This is the only place the knowledge core creates entities. The
// explicit linked history lets downstream question logic follow value
// changes without repeated O(T) re-scans.
//
// Returns the records created per entity, oldest first.
func (tl *Timeline) AugmentValueHistories(entities []*world.Entity, p Property, resolveCarrier bool) (map[*world.Entity][]*world.Entity, error) {
	table := tl.Current()
	records := make(map[*world.Entity][]*world.Entity, len(entities))

	for _, e := range entities {
		vals, sups, err := tl.ValueHistory(e, p, resolveCarrier)
		if err != nil {
			return nil, fmt.Errorf("augment %s.%s: %w", e.Name, p, err)
		}

		var prev *world.Entity
		for i, v := range vals {
			rec := world.NewEntity(
				fmt.Sprintf("%s_%s_%d", e.Name, p, i+1),
				world.KindRecord,
			)
			recLedger := table.Ledger(rec)
			recLedger.Set(PropValue, v, true, sups[i])
			if prev != nil {
				recLedger.Set(PropPrev, world.Ref(prev), true, sups[i])
			}

			entLedger := table.Ledger(e)
			entLedger.Add(HistoryProperty(p), world.Ref(rec), true, sups[i])
			entLedger.Set(HistoryNowProperty(p), world.Ref(rec), true, sups[i])

			records[e] = append(records[e], rec)
			prev = rec
		}
	}

	return records, nil
}
