package knowledge

import "fabula/internal/world"

// Table is one snapshot of the knowledge state: a sparse mapping from
// entity to its ledger, covering every entity touched up to and
// including the event that produced it. Entities are never removed.
type Table struct {
	exclusive map[Property]bool
	ledgers   map[*world.Entity]*Ledger
	order     []*world.Entity
}

func newTable(exclusive map[Property]bool) *Table {
	return &Table{
		exclusive: exclusive,
		ledgers:   make(map[*world.Entity]*Ledger),
	}
}

// Ledger returns the entity's fact ledger, materializing an empty one
// on first access. This get-or-insert accessor is the only place
// ledgers are created.
func (t *Table) Ledger(e *world.Entity) *Ledger {
	if l, ok := t.ledgers[e]; ok {
		return l
	}
	l := newLedger(e.Name, t.exclusive)
	t.ledgers[e] = l
	t.order = append(t.order, e)
	return l
}

// Peek returns the entity's ledger without materializing one. Reads
// that must not mutate the snapshot (history walks, export) use this.
func (t *Table) Peek(e *world.Entity) (*Ledger, bool) {
	l, ok := t.ledgers[e]
	return l, ok
}

// Entities returns every entity present, in first-touch order.
func (t *Table) Entities() []*world.Entity {
	out := make([]*world.Entity, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of entities present.
func (t *Table) Len() int {
	return len(t.order)
}

// Clone deep-copies the table for the next snapshot. Every ledger and
// fact is copied; nothing in the clone aliases the receiver's inner
// fact collections, so mutating the clone cannot alter history.
func (t *Table) Clone() *Table {
	c := &Table{
		exclusive: t.exclusive,
		ledgers:   make(map[*world.Entity]*Ledger, len(t.ledgers)),
		order:     make([]*world.Entity, len(t.order)),
	}
	copy(c.order, t.order)
	for e, l := range t.ledgers {
		c.ledgers[e] = l.clone()
	}
	return c
}
