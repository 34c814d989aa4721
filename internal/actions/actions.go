// Package actions implements the knowledge-update side of the story
// action vocabulary. The world layer validates feasibility (geometry,
// possession) before a clause reaches the timeline; these actions only
// record what the already-legal event made true or false.
package actions

import (
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// Properties written by the story actions.
const (
	PropIsIn knowledge.Property = "is_in"
	PropHas  knowledge.Property = "has"
)

// Move relocates the actor: args[0] is the destination.
// A negated clause records that the actor is not at the destination.
type Move struct{}

func (Move) Tag() string { return "move" }

func (Move) Apply(t *knowledge.Table, c *knowledge.Clause) {
	dest := world.Ref(c.Args[0])
	ledger := t.Ledger(c.Actor)
	if c.Truth {
		// A move has exactly one outcome: the actor is at the
		// destination. Exclusivity retracts the previous location
		// for everyone querying per-value truth, but the ledger
		// itself holds the single deterministic result.
		ledger.Set(PropIsIn, dest, true, nil)
		return
	}
	ledger.Add(PropIsIn, dest, false, nil)
}

// Grab picks up an object: args[0] is the object. The object's
// location becomes the carrier, resolved to a concrete place by the
// carrier indirection in value-history queries.
type Grab struct{}

func (Grab) Tag() string { return "grab" }

func (Grab) Apply(t *knowledge.Table, c *knowledge.Clause) {
	obj := c.Args[0]
	actorLedger := t.Ledger(c.Actor)
	if !c.Truth {
		actorLedger.Add(PropHas, world.Ref(obj), false, nil)
		return
	}
	actorLedger.Add(PropHas, world.Ref(obj), true, nil)
	t.Ledger(obj).Set(PropIsIn, world.Ref(c.Actor), true, nil)
}

// Drop releases an object: args[0] is the object. The object stays at
// the actor's current location when that location is known; when it is
// unknown the object's location simply stops being the actor.
type Drop struct{}

func (Drop) Tag() string { return "drop" }

func (Drop) Apply(t *knowledge.Table, c *knowledge.Clause) {
	obj := c.Args[0]
	actorLedger := t.Ledger(c.Actor)

	holdSup, held := releaseObject(actorLedger, obj)

	loc, locSup, err := actorLedger.Value(PropIsIn)
	if err != nil || loc == nil {
		// Unknown drop site: retract the carrier relation only.
		t.Ledger(obj).Set(PropIsIn, world.Ref(c.Actor), false, nil)
		return
	}
	sup := locSup
	if held {
		sup = locSup.Union(holdSup)
	}
	t.Ledger(obj).Set(PropIsIn, loc, true, sup)
}

// Give transfers an object between actors: args[0] is the object,
// args[1] the recipient.
type Give struct{}

func (Give) Tag() string { return "give" }

func (Give) Apply(t *knowledge.Table, c *knowledge.Clause) {
	obj, recipient := c.Args[0], c.Args[1]
	releaseObject(t.Ledger(c.Actor), obj)
	t.Ledger(recipient).Add(PropHas, world.Ref(obj), true, nil)
	t.Ledger(obj).Set(PropIsIn, world.Ref(recipient), true, nil)
}

// releaseObject ends the actor's possession of obj: the true holding
// fact is removed so possession queries and the carry rule stop seeing
// it, and a false fact records that the possession ended. Returns the
// removed fact's support for derived-fact justification.
func releaseObject(l *knowledge.Ledger, obj *world.Entity) (knowledge.Support, bool) {
	ref := world.Ref(obj)
	holdSup, held := l.SupportForValue(PropHas, ref)

	kept := make([]*knowledge.Fact, 0, len(l.Facts(PropHas)))
	for _, f := range l.Facts(PropHas) {
		if world.Equal(f.Value, ref) {
			continue
		}
		kept = append(kept, f)
	}
	l.RawSet(PropHas, kept)
	l.Add(PropHas, ref, false, nil)

	return holdSup, held
}
