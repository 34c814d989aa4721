package actions

import (
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// CarryRule materializes the location of carried objects: when an
// actor moves, every object the actor holds receives a location fact
// for the destination. The derived fact's support is the union of the
// movement fact's support and the holding fact's support, so the
// justification chain names both antecedent events.
type CarryRule struct{}

func (CarryRule) Applicable(c *knowledge.Clause, t *knowledge.Table, _ []knowledge.Step) bool {
	if !c.Truth || c.Action.Tag() != (Move{}).Tag() {
		return false
	}
	ledger, ok := t.Peek(c.Actor)
	if !ok {
		return false
	}
	held, _ := ledger.Values(PropHas)
	return len(held) > 0
}

// Perform has no world side effect: carried objects already moved in
// the simulation; only the knowledge state needs catching up.
func (CarryRule) Perform() {}

func (CarryRule) Apply(t *knowledge.Table, c *knowledge.Clause) {
	dest := world.Ref(c.Args[0])
	actorLedger := t.Ledger(c.Actor)
	_, moveSup := actorLedger.IsTrue(PropIsIn, dest)

	held, holdSups := actorLedger.Values(PropHas)
	for i, h := range held {
		ev, ok := h.(world.EntityValue)
		if !ok {
			continue
		}
		t.Ledger(ev.Entity).Set(PropIsIn, dest, true, moveSup.Union(holdSups[i]))
	}
}

// Rules maps rule names accepted in world definitions to instances.
func Rules() map[string]knowledge.Rule {
	return map[string]knowledge.Rule{
		"carry": CarryRule{},
	}
}
