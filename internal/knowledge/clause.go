package knowledge

import (
	"strings"

	"fabula/internal/world"
)

// Property names the slot a fact is recorded under ("is_in", "has", ...).
type Property string

// Action is the knowledge-update contract an event clause carries.
// The world layer validates feasibility before the clause reaches the
// timeline; Apply only records what the event made true or false.
type Action interface {
	// Tag is the stable wire name used by the event log and loaders.
	Tag() string

	// Apply mutates the current snapshot with the clause's outcome.
	Apply(t *Table, c *Clause)
}

// Rule is a standing deduction registered on the timeline. After each
// event clause is applied, every registered rule is tested in
// registration order and fires at most once for that clause.
type Rule interface {
	// Applicable reports whether the rule fires for this clause.
	// The history holds every step processed so far, for look-back.
	Applicable(c *Clause, t *Table, history []Step) bool

	// Perform runs the rule's world side effect, if any.
	Perform()

	// Apply records the rule's derived facts on the current snapshot.
	Apply(t *Table, c *Clause)
}

// Step is the sealed variant a timeline consumes: an event clause or a
// rule registration. Only Clause and RuleStep implement it.
type Step interface {
	step()
}

// Clause is one world action-outcome fact: actor performed action on
// args, with the given polarity. Seq is stamped by the timeline when
// the clause is applied and equals the snapshot index it produced.
type Clause struct {
	Truth  bool
	Actor  *world.Entity
	Action Action
	Args   []*world.Entity
	Seq    int64
}

func (*Clause) step() {}

// String renders the clause for traces and logs, e.g. "john move kitchen".
func (c *Clause) String() string {
	parts := make([]string, 0, len(c.Args)+3)
	if !c.Truth {
		parts = append(parts, "not")
	}
	if c.Actor != nil {
		parts = append(parts, c.Actor.Name)
	}
	if c.Action != nil {
		parts = append(parts, c.Action.Tag())
	}
	for _, a := range c.Args {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " ")
}

// RuleStep registers a rule on the timeline. Registration advances
// story time like any other step but performs no ledger mutation.
type RuleStep struct {
	Rule Rule
}

func (RuleStep) step() {}
