package knowledge

import (
	"io"
	"log/slog"
)

// Timeline is the temporal knowledge store: an append-only sequence of
// snapshots, one per processed step, plus the rule registry and the
// full step history.
//
// The timeline is single-writer and synchronous. One Update call is
// the transaction boundary: the event is applied and every applicable
// rule fires before the next step is accepted. Given the same step
// sequence a fresh timeline produces snapshot-for-snapshot identical
// ledgers - the core is a pure function of its input events.
//
// INVARIANTS:
//   - rule slice order never changes after registration
//   - snapshot t is never mutated once snapshot t+1 exists
//   - each snapshot is an independent deep copy of its predecessor
type Timeline struct {
	snapshots []*Table // snapshots[0] is the empty t=0 base
	exclusive map[Property]bool
	rules     []Rule
	history   []Step
	logger    *slog.Logger
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(t *Timeline) {
		t.logger = l
	}
}

// New creates a timeline with the given exclusive properties. For an
// exclusive property an entity holds at most one true fact at a time;
// asserting a new true value silently retracts the previous one.
func New(exclusive []Property, opts ...Option) *Timeline {
	ex := make(map[Property]bool, len(exclusive))
	for _, p := range exclusive {
		ex[p] = true
	}
	tl := &Timeline{
		exclusive: ex,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	tl.snapshots = append(tl.snapshots, newTable(ex))
	for _, opt := range opts {
		opt(tl)
	}
	return tl
}

// Len returns T, the index of the newest snapshot. Zero before any
// step is processed.
func (tl *Timeline) Len() int {
	return len(tl.snapshots) - 1
}

// Current returns snapshot T. Before any update this is the empty
// base table.
func (tl *Timeline) Current() *Table {
	return tl.snapshots[len(tl.snapshots)-1]
}

// Snapshot returns the table after step t, for t in 0..Len().
func (tl *Timeline) Snapshot(t int) *Table {
	return tl.snapshots[t]
}

// History returns the processed steps in order.
func (tl *Timeline) History() []Step {
	out := make([]Step, len(tl.history))
	copy(out, tl.history)
	return out
}

// Rules returns the registered rules in registration order.
func (tl *Timeline) Rules() []Rule {
	out := make([]Rule, len(tl.rules))
	copy(out, tl.rules)
	return out
}

// Exclusive reports whether a property was declared exclusive.
func (tl *Timeline) Exclusive(p Property) bool {
	return tl.exclusive[p]
}

// Update processes one step to completion:
//
//  1. Story time advances and the step joins the history.
//  2. The new snapshot is born as a deep copy of its predecessor.
//  3. A rule registration joins the rule list; no ledger mutation.
//  4. An event clause dispatches to its action's knowledge update.
//  5. Every registered rule is tested in registration order; each
//     applicable rule performs its world side effect and then records
//     its derived facts on the same snapshot.
//
// Running the rules after the primary update, rather than interleaved,
// keeps ordering deterministic and avoids re-entrant rule chains
// within one event.
func (tl *Timeline) Update(step Step) {
	next := tl.Current().Clone()
	tl.snapshots = append(tl.snapshots, next)
	tl.history = append(tl.history, step)
	t := int64(tl.Len())

	switch s := step.(type) {
	case RuleStep:
		tl.rules = append(tl.rules, s.Rule)
		tl.logger.Debug("rule registered", "t", t, "rules", len(tl.rules))
		return

	case *Clause:
		s.Seq = t
		s.Action.Apply(next, s)
		tl.logger.Debug("clause applied", "t", t, "clause", s.String())

		for i, r := range tl.rules {
			if !r.Applicable(s, next, tl.history) {
				continue
			}
			r.Perform()
			r.Apply(next, s)
			tl.logger.Debug("rule fired", "t", t, "rule", i, "clause", s.String())
		}
	}
}
