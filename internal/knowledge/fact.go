package knowledge

import "fabula/internal/world"

// Support is the set of antecedent facts justifying a fact's truth.
// It is kept as an ordered slice (first-seen order) so traces and
// exports remain deterministic; Union deduplicates by fact identity.
//
// Supports reference facts from the snapshots in which they were
// recorded. Snapshot copies never rewrite them: a justification chain
// always points back into history.
type Support []*Fact

// Union merges supports, preserving first-seen order and dropping
// duplicates. The receiver is not modified.
func (s Support) Union(others ...Support) Support {
	seen := make(map[*Fact]bool, len(s))
	out := make(Support, 0, len(s))
	for _, f := range s {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, other := range others {
		for _, f := range other {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Contains reports whether the support includes every fact of sub.
func (s Support) Contains(sub Support) bool {
	seen := make(map[*Fact]bool, len(s))
	for _, f := range s {
		seen[f] = true
	}
	for _, f := range sub {
		if !seen[f] {
			return false
		}
	}
	return true
}

// Fact records one (value, truth, support) triple under a property.
type Fact struct {
	Value   world.Value
	Truth   bool
	Support Support
}

// NewFact creates a fact. A nil support makes the fact self-supporting:
// its support is the singleton containing the fact itself. That is the
// "event-identifying" support of a directly asserted fact, and the
// anchor every derived justification chain bottoms out at. Pass
// Support{} for a genuinely empty support.
func NewFact(v world.Value, truth bool, sup Support) *Fact {
	f := &Fact{Value: v, Truth: truth, Support: sup}
	if sup == nil {
		f.Support = Support{f}
	}
	return f
}

// clone copies the fact for a new snapshot. The support slice is
// copied but its entries still reference the facts of the snapshots
// where they were first asserted, so justification chains keep a
// stable identity across the whole timeline.
func (f *Fact) clone() *Fact {
	sup := make(Support, len(f.Support))
	copy(sup, f.Support)
	return &Fact{Value: f.Value, Truth: f.Truth, Support: sup}
}
