package knowledge

import "fabula/internal/world"

// Truth is the three-valued answer of a knowledge query.
type Truth int

const (
	Unknown Truth = iota
	True
	False
)

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Ledger holds the facts recorded about one entity in one snapshot:
// an ordered fact collection per property. Newer facts are appended;
// exclusivity resolution removes conflicting facts rather than
// reordering survivors.
//
// Ledgers are created only by Table's get-or-insert accessor. The
// exclusive set is shared with the owning timeline and never mutated
// after construction.
type Ledger struct {
	owner     string
	exclusive map[Property]bool
	facts     map[Property][]*Fact
	order     []Property
}

func newLedger(owner string, exclusive map[Property]bool) *Ledger {
	return &Ledger{
		owner:     owner,
		exclusive: exclusive,
		facts:     make(map[Property][]*Fact),
	}
}

// Owner returns the name of the entity this ledger describes.
func (l *Ledger) Owner() string {
	return l.owner
}

// Properties returns the recorded property names in first-write order.
func (l *Ledger) Properties() []Property {
	out := make([]Property, len(l.order))
	copy(out, l.order)
	return out
}

// Facts returns the fact collection for a property, oldest first.
// An unrecorded property yields an empty slice, never an error.
func (l *Ledger) Facts(p Property) []*Fact {
	fs := l.facts[p]
	out := make([]*Fact, len(fs))
	copy(out, fs)
	return out
}

func (l *Ledger) put(p Property, fs []*Fact) {
	if _, ok := l.facts[p]; !ok {
		l.order = append(l.order, p)
	}
	l.facts[p] = fs
}

// Add appends a new fact. For an exclusive property, asserting a true
// fact first retracts any true fact with a different value (mutual
// exclusion) and drops any existing fact with the identical value, so
// the property never holds duplicate or self-contradictory entries.
func (l *Ledger) Add(p Property, v world.Value, truth bool, sup Support) *Fact {
	f := NewFact(v, truth, sup)
	kept := l.facts[p]
	if l.exclusive[p] && truth {
		kept = kept[:0:0]
		for _, old := range l.facts[p] {
			if world.Equal(old.Value, v) {
				continue
			}
			if old.Truth {
				continue
			}
			kept = append(kept, old)
		}
	}
	l.put(p, append(kept, f))
	return f
}

// Set replaces the whole fact collection for a property with a single
// fact. Used when a property is known to have exactly one outcome.
func (l *Ledger) Set(p Property, v world.Value, truth bool, sup Support) *Fact {
	f := NewFact(v, truth, sup)
	l.put(p, []*Fact{f})
	return f
}

// Merge appends a batch of facts, augmenting each one's support with
// sup, then collapses the combined collection: if any true fact exists
// afterward, only the first true fact is retained. First true wins -
// later true facts supplied in the same call are dropped.
func (l *Ledger) Merge(p Property, facts []*Fact, sup Support) {
	combined := l.facts[p]
	for _, f := range facts {
		nf := f.clone()
		nf.Support = nf.Support.Union(sup)
		combined = append(combined, nf)
	}
	for _, f := range combined {
		if f.Truth {
			combined = []*Fact{f}
			break
		}
	}
	l.put(p, combined)
}

// RawSet replaces the fact collection for a property without any
// truth-conflict resolution. Used for direct knowledge transfer
// between entities. The incoming facts are copied.
func (l *Ledger) RawSet(p Property, facts []*Fact) {
	fs := make([]*Fact, len(facts))
	for i, f := range facts {
		fs[i] = f.clone()
	}
	l.put(p, fs)
}

// RawAdd appends facts without truth-conflict resolution.
func (l *Ledger) RawAdd(p Property, facts ...*Fact) {
	fs := l.facts[p]
	for _, f := range facts {
		fs = append(fs, f.clone())
	}
	l.put(p, fs)
}

// IsTrue reports whether a true fact for (p, v) is recorded, with the
// supporting facts that justify it.
func (l *Ledger) IsTrue(p Property, v world.Value) (bool, Support) {
	for _, f := range l.facts[p] {
		if f.Truth && world.Equal(f.Value, v) {
			return true, f.Support
		}
	}
	return false, nil
}

// IsFalse reports whether (p, v) is known false: either a false fact
// for that value is recorded, or the property is exclusive and some
// other value is currently true (mutual exclusion implies falsity).
func (l *Ledger) IsFalse(p Property, v world.Value) (bool, Support) {
	for _, f := range l.facts[p] {
		if !f.Truth && world.Equal(f.Value, v) {
			return true, f.Support
		}
	}
	if l.exclusive[p] {
		for _, f := range l.facts[p] {
			if f.Truth && !world.Equal(f.Value, v) {
				return true, f.Support
			}
		}
	}
	return false, nil
}

// TruthValue resolves (p, v) to true, false, or unknown. The returned
// support is the union of the evidence from both the true and the
// false lookup; positive evidence decides when both exist.
func (l *Ledger) TruthValue(p Property, v world.Value) (Truth, Support) {
	isTrue, trueSup := l.IsTrue(p, v)
	isFalse, falseSup := l.IsFalse(p, v)
	sup := trueSup.Union(falseSup)
	switch {
	case isTrue:
		return True, sup
	case isFalse:
		return False, sup
	default:
		return Unknown, nil
	}
}

// Value returns the single true value for a property. A property with
// no true fact yields (nil, nil, nil) - no knowledge, not an error.
// More than one true fact is an AmbiguousValueError: exclusivity
// should have prevented it, or the caller wants Values instead.
func (l *Ledger) Value(p Property) (world.Value, Support, error) {
	var (
		found *Fact
		extra []string
	)
	for _, f := range l.facts[p] {
		if !f.Truth {
			continue
		}
		if found == nil {
			found = f
			continue
		}
		if len(extra) == 0 {
			extra = append(extra, world.Label(found.Value))
		}
		extra = append(extra, world.Label(f.Value))
	}
	if len(extra) > 0 {
		return nil, nil, &AmbiguousValueError{
			Entity:   l.owner,
			Property: p,
			Values:   extra,
		}
	}
	if found == nil {
		return nil, nil, nil
	}
	return found.Value, found.Support, nil
}

// Values returns every true value for a property with its support,
// in recording order.
func (l *Ledger) Values(p Property) ([]world.Value, []Support) {
	var vals []world.Value
	var sups []Support
	for _, f := range l.facts[p] {
		if f.Truth {
			vals = append(vals, f.Value)
			sups = append(sups, f.Support)
		}
	}
	return vals, sups
}

// SupportFor returns the support of the unique fact recorded for a
// property, regardless of polarity. More than one fact (of any truth)
// is an AmbiguousValueError; no fact yields an empty support.
func (l *Ledger) SupportFor(p Property) (Support, error) {
	fs := l.facts[p]
	if len(fs) > 1 {
		vals := make([]string, len(fs))
		for i, f := range fs {
			vals[i] = world.Label(f.Value)
		}
		return nil, &AmbiguousValueError{Entity: l.owner, Property: p, Values: vals}
	}
	if len(fs) == 0 {
		return nil, nil
	}
	return fs[0].Support, nil
}

// SupportForValue returns the support of the first fact recorded for
// (p, v), and whether such a fact exists.
func (l *Ledger) SupportForValue(p Property, v world.Value) (Support, bool) {
	for _, f := range l.facts[p] {
		if world.Equal(f.Value, v) {
			return f.Support, true
		}
	}
	return nil, false
}

// clone deep-copies the ledger for the next snapshot.
func (l *Ledger) clone() *Ledger {
	c := &Ledger{
		owner:     l.owner,
		exclusive: l.exclusive,
		facts:     make(map[Property][]*Fact, len(l.facts)),
		order:     make([]Property, len(l.order)),
	}
	copy(c.order, l.order)
	for p, fs := range l.facts {
		nfs := make([]*Fact, len(fs))
		for i, f := range fs {
			nfs[i] = f.clone()
		}
		c.facts[p] = nfs
	}
	return c
}
