package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// storyWorld is the shared fixture: a timeline with the carry rule
// registered plus a small entity roster.
type storyWorld struct {
	tl      *knowledge.Timeline
	john    *world.Entity
	mary    *world.Entity
	kitchen *world.Entity
	garden  *world.Entity
	apple   *world.Entity
}

func newStoryWorld(t *testing.T) *storyWorld {
	t.Helper()
	w := &storyWorld{
		tl:      knowledge.New([]knowledge.Property{PropIsIn}),
		john:    world.NewEntity("john", world.KindActor),
		mary:    world.NewEntity("mary", world.KindActor),
		kitchen: world.NewEntity("kitchen", world.KindLocation),
		garden:  world.NewEntity("garden", world.KindLocation),
		apple:   world.NewEntity("apple", world.KindGettable),
	}
	w.tl.Update(knowledge.RuleStep{Rule: CarryRule{}})
	return w
}

func (w *storyWorld) do(truth bool, actor *world.Entity, action knowledge.Action, args ...*world.Entity) {
	w.tl.Update(&knowledge.Clause{Truth: truth, Actor: actor, Action: action, Args: args})
}

func (w *storyWorld) ledger(e *world.Entity) *knowledge.Ledger {
	return w.tl.Current().Ledger(e)
}

func TestMove_SetsLocation(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Move{}, w.kitchen)

	truth, sup := w.ledger(w.john).TruthValue(PropIsIn, world.Ref(w.kitchen))
	assert.Equal(t, knowledge.True, truth)
	assert.NotEmpty(t, sup)
}

func TestMove_ReplacesLocation(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Move{}, w.kitchen)
	w.do(true, w.john, Move{}, w.garden)

	l := w.ledger(w.john)
	truth, _ := l.TruthValue(PropIsIn, world.Ref(w.garden))
	assert.Equal(t, knowledge.True, truth)
	truth, _ = l.TruthValue(PropIsIn, world.Ref(w.kitchen))
	assert.Equal(t, knowledge.False, truth, "exclusivity implies the old location is false")
}

func TestMove_Negated(t *testing.T) {
	w := newStoryWorld(t)
	w.do(false, w.john, Move{}, w.kitchen)

	l := w.ledger(w.john)
	truth, _ := l.TruthValue(PropIsIn, world.Ref(w.kitchen))
	assert.Equal(t, knowledge.False, truth)

	// Knowing where john is not says nothing about where john is.
	v, _, err := l.Value(PropIsIn)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGrab_RecordsPossessionAndCarrier(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Grab{}, w.apple)

	ok, _ := w.ledger(w.john).IsTrue(PropHas, world.Ref(w.apple))
	assert.True(t, ok)

	// The object's location is its carrier.
	v, _, err := w.ledger(w.apple).Value(PropIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(w.john)))
}

func TestGrab_Negated(t *testing.T) {
	w := newStoryWorld(t)
	w.do(false, w.john, Grab{}, w.apple)

	ok, _ := w.ledger(w.john).IsFalse(PropHas, world.Ref(w.apple))
	assert.True(t, ok)
	_, found := w.ledger(w.apple).SupportForValue(PropIsIn, world.Ref(w.john))
	assert.False(t, found, "a failed grab leaves the object untouched")
}

func TestDrop_AtKnownLocation(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Move{}, w.kitchen)
	w.do(true, w.john, Grab{}, w.apple)
	w.do(true, w.john, Drop{}, w.apple)

	ok, _ := w.ledger(w.john).IsFalse(PropHas, world.Ref(w.apple))
	assert.True(t, ok)

	// The apple stays in the kitchen.
	v, sup, err := w.ledger(w.apple).Value(PropIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(w.kitchen)))
	// Justified by both the location and the holding facts.
	assert.GreaterOrEqual(t, len(sup), 2)
}

func TestDrop_UnknownLocation(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Grab{}, w.apple)
	w.do(true, w.john, Drop{}, w.apple)

	// Only the carrier relation is retracted.
	appleLedger := w.ledger(w.apple)
	ok, _ := appleLedger.IsFalse(PropIsIn, world.Ref(w.john))
	assert.True(t, ok)
	v, _, err := appleLedger.Value(PropIsIn)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGive_TransfersPossession(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Grab{}, w.apple)
	w.do(true, w.john, Give{}, w.apple, w.mary)

	ok, _ := w.ledger(w.john).IsFalse(PropHas, world.Ref(w.apple))
	assert.True(t, ok)
	ok, _ = w.ledger(w.mary).IsTrue(PropHas, world.Ref(w.apple))
	assert.True(t, ok)

	v, _, err := w.ledger(w.apple).Value(PropIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(w.mary)))
}

func TestCarryRule_MovesHeldObjects(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Grab{}, w.apple)
	w.do(true, w.john, Move{}, w.garden)

	// The carried apple follows the actor.
	v, sup, err := w.ledger(w.apple).Value(PropIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(w.garden)))
	// Both the move and the holding justify the derived fact.
	assert.GreaterOrEqual(t, len(sup), 2)
}

func TestCarryRule_IgnoresDroppedObjects(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Move{}, w.kitchen)
	w.do(true, w.john, Grab{}, w.apple)
	w.do(true, w.john, Drop{}, w.apple)
	w.do(true, w.john, Move{}, w.garden)

	// The dropped apple stays behind in the kitchen.
	v, _, err := w.ledger(w.apple).Value(PropIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(w.kitchen)))
}

func TestCarryRule_NotApplicableEmptyHands(t *testing.T) {
	r := CarryRule{}
	tl := knowledge.New([]knowledge.Property{PropIsIn})
	john := world.NewEntity("john", world.KindActor)
	kitchen := world.NewEntity("kitchen", world.KindLocation)

	c := &knowledge.Clause{Truth: true, Actor: john, Action: Move{}, Args: []*world.Entity{kitchen}}
	assert.False(t, r.Applicable(c, tl.Current(), nil))
}

func TestCarryRule_NotApplicableNegatedMove(t *testing.T) {
	w := newStoryWorld(t)
	w.do(true, w.john, Grab{}, w.apple)

	c := &knowledge.Clause{Truth: false, Actor: w.john, Action: Move{}, Args: []*world.Entity{w.kitchen}}
	assert.False(t, CarryRule{}.Applicable(c, w.tl.Current(), nil))
}

func TestRegistry_Default(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"move", "grab", "drop", "give"}, r.Tags())

	a, ok := r.Get("move")
	require.True(t, ok)
	assert.Equal(t, "move", a.Tag())

	_, ok = r.Get("teleport")
	assert.False(t, ok)
}

func TestRegistry_DuplicateKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register(Move{})
	r.Register(Grab{})
	r.Register(Move{})
	assert.Equal(t, []string{"move", "grab"}, r.Tags())
}

func TestRules_Carry(t *testing.T) {
	rules := Rules()
	_, ok := rules["carry"]
	assert.True(t, ok)
}
