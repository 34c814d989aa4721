package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula/internal/world"
)

const propIsIn = Property("is_in")

func testLedger(t *testing.T, exclusive ...Property) *Ledger {
	t.Helper()
	excl := make(map[Property]bool, len(exclusive))
	for _, p := range exclusive {
		excl[p] = true
	}
	return newLedger("john", excl)
}

func TestLedger_ExclusiveRetraction(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)

	l.Add(propIsIn, world.Ref(kitchen), true, nil)
	l.Add(propIsIn, world.Ref(garden), true, nil)

	// Moving to the garden retracts the kitchen fact entirely.
	fs := l.Facts(propIsIn)
	require.Len(t, fs, 1)
	assert.True(t, world.Equal(fs[0].Value, world.Ref(garden)))
	assert.True(t, fs[0].Truth)

	ok, _ := l.IsTrue(propIsIn, world.Ref(kitchen))
	assert.False(t, ok)
}

func TestLedger_ExclusiveImpliedFalse(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)

	l.Add(propIsIn, world.Ref(garden), true, nil)

	// Exclusivity: a different true value makes this one false.
	ok, sup := l.IsFalse(propIsIn, world.Ref(kitchen))
	assert.True(t, ok)
	assert.NotEmpty(t, sup, "implied falsity carries the true fact's support")

	truth, _ := l.TruthValue(propIsIn, world.Ref(kitchen))
	assert.Equal(t, False, truth)
}

func TestLedger_ExclusiveKeepsDifferingFalse(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)

	l.Add(propIsIn, world.Ref(kitchen), false, nil)
	l.Add(propIsIn, world.Ref(garden), true, nil)

	// The explicit negative fact about another value survives.
	fs := l.Facts(propIsIn)
	require.Len(t, fs, 2)
	ok, _ := l.IsFalse(propIsIn, world.Ref(kitchen))
	assert.True(t, ok)
	ok, _ = l.IsTrue(propIsIn, world.Ref(garden))
	assert.True(t, ok)
}

func TestLedger_ExclusiveDropsIdenticalValue(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)

	l.Add(propIsIn, world.Ref(kitchen), false, nil)
	l.Add(propIsIn, world.Ref(kitchen), true, nil)

	// Re-asserting the same value replaces the stale negative fact.
	fs := l.Facts(propIsIn)
	require.Len(t, fs, 1)
	assert.True(t, fs[0].Truth)
}

func TestLedger_NonExclusiveAccumulates(t *testing.T) {
	l := testLedger(t)
	apple := world.NewEntity("apple", world.KindGettable)
	milk := world.NewEntity("milk", world.KindGettable)

	l.Add("has", world.Ref(apple), true, nil)
	l.Add("has", world.Ref(milk), true, nil)

	vals, sups := l.Values("has")
	require.Len(t, vals, 2)
	require.Len(t, sups, 2)
	assert.True(t, world.Equal(vals[0], world.Ref(apple)))
	assert.True(t, world.Equal(vals[1], world.Ref(milk)))
}

func TestLedger_Set(t *testing.T) {
	l := testLedger(t)
	l.Add("mood", world.StringValue("bored"), true, nil)
	l.Add("mood", world.StringValue("tired"), false, nil)

	l.Set("mood", world.StringValue("hungry"), true, nil)

	fs := l.Facts("mood")
	require.Len(t, fs, 1)
	assert.True(t, world.Equal(fs[0].Value, world.StringValue("hungry")))
}

func TestLedger_Value(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)

	// No knowledge is not an error.
	v, sup, err := l.Value(propIsIn)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Nil(t, sup)

	l.Add(propIsIn, world.Ref(kitchen), true, nil)
	v, sup, err = l.Value(propIsIn)
	require.NoError(t, err)
	assert.True(t, world.Equal(v, world.Ref(kitchen)))
	assert.NotEmpty(t, sup)
}

func TestLedger_ValueAmbiguous(t *testing.T) {
	l := testLedger(t)
	apple := world.NewEntity("apple", world.KindGettable)
	milk := world.NewEntity("milk", world.KindGettable)

	l.Add("has", world.Ref(apple), true, nil)
	l.Add("has", world.Ref(milk), true, nil)

	_, _, err := l.Value("has")
	require.Error(t, err)
	assert.True(t, IsAmbiguous(err))

	var aerr *AmbiguousValueError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "john", aerr.Entity)
	assert.Equal(t, []string{"apple", "milk"}, aerr.Values)
}

func TestLedger_ValueIgnoresFalseFacts(t *testing.T) {
	l := testLedger(t)
	l.Add("mood", world.StringValue("bored"), false, nil)
	l.Add("mood", world.StringValue("tired"), false, nil)

	v, _, err := l.Value("mood")
	require.NoError(t, err)
	assert.Nil(t, v, "false facts carry no value")
}

func TestLedger_Merge_FirstTrueWins(t *testing.T) {
	l := testLedger(t)
	a := NewFact(world.StringValue("a"), true, nil)
	b := NewFact(world.StringValue("b"), true, nil)
	c := NewFact(world.StringValue("c"), false, nil)

	l.Merge("rumor", []*Fact{c, a, b}, nil)

	fs := l.Facts("rumor")
	require.Len(t, fs, 1)
	assert.True(t, world.Equal(fs[0].Value, world.StringValue("a")))
	assert.True(t, fs[0].Truth)
}

func TestLedger_Merge_AllFalseKept(t *testing.T) {
	l := testLedger(t)
	a := NewFact(world.StringValue("a"), false, nil)
	b := NewFact(world.StringValue("b"), false, nil)

	l.Merge("rumor", []*Fact{a, b}, nil)

	fs := l.Facts("rumor")
	assert.Len(t, fs, 2)
}

func TestLedger_Merge_AugmentsSupport(t *testing.T) {
	l := testLedger(t)
	witness := NewFact(world.StringValue("witness"), true, nil)
	incoming := NewFact(world.StringValue("a"), true, nil)

	l.Merge("rumor", []*Fact{incoming}, Support{witness})

	fs := l.Facts("rumor")
	require.Len(t, fs, 1)
	assert.True(t, fs[0].Support.Contains(Support{witness}))
	assert.True(t, fs[0].Support.Contains(Support{incoming}),
		"merged fact keeps its own original justification")
}

func TestLedger_RawSetNoResolution(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)

	facts := []*Fact{
		NewFact(world.Ref(kitchen), true, nil),
		NewFact(world.Ref(garden), true, nil),
	}
	l.RawSet(propIsIn, facts)

	// Both contradictory facts survive untouched.
	assert.Len(t, l.Facts(propIsIn), 2)
}

func TestLedger_SupportFor(t *testing.T) {
	l := testLedger(t)
	kitchen := world.NewEntity("kitchen", world.KindLocation)

	sup, err := l.SupportFor(propIsIn)
	require.NoError(t, err)
	assert.Nil(t, sup)

	l.Add(propIsIn, world.Ref(kitchen), false, nil)
	sup, err = l.SupportFor(propIsIn)
	require.NoError(t, err)
	assert.Len(t, sup, 1)
}

func TestLedger_SupportForAmbiguousAnyPolarity(t *testing.T) {
	l := testLedger(t)
	l.Add("mood", world.StringValue("bored"), false, nil)
	l.Add("mood", world.StringValue("tired"), false, nil)

	_, err := l.SupportFor("mood")
	assert.True(t, IsAmbiguous(err))
}

func TestLedger_SupportForValue(t *testing.T) {
	l := testLedger(t)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)

	l.Add(propIsIn, world.Ref(kitchen), true, nil)

	sup, ok := l.SupportForValue(propIsIn, world.Ref(kitchen))
	assert.True(t, ok)
	assert.Len(t, sup, 1)

	_, ok = l.SupportForValue(propIsIn, world.Ref(garden))
	assert.False(t, ok)
}

func TestLedger_TruthValuePositivePrecedence(t *testing.T) {
	l := testLedger(t)
	v := world.StringValue("x")

	l.Add("claim", v, false, nil)
	l.Add("claim", v, true, nil)

	truth, sup := l.TruthValue("claim", v)
	assert.Equal(t, True, truth)
	// Evidence from both polarities is unioned.
	assert.Len(t, sup, 2)
}

func TestLedger_TruthValueUnknown(t *testing.T) {
	l := testLedger(t)
	truth, sup := l.TruthValue("claim", world.StringValue("x"))
	assert.Equal(t, Unknown, truth)
	assert.Nil(t, sup)
}

func TestLedger_PropertiesFirstWriteOrder(t *testing.T) {
	l := testLedger(t)
	l.Add("b", world.StringValue("1"), true, nil)
	l.Add("a", world.StringValue("2"), true, nil)
	l.Add("b", world.StringValue("3"), false, nil)

	assert.Equal(t, []Property{"b", "a"}, l.Properties())
}

func TestLedger_CloneIsDeep(t *testing.T) {
	l := testLedger(t, propIsIn)
	kitchen := world.NewEntity("kitchen", world.KindLocation)
	garden := world.NewEntity("garden", world.KindLocation)
	l.Add(propIsIn, world.Ref(kitchen), true, nil)

	c := l.clone()
	c.Add(propIsIn, world.Ref(garden), true, nil)

	ok, _ := l.IsTrue(propIsIn, world.Ref(kitchen))
	assert.True(t, ok, "mutating the clone must not touch the original")
	ok, _ = l.IsTrue(propIsIn, world.Ref(garden))
	assert.False(t, ok)
}

func TestTruth_String(t *testing.T) {
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "false", False.String())
	assert.Equal(t, "unknown", Unknown.String())
}
