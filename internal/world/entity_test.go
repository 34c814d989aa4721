package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind_Valid(t *testing.T) {
	for _, s := range []string{"actor", "location", "gettable", "animal", "motivation", "record"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("spaceship")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spaceship")
}

func TestNewEntity_DedupsKinds(t *testing.T) {
	e := NewEntity("rex", KindAnimal, KindActor, KindAnimal)
	assert.Equal(t, []Kind{KindAnimal, KindActor}, e.Kinds())
}

func TestEntity_Is(t *testing.T) {
	e := NewEntity("john", KindActor)
	assert.True(t, e.Is(KindActor))
	assert.False(t, e.Is(KindLocation))
}

func TestEntity_ComparedByIdentity(t *testing.T) {
	a := NewEntity("john", KindActor)
	b := NewEntity("john", KindActor)
	// Same name, distinct fact holders.
	assert.False(t, a == b)
	assert.True(t, a == a)
}

func TestEntity_TagString(t *testing.T) {
	e := NewEntity("rex", KindActor, KindAnimal)
	assert.Equal(t, "actor-animal", e.TagString())

	solo := NewEntity("kitchen", KindLocation)
	assert.Equal(t, "location", solo.TagString())
}

func TestEntity_KindsCopies(t *testing.T) {
	e := NewEntity("john", KindActor)
	ks := e.Kinds()
	ks[0] = KindLocation
	assert.Equal(t, []Kind{KindActor}, e.Kinds())
}
