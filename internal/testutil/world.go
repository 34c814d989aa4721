package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fabula/internal/actions"
	"fabula/internal/compiler"
)

// HouseWorldCUE is a small shared fixture: two actors, two rooms and
// a portable object, with the standard exclusive relations.
const HouseWorldCUE = `
world: {
	exclusive: ["is_in"]
	rule: ["carry"]
	entity: {
		john: {kinds: ["actor"]}
		mary: {kinds: ["actor"]}
		kitchen: {kinds: ["location"]}
		garden: {kinds: ["location"]}
		apple: {kinds: ["gettable"]}
	}
}
`

// BuildHouseWorld compiles and builds the shared fixture world.
func BuildHouseWorld(t *testing.T) *actions.World {
	t.Helper()
	spec, err := compiler.LoadWorldString(HouseWorldCUE)
	require.NoError(t, err)
	w, err := actions.BuildWorld(spec)
	require.NoError(t, err)
	return w
}
