package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalHash_Stable(t *testing.T) {
	doc := map[string]any{"b": 2, "a": 1}
	first, err := CanonicalHash(DomainGraph, doc)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	again, err := CanonicalHash(DomainGraph, doc)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestCanonicalHash_DomainSeparation(t *testing.T) {
	doc := map[string]any{"a": 1}
	worldHash, err := CanonicalHash(DomainWorld, doc)
	require.NoError(t, err)
	graphHash, err := CanonicalHash(DomainGraph, doc)
	require.NoError(t, err)
	assert.NotEqual(t, worldHash, graphHash)
}

func TestCanonicalHash_ContentSensitive(t *testing.T) {
	a, err := CanonicalHash(DomainGraph, map[string]any{"k": "v1"})
	require.NoError(t, err)
	b, err := CanonicalHash(DomainGraph, map[string]any{"k": "v2"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCanonicalHash_PropagatesError(t *testing.T) {
	_, err := CanonicalHash(DomainGraph, 3.14)
	assert.Error(t, err)
}

func TestMustCanonicalHash_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCanonicalHash(DomainGraph, 3.14)
	})
	assert.NotPanics(t, func() {
		MustCanonicalHash(DomainGraph, map[string]any{"ok": true})
	})
}
