package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_RejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	assert.Error(t, err)

	_, err = MarshalCanonical(float32(1))
	assert.Error(t, err)

	_, err = MarshalCanonical(nil)
	assert.Error(t, err)
}

func TestMarshalCanonical_RejectsUnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestMarshalCanonical_ObjectKeyOrder(t *testing.T) {
	obj := map[string]any{
		"zebra":  "z",
		"apple":  "a",
		"banana": "b",
	}
	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":"a","banana":"b","zebra":"z"}`, string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// UTF-16 code unit order: uppercase ASCII sorts before lowercase.
	obj := map[string]any{
		"a":  1,
		"A":  2,
		"AA": 3,
		"aA": 4,
	}
	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"A":2,"AA":3,"a":1,"aA":4}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("<a> & <b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & <b>"`, string(got))
}

func TestMarshalCanonical_NestedDeterministic(t *testing.T) {
	doc := map[string]any{
		"edges": []any{
			map[string]any{"type": "actor_is_in_location", "from": "john", "to": "kitchen"},
		},
		"nodes": []any{"john", "kitchen"},
	}
	first, err := MarshalCanonical(doc)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(doc)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestMarshalCanonical_EmptyContainers(t *testing.T) {
	got, err := MarshalCanonical([]any{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	got, err = MarshalCanonical(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestCompareKeysRFC8785_SurrogateOrder(t *testing.T) {
	// U+FF61 (halfwidth ideographic full stop) is a single code unit
	// 0xFF61; U+1D306 encodes as the surrogate pair 0xD834 0xDF06 and
	// must sort before it under UTF-16 order, unlike UTF-8 byte order.
	assert.Equal(t, -1, compareKeysRFC8785("\U0001D306", "｡"))
	assert.Equal(t, 1, compareKeysRFC8785("｡", "\U0001D306"))
	assert.Equal(t, 0, compareKeysRFC8785("abc", "abc"))
}
