package testutil

import "fmt"

// FixedTokenGenerator produces deterministic story tokens so test
// runs and golden comparisons are byte-identical. Tokens are emitted
// in sequence: story-0001, story-0002, ...
//
// Implements store.TokenGenerator.
type FixedTokenGenerator struct {
	prefix string
	n      int
}

// NewFixedTokenGenerator creates a generator with the given prefix.
// An empty prefix defaults to "story".
func NewFixedTokenGenerator(prefix string) *FixedTokenGenerator {
	if prefix == "" {
		prefix = "story"
	}
	return &FixedTokenGenerator{prefix: prefix}
}

// Generate returns the next token in sequence.
func (g *FixedTokenGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
