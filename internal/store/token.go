package store

import "github.com/google/uuid"

// TokenGenerator produces unique story tokens. Implemented by
// UUIDv7Generator (production) and testutil.FixedTokenGenerator.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered story tokens.
// UUIDv7 keeps the stories table roughly insertion-ordered.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
