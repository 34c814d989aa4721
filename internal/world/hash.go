package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes. The version suffix
// allows future algorithm migration without ambiguity.
const (
	DomainWorld = "fabula/world/v1"
	DomainGraph = "fabula/graph/v1"
)

// CanonicalHash computes SHA-256 over domain + 0x00 + canonical JSON.
// The null separator prevents domain/data boundary ambiguity.
func CanonicalHash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("canonical hash: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustCanonicalHash is like CanonicalHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCanonicalHash(domain string, v any) string {
	s, err := CanonicalHash(domain, v)
	if err != nil {
		panic(err)
	}
	return s
}
