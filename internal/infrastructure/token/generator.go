package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenRandomBytes gives 256 bits of entropy, 64 hex characters.
const tokenRandomBytes = 32

type Generator interface {
	Generate() (string, error)
	Hash(plain string) string
}

type randomGenerator struct{}

func NewGenerator() Generator {
	return randomGenerator{}
}

func (randomGenerator) Generate() (string, error) {
	b := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns the hex sha256 of plain. Shared stores index tokens by hash so
// a leaked keyspace does not leak credentials.
func (randomGenerator) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
