package helpers

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// SecretMatcher encodes credentials for storage and checks submitted ones.
type SecretMatcher interface {
	Encode(plain string) (string, error)
	Match(stored, plain string) bool
}

// PlainMatcher stores the secret as submitted.
type PlainMatcher struct{}

func (PlainMatcher) Encode(plain string) (string, error) { return plain, nil }

func (PlainMatcher) Match(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// BcryptMatcher stores bcrypt hashes.
type BcryptMatcher struct {
	Cost int
}

func (m BcryptMatcher) Encode(plain string) (string, error) {
	return HashPassword(plain, m.Cost)
}

func (BcryptMatcher) Match(stored, plain string) bool {
	return CompareHashAndPassword(stored, plain)
}

// NewSecretMatcher picks the matcher for the configured hashing mode
func NewSecretMatcher(hashing bool) SecretMatcher {
	if hashing {
		return BcryptMatcher{Cost: bcrypt.DefaultCost}
	}
	return PlainMatcher{}
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
