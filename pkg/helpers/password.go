package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/tasky/pkg/apperr"
)

// ErrMalformedHash is returned by VerifyPassword when the stored hash is not
// in bcrypt's encoded form.
var ErrMalformedHash = errors.New("malformed password hash")

// maxPasswordLen is bcrypt's input bound; longer plaintexts would be silently
// truncated by older bcrypt implementations, so we reject them outright.
const maxPasswordLen = 72

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher. Costs outside bcrypt's supported range fall back
// to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash computes a salted one-way hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", apperr.E(apperr.Validation, "password is required")
	}
	if len(plain) > maxPasswordLen {
		return "", apperr.E(apperr.Validation, "password cannot exceed 72 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A plain mismatch is (false, nil);
// a hash that is not bcrypt-encoded is (false, ErrMalformedHash).
func (h *Hasher) Verify(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrMalformedHash
}
