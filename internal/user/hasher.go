package user

import (
	"os"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
	// VerifyDummy performs a comparison of the same cost as Verify against a
	// fixed hash. It always reports false.
	VerifyDummy(pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct {
	Cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewBcryptHasher returns a hasher for the given cost; 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

// CostFromEnv reads BCRYPT_COST, falling back to 12.
func CostFromEnv() int {
	if v, err := strconv.Atoi(os.Getenv("BCRYPT_COST")); err == nil && v >= bcrypt.MinCost && v <= bcrypt.MaxCost {
		return v
	}
	return 12
}

func (b *BcryptHasher) cost() int {
	if b.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return b.Cost
}

func (b *BcryptHasher) Hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), b.cost())
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (b *BcryptHasher) VerifyDummy(pw string) bool {
	b.dummyOnce.Do(func() {
		// the dummy must share the configured cost or the timings diverge
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), b.cost())
		if err == nil {
			b.dummy = h
		}
	})
	_ = bcrypt.CompareHashAndPassword(b.dummy, []byte(pw))
	return false
}
