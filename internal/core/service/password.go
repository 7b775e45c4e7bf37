package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/fab1/auth-service/internal/core/domain"
)

const defaultHashConcurrency = 8

// BcryptHasher hashes and verifies passwords with bcrypt. Hashing is
// CPU-bound and non-trivial at realistic costs, so concurrent work is
// bounded by a weighted semaphore; callers block (context-aware) when all
// slots are busy instead of starving the scheduler.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcryptHasher builds a hasher with the given bcrypt cost and concurrency
// bound. Out-of-range values fall back to bcrypt.DefaultCost and
// defaultHashConcurrency.
func NewBcryptHasher(cost int, concurrency int64) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = defaultHashConcurrency
	}
	return &BcryptHasher{cost: cost, slots: semaphore.NewWeighted(concurrency)}
}

// Hash produces a salted, one-way hash of the plaintext. Output differs
// between calls for the same input.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plaintext against a stored hash in constant time. A
// malformed stored hash is a data-integrity problem but is reported as
// domain.ErrInvalidCredentials so callers cannot tell it apart from a wrong
// password.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) error {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.slots.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
