package crypto

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Throttled bounds how many hashes run at once. Each argon2 call allocates
// its full memory cost.
type Throttled struct {
	next PasswordHandler
	sem  *semaphore.Weighted
}

var _ PasswordHandler = (*Throttled)(nil)

// NewThrottled wraps next. A non-positive limit defaults to GOMAXPROCS.
func NewThrottled(next PasswordHandler, limit int64) *Throttled {
	if limit <= 0 {
		limit = int64(runtime.GOMAXPROCS(0))
	}
	return &Throttled{next: next, sem: semaphore.NewWeighted(limit)}
}

func (t *Throttled) Hash(password string) (string, error) {
	if err := t.sem.Acquire(context.Background(), 1); err != nil {
		return "", err
	}
	defer t.sem.Release(1)
	return t.next.Hash(password)
}

func (t *Throttled) Verify(password, hash string) (bool, error) {
	if err := t.sem.Acquire(context.Background(), 1); err != nil {
		return false, err
	}
	defer t.sem.Release(1)
	return t.next.Verify(password, hash)
}
