package repository

import (
	"context"
	"time"
)

// OTPStore keeps at most one pending code per email. Entries disappear on
// their own once ttl elapses; Get never returns an expired code.
//
// Delete is a no-op for an absent key. Consume removes the entry only if it
// still holds code and reports whether it did; at most one caller observes
// true for a given stored code.
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (code string, found bool, err error)
	Delete(ctx context.Context, email string) error
	Consume(ctx context.Context, email, code string) (bool, error)
}
