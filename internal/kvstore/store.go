// Package kvstore is a small keyed store with per-key TTL. The captcha
// challenge namespace lives here so the same component code runs against the
// in-process cache or a shared Redis without changes.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// GetDel atomically reads and removes a key. This is what makes
	// single-use records (challenge consumption) race-safe.
	GetDel(ctx context.Context, key string) ([]byte, error)
}
