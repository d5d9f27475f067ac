package adapter

import (
	"context"
	"time"
)

// ReleaseFunc gives back a lock obtained from a SaveLocker.
type ReleaseFunc func(ctx context.Context) error

// SaveLocker hands out short-lived locks keyed by name, shared between
// server instances.
type SaveLocker interface {
	// Obtain tries once to take the lock. It fails fast when someone else holds it.
	Obtain(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}
