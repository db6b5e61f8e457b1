// Package lock serializes work per key, in-process or across instances through Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotAcquired = errors.New("lock not acquired")
	ErrNotOwned    = errors.New("lock not owned")
)

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Acquire blocks until the key is free, ctx ends, or the backend gives up (ErrNotAcquired).
	Acquire(ctx context.Context, key string) (Lock, error)
	Backend() string
}

// SpaceKey is the key guarding a space's reservation set and override flags.
func SpaceKey(spaceID int64) string {
	return fmt.Sprintf("space:%d", spaceID)
}
