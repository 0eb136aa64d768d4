// Package lock provides short-lived advisory locks used to serialize work on a single key.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned by Acquire while another holder owns the key.
var ErrLocked = errors.New("lock is held")

// Locker hands out exclusive leases. A lease ends when release is called or ttl elapses,
// whichever comes first; release after expiry never frees a lease taken by someone else.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

func newToken() string {
	return uuid.NewString()
}
