package state

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every transport or backend failure of a store. An
// absent key is never reported as an error.
var ErrUnavailable = errors.New("state store unavailable")

type Store interface {
	// Get returns found=false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	Save(ctx context.Context, key string, value []byte) error

	// Delete is a no-op for a key that does not exist.
	Delete(ctx context.Context, key string) error
}

// UpdateFunc computes the next value of a key from its current value. Returning
// changed=false ends the update without a write.
type UpdateFunc func(current []byte, exists bool) (next []byte, changed bool, err error)

// Updater is implemented by stores that can run a read-modify-write on a single
// key atomically. The function may be invoked more than once when a concurrent
// writer wins the race.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

const maxUpdateAttempts = 10

var ErrTooManyConflicts = errors.New("too many concurrent update conflicts")

func unavailable(op, key string, err error) error {
	return &storeError{op: op, key: key, err: err}
}

type storeError struct {
	op  string
	key string
	err error
}

func (e *storeError) Error() string {
	return "state store " + e.op + " '" + e.key + "' failed: " + e.err.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}
