package engine

import (
	"errors"
	"fmt"

	"ai-engine/internal/state"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrBackend          = errors.New("backend error")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnknownOperation = errors.New("unknown operation")
)

const (
	KindValidation       = "validation"
	KindNotFound         = "not_found"
	KindAlreadyExists    = "already_exists"
	KindBackend          = "backend"
	KindStoreUnavailable = "store_unavailable"
	KindUnknownOperation = "unknown_operation"
	KindInternal         = "internal"
)

var kinds = []struct {
	kind string
	err  error
}{
	{KindValidation, ErrValidation},
	{KindNotFound, ErrNotFound},
	{KindAlreadyExists, ErrAlreadyExists},
	{KindBackend, ErrBackend},
	{KindStoreUnavailable, ErrStoreUnavailable},
	{KindUnknownOperation, ErrUnknownOperation},
}

// ErrorKind names the category of err so it can cross a process boundary.
func ErrorKind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// KindError rebuilds an error of the given kind from its message.
func KindError(kind, message string) error {
	for _, k := range kinds {
		if k.kind == kind {
			return &remoteError{kind: k.err, message: message}
		}
	}
	return errors.New(message)
}

type remoteError struct {
	kind    error
	message string
}

func (e *remoteError) Error() string {
	return e.message
}

func (e *remoteError) Unwrap() error {
	return e.kind
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError tags err as a store failure when it came from the state store.
func storeError(err error) error {
	if errors.Is(err, state.ErrUnavailable) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func backendError(err error) error {
	return fmt.Errorf("%w: %w", ErrBackend, err)
}
