package state

import (
	"context"
	"log/slog"
	"sync"

	dapr "github.com/dapr/go-sdk/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DaprStateClient is the part of the dapr client used by DaprStore.
type DaprStateClient interface {
	GetState(ctx context.Context, storeName, key string, meta map[string]string) (*dapr.StateItem, error)
	SaveState(ctx context.Context, storeName, key string, data []byte, meta map[string]string, so ...dapr.StateOption) error
	SaveStateWithETag(ctx context.Context, storeName, key string, data []byte, etag string, meta map[string]string, so ...dapr.StateOption) error
	DeleteState(ctx context.Context, storeName, key string, meta map[string]string) error
}

// DaprStore talks to a state store component through the dapr sidecar.
// Conditional updates use ETags with first-write-wins concurrency. A key
// without an ETag cannot be written conditionally, so the first write of a key
// is only serialized within this process; two processes creating the same key
// at once can still lose one update.
type DaprStore struct {
	client    DaprStateClient
	storeName string

	creating sync.Mutex
}

var _ Store = (*DaprStore)(nil)
var _ Updater = (*DaprStore)(nil)

func NewDaprStore(client DaprStateClient, storeName string) *DaprStore {
	return &DaprStore{client: client, storeName: storeName}
}

func (s *DaprStore) get(ctx context.Context, key string) (*dapr.StateItem, bool, error) {
	item, err := s.client.GetState(ctx, s.storeName, key, nil)
	if err != nil {
		return nil, false, err
	}
	// The sidecar reports a missing key as an empty value.
	if item == nil || len(item.Value) == 0 {
		return item, false, nil
	}
	return item, true, nil
}

func (s *DaprStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, found, err := s.get(ctx, key)
	if err != nil {
		slog.Error("error getting dapr state", "store", s.storeName, "key", key, "error", err)
		return nil, false, unavailable("get", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return item.Value, true, nil
}

func (s *DaprStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.SaveState(ctx, s.storeName, key, value, nil); err != nil {
		slog.Error("error saving dapr state", "store", s.storeName, "key", key, "error", err)
		return unavailable("save", key, err)
	}
	return nil
}

func (s *DaprStore) Delete(ctx context.Context, key string) error {
	if err := s.client.DeleteState(ctx, s.storeName, key, nil); err != nil {
		slog.Error("error deleting dapr state", "store", s.storeName, "key", key, "error", err)
		return unavailable("delete", key, err)
	}
	return nil
}

func isETagConflict(err error) bool {
	st, ok := status.FromError(err)
	return ok && (st.Code() == codes.Aborted || st.Code() == codes.FailedPrecondition)
}

func (s *DaprStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		item, found, err := s.get(ctx, key)
		if err != nil {
			return unavailable("update", key, err)
		}

		var current []byte
		var etag string
		if found {
			current = item.Value
		}
		if item != nil {
			etag = item.Etag
		}

		if etag == "" {
			created, err := s.create(ctx, key, fn)
			if err != nil || created {
				return err
			}
			// Someone else created the key first; retry against its ETag.
			continue
		}

		next, changed, err := fn(current, found)
		if err != nil || !changed {
			return err
		}

		err = s.client.SaveStateWithETag(ctx, s.storeName, key, next, etag, nil,
			dapr.WithConcurrency(dapr.StateConcurrencyFirstWrite))
		if err == nil {
			return nil
		}
		if !isETagConflict(err) {
			return unavailable("update", key, err)
		}
		slog.Debug("dapr state etag mismatch, retrying update", "key", key, "attempt", attempt+1)
	}

	return unavailable("update", key, ErrTooManyConflicts)
}

// create writes a key that had no ETag when it was read. The write itself is
// unconditional, so it is done under a lock after checking the key is still
// absent.
func (s *DaprStore) create(ctx context.Context, key string, fn UpdateFunc) (bool, error) {
	s.creating.Lock()
	defer s.creating.Unlock()

	item, found, err := s.get(ctx, key)
	if err != nil {
		return false, unavailable("update", key, err)
	}
	if item != nil && item.Etag != "" {
		return false, nil
	}

	var current []byte
	if found {
		current = item.Value
	}
	next, changed, err := fn(current, found)
	if err != nil || !changed {
		return true, err
	}

	if err := s.client.SaveState(ctx, s.storeName, key, next, nil); err != nil {
		return false, unavailable("update", key, err)
	}
	return true, nil
}
