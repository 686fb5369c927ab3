package chat

import (
	"context"
	"fmt"
	"slices"

	"ai-engine/internal/state"
)

// Index tracks the set of live instance ids in insertion order. When the
// underlying store supports conditional updates, Add and Remove are atomic;
// otherwise they are a plain read followed by a write and concurrent callers
// can lose each other's change.
type Index struct {
	store   *Store
	updater state.Updater
}

func NewIndex(store *Store) *Index {
	idx := &Index{store: store}
	if updater, ok := store.state.(state.Updater); ok {
		idx.updater = updater
	}
	return idx
}

// Atomic reports whether the store offers conditional updates. For the dapr
// store the first write of the index key is guarded only within this process.
func (idx *Index) Atomic() bool {
	return idx.updater != nil
}

func (idx *Index) List(ctx context.Context) ([]string, error) {
	return idx.store.GetIndex(ctx)
}

func (idx *Index) Add(ctx context.Context, instanceId string) error {
	return idx.modify(ctx, func(ids []string) ([]string, bool) {
		if slices.Contains(ids, instanceId) {
			return ids, false
		}
		return append(ids, instanceId), true
	})
}

func (idx *Index) Remove(ctx context.Context, instanceId string) error {
	return idx.modify(ctx, func(ids []string) ([]string, bool) {
		i := slices.Index(ids, instanceId)
		if i < 0 {
			return ids, false
		}
		return slices.Delete(ids, i, i+1), true
	})
}

func (idx *Index) modify(ctx context.Context, fn func(ids []string) ([]string, bool)) error {
	if idx.updater == nil {
		ids, err := idx.store.GetIndex(ctx)
		if err != nil {
			return err
		}
		next, changed := fn(ids)
		if !changed {
			return nil
		}
		return idx.store.SaveIndex(ctx, next)
	}

	err := idx.updater.Update(ctx, IndexKey, func(current []byte, exists bool) ([]byte, bool, error) {
		ids := []string{}
		if exists {
			var err error
			if ids, err = decodeIndex(current); err != nil {
				return nil, false, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
			}
		}
		next, changed := fn(ids)
		if !changed {
			return nil, false, nil
		}
		data, err := encodeIndex(next)
		return data, err == nil, err
	})
	if err != nil {
		return fmt.Errorf("error updating chat index: %w", err)
	}
	return nil
}
