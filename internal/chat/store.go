package chat

import (
	"context"
	"errors"
	"fmt"

	"ai-engine/internal/state"
	"ai-engine/pkg/api"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt chat record")

// Store reads and writes chat histories and the chat index. Writes are
// unconditional; concurrent writers to the same instance race.
type Store struct {
	state state.Store
}

func NewStore(s state.Store) *Store {
	return &Store{state: s}
}

func (s *Store) GetHistory(ctx context.Context, instanceId string) (api.ChatHistory, bool, error) {
	data, found, err := s.state.Get(ctx, HistoryKey(instanceId))
	if err != nil {
		return api.ChatHistory{}, false, fmt.Errorf("error reading history for instance '%s': %w", instanceId, err)
	}
	if !found {
		return api.ChatHistory{}, false, nil
	}

	history, err := DecodeHistory(data)
	if err != nil {
		return api.ChatHistory{}, false, fmt.Errorf("instance '%s': %w: %w", instanceId, ErrCorruptRecord, err)
	}
	return history, true, nil
}

func (s *Store) SaveHistory(ctx context.Context, instanceId string, history api.ChatHistory) error {
	data, err := EncodeHistory(history)
	if err != nil {
		return err
	}
	if err := s.state.Save(ctx, HistoryKey(instanceId), data); err != nil {
		return fmt.Errorf("error saving history for instance '%s': %w", instanceId, err)
	}
	return nil
}

func (s *Store) DeleteHistory(ctx context.Context, instanceId string) error {
	if err := s.state.Delete(ctx, HistoryKey(instanceId)); err != nil {
		return fmt.Errorf("error deleting history for instance '%s': %w", instanceId, err)
	}
	return nil
}

// GetIndex returns an empty list when the index record has never been written.
func (s *Store) GetIndex(ctx context.Context) ([]string, error) {
	data, found, err := s.state.Get(ctx, IndexKey)
	if err != nil {
		return nil, fmt.Errorf("error reading chat index: %w", err)
	}
	if !found {
		return []string{}, nil
	}

	ids, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return ids, nil
}

func (s *Store) SaveIndex(ctx context.Context, ids []string) error {
	data, err := encodeIndex(ids)
	if err != nil {
		return err
	}
	if err := s.state.Save(ctx, IndexKey, data); err != nil {
		return fmt.Errorf("error saving chat index: %w", err)
	}
	return nil
}
