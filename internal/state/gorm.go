package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ai-engine/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps state in the state_records table. Conditional updates compare
// the version column and retry on conflict.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)
var _ Updater = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) load(ctx context.Context, key string) (database.StateRecord, bool, error) {
	var record database.StateRecord
	err := s.db.WithContext(ctx).Where("state_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, false, nil
	}
	if err != nil {
		return record, false, err
	}
	return record, true, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	record, found, err := s.load(ctx, key)
	if err != nil {
		slog.Error("error reading state record", "key", key, "error", err)
		return nil, false, unavailable("get", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return record.Value, true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, value []byte) error {
	record := database.StateRecord{Key: key, Value: value, Version: 1, UpdateTime: time.Now().UTC()}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":       value,
			"version":     gorm.Expr("state_records.version + 1"),
			"update_time": record.UpdateTime,
		}),
	}).Create(&record).Error
	if err != nil {
		slog.Error("error saving state record", "key", key, "error", err)
		return unavailable("save", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("state_key = ?", key).Delete(&database.StateRecord{}).Error; err != nil {
		slog.Error("error deleting state record", "key", key, "error", err)
		return unavailable("delete", key, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		record, found, err := s.load(ctx, key)
		if err != nil {
			return unavailable("update", key, err)
		}

		var current []byte
		if found {
			current = record.Value
		}

		next, changed, err := fn(current, found)
		if err != nil || !changed {
			return err
		}

		applied, err := s.compareAndSwap(ctx, key, record, found, next)
		if err != nil {
			return unavailable("update", key, err)
		}
		if applied {
			return nil
		}
		slog.Debug("state record changed concurrently, retrying update", "key", key, "attempt", attempt+1)
	}

	return unavailable("update", key, ErrTooManyConflicts)
}

func (s *GormStore) compareAndSwap(ctx context.Context, key string, prev database.StateRecord, found bool, next []byte) (bool, error) {
	now := time.Now().UTC()

	if !found {
		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&database.StateRecord{Key: key, Value: next, Version: 1, UpdateTime: now})
		if result.Error != nil {
			return false, fmt.Errorf("error inserting state record: %w", result.Error)
		}
		return result.RowsAffected == 1, nil
	}

	result := s.db.WithContext(ctx).
		Model(&database.StateRecord{}).
		Where("state_key = ? AND version = ?", key, prev.Version).
		Updates(map[string]any{"value": next, "version": prev.Version + 1, "update_time": now})
	if result.Error != nil {
		return false, fmt.Errorf("error updating state record: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
