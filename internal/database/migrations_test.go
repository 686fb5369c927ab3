package database_test

import (
	"testing"
	"time"

	"ai-engine/internal/database"
	"ai-engine/internal/database/versions/migration_0"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewDatabase_Sqlite(t *testing.T) {
	db, err := database.NewDatabase("file::memory:")
	require.NoError(t, err)

	rec := database.StateRecord{Key: "k", Value: []byte("v"), Version: 1, UpdateTime: time.Now().UTC()}
	require.NoError(t, db.Create(&rec).Error)

	var loaded database.StateRecord
	require.NoError(t, db.Where("state_key = ?", "k").First(&loaded).Error)
	assert.Equal(t, []byte("v"), loaded.Value)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestMigration_AddsVersionToExistingRecords(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Simulate a database created before the version column existed.
	require.NoError(t, gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{ID: "0", Migrate: migration_0.Migration},
	}).Migrate())

	old := migration_0.StateRecord{Key: "ai-chat-index", Value: []byte(`{"ids":["a"]}`)}
	require.NoError(t, db.Create(&old).Error)

	require.NoError(t, database.GetMigrator(db).Migrate())

	var loaded database.StateRecord
	require.NoError(t, db.Where("state_key = ?", "ai-chat-index").First(&loaded).Error)
	assert.Equal(t, int64(0), loaded.Version)
	assert.Equal(t, `{"ids":["a"]}`, string(loaded.Value))
}
