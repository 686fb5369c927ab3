package migration_0

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type StateRecord struct {
	Key        string `gorm:"column:state_key;primaryKey;size:512"`
	Value      []byte `gorm:"not null"`
	UpdateTime time.Time
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&StateRecord{}); err != nil {
		return fmt.Errorf("error creating state_records table: %w", err)
	}
	return nil
}
