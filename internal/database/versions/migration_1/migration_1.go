package migration_1

import (
	"fmt"

	"gorm.io/gorm"
)

type StateRecord struct {
	Version int64 `gorm:"not null;default:0"`
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&StateRecord{}, "Version"); err != nil {
		return fmt.Errorf("error adding Version column: %w", err)
	}

	if err := db.Model(&StateRecord{}).
		Where("version IS NULL").
		Update("version", 0).Error; err != nil {
		return fmt.Errorf("error setting default value for Version: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&StateRecord{}, "Version"); err != nil {
		return fmt.Errorf("error dropping Version column: %w", err)
	}

	return nil
}
