package database

import "time"

// StateRecord holds one key of the engine's key-value state. Version is bumped
// on every write and is what conditional updates compare against.
type StateRecord struct {
	Key        string `gorm:"column:state_key;primaryKey;size:512"`
	Value      []byte `gorm:"not null"`
	Version    int64  `gorm:"not null;default:0"`
	UpdateTime time.Time
}
