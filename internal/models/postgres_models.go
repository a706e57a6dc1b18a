package models

import "time"

// KVEntry is a single key/value row - PostgreSQL backend for persisted client state.
// The value is stored opaque; the table knows nothing about carts.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Value     []byte    `gorm:"type:bytea;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
