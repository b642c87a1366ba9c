package models

import "time"

// StoredValue is one entry of the local durable key/value store
type StoredValue struct {
	Key       string    `gorm:"primaryKey;column:storage_key" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
