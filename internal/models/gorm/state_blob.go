package gorm

import (
	"time"
)

// StateBlob is one serialized piece of durable state (watchlist refs,
// entitlement state) stored under its stable key
type StateBlob struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Blob      []byte    `gorm:"column:blob"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (StateBlob) TableName() string {
	return "state_blobs"
}
