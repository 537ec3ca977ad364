package model

import (
	"time"

	"gorm.io/datatypes"
)

// KeyValueRecord is the durable form of the registries' state. One row per
// logical key, whole value as a JSON blob.
type KeyValueRecord struct {
	Key       string         `gorm:"type:varchar(255);primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (KeyValueRecord) TableName() string {
	return "key_value_records"
}
