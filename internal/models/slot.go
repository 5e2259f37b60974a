package models

import "time"

// Slot is one named entry in the durable key-value store. The value is the
// serialized JSON payload for the whole slot (an array of records for the
// collection slots, a bare boolean for markers).
type Slot struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time
}
