package model

import "time"

// DeliveryLog is the persisted audit record of one bridge operation.
type DeliveryLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	Phone        string    `gorm:"type:varchar(32);not null;index:idx_delivery_phone"`
	Destination  string    `gorm:"type:varchar(255);not null"`
	Text         string    `gorm:"type:text"`
	Success      bool      `gorm:"not null"`
	Response     *string   `gorm:"type:text;null"`
	ResponseTime float64   `gorm:"not null"`
	ErrorCode    *string   `gorm:"type:varchar(64);null"`
	ReportedAt   time.Time `gorm:"type:timestamp;not null"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
}
