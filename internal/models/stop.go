package models

import (
	"time"

	"gorm.io/gorm"
)

// Stop is a physical boarding point on the transport network.
type Stop struct {
	StopID      uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:128;not null;index"`
	Latitude    float64
	Longitude   float64
	Description string `gorm:"type:text"`
	Address     string `gorm:"size:256"`
	IsActive    bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
