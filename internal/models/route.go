package models

import (
	"time"

	"gorm.io/gorm"
)

// Route is a scheduled service over a path: shift time plus direction.
type Route struct {
	RouteID          uint   `gorm:"primaryKey;autoIncrement"`
	PathID           uint   `gorm:"index;not null"`
	RouteDisplayName string `gorm:"size:128;not null;index"`
	ShiftTime        string `gorm:"size:8"`  // HH:MM, 24-hour
	Direction        string `gorm:"size:16"` // Forward, Reverse, Circular
	StartPoint       string `gorm:"size:128"`
	EndPoint         string `gorm:"size:128"`
	Status           string `gorm:"size:16;default:active;index"`
	Notes            string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Path *Path `gorm:"foreignKey:PathID"`
}
