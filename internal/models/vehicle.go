package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle is a bus or cab available for deployment on trips.
type Vehicle struct {
	VehicleID    uint   `gorm:"primaryKey;autoIncrement"`
	LicensePlate string `gorm:"size:32;not null;uniqueIndex"`
	Type         string `gorm:"size:16"` // Bus or Cab
	Capacity     int
	IsAvailable  bool `gorm:"default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
