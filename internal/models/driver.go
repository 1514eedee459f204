package models

import (
	"time"

	"gorm.io/gorm"
)

// Driver is a person who can be deployed on trips.
type Driver struct {
	DriverID      uint   `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"size:128;not null;index"`
	PhoneNumber   string `gorm:"size:32"`
	LicenseNumber string `gorm:"size:64"`
	IsAvailable   bool   `gorm:"default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
