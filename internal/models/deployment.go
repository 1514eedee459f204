package models

import (
	"time"

	"gorm.io/gorm"
)

// Deployment binds a vehicle and driver to a trip.
type Deployment struct {
	DeploymentID uint  `gorm:"primaryKey;autoIncrement"`
	TripID       uint  `gorm:"index;not null"`
	VehicleID    *uint `gorm:"index"`
	DriverID     *uint `gorm:"index"`
	Status       string `gorm:"size:16;default:assigned"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Trip    *Trip    `gorm:"foreignKey:TripID"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
	Driver  *Driver  `gorm:"foreignKey:DriverID"`
}
