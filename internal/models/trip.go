package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip statuses.
const (
	TripScheduled  = "scheduled"
	TripInProgress = "in_progress"
	TripCompleted  = "completed"
	TripCancelled  = "cancelled"
)

// Trip is a single dated run of a route. BookingStatusPercentage and
// TotalBookings drive the consequence checks on destructive actions.
type Trip struct {
	TripID                  uint   `gorm:"primaryKey;autoIncrement"`
	RouteID                 uint   `gorm:"index;not null"`
	DisplayName             string `gorm:"size:128;not null;index"`
	Status                  string `gorm:"size:16;default:scheduled;index"`
	BookingStatusPercentage float64
	TotalBookings           int
	TripDate                *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
	DeletedAt               gorm.DeletedAt `gorm:"index"`

	Route       *Route       `gorm:"foreignKey:RouteID"`
	Deployments []Deployment `gorm:"foreignKey:TripID"`
}
