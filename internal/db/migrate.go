package db

import (
	"fmt"
	"time"

	"github.com/moviops/conductor/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model Conductor migrates.
func AllModels() []interface{} {
	return []interface{}{
		&models.Stop{},
		&models.Path{},
		&models.Route{},
		&models.Trip{},
		&models.Vehicle{},
		&models.Driver{},
		&models.Deployment{},
		&models.SessionRecord{},
		&models.SessionTurn{},
	}
}

// AutoMigrate creates or updates all Conductor tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// Seed inserts a small demo dataset so the chat surfaces have something to
// operate on. It is idempotent: an existing demo trip short-circuits.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Trip{}).Where("display_name = ?", "Bulk - 00:01").Count(&count).Error; err != nil {
		return fmt.Errorf("db: seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	stops := []models.Stop{
		{Name: "Central Depot", Latitude: 12.9716, Longitude: 77.5946, Address: "1 Depot Rd", IsActive: true},
		{Name: "Tech Park Gate", Latitude: 12.9352, Longitude: 77.6245, Address: "Outer Ring Rd", IsActive: true},
		{Name: "Lakeside", Latitude: 12.9141, Longitude: 77.6411, Address: "Lake View Ave", IsActive: true},
	}
	if err := db.Create(&stops).Error; err != nil {
		return fmt.Errorf("db: seed stops: %w", err)
	}

	path := models.Path{PathName: "Depot - Tech Park", TotalDistanceKM: 14.2, EstimatedDurationMinutes: 40, IsActive: true}
	if err := path.SetStopIDs([]uint{stops[0].StopID, stops[1].StopID, stops[2].StopID}); err != nil {
		return fmt.Errorf("db: seed path: %w", err)
	}
	if err := db.Create(&path).Error; err != nil {
		return fmt.Errorf("db: seed path: %w", err)
	}

	route := models.Route{
		PathID:           path.PathID,
		RouteDisplayName: "Bulk",
		ShiftTime:        "00:01",
		Direction:        "Forward",
		StartPoint:       "Central Depot",
		EndPoint:         "Lakeside",
		Status:           "active",
	}
	if err := db.Create(&route).Error; err != nil {
		return fmt.Errorf("db: seed route: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	trips := []models.Trip{
		{RouteID: route.RouteID, DisplayName: "Bulk - 00:01", Status: models.TripScheduled, BookingStatusPercentage: 62, TotalBookings: 31, TripDate: &today},
		{RouteID: route.RouteID, DisplayName: "Bulk - 08:30", Status: models.TripScheduled, TripDate: &today},
	}
	if err := db.Create(&trips).Error; err != nil {
		return fmt.Errorf("db: seed trips: %w", err)
	}

	vehicles := []models.Vehicle{
		{LicensePlate: "KA-01-AB-1234", Type: "Bus", Capacity: 50, IsAvailable: true},
		{LicensePlate: "KA-01-CD-5678", Type: "Cab", Capacity: 4, IsAvailable: true},
	}
	if err := db.Create(&vehicles).Error; err != nil {
		return fmt.Errorf("db: seed vehicles: %w", err)
	}

	drivers := []models.Driver{
		{Name: "Ravi Kumar", PhoneNumber: "+91-98450-00001", IsAvailable: true},
		{Name: "Meena Iyer", PhoneNumber: "+91-98450-00002", IsAvailable: true},
	}
	if err := db.Create(&drivers).Error; err != nil {
		return fmt.Errorf("db: seed drivers: %w", err)
	}

	dep := models.Deployment{TripID: trips[0].TripID, VehicleID: &vehicles[0].VehicleID, DriverID: &drivers[0].DriverID}
	if err := db.Create(&dep).Error; err != nil {
		return fmt.Errorf("db: seed deployment: %w", err)
	}

	return nil
}
