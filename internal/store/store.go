// Package store holds the typed GORM queries Conductor runs against the
// transport schema. All reads go through GORM's default scope, so
// soft-deleted rows are excluded everywhere.
package store

import (
	"errors"
	"fmt"

	"github.com/moviops/conductor/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an entity lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// TripByRef finds a trip by numeric ID or, failing that, by display name.
func TripByRef(db *gorm.DB, id uint, name string) (*models.Trip, error) {
	var trip models.Trip
	if id != 0 {
		if err := db.First(&trip, id).Error; err == nil {
			return &trip, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: trip by id %d: %w", id, err)
		}
	}
	if name != "" {
		err := db.Where("display_name = ?", name).First(&trip).Error
		if err == nil {
			return &trip, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: trip by name %q: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// RouteByRef finds a route by numeric ID or display name.
func RouteByRef(db *gorm.DB, id uint, name string) (*models.Route, error) {
	var route models.Route
	if id != 0 {
		if err := db.First(&route, id).Error; err == nil {
			return &route, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: route by id %d: %w", id, err)
		}
	}
	if name != "" {
		err := db.Where("route_display_name = ?", name).First(&route).Error
		if err == nil {
			return &route, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: route by name %q: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// StopByRef finds a stop by numeric ID or name.
func StopByRef(db *gorm.DB, id uint, name string) (*models.Stop, error) {
	var stop models.Stop
	if id != 0 {
		if err := db.First(&stop, id).Error; err == nil {
			return &stop, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: stop by id %d: %w", id, err)
		}
	}
	if name != "" {
		err := db.Where("name = ?", name).First(&stop).Error
		if err == nil {
			return &stop, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: stop by name %q: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// PathByRef finds a path by numeric ID or name.
func PathByRef(db *gorm.DB, id uint, name string) (*models.Path, error) {
	var path models.Path
	if id != 0 {
		if err := db.First(&path, id).Error; err == nil {
			return &path, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: path by id %d: %w", id, err)
		}
	}
	if name != "" {
		err := db.Where("path_name = ?", name).First(&path).Error
		if err == nil {
			return &path, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: path by name %q: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// VehicleByRef finds a vehicle by numeric ID or license plate.
func VehicleByRef(db *gorm.DB, id uint, plate string) (*models.Vehicle, error) {
	var v models.Vehicle
	if id != 0 {
		if err := db.First(&v, id).Error; err == nil {
			return &v, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: vehicle by id %d: %w", id, err)
		}
	}
	if plate != "" {
		err := db.Where("license_plate = ?", plate).First(&v).Error
		if err == nil {
			return &v, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: vehicle by plate %q: %w", plate, err)
		}
	}
	return nil, ErrNotFound
}

// DriverByRef finds a driver by numeric ID or name.
func DriverByRef(db *gorm.DB, id uint, name string) (*models.Driver, error) {
	var d models.Driver
	if id != 0 {
		if err := db.First(&d, id).Error; err == nil {
			return &d, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: driver by id %d: %w", id, err)
		}
	}
	if name != "" {
		err := db.Where("name = ?", name).First(&d).Error
		if err == nil {
			return &d, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: driver by name %q: %w", name, err)
		}
	}
	return nil, ErrNotFound
}

// RouteImpact summarizes what deleting a route would touch.
type RouteImpact struct {
	ActiveTrips      int
	TripsWithBooking int
}

// RouteImpactByID counts live trips on a route: those still scheduled or in
// progress, and those carrying bookings.
func RouteImpactByID(db *gorm.DB, routeID uint) (*RouteImpact, error) {
	var impact RouteImpact
	var active int64
	err := db.Model(&models.Trip{}).
		Where("route_id = ? AND status IN ?", routeID, []string{models.TripScheduled, models.TripInProgress}).
		Count(&active).Error
	if err != nil {
		return nil, fmt.Errorf("store: count active trips for route %d: %w", routeID, err)
	}
	var booked int64
	err = db.Model(&models.Trip{}).
		Where("route_id = ? AND booking_status_percentage > 0", routeID).
		Count(&booked).Error
	if err != nil {
		return nil, fmt.Errorf("store: count booked trips for route %d: %w", routeID, err)
	}
	impact.ActiveTrips = int(active)
	impact.TripsWithBooking = int(booked)
	return &impact, nil
}

// PathCountContainingStop counts active paths whose ordered stop list
// includes stopID. The list is a JSON column, so membership is checked in Go
// rather than with driver-specific JSON operators.
func PathCountContainingStop(db *gorm.DB, stopID uint) (int, error) {
	var paths []models.Path
	if err := db.Find(&paths).Error; err != nil {
		return 0, fmt.Errorf("store: list paths: %w", err)
	}
	n := 0
	for i := range paths {
		if paths[i].ContainsStop(stopID) {
			n++
		}
	}
	return n, nil
}

// RouteCountByPath counts routes laid over the given path.
func RouteCountByPath(db *gorm.DB, pathID uint) (int, error) {
	var count int64
	err := db.Model(&models.Route{}).Where("path_id = ?", pathID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("store: count routes for path %d: %w", pathID, err)
	}
	return int(count), nil
}

// DeploymentForTrip returns the current deployment on a trip, or ErrNotFound.
func DeploymentForTrip(db *gorm.DB, tripID uint) (*models.Deployment, error) {
	var dep models.Deployment
	err := db.Where("trip_id = ?", tripID).First(&dep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: deployment for trip %d: %w", tripID, err)
	}
	return &dep, nil
}
