package store

import (
	"fmt"

	"github.com/moviops/conductor/internal/models"
	"gorm.io/gorm"
)

// ListStops returns all non-deleted stops, newest last.
func ListStops(db *gorm.DB) ([]models.Stop, error) {
	var stops []models.Stop
	if err := db.Order("stop_id").Find(&stops).Error; err != nil {
		return nil, fmt.Errorf("store: list stops: %w", err)
	}
	return stops, nil
}

// SearchStopsByName returns stops whose name contains the query, case folded
// by the collation of the underlying database.
func SearchStopsByName(db *gorm.DB, query string) ([]models.Stop, error) {
	var stops []models.Stop
	if err := db.Where("name LIKE ?", "%"+query+"%").Order("stop_id").Find(&stops).Error; err != nil {
		return nil, fmt.Errorf("store: search stops %q: %w", query, err)
	}
	return stops, nil
}

// ListPaths returns all non-deleted paths.
func ListPaths(db *gorm.DB) ([]models.Path, error) {
	var paths []models.Path
	if err := db.Order("path_id").Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("store: list paths: %w", err)
	}
	return paths, nil
}

// ListRoutes returns all non-deleted routes.
func ListRoutes(db *gorm.DB) ([]models.Route, error) {
	var routes []models.Route
	if err := db.Order("route_id").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("store: list routes: %w", err)
	}
	return routes, nil
}

// RoutesByPath returns routes laid over a path.
func RoutesByPath(db *gorm.DB, pathID uint) ([]models.Route, error) {
	var routes []models.Route
	if err := db.Where("path_id = ?", pathID).Order("route_id").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("store: routes by path %d: %w", pathID, err)
	}
	return routes, nil
}

// ListTrips returns all non-deleted trips.
func ListTrips(db *gorm.DB) ([]models.Trip, error) {
	var trips []models.Trip
	if err := db.Order("trip_id").Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("store: list trips: %w", err)
	}
	return trips, nil
}

// TripsByStatus returns trips in the given status.
func TripsByStatus(db *gorm.DB, status string) ([]models.Trip, error) {
	var trips []models.Trip
	if err := db.Where("status = ?", status).Order("trip_id").Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("store: trips by status %q: %w", status, err)
	}
	return trips, nil
}

// ActiveTrips returns trips that are scheduled or in progress.
func ActiveTrips(db *gorm.DB) ([]models.Trip, error) {
	var trips []models.Trip
	err := db.Where("status IN ?", []string{models.TripScheduled, models.TripInProgress}).
		Order("trip_id").Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("store: active trips: %w", err)
	}
	return trips, nil
}

// ListVehicles returns all non-deleted vehicles.
func ListVehicles(db *gorm.DB) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := db.Order("vehicle_id").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("store: list vehicles: %w", err)
	}
	return vehicles, nil
}

// VehiclesByType returns vehicles of the given type (Bus or Cab).
func VehiclesByType(db *gorm.DB, vehicleType string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := db.Where("type = ?", vehicleType).Order("vehicle_id").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("store: vehicles by type %q: %w", vehicleType, err)
	}
	return vehicles, nil
}

// UnassignedVehicles returns vehicles with no live deployment.
func UnassignedVehicles(db *gorm.DB) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := db.Where("vehicle_id NOT IN (?)",
		db.Model(&models.Deployment{}).Select("vehicle_id").Where("vehicle_id IS NOT NULL"),
	).Order("vehicle_id").Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("store: unassigned vehicles: %w", err)
	}
	return vehicles, nil
}

// ListDrivers returns all non-deleted drivers.
func ListDrivers(db *gorm.DB) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := db.Order("driver_id").Find(&drivers).Error; err != nil {
		return nil, fmt.Errorf("store: list drivers: %w", err)
	}
	return drivers, nil
}

// AvailableDrivers returns drivers flagged available.
func AvailableDrivers(db *gorm.DB) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := db.Where("is_available = ?", true).Order("driver_id").Find(&drivers).Error; err != nil {
		return nil, fmt.Errorf("store: available drivers: %w", err)
	}
	return drivers, nil
}

// ListDeployments returns all non-deleted deployments.
func ListDeployments(db *gorm.DB) ([]models.Deployment, error) {
	var deps []models.Deployment
	if err := db.Order("deployment_id").Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("store: list deployments: %w", err)
	}
	return deps, nil
}
