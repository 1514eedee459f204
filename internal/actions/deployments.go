package actions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/models"
	"github.com/moviops/conductor/internal/store"
)

func deploymentLine(db *gorm.DB, d *models.Deployment) string {
	trip := fmt.Sprintf("trip #%d", d.TripID)
	if t, err := store.TripByRef(db, d.TripID, ""); err == nil {
		trip = "'" + t.DisplayName + "'"
	}
	vehicle := "no vehicle"
	if d.VehicleID != nil {
		if v, err := store.VehicleByRef(db, *d.VehicleID, ""); err == nil {
			vehicle = v.LicensePlate
		}
	}
	driver := "no driver"
	if d.DriverID != nil {
		if dr, err := store.DriverByRef(db, *d.DriverID, ""); err == nil {
			driver = dr.Name
		}
	}
	return fmt.Sprintf("%s: %s, %s", trip, vehicle, driver)
}

func listDeployments(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	deployments, err := store.ListDeployments(db)
	if err != nil {
		return nil, err
	}
	if len(deployments) == 0 {
		return &agent.HandlerResult{Message: "There are no deployments yet."}, nil
	}
	preview := make([]string, len(deployments))
	for i := range deployments {
		preview[i] = deploymentLine(db, &deployments[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d deployments:", len(deployments)),
		Preview: preview,
	}, nil
}

// deploymentForTripArgs resolves the trip reference and its deployment,
// creating the deployment row on demand for the assign flows.
func deploymentForTripArgs(db *gorm.DB, args agent.Args, createMissing bool) (*models.Trip, *models.Deployment, string, error) {
	trip, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, "I couldn't find that trip.", nil
	}
	if err != nil {
		return nil, nil, "", err
	}
	dep, err := store.DeploymentForTrip(db, trip.TripID)
	if errors.Is(err, store.ErrNotFound) {
		if !createMissing {
			return trip, nil, fmt.Sprintf("Nothing is deployed on '%s'.", trip.DisplayName), nil
		}
		dep = &models.Deployment{TripID: trip.TripID, Status: "assigned"}
		if err := db.Create(dep).Error; err != nil {
			return nil, nil, "", fmt.Errorf("actions: create deployment for trip %d: %w", trip.TripID, err)
		}
	} else if err != nil {
		return nil, nil, "", err
	}
	return trip, dep, "", nil
}

func assignVehicleToTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	v, err := store.VehicleByRef(db, args.Uint("vehicle_id"), args.String("license_plate"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that vehicle."}, nil
	}
	if err != nil {
		return nil, err
	}
	trip, dep, reply, err := deploymentForTripArgs(db, args, true)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return &agent.HandlerResult{Message: reply}, nil
	}
	dep.VehicleID = &v.VehicleID
	if err := db.Save(dep).Error; err != nil {
		return nil, fmt.Errorf("actions: assign vehicle %d to trip %d: %w", v.VehicleID, trip.TripID, err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("Vehicle %s assigned to trip '%s'.", v.LicensePlate, trip.DisplayName),
	}, nil
}

func assignDriverToTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	d, err := store.DriverByRef(db, args.Uint("driver_id"), args.String("driver_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that driver."}, nil
	}
	if err != nil {
		return nil, err
	}
	trip, dep, reply, err := deploymentForTripArgs(db, args, true)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return &agent.HandlerResult{Message: reply}, nil
	}
	dep.DriverID = &d.DriverID
	if err := db.Save(dep).Error; err != nil {
		return nil, fmt.Errorf("actions: assign driver %d to trip %d: %w", d.DriverID, trip.TripID, err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("Driver %s assigned to trip '%s'.", d.Name, trip.DisplayName),
	}, nil
}

func removeVehicleFromTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	trip, dep, reply, err := deploymentForTripArgs(db, args, false)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return &agent.HandlerResult{Message: reply}, nil
	}
	if dep.VehicleID == nil {
		return &agent.HandlerResult{Message: fmt.Sprintf("No vehicle is deployed on '%s'.", trip.DisplayName)}, nil
	}
	dep.VehicleID = nil
	if err := db.Save(dep).Error; err != nil {
		return nil, fmt.Errorf("actions: remove vehicle from trip %d: %w", trip.TripID, err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("The vehicle has been removed from trip '%s'.", trip.DisplayName),
	}, nil
}

func removeDriverFromTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	trip, dep, reply, err := deploymentForTripArgs(db, args, false)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return &agent.HandlerResult{Message: reply}, nil
	}
	if dep.DriverID == nil {
		return &agent.HandlerResult{Message: fmt.Sprintf("No driver is deployed on '%s'.", trip.DisplayName)}, nil
	}
	dep.DriverID = nil
	if err := db.Save(dep).Error; err != nil {
		return nil, fmt.Errorf("actions: remove driver from trip %d: %w", trip.TripID, err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("The driver has been removed from trip '%s'.", trip.DisplayName),
	}, nil
}

func deploymentSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_deployments",
			Description: "List vehicle and driver deployments on trips",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     listDeployments,
		},
		{
			Name:        "assign_vehicle_to_trip",
			Description: "Deploy a vehicle on a trip",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     assignVehicleToTrip,
		},
		{
			Name:        "assign_driver_to_trip",
			Description: "Deploy a driver on a trip",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     assignDriverToTrip,
		},
		{
			Name:        "remove_vehicle_from_trip",
			Description: "Remove the deployed vehicle from a trip",
			Destructive: true,
			Consequence: agent.ConsequenceRemoveVehicle,
			Pages:       []string{agent.PageBusDashboard},
			Handler:     removeVehicleFromTrip,
		},
		{
			Name:        "remove_driver_from_trip",
			Description: "Remove the deployed driver from a trip",
			Destructive: true,
			Consequence: agent.ConsequenceRemoveDriver,
			Pages:       []string{agent.PageBusDashboard},
			Handler:     removeDriverFromTrip,
		},
	}
}
