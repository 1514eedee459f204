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

func vehicleLine(v *models.Vehicle) string {
	avail := "available"
	if !v.IsAvailable {
		avail = "unavailable"
	}
	return fmt.Sprintf("%s (%s, %d seats, %s)", v.LicensePlate, v.Type, v.Capacity, avail)
}

func listVehicles(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	vehicles, err := store.ListVehicles(db)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return &agent.HandlerResult{Message: "There are no vehicles registered yet."}, nil
	}
	preview := make([]string, len(vehicles))
	for i := range vehicles {
		preview[i] = vehicleLine(&vehicles[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d vehicles:", len(vehicles)),
		Preview: preview,
	}, nil
}

func getVehicle(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	v, err := store.VehicleByRef(db, args.Uint("vehicle_id"), args.String("license_plate"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that vehicle."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{Message: "Here it is: " + vehicleLine(v)}, nil
}

func createVehicle(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	v := models.Vehicle{
		LicensePlate: args.String("license_plate"),
		Type:         args.String("type"),
		Capacity:     args.Int("capacity"),
		IsAvailable:  true,
	}
	if err := db.Create(&v).Error; err != nil {
		return nil, fmt.Errorf("actions: create vehicle: %w", err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("Vehicle %s registered: %s with %d seats.", v.LicensePlate, v.Type, v.Capacity),
	}, nil
}

func updateVehicle(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	v, err := store.VehicleByRef(db, args.Uint("vehicle_id"), args.String("license_plate"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that vehicle."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("type") {
		v.Type = args.String("type")
	}
	if args.Has("capacity") {
		v.Capacity = args.Int("capacity")
	}
	if args.Has("new_license_plate") {
		v.LicensePlate = args.String("new_license_plate")
	}
	if err := db.Save(v).Error; err != nil {
		return nil, fmt.Errorf("actions: update vehicle %d: %w", v.VehicleID, err)
	}
	return &agent.HandlerResult{Message: "Vehicle updated: " + vehicleLine(v)}, nil
}

func deleteVehicle(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	v, err := store.VehicleByRef(db, args.Uint("vehicle_id"), args.String("license_plate"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that vehicle."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(v).Error; err != nil {
		return nil, fmt.Errorf("actions: delete vehicle %d: %w", v.VehicleID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Vehicle %s removed from the fleet.", v.LicensePlate)}, nil
}

func filterVehiclesByType(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	vtype := args.String("type")
	vehicles, err := store.VehiclesByType(db, vtype)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return &agent.HandlerResult{Message: fmt.Sprintf("No vehicles of type %s.", vtype)}, nil
	}
	preview := make([]string, len(vehicles))
	for i := range vehicles {
		preview[i] = vehicleLine(&vehicles[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d %s vehicles:", len(vehicles), vtype),
		Preview: preview,
	}, nil
}

func getUnassignedVehicles(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	vehicles, err := store.UnassignedVehicles(db)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return &agent.HandlerResult{Message: "Every vehicle is currently assigned."}, nil
	}
	preview := make([]string, len(vehicles))
	for i := range vehicles {
		preview[i] = vehicleLine(&vehicles[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d vehicles are unassigned:", len(vehicles)),
		Preview: preview,
	}, nil
}

func vehicleSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_vehicles",
			Description: "List all vehicles in the fleet",
			Handler:     listVehicles,
		},
		{
			Name:        "get_vehicle",
			Description: "Show one vehicle by ID or license plate",
			Handler:     getVehicle,
		},
		{
			Name:        "create_vehicle",
			Description: "Register a new vehicle",
			Fields: []agent.FormField{
				{Key: "license_plate", Prompt: "What is the vehicle's license plate?"},
				{Key: "type", Prompt: "Is it a Bus or a Cab?", Parse: parseVehicleType},
				{Key: "capacity", Prompt: "What is the seating capacity?", Parse: parsePositiveInt},
			},
			Handler: createVehicle,
		},
		{
			Name:        "update_vehicle",
			Description: "Change a vehicle's type, capacity or plate",
			Handler:     updateVehicle,
		},
		{
			Name:        "delete_vehicle",
			Description: "Remove a vehicle from the fleet",
			Handler:     deleteVehicle,
		},
		{
			Name:        "filter_vehicles_by_type",
			Description: "List vehicles of a given type (Bus or Cab)",
			Handler:     filterVehiclesByType,
		},
		{
			Name:        "get_unassigned_vehicles",
			Description: "List vehicles not deployed on any trip",
			Handler:     getUnassignedVehicles,
		},
	}
}
