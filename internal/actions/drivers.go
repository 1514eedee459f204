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

func driverLine(d *models.Driver) string {
	avail := "available"
	if !d.IsAvailable {
		avail = "on duty"
	}
	return fmt.Sprintf("%s (%s, %s)", d.Name, d.PhoneNumber, avail)
}

func listDrivers(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	drivers, err := store.ListDrivers(db)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return &agent.HandlerResult{Message: "There are no drivers on file yet."}, nil
	}
	preview := make([]string, len(drivers))
	for i := range drivers {
		preview[i] = driverLine(&drivers[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d drivers:", len(drivers)),
		Preview: preview,
	}, nil
}

func getDriver(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	d, err := store.DriverByRef(db, args.Uint("driver_id"), args.String("driver_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that driver."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{Message: "Here they are: " + driverLine(d)}, nil
}

func createDriver(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	d := models.Driver{
		Name:        args.String("name"),
		PhoneNumber: args.String("phone_number"),
		IsAvailable: true,
	}
	if err := db.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("actions: create driver: %w", err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Driver %s onboarded.", d.Name)}, nil
}

func updateDriver(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	d, err := store.DriverByRef(db, args.Uint("driver_id"), args.String("driver_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that driver."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("phone_number") {
		d.PhoneNumber = args.String("phone_number")
	}
	if args.Has("new_name") {
		d.Name = args.String("new_name")
	}
	if err := db.Save(d).Error; err != nil {
		return nil, fmt.Errorf("actions: update driver %d: %w", d.DriverID, err)
	}
	return &agent.HandlerResult{Message: "Driver updated: " + driverLine(d)}, nil
}

func deleteDriver(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	d, err := store.DriverByRef(db, args.Uint("driver_id"), args.String("driver_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that driver."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(d).Error; err != nil {
		return nil, fmt.Errorf("actions: delete driver %d: %w", d.DriverID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Driver %s removed.", d.Name)}, nil
}

func getAvailableDrivers(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	drivers, err := store.AvailableDrivers(db)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return &agent.HandlerResult{Message: "No drivers are available right now."}, nil
	}
	preview := make([]string, len(drivers))
	for i := range drivers {
		preview[i] = driverLine(&drivers[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d drivers are available:", len(drivers)),
		Preview: preview,
	}, nil
}

func driverSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_drivers",
			Description: "List all drivers",
			Handler:     listDrivers,
		},
		{
			Name:        "get_driver",
			Description: "Show one driver by ID or name",
			Handler:     getDriver,
		},
		{
			Name:        "create_driver",
			Description: "Onboard a new driver",
			Fields: []agent.FormField{
				{Key: "name", Prompt: "What is the driver's name?"},
				{Key: "phone_number", Prompt: "What is their phone number?"},
			},
			Handler: createDriver,
		},
		{
			Name:        "update_driver",
			Description: "Change a driver's details",
			Handler:     updateDriver,
		},
		{
			Name:        "delete_driver",
			Description: "Remove a driver",
			Handler:     deleteDriver,
		},
		{
			Name:        "get_available_drivers",
			Description: "List drivers currently available for deployment",
			Handler:     getAvailableDrivers,
		},
	}
}
