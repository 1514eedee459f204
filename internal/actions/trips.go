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

func tripLine(t *models.Trip) string {
	return fmt.Sprintf("%s (%s, %.0f%% booked, %d bookings)",
		t.DisplayName, t.Status, t.BookingStatusPercentage, t.TotalBookings)
}

func listTrips(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	trips, err := store.ListTrips(db)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return &agent.HandlerResult{Message: "There are no trips yet."}, nil
	}
	preview := make([]string, len(trips))
	for i := range trips {
		preview[i] = tripLine(&trips[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d trips:", len(trips)),
		Preview: preview,
	}, nil
}

func getTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	t, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that trip."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{Message: "Here it is: " + tripLine(t)}, nil
}

func createTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	routeID := args.Uint("route_id")
	if _, err := store.RouteByRef(db, routeID, ""); errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: fmt.Sprintf("Route #%d doesn't exist; create the route first.", routeID)}, nil
	} else if err != nil {
		return nil, err
	}
	t := models.Trip{
		RouteID:     routeID,
		DisplayName: args.String("display_name"),
		Status:      models.TripScheduled,
	}
	if err := db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("actions: create trip: %w", err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Trip '%s' scheduled.", t.DisplayName)}, nil
}

func updateTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	t, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that trip."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("new_name") {
		t.DisplayName = args.String("new_name")
	}
	if args.Has("status") {
		t.Status = args.String("status")
	}
	if err := db.Save(t).Error; err != nil {
		return nil, fmt.Errorf("actions: update trip %d: %w", t.TripID, err)
	}
	return &agent.HandlerResult{Message: "Trip updated: " + tripLine(t)}, nil
}

func cancelTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	t, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that trip."}, nil
	}
	if err != nil {
		return nil, err
	}
	t.Status = models.TripCancelled
	if err := db.Save(t).Error; err != nil {
		return nil, fmt.Errorf("actions: cancel trip %d: %w", t.TripID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Trip '%s' cancelled.", t.DisplayName)}, nil
}

func deleteTrip(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	t, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that trip."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(t).Error; err != nil {
		return nil, fmt.Errorf("actions: delete trip %d: %w", t.TripID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Trip '%s' deleted.", t.DisplayName)}, nil
}

func filterTripsByStatus(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	status := args.String("status")
	trips, err := store.TripsByStatus(db, status)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return &agent.HandlerResult{Message: fmt.Sprintf("No trips with status %s.", status)}, nil
	}
	preview := make([]string, len(trips))
	for i := range trips {
		preview[i] = tripLine(&trips[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d trips are %s:", len(trips), status),
		Preview: preview,
	}, nil
}

func listActiveTrips(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	trips, err := store.ActiveTrips(db)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return &agent.HandlerResult{Message: "No trips are currently active."}, nil
	}
	preview := make([]string, len(trips))
	for i := range trips {
		preview[i] = tripLine(&trips[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d trips are active:", len(trips)),
		Preview: preview,
	}, nil
}

func tripSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_trips",
			Description: "List all trips",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     listTrips,
		},
		{
			Name:        "get_trip",
			Description: "Show one trip by ID or name",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     getTrip,
		},
		{
			Name:        "create_trip",
			Description: "Schedule a new trip on a route",
			Fields: []agent.FormField{
				{Key: "route_id", Prompt: "Which route ID is this trip for?", Parse: parsePositiveInt},
				{Key: "display_name", Prompt: "What should the trip be called?"},
			},
			Pages:   []string{agent.PageBusDashboard},
			Handler: createTrip,
		},
		{
			Name:        "update_trip",
			Description: "Change a trip's name or status",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     updateTrip,
		},
		{
			Name:        "cancel_trip",
			Description: "Cancel a trip",
			Destructive: true,
			Consequence: agent.ConsequenceCancelTrip,
			Pages:       []string{agent.PageBusDashboard},
			Handler:     cancelTrip,
		},
		{
			Name:        "delete_trip",
			Description: "Delete a trip",
			Destructive: true,
			Consequence: agent.ConsequenceDeleteTrip,
			Pages:       []string{agent.PageBusDashboard},
			Handler:     deleteTrip,
		},
		{
			Name:        "filter_trips_by_status",
			Description: "List trips with a given status",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     filterTripsByStatus,
		},
		{
			Name:        "list_active_trips",
			Description: "List scheduled and in-progress trips",
			Pages:       []string{agent.PageBusDashboard},
			Handler:     listActiveTrips,
		},
	}
}
