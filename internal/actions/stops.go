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

func stopLine(s *models.Stop) string {
	return fmt.Sprintf("%s (#%d at %.4f, %.4f)", s.Name, s.StopID, s.Latitude, s.Longitude)
}

func listStops(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	stops, err := store.ListStops(db)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return &agent.HandlerResult{Message: "There are no stops defined yet."}, nil
	}
	preview := make([]string, len(stops))
	for i := range stops {
		preview[i] = stopLine(&stops[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d stops:", len(stops)),
		Preview: preview,
	}, nil
}

func getStop(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	s, err := store.StopByRef(db, args.Uint("stop_id"), args.String("stop_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that stop."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{Message: "Here it is: " + stopLine(s)}, nil
}

func createStop(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	s := models.Stop{
		Name:      args.String("name"),
		Latitude:  args.Float("latitude"),
		Longitude: args.Float("longitude"),
		IsActive:  true,
	}
	if err := db.Create(&s).Error; err != nil {
		return nil, fmt.Errorf("actions: create stop: %w", err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Stop '%s' created as #%d.", s.Name, s.StopID)}, nil
}

func updateStop(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	s, err := store.StopByRef(db, args.Uint("stop_id"), args.String("stop_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that stop."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("new_name") {
		s.Name = args.String("new_name")
	}
	if args.Has("latitude") {
		s.Latitude = args.Float("latitude")
	}
	if args.Has("longitude") {
		s.Longitude = args.Float("longitude")
	}
	if err := db.Save(s).Error; err != nil {
		return nil, fmt.Errorf("actions: update stop %d: %w", s.StopID, err)
	}
	return &agent.HandlerResult{Message: "Stop updated: " + stopLine(s)}, nil
}

func deleteStop(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	s, err := store.StopByRef(db, args.Uint("stop_id"), args.String("stop_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that stop."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(s).Error; err != nil {
		return nil, fmt.Errorf("actions: delete stop %d: %w", s.StopID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Stop '%s' deleted.", s.Name)}, nil
}

func searchStopsByName(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	query := args.String("query")
	if query == "" {
		query = args.String("stop_name")
	}
	stops, err := store.SearchStopsByName(db, query)
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return &agent.HandlerResult{Message: fmt.Sprintf("No stops match '%s'.", query)}, nil
	}
	preview := make([]string, len(stops))
	for i := range stops {
		preview[i] = stopLine(&stops[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d stops match '%s':", len(stops), query),
		Preview: preview,
	}, nil
}

func stopSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_stops",
			Description: "List all stops",
			Pages:       []string{agent.PageManageRoute},
			Handler:     listStops,
		},
		{
			Name:        "get_stop",
			Description: "Show one stop by ID or name",
			Pages:       []string{agent.PageManageRoute},
			Handler:     getStop,
		},
		{
			Name:        "create_stop",
			Description: "Create a new stop",
			Fields: []agent.FormField{
				{Key: "name", Prompt: "What should the stop be called?"},
				{Key: "latitude", Prompt: "What is the stop's latitude?", Parse: parseLatitude},
				{Key: "longitude", Prompt: "And its longitude?", Parse: parseLongitude},
			},
			Pages:   []string{agent.PageManageRoute},
			Handler: createStop,
		},
		{
			Name:        "update_stop",
			Description: "Change a stop's name or coordinates",
			Pages:       []string{agent.PageManageRoute},
			Handler:     updateStop,
		},
		{
			Name:        "delete_stop",
			Description: "Delete a stop",
			Destructive: true,
			Consequence: agent.ConsequenceDeleteStop,
			Pages:       []string{agent.PageManageRoute},
			Handler:     deleteStop,
		},
		{
			Name:        "search_stops_by_name",
			Description: "Search stops by name fragment",
			Pages:       []string{agent.PageManageRoute},
			Handler:     searchStopsByName,
		},
	}
}
