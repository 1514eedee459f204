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

func routeLine(r *models.Route) string {
	return fmt.Sprintf("%s at %s (%s, path #%d)", r.RouteDisplayName, r.ShiftTime, r.Direction, r.PathID)
}

func listRoutes(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	routes, err := store.ListRoutes(db)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return &agent.HandlerResult{Message: "There are no routes defined yet."}, nil
	}
	preview := make([]string, len(routes))
	for i := range routes {
		preview[i] = routeLine(&routes[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d routes:", len(routes)),
		Preview: preview,
	}, nil
}

func getRoute(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	r, err := store.RouteByRef(db, args.Uint("route_id"), args.String("route_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that route."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{Message: "Here it is: " + routeLine(r)}, nil
}

func createRoute(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	pathID := args.Uint("path_id")
	if _, err := store.PathByRef(db, pathID, ""); errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: fmt.Sprintf("Path #%d doesn't exist; create the path first.", pathID)}, nil
	} else if err != nil {
		return nil, err
	}
	r := models.Route{
		PathID:           pathID,
		RouteDisplayName: args.String("route_display_name"),
		ShiftTime:        args.String("shift_time"),
		Direction:        args.String("direction"),
		Status:           "active",
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("actions: create route: %w", err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Route '%s' created: %s.", r.RouteDisplayName, routeLine(&r))}, nil
}

func updateRoute(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	r, err := store.RouteByRef(db, args.Uint("route_id"), args.String("route_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that route."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("new_name") {
		r.RouteDisplayName = args.String("new_name")
	}
	if args.Has("shift_time") {
		r.ShiftTime = args.String("shift_time")
	}
	if args.Has("direction") {
		r.Direction = args.String("direction")
	}
	if args.Has("status") {
		r.Status = args.String("status")
	}
	if err := db.Save(r).Error; err != nil {
		return nil, fmt.Errorf("actions: update route %d: %w", r.RouteID, err)
	}
	return &agent.HandlerResult{Message: "Route updated: " + routeLine(r)}, nil
}

func deleteRoute(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	r, err := store.RouteByRef(db, args.Uint("route_id"), args.String("route_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that route."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(r).Error; err != nil {
		return nil, fmt.Errorf("actions: delete route %d: %w", r.RouteID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Route '%s' deleted.", r.RouteDisplayName)}, nil
}

func filterRoutesByPath(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	p, err := store.PathByRef(db, args.Uint("path_id"), args.String("path_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that path."}, nil
	}
	if err != nil {
		return nil, err
	}
	routes, err := store.RoutesByPath(db, p.PathID)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return &agent.HandlerResult{Message: fmt.Sprintf("No routes run over '%s'.", p.PathName)}, nil
	}
	preview := make([]string, len(routes))
	for i := range routes {
		preview[i] = routeLine(&routes[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("%d routes run over '%s':", len(routes), p.PathName),
		Preview: preview,
	}, nil
}

func routeSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_routes",
			Description: "List all routes",
			Pages:       []string{agent.PageManageRoute},
			Handler:     listRoutes,
		},
		{
			Name:        "get_route",
			Description: "Show one route by ID or name",
			Pages:       []string{agent.PageManageRoute},
			Handler:     getRoute,
		},
		{
			Name:        "create_route",
			Description: "Create a route over a path",
			Fields: []agent.FormField{
				{Key: "path_id", Prompt: "Which path ID should the route run over?", Parse: parsePositiveInt},
				{Key: "shift_time", Prompt: "What shift time, as HH:MM?", Parse: parseShiftTime},
				{Key: "direction", Prompt: "Which direction: Forward, Reverse or Circular?", Parse: parseDirection},
				{Key: "route_display_name", Prompt: "What should the route be called?"},
			},
			Pages:   []string{agent.PageManageRoute},
			Handler: createRoute,
		},
		{
			Name:        "update_route",
			Description: "Change a route's name, shift time, direction or status",
			Pages:       []string{agent.PageManageRoute},
			Handler:     updateRoute,
		},
		{
			Name:        "delete_route",
			Description: "Delete a route",
			Destructive: true,
			Consequence: agent.ConsequenceDeleteRoute,
			Pages:       []string{agent.PageManageRoute},
			Handler:     deleteRoute,
		},
		{
			Name:        "filter_routes_by_path",
			Description: "List routes running over a path",
			Pages:       []string{agent.PageManageRoute},
			Handler:     filterRoutesByPath,
		},
	}
}
