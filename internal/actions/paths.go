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

func pathLine(p *models.Path) string {
	return fmt.Sprintf("%s (#%d, %d stops)", p.PathName, p.PathID, len(p.StopIDs()))
}

func listPaths(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	paths, err := store.ListPaths(db)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return &agent.HandlerResult{Message: "There are no paths defined yet."}, nil
	}
	preview := make([]string, len(paths))
	for i := range paths {
		preview[i] = pathLine(&paths[i])
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("There are %d paths:", len(paths)),
		Preview: preview,
	}, nil
}

func getPath(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	p, err := store.PathByRef(db, args.Uint("path_id"), args.String("path_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that path."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("Here it is: %s, stop order %v.", pathLine(p), p.StopIDs()),
	}, nil
}

func createPath(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	ids := args.UintSlice("ordered_list_of_stop_ids")
	if len(ids) < 2 {
		return &agent.HandlerResult{Message: "A path needs at least two stop IDs, in travel order."}, nil
	}
	p := models.Path{PathName: args.String("path_name"), IsActive: true}
	if err := p.SetStopIDs(ids); err != nil {
		return nil, fmt.Errorf("actions: encode stop ids: %w", err)
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("actions: create path: %w", err)
	}
	return &agent.HandlerResult{
		Message: fmt.Sprintf("Path '%s' created as #%d with %d stops.", p.PathName, p.PathID, len(ids)),
	}, nil
}

func updatePath(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	p, err := store.PathByRef(db, args.Uint("path_id"), args.String("path_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that path."}, nil
	}
	if err != nil {
		return nil, err
	}
	if args.Has("new_name") {
		p.PathName = args.String("new_name")
	}
	if ids := args.UintSlice("ordered_list_of_stop_ids"); len(ids) >= 2 {
		if err := p.SetStopIDs(ids); err != nil {
			return nil, fmt.Errorf("actions: encode stop ids: %w", err)
		}
	}
	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("actions: update path %d: %w", p.PathID, err)
	}
	return &agent.HandlerResult{Message: "Path updated: " + pathLine(p)}, nil
}

func deletePath(ctx context.Context, db *gorm.DB, args agent.Args) (*agent.HandlerResult, error) {
	p, err := store.PathByRef(db, args.Uint("path_id"), args.String("path_name"))
	if errors.Is(err, store.ErrNotFound) {
		return &agent.HandlerResult{Message: "I couldn't find that path."}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.Delete(p).Error; err != nil {
		return nil, fmt.Errorf("actions: delete path %d: %w", p.PathID, err)
	}
	return &agent.HandlerResult{Message: fmt.Sprintf("Path '%s' deleted.", p.PathName)}, nil
}

func pathSpecs() []*agent.ActionSpec {
	return []*agent.ActionSpec{
		{
			Name:        "list_paths",
			Description: "List all paths",
			Pages:       []string{agent.PageManageRoute},
			Handler:     listPaths,
		},
		{
			Name:        "get_path",
			Description: "Show one path with its stop order",
			Pages:       []string{agent.PageManageRoute},
			Handler:     getPath,
		},
		{
			Name:        "create_path",
			Description: "Create a path from an ordered list of stops",
			Fields: []agent.FormField{
				{Key: "path_name", Prompt: "What should the path be called?"},
				{Key: "ordered_list_of_stop_ids", Prompt: "List the stop IDs in travel order (e.g. 3, 1, 7).", Parse: parseStopIDs},
			},
			Pages:   []string{agent.PageManageRoute},
			Handler: createPath,
		},
		{
			Name:        "update_path",
			Description: "Change a path's name or stop order",
			Pages:       []string{agent.PageManageRoute},
			Handler:     updatePath,
		},
		{
			Name:        "delete_path",
			Description: "Delete a path",
			Destructive: true,
			Consequence: agent.ConsequenceDeletePath,
			Pages:       []string{agent.PageManageRoute},
			Handler:     deletePath,
		},
	}
}
