package agent

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrUnknownAction is returned by Registry.Lookup for names the registry
// does not know. Surfaced to the user as a friendly message, never fatal.
var ErrUnknownAction = errors.New("agent: unknown action")

// HandlerResult is what an action handler returns on success. Preview lines
// are truncated by the executor before display.
type HandlerResult struct {
	Message string
	Preview []string
}

// HandlerFunc performs an action against the data layer.
type HandlerFunc func(ctx context.Context, db *gorm.DB, args Args) (*HandlerResult, error)

// FormField is one required argument of an action, collected during
// slot-filling when the classifier didn't supply it. Parse, when set,
// validates and converts the user's raw reply; a parse error re-prompts the
// same field.
type FormField struct {
	Key    string
	Prompt string
	Parse  func(string) (any, error)
}

// ActionSpec is a registry entry: what the action needs, whether it is
// destructive, and how to run it.
type ActionSpec struct {
	Name        string
	Description string
	Destructive bool
	Consequence ConsequenceClass // required when Destructive
	Fields      []FormField      // ordered required fields; enables slot-filling
	Pages       []string         // pages where available; empty means all
	Handler     HandlerFunc
}

// AvailableOn reports whether the action is usable on the given page.
func (s *ActionSpec) AvailableOn(page string) bool {
	if len(s.Pages) == 0 {
		return true
	}
	for _, p := range s.Pages {
		if p == page {
			return true
		}
	}
	return false
}

// Registry maps action names to their specs. Built once at startup.
type Registry struct {
	specs map[string]*ActionSpec
	order []string
}

// NewRegistry builds a registry from the given specs. It fails when a spec
// is incomplete or when a destructive action carries no consequence class
// the evaluator knows — that check keeps a newly added destructive action
// from silently skipping the safety gate.
func NewRegistry(specs ...*ActionSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*ActionSpec, len(specs))}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("agent: registry: spec with empty name")
		}
		if spec.Handler == nil {
			return nil, fmt.Errorf("agent: registry: action %q has no handler", spec.Name)
		}
		if _, dup := r.specs[spec.Name]; dup {
			return nil, fmt.Errorf("agent: registry: action %q registered twice", spec.Name)
		}
		if spec.Destructive && !knownConsequenceClass(spec.Consequence) {
			return nil, fmt.Errorf("agent: registry: destructive action %q has no consequence class", spec.Name)
		}
		if !spec.Destructive && spec.Consequence != ConsequenceNone {
			return nil, fmt.Errorf("agent: registry: action %q has a consequence class but is not destructive", spec.Name)
		}
		r.specs[spec.Name] = spec
		r.order = append(r.order, spec.Name)
	}
	return r, nil
}

// Lookup returns the spec for name or ErrUnknownAction.
func (r *Registry) Lookup(name string) (*ActionSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return spec, nil
}

// Specs returns all specs in registration order.
func (r *Registry) Specs() []*ActionSpec {
	out := make([]*ActionSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// AvailableOn returns the specs usable on the given page, in registration
// order.
func (r *Registry) AvailableOn(page string) []*ActionSpec {
	var out []*ActionSpec
	for _, name := range r.order {
		if spec := r.specs[name]; spec.AvailableOn(page) {
			out = append(out, spec)
		}
	}
	return out
}
