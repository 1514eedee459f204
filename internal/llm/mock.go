package llm

import (
	"context"
	"regexp"
	"strings"
)

// MockClassifier is a deterministic rule-based classifier. It keeps tests
// and the offline chat mode independent of any external model.
type MockClassifier struct{}

// NewMockClassifier creates the rule-based classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

var quotedName = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)

// extractQuoted pulls the first single- or double-quoted phrase out of the
// message, which is how entity names arrive in chat.
func extractQuoted(text string) string {
	m := quotedName.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

type mockRule struct {
	action  string
	argKey  string
	matches func(string) bool
}

func containsAll(text string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

var mockRules = []mockRule{
	// "unassigned" contains "unassign", so the list rules sit above the
	// removal rules.
	{"get_unassigned_vehicles", "", func(t string) bool {
		return containsAll(t, "unassigned", "vehicle")
	}},
	{"get_available_drivers", "", func(t string) bool {
		return containsAll(t, "available", "driver")
	}},
	{"remove_vehicle_from_trip", "trip_name", func(t string) bool {
		return containsAny(t, "remove", "unassign", "take off") && strings.Contains(t, "vehicle")
	}},
	{"remove_driver_from_trip", "trip_name", func(t string) bool {
		return containsAny(t, "remove", "unassign") && strings.Contains(t, "driver")
	}},
	{"cancel_trip", "trip_name", func(t string) bool {
		return strings.Contains(t, "cancel") && strings.Contains(t, "trip")
	}},
	{"delete_trip", "trip_name", func(t string) bool {
		return containsAny(t, "delete", "drop") && strings.Contains(t, "trip")
	}},
	{"delete_route", "route_name", func(t string) bool {
		return containsAny(t, "delete", "remove") && strings.Contains(t, "route")
	}},
	{"delete_stop", "stop_name", func(t string) bool {
		return containsAny(t, "delete", "remove") && strings.Contains(t, "stop")
	}},
	{"delete_path", "path_name", func(t string) bool {
		return containsAny(t, "delete", "remove") && strings.Contains(t, "path")
	}},
	{"assign_vehicle_to_trip", "trip_name", func(t string) bool {
		return strings.Contains(t, "assign") && strings.Contains(t, "vehicle")
	}},
	{"assign_driver_to_trip", "trip_name", func(t string) bool {
		return strings.Contains(t, "assign") && strings.Contains(t, "driver")
	}},
	{"create_vehicle", "", func(t string) bool {
		return containsAny(t, "create", "add", "register", "new") && strings.Contains(t, "vehicle")
	}},
	{"create_driver", "", func(t string) bool {
		return containsAny(t, "create", "add", "onboard", "new") && strings.Contains(t, "driver")
	}},
	{"create_stop", "", func(t string) bool {
		return containsAny(t, "create", "add", "new") && strings.Contains(t, "stop")
	}},
	{"create_path", "", func(t string) bool {
		return containsAny(t, "create", "add", "new") && strings.Contains(t, "path")
	}},
	{"create_route", "", func(t string) bool {
		return containsAny(t, "create", "add", "new") && strings.Contains(t, "route")
	}},
	{"create_trip", "", func(t string) bool {
		return containsAny(t, "create", "add", "schedule", "new") && strings.Contains(t, "trip")
	}},
	{"list_vehicles", "", func(t string) bool {
		return containsAny(t, "list", "show", "what") && strings.Contains(t, "vehicle")
	}},
	{"list_drivers", "", func(t string) bool {
		return containsAny(t, "list", "show", "who") && strings.Contains(t, "driver")
	}},
	{"list_trips", "", func(t string) bool {
		return containsAny(t, "list", "show") && strings.Contains(t, "trip")
	}},
	{"list_routes", "", func(t string) bool {
		return containsAny(t, "list", "show") && strings.Contains(t, "route")
	}},
	{"list_stops", "", func(t string) bool {
		return containsAny(t, "list", "show") && strings.Contains(t, "stop")
	}},
	{"list_paths", "", func(t string) bool {
		return containsAny(t, "list", "show") && strings.Contains(t, "path")
	}},
}

// ClassifyIntent matches the message against the rule table. Create-style
// actions classify with empty args so the caller starts slot-filling.
func (m *MockClassifier) ClassifyIntent(ctx context.Context, text, page string, actions []ActionHint) (*Intent, error) {
	// The rule table ignores page and actions: the state machine owns the
	// page-availability refusal, so the mock always reports the real intent.
	_, _, _ = ctx, page, actions

	lower := strings.ToLower(text)
	for _, rule := range mockRules {
		if !rule.matches(lower) {
			continue
		}
		args := map[string]any{}
		if rule.argKey != "" {
			if name := extractQuoted(text); name != "" {
				args[rule.argKey] = name
			}
		}
		return &Intent{
			ActionName:       rule.action,
			Args:             args,
			RequiresMoreData: strings.HasPrefix(rule.action, "create_"),
		}, nil
	}
	return &Intent{ActionName: "unknown", Args: map[string]any{}}, nil
}
