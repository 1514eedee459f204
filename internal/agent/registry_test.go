package agent

import (
	"errors"
	"testing"
)

func TestNewRegistry_RejectsBadSpecs(t *testing.T) {
	ok := &ActionSpec{Name: "list_trips", Handler: okHandler("ok", nil)}

	cases := []struct {
		name  string
		specs []*ActionSpec
	}{
		{"empty name", []*ActionSpec{{Handler: okHandler("ok", nil)}}},
		{"nil handler", []*ActionSpec{{Name: "broken"}}},
		{"duplicate", []*ActionSpec{ok, {Name: "list_trips", Handler: okHandler("ok", nil)}}},
		{"destructive without class", []*ActionSpec{
			{Name: "delete_trip", Destructive: true, Handler: okHandler("ok", nil)},
		}},
		{"destructive with unknown class", []*ActionSpec{
			{Name: "delete_trip", Destructive: true, Consequence: "no_such_check", Handler: okHandler("ok", nil)},
		}},
		{"class on non-destructive", []*ActionSpec{
			{Name: "list_trips", Consequence: ConsequenceDeleteTrip, Handler: okHandler("ok", nil)},
		}},
	}
	for _, tc := range cases {
		if _, err := NewRegistry(tc.specs...); err == nil {
			t.Errorf("%s: NewRegistry accepted an invalid spec", tc.name)
		}
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r, err := NewRegistry(&ActionSpec{Name: "list_trips", Handler: okHandler("ok", nil)})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := r.Lookup("no_such_action"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("Lookup error = %v, want ErrUnknownAction", err)
	}
}

func TestRegistry_AvailableOn(t *testing.T) {
	everywhere := &ActionSpec{Name: "list_vehicles", Handler: okHandler("ok", nil)}
	dashboardOnly := &ActionSpec{
		Name:        "remove_vehicle_from_trip",
		Destructive: true,
		Consequence: ConsequenceRemoveVehicle,
		Pages:       []string{PageBusDashboard},
		Handler:     okHandler("ok", nil),
	}
	routeOnly := &ActionSpec{
		Name:    "create_stop",
		Pages:   []string{PageManageRoute},
		Handler: okHandler("ok", nil),
	}

	r, err := NewRegistry(everywhere, dashboardOnly, routeOnly)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	names := func(specs []*ActionSpec) []string {
		out := make([]string, len(specs))
		for i, s := range specs {
			out[i] = s.Name
		}
		return out
	}

	dash := names(r.AvailableOn(PageBusDashboard))
	if len(dash) != 2 || dash[0] != "list_vehicles" || dash[1] != "remove_vehicle_from_trip" {
		t.Errorf("AvailableOn(busDashboard) = %v", dash)
	}
	route := names(r.AvailableOn(PageManageRoute))
	if len(route) != 2 || route[0] != "list_vehicles" || route[1] != "create_stop" {
		t.Errorf("AvailableOn(manageRoute) = %v", route)
	}
}
