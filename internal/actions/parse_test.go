package actions

import "testing"

func TestParsePositiveInt(t *testing.T) {
	if v, err := parsePositiveInt(" 40 "); err != nil || v.(int) != 40 {
		t.Errorf("parsePositiveInt(40) = %v, %v", v, err)
	}
	for _, bad := range []string{"forty", "0", "-3", "4.5", ""} {
		if _, err := parsePositiveInt(bad); err == nil {
			t.Errorf("parsePositiveInt(%q) accepted", bad)
		}
	}
}

func TestParseCoordinates(t *testing.T) {
	if v, err := parseLatitude("12.9716"); err != nil || v.(float64) != 12.9716 {
		t.Errorf("parseLatitude = %v, %v", v, err)
	}
	if _, err := parseLatitude("91"); err == nil {
		t.Error("latitude 91 accepted")
	}
	if v, err := parseLongitude("-77.59"); err != nil || v.(float64) != -77.59 {
		t.Errorf("parseLongitude = %v, %v", v, err)
	}
	if _, err := parseLongitude("200"); err == nil {
		t.Error("longitude 200 accepted")
	}
}

func TestParseStopIDs(t *testing.T) {
	v, err := parseStopIDs("3, 1, 7")
	if err != nil {
		t.Fatalf("parseStopIDs: %v", err)
	}
	ids := v.([]uint)
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 7 {
		t.Errorf("ids = %v, want [3 1 7] in order", ids)
	}

	if _, err := parseStopIDs("5"); err == nil {
		t.Error("single stop accepted; a path needs two")
	}
	if _, err := parseStopIDs("3, depot"); err == nil {
		t.Error("non-numeric stop ID accepted")
	}
}

func TestParseShiftTime(t *testing.T) {
	if v, err := parseShiftTime("8:30"); err != nil || v.(string) != "08:30" {
		t.Errorf("parseShiftTime(8:30) = %v, %v", v, err)
	}
	for _, bad := range []string{"25:00", "08:60", "0830", "morning"} {
		if _, err := parseShiftTime(bad); err == nil {
			t.Errorf("parseShiftTime(%q) accepted", bad)
		}
	}
}

func TestParseVehicleType(t *testing.T) {
	if v, _ := parseVehicleType("bus"); v != "Bus" {
		t.Errorf("parseVehicleType(bus) = %v", v)
	}
	if v, _ := parseVehicleType("CAB"); v != "Cab" {
		t.Errorf("parseVehicleType(CAB) = %v", v)
	}
	if _, err := parseVehicleType("van"); err == nil {
		t.Error("van accepted as vehicle type")
	}
}

func TestParseDirection(t *testing.T) {
	if v, _ := parseDirection("forward"); v != "Forward" {
		t.Errorf("parseDirection(forward) = %v", v)
	}
	if _, err := parseDirection("sideways"); err == nil {
		t.Error("sideways accepted as direction")
	}
}
