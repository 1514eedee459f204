// Package actions defines the chat-invocable action catalog: one
// agent.ActionSpec per operation, with page scoping, slot-fill forms for the
// create flows, and handlers bound to the store.
package actions

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePositiveInt parses a strictly positive integer, for capacities and
// numeric IDs collected over chat.
func parsePositiveInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("expected a whole number")
	}
	if n <= 0 {
		return nil, fmt.Errorf("expected a positive number")
	}
	return n, nil
}

func parseLatitude(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("expected a decimal number")
	}
	if f < -90 || f > 90 {
		return nil, fmt.Errorf("latitude must be between -90 and 90")
	}
	return f, nil
}

func parseLongitude(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("expected a decimal number")
	}
	if f < -180 || f > 180 {
		return nil, fmt.Errorf("longitude must be between -180 and 180")
	}
	return f, nil
}

// parseStopIDs parses a comma- or space-separated ordered list of stop IDs.
// A path needs at least two stops.
func parseStopIDs(s string) (any, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	ids := make([]uint, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected stop IDs like 3, 1, 7")
		}
		ids = append(ids, uint(n))
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("a path needs at least two stops")
	}
	return ids, nil
}

// parseShiftTime validates a 24-hour HH:MM time.
func parseShiftTime(s string) (any, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected a time like 08:30")
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return nil, fmt.Errorf("expected a 24-hour time like 08:30")
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// parseVehicleType accepts Bus or Cab, case-insensitively.
func parseVehicleType(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bus":
		return "Bus", nil
	case "cab":
		return "Cab", nil
	default:
		return nil, fmt.Errorf("vehicle type must be Bus or Cab")
	}
}

// parseDirection accepts the three route directions, case-insensitively.
func parseDirection(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return "Forward", nil
	case "reverse":
		return "Reverse", nil
	case "circular":
		return "Circular", nil
	default:
		return nil, fmt.Errorf("direction must be Forward, Reverse or Circular")
	}
}
