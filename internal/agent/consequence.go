package agent

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/moviops/conductor/internal/store"
	"gorm.io/gorm"
)

// ConsequenceClass selects which impact check runs before a destructive
// action.
type ConsequenceClass string

const (
	ConsequenceNone          ConsequenceClass = ""
	ConsequenceRemoveVehicle ConsequenceClass = "remove_vehicle"
	ConsequenceRemoveDriver  ConsequenceClass = "remove_driver"
	ConsequenceCancelTrip    ConsequenceClass = "cancel_trip"
	ConsequenceDeleteTrip    ConsequenceClass = "delete_trip"
	ConsequenceDeleteRoute   ConsequenceClass = "delete_route"
	ConsequenceDeleteStop    ConsequenceClass = "delete_stop"
	ConsequenceDeletePath    ConsequenceClass = "delete_path"
)

// knownConsequenceClass reports whether the evaluator has a branch for the
// class. The registry refuses destructive actions outside this set.
func knownConsequenceClass(class ConsequenceClass) bool {
	switch class {
	case ConsequenceRemoveVehicle, ConsequenceRemoveDriver, ConsequenceCancelTrip,
		ConsequenceDeleteTrip, ConsequenceDeleteRoute, ConsequenceDeleteStop, ConsequenceDeletePath:
		return true
	}
	return false
}

// removalWarning is the product-mandated phrasing for pulling a vehicle or
// driver off a booked trip. The vehicle variant is a verbatim contract.
const removalWarning = "I can remove the %s. However, please be aware the '%s' trip is already %s%% booked by employees. Removing the %s will cancel these bookings and a trip-sheet will fail to generate. Do you want to proceed?"

// Evaluator computes the real-world impact of a destructive action. Every
// call re-queries current state; bookings can change between turns, so
// verdicts are never cached.
type Evaluator struct {
	db *gorm.DB
}

// NewEvaluator creates a consequence evaluator over the transport schema.
func NewEvaluator(db *gorm.DB) (*Evaluator, error) {
	if db == nil {
		return nil, fmt.Errorf("agent: evaluator: db is required")
	}
	return &Evaluator{db: db}, nil
}

// Evaluate returns the verdict for a destructive action. A lookup failure or
// query error fails open: the action is reported safe and the error is
// logged, never shown to the user.
func (e *Evaluator) Evaluate(ctx context.Context, spec *ActionSpec, args Args) *Verdict {
	db := e.db.WithContext(ctx)

	var (
		verdict *Verdict
		err     error
	)
	switch spec.Consequence {
	case ConsequenceRemoveVehicle:
		verdict, err = e.checkRemoval(db, args, "vehicle")
	case ConsequenceRemoveDriver:
		verdict, err = e.checkRemoval(db, args, "driver")
	case ConsequenceCancelTrip:
		verdict, err = e.checkTripImpact(db, args, "cancel")
	case ConsequenceDeleteTrip:
		verdict, err = e.checkTripImpact(db, args, "delete")
	case ConsequenceDeleteRoute:
		verdict, err = e.checkRouteDeletion(db, args)
	case ConsequenceDeleteStop:
		verdict, err = e.checkStopDeletion(db, args)
	case ConsequenceDeletePath:
		verdict, err = e.checkPathDeletion(db, args)
	default:
		return &Verdict{Severity: SeverityNone}
	}

	if err != nil {
		log.Printf("agent: consequence check for %s failed, proceeding as safe: %v", spec.Name, err)
		return &Verdict{Severity: SeverityNone}
	}
	return verdict
}

// checkRemoval warns when the target trip carries bookings. Zero bookings is
// explicitly safe.
func (e *Evaluator) checkRemoval(db *gorm.DB, args Args, noun string) (*Verdict, error) {
	trip, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if err != nil {
		return nil, err
	}
	if trip.BookingStatusPercentage > 0 || trip.TotalBookings > 0 {
		return &Verdict{
			HasConsequences: true,
			Severity:        SeverityHigh,
			Narrative: fmt.Sprintf(removalWarning,
				noun, trip.DisplayName, formatPercent(trip.BookingStatusPercentage), noun),
			AffectedCount: trip.TotalBookings,
		}, nil
	}
	return &Verdict{Severity: SeverityNone}, nil
}

// checkTripImpact warns before cancelling or deleting a booked trip.
func (e *Evaluator) checkTripImpact(db *gorm.DB, args Args, verb string) (*Verdict, error) {
	trip, err := store.TripByRef(db, args.Uint("trip_id"), args.String("trip_name"))
	if err != nil {
		return nil, err
	}
	if trip.BookingStatusPercentage > 0 || trip.TotalBookings > 0 {
		gerund := "Cancelling"
		if verb == "delete" {
			gerund = "Deleting"
		}
		return &Verdict{
			HasConsequences: true,
			Severity:        SeverityHigh,
			Narrative: fmt.Sprintf(
				"I can %s the trip. However, please be aware the '%s' trip is already %s%% booked by employees (%d bookings). %s it will impact these bookings. Do you want to proceed?",
				verb, trip.DisplayName, formatPercent(trip.BookingStatusPercentage), trip.TotalBookings, gerund),
			AffectedCount: trip.TotalBookings,
		}, nil
	}
	return &Verdict{Severity: SeverityNone}, nil
}

// checkRouteDeletion warns when a route still has active or booked trips.
func (e *Evaluator) checkRouteDeletion(db *gorm.DB, args Args) (*Verdict, error) {
	route, err := store.RouteByRef(db, args.Uint("route_id"), args.String("route_name"))
	if err != nil {
		return nil, err
	}
	impact, err := store.RouteImpactByID(db, route.RouteID)
	if err != nil {
		return nil, err
	}
	if impact.ActiveTrips > 0 || impact.TripsWithBooking > 0 {
		return &Verdict{
			HasConsequences: true,
			Severity:        SeverityMedium,
			Narrative: fmt.Sprintf(
				"I can delete the route '%s'. However, this route has %d active trips and %d trips with bookings. Deleting this route will affect these trips. Do you want to proceed?",
				route.RouteDisplayName, impact.ActiveTrips, impact.TripsWithBooking),
			AffectedCount: impact.ActiveTrips + impact.TripsWithBooking,
		}, nil
	}
	return &Verdict{Severity: SeverityNone}, nil
}

// checkStopDeletion warns when a stop is still part of any path.
func (e *Evaluator) checkStopDeletion(db *gorm.DB, args Args) (*Verdict, error) {
	stop, err := store.StopByRef(db, args.Uint("stop_id"), args.String("stop_name"))
	if err != nil {
		return nil, err
	}
	count, err := store.PathCountContainingStop(db, stop.StopID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &Verdict{
			HasConsequences: true,
			Severity:        SeverityMedium,
			Narrative: fmt.Sprintf(
				"I can delete the stop '%s'. However, this stop is part of %d active paths. Deleting this stop will affect these paths. Do you want to proceed?",
				stop.Name, count),
			AffectedCount: count,
		}, nil
	}
	return &Verdict{Severity: SeverityNone}, nil
}

// checkPathDeletion warns when a path is still used by any route.
func (e *Evaluator) checkPathDeletion(db *gorm.DB, args Args) (*Verdict, error) {
	path, err := store.PathByRef(db, args.Uint("path_id"), args.String("path_name"))
	if err != nil {
		return nil, err
	}
	count, err := store.RouteCountByPath(db, path.PathID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &Verdict{
			HasConsequences: true,
			Severity:        SeverityMedium,
			Narrative: fmt.Sprintf(
				"I can delete the path '%s'. However, this path is used by %d routes. Deleting this path will affect these routes. Do you want to proceed?",
				path.PathName, count),
			AffectedCount: count,
		}, nil
	}
	return &Verdict{Severity: SeverityNone}, nil
}

// formatPercent renders a booking percentage without a trailing ".0".
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
