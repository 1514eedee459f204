package agent

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moviops/conductor/internal/llm"
	"github.com/moviops/conductor/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Stop{}, &models.Path{}, &models.Route{}, &models.Trip{},
		&models.Vehicle{}, &models.Driver{}, &models.Deployment{},
		&models.SessionRecord{}, &models.SessionTurn{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedTrip(t *testing.T, db *gorm.DB, name string, pct float64, bookings int) *models.Trip {
	t.Helper()
	trip := models.Trip{
		RouteID:                 1,
		DisplayName:             name,
		Status:                  models.TripScheduled,
		BookingStatusPercentage: pct,
		TotalBookings:           bookings,
	}
	if err := db.Create(&trip).Error; err != nil {
		t.Fatalf("seed trip %s: %v", name, err)
	}
	return &trip
}

// scriptedClassifier returns queued intents in order, for driving the state
// machine without a model.
type scriptedClassifier struct {
	intents []*llm.Intent
	calls   int
}

func (c *scriptedClassifier) ClassifyIntent(ctx context.Context, text, page string, actions []llm.ActionHint) (*llm.Intent, error) {
	if c.calls >= len(c.intents) {
		return &llm.Intent{ActionName: "unknown", Args: map[string]any{}}, nil
	}
	intent := c.intents[c.calls]
	c.calls++
	return intent, nil
}

// okHandler returns a fixed success message and records that it ran.
func okHandler(message string, ran *int) HandlerFunc {
	return func(ctx context.Context, db *gorm.DB, args Args) (*HandlerResult, error) {
		if ran != nil {
			*ran++
		}
		return &HandlerResult{Message: message}, nil
	}
}
