// Package vision resolves screenshots into the trip the user is looking
// at, so that messages like "remove the vehicle from this trip" can be
// grounded without the user naming the trip.
package vision

import "context"

// Extraction is what the model read off a dashboard screenshot.
type Extraction struct {
	// EntityName is the trip display name visible in the screenshot, e.g.
	// "Bulk - 00:01". Empty when nothing recognizable was found.
	EntityName string `json:"entity_name"`
	// DetectedAction is the model's guess at what the user is doing in the
	// screenshot, advisory only.
	DetectedAction string `json:"detected_action,omitempty"`
	// Confidence is the model's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Extractor reads an image and names the trip it shows.
type Extractor interface {
	ExtractTrip(ctx context.Context, image []byte, mimeType string) (*Extraction, error)
}
