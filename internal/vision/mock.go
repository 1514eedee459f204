package vision

import "context"

// MockExtractor returns a fixed extraction, for tests and offline use.
type MockExtractor struct {
	// EntityName is returned for every image. Empty means "nothing
	// recognized".
	EntityName string
	// Err, when set, is returned instead.
	Err error
}

// NewMockExtractor creates a mock that always sees the given trip.
func NewMockExtractor(entityName string) *MockExtractor {
	return &MockExtractor{EntityName: entityName}
}

// ExtractTrip returns the configured extraction regardless of the image.
func (m *MockExtractor) ExtractTrip(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	_, _, _ = ctx, image, mimeType
	if m.Err != nil {
		return nil, m.Err
	}
	return &Extraction{EntityName: m.EntityName, Confidence: 1}, nil
}
