package vision

import (
	"context"
	"fmt"
	"os"

	"github.com/moviops/conductor/internal/config"
)

// New creates the extractor selected by configuration. Provider "mock"
// recognizes nothing; "gemini" reads its API key from the configured
// environment variable.
func New(ctx context.Context, cfg config.VisionConfig) (Extractor, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockExtractor(""), nil
	case "gemini":
		apiKey := os.Getenv(cfg.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("vision: %s is not set", cfg.APIKeyEnv)
		}
		return NewGeminiExtractor(ctx, apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("vision: unsupported provider %q", cfg.Provider)
	}
}
