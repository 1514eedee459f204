package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/moviops/conductor/internal/config"
)

// New creates the classifier selected by configuration. Provider "mock"
// needs no credentials; "gemini" reads its API key from the configured
// environment variable.
func New(ctx context.Context, cfg config.LLMConfig) (Classifier, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockClassifier(), nil
	case "gemini":
		apiKey := os.Getenv(cfg.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("llm: %s is not set", cfg.APIKeyEnv)
		}
		return NewGeminiClassifier(ctx, apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
}
