package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiExtractor reads screenshots with the Gemini API in JSON response
// mode.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates a screenshot extractor backed by the Gemini
// API.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision: gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("vision: create gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

const extractSystemPrompt = `You read screenshots of a transport operations
dashboard. Identify the trip card the user has open or selected. Reply with
JSON only, shaped as:
{"entity_name": "<trip display name>", "detected_action": "<what the user appears to be doing>", "confidence": <0..1>}
Leave entity_name empty if no trip is identifiable.`

// ExtractTrip sends the screenshot to Gemini and decodes the JSON reply.
func (g *GeminiExtractor) ExtractTrip(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("vision: empty image")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	parts := []*genai.Part{
		genai.NewPartFromText("Which trip is shown in this screenshot?"),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(extractSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("vision: gemini extract: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	var ex Extraction
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("vision: decode gemini reply %q: %w", raw, err)
	}
	return &ex, nil
}
