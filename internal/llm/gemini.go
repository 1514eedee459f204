package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClassifier classifies intents with the Gemini API in JSON response
// mode.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

const classifySystemPrompt = `You are Movi, a transport management assistant.
Map the user's message to exactly one of the available actions and extract
its arguments. Reply with JSON only, shaped as:
{"action": "<action name>", "args": {...}, "requires_more_data": <bool>}
Use "unknown" as the action when nothing fits. Argument values you cannot
find must be omitted, not invented. Set requires_more_data to true when a
create-style action is missing required arguments.`

// ClassifyIntent sends the message plus the page-scoped action catalog to
// Gemini and decodes its JSON reply.
func (g *GeminiClassifier) ClassifyIntent(ctx context.Context, text, page string, actions []ActionHint) (*Intent, error) {
	catalog, err := json.Marshal(actions)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal action catalog: %w", err)
	}

	prompt := fmt.Sprintf("Current page: %s\nAvailable actions: %s\nUser message: %s", page, catalog, text)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(classifySystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: gemini classify: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, fmt.Errorf("llm: decode gemini reply %q: %w", raw, err)
	}
	if intent.ActionName == "" {
		intent.ActionName = "unknown"
	}
	if intent.Args == nil {
		intent.Args = map[string]any{}
	}
	return &intent, nil
}
