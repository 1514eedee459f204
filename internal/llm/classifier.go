// Package llm abstracts the intent-classification model behind a single
// interface, with a real Gemini implementation and a deterministic
// rule-based one for tests and offline use.
package llm

import "context"

// ActionHint describes one action the classifier may pick, scoped to the
// user's current page.
type ActionHint struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ArgKeys     []string `json:"arg_keys,omitempty"`
}

// Intent is the structured result of classifying a user message.
type Intent struct {
	ActionName       string         `json:"action"`
	Args             map[string]any `json:"args"`
	RequiresMoreData bool           `json:"requires_more_data"`
}

// Classifier maps free text to an intent. One implementation is swapped in
// by configuration; there are no per-provider code paths elsewhere.
type Classifier interface {
	ClassifyIntent(ctx context.Context, text, page string, actions []ActionHint) (*Intent, error)
}
