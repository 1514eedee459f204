package agent

import "strings"

// Decision is the interpretation of a free-text confirmation reply.
type Decision int

const (
	DecisionUnclear Decision = iota
	DecisionAffirm
	DecisionDeny
)

// String renders the decision for logs.
func (d Decision) String() string {
	switch d {
	case DecisionAffirm:
		return "affirm"
	case DecisionDeny:
		return "deny"
	default:
		return "unclear"
	}
}

// Fixed confirmation vocabulary. Matching is exact on the normalized whole
// phrase: substring matching would misread a trip named "Nope Street" as a
// denial.
var affirmPhrases = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {},
	"okay": {}, "confirm": {}, "proceed": {}, "go ahead": {}, "do it": {},
}

var denyPhrases = map[string]struct{}{
	"no": {}, "n": {}, "nope": {}, "cancel": {}, "stop": {},
	"don't": {}, "abort": {}, "never": {},
}

// ClassifyConfirmation interprets a user reply to a pending confirmation
// question. Unclear triggers a re-prompt with the same narrative.
func ClassifyConfirmation(text string) Decision {
	phrase := normalizePhrase(text)
	if _, ok := affirmPhrases[phrase]; ok {
		return DecisionAffirm
	}
	if _, ok := denyPhrases[phrase]; ok {
		return DecisionDeny
	}
	return DecisionUnclear
}

// normalizePhrase lowercases, collapses whitespace and trims surrounding
// punctuation. Inner punctuation is kept, so "nope, thanks" stays distinct
// from "nope".
func normalizePhrase(text string) string {
	phrase := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return strings.Trim(phrase, ".,!? ")
}
