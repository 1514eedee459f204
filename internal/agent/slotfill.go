package agent

import "strings"

// Cancel keywords abort a slot-filling flow at any field. Matched on whole
// tokens, so a stop named "Stopgap" in surrounding text doesn't trigger.
var cancelKeywords = map[string]struct{}{
	"cancel": {}, "stop": {}, "nevermind": {}, "abort": {},
}

// IsCancellation reports whether the user's reply contains a cancel keyword.
func IsCancellation(text string) bool {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?")
		if _, ok := cancelKeywords[tok]; ok {
			return true
		}
	}
	return false
}

// NextMissing returns the first required field, in declared order, absent
// from collected. Nil means the argument set is complete.
func NextMissing(spec *ActionSpec, collected Args) *FormField {
	for i := range spec.Fields {
		if !collected.Has(spec.Fields[i].Key) {
			return &spec.Fields[i]
		}
	}
	return nil
}

// StartSlotFill opens a collection flow for spec, seeded with whatever
// arguments the classifier already extracted.
func StartSlotFill(spec *ActionSpec, seed Args) *SlotFillState {
	collected := Args{}
	if seed != nil {
		collected = seed.Clone()
	}
	return &SlotFillState{
		ActionName: spec.Name,
		Collected:  collected,
	}
}

// ApplyReply assigns the user's raw reply to the current field. On parse
// failure the same field is re-prompted with a clarifying message and done
// is false; on success done reports whether the form is now complete.
func ApplyReply(state *SlotFillState, spec *ActionSpec, text string) (reprompt string, done bool) {
	field := NextMissing(spec, state.Collected)
	if field == nil {
		return "", true
	}

	value := any(strings.TrimSpace(text))
	if field.Parse != nil {
		parsed, err := field.Parse(strings.TrimSpace(text))
		if err != nil {
			return "That doesn't look right (" + err.Error() + "). " + field.Prompt, false
		}
		value = parsed
	}
	state.Collected[field.Key] = value

	if next := NextMissing(spec, state.Collected); next != nil {
		return next.Prompt, false
	}
	return "", true
}
