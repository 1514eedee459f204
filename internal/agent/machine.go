package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moviops/conductor/internal/llm"
	"github.com/moviops/conductor/internal/vision"
)

// Canned replies of the pipeline. Fixed strings so surfaces and tests agree
// on the exact wording.
const (
	replyCancelled       = "Action cancelled. How can I help you?"
	replyFormCancelled   = "Form entry cancelled. Let me know if you'd like to start again."
	replyUnknownAction   = "Sorry, I don't know how to do that."
	replyClassifyFailure = "I had trouble understanding that, please try again."
	replyWrongPage       = "That action isn't available on this page. Switch to the right page and ask again."
)

// TurnInput is one user message entering the pipeline.
type TurnInput struct {
	SessionID   string
	Text        string
	CurrentPage string
	Image       []byte // optional screenshot
	ImageMIME   string
}

// TurnOutput is the assistant's reply for one turn.
type TurnOutput struct {
	SessionID            string
	ResponseText         string
	AwaitingConfirmation bool
}

// MachineOpts configures a Machine.
type MachineOpts struct {
	DB         *gorm.DB
	Registry   *Registry
	Sessions   Store
	Classifier llm.Classifier
	Vision     vision.Extractor // optional; screenshots degrade to text-only without it
}

// Machine is the conversational action state machine. Per session it is
// strictly sequential: classify, check consequences, confirm, execute, with
// slot-filling interleaved when arguments are missing.
type Machine struct {
	db         *gorm.DB
	registry   *Registry
	sessions   Store
	classifier llm.Classifier
	vision     vision.Extractor
	evaluator  *Evaluator
	executor   *Executor
}

// NewMachine creates the state machine.
func NewMachine(opts MachineOpts) (*Machine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("agent: machine: db is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("agent: machine: registry is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("agent: machine: session store is required")
	}
	if opts.Classifier == nil {
		return nil, fmt.Errorf("agent: machine: classifier is required")
	}
	evaluator, err := NewEvaluator(opts.DB)
	if err != nil {
		return nil, err
	}
	executor, err := NewExecutor(opts.DB)
	if err != nil {
		return nil, err
	}
	return &Machine{
		db:         opts.DB,
		registry:   opts.Registry,
		sessions:   opts.Sessions,
		classifier: opts.Classifier,
		vision:     opts.Vision,
		evaluator:  evaluator,
		executor:   executor,
	}, nil
}

// HandleTurn runs one user message through the pipeline and returns the
// reply. The session is loaded (or created), mutated, and saved exactly
// once per turn.
func (m *Machine) HandleTurn(ctx context.Context, in TurnInput) (*TurnOutput, error) {
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}

	sess, err := m.sessions.Load(in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("agent: load session %s: %w", in.SessionID, err)
	}
	if sess == nil {
		sess = NewSession(in.SessionID, in.CurrentPage)
	}

	// A page switch invalidates anything parked mid-flow: a confirmation
	// asked on one page must never fire an action from another.
	if in.CurrentPage != "" && in.CurrentPage != sess.CurrentPage {
		sess.ResetTransient()
		sess.CurrentPage = in.CurrentPage
	}

	reply := m.advance(ctx, sess, in)

	sess.Append("user", in.Text)
	sess.Append("assistant", reply)
	sess.Touch()
	if err := m.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("agent: save session %s: %w", sess.ID, err)
	}

	return &TurnOutput{
		SessionID:            sess.ID,
		ResponseText:         reply,
		AwaitingConfirmation: sess.AwaitingConfirmation(),
	}, nil
}

// advance dispatches on the session's current phase.
func (m *Machine) advance(ctx context.Context, sess *Session, in TurnInput) string {
	if sess.AwaitingConfirmation() {
		return m.resolveConfirmation(ctx, sess, in.Text)
	}
	if sess.SlotFill != nil {
		return m.continueSlotFill(ctx, sess, in.Text)
	}
	return m.classifyAndAct(ctx, sess, in)
}

// resolveConfirmation interprets the reply to a pending confirmation
// question. Only an exact affirmation fires the action; a denial discards
// it; anything else re-asks with the same narrative.
func (m *Machine) resolveConfirmation(ctx context.Context, sess *Session, text string) string {
	spec, err := m.registry.Lookup(sess.Pending.ActionName)
	if err != nil {
		// Pending action vanished from the registry (restart with a changed
		// catalog). Discard rather than guess.
		log.Printf("agent: session %s pending action %q no longer registered", sess.ID, sess.Pending.ActionName)
		sess.ResetTransient()
		return replyUnknownAction
	}

	switch ClassifyConfirmation(text) {
	case DecisionAffirm:
		return m.executor.Execute(ctx, sess, spec, sess.Pending.Args)
	case DecisionDeny:
		sess.ResetTransient()
		return replyCancelled
	default:
		if sess.Consequence != nil && sess.Consequence.Narrative != "" {
			return sess.Consequence.Narrative
		}
		return fmt.Sprintf("Just to confirm: should I go ahead with %s? (yes/no)", spec.Name)
	}
}

// continueSlotFill feeds the reply into the in-progress form.
func (m *Machine) continueSlotFill(ctx context.Context, sess *Session, text string) string {
	if IsCancellation(text) {
		sess.ResetTransient()
		return replyFormCancelled
	}

	spec, err := m.registry.Lookup(sess.SlotFill.ActionName)
	if err != nil {
		log.Printf("agent: session %s slot-fill action %q no longer registered", sess.ID, sess.SlotFill.ActionName)
		sess.ResetTransient()
		return replyUnknownAction
	}

	reprompt, done := ApplyReply(sess.SlotFill, spec, text)
	if !done {
		return reprompt
	}

	args := sess.SlotFill.Collected
	sess.SlotFill = nil
	return m.dispatch(ctx, sess, spec, args)
}

// thisTripRef matches deictic references a screenshot can resolve.
var thisTripRef = regexp.MustCompile(`(?i)\b(this|that)\s+trip\b`)

// classifyAndAct is the entry phase: ground deictic references via the
// screenshot if one came along, classify the message, then route to
// slot-filling, the consequence gate, or straight execution.
func (m *Machine) classifyAndAct(ctx context.Context, sess *Session, in TurnInput) string {
	text := m.groundScreenshot(ctx, in)

	hints := m.actionHints(sess.CurrentPage)
	intent, err := m.classifier.ClassifyIntent(ctx, text, sess.CurrentPage, hints)
	if err != nil {
		log.Printf("agent: classify for session %s: %v", sess.ID, err)
		return replyClassifyFailure
	}

	spec, err := m.registry.Lookup(intent.ActionName)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			return replyUnknownAction
		}
		log.Printf("agent: lookup %q for session %s: %v", intent.ActionName, sess.ID, err)
		return replyUnknownAction
	}

	if !spec.AvailableOn(sess.CurrentPage) {
		return replyWrongPage
	}

	args := Args(intent.Args)
	if args == nil {
		args = Args{}
	}

	if missing := NextMissing(spec, args); missing != nil {
		sess.SlotFill = StartSlotFill(spec, args)
		return missing.Prompt
	}

	return m.dispatch(ctx, sess, spec, args)
}

// dispatch runs the consequence gate for destructive actions, otherwise
// executes directly. Called with a complete argument set.
func (m *Machine) dispatch(ctx context.Context, sess *Session, spec *ActionSpec, args Args) string {
	if !spec.Destructive {
		return m.executor.Execute(ctx, sess, spec, args)
	}

	verdict := m.evaluator.Evaluate(ctx, spec, args)
	if !verdict.HasConsequences {
		return m.executor.Execute(ctx, sess, spec, args)
	}

	sess.Pending = &PendingAction{
		ActionName:           spec.Name,
		Args:                 args,
		Destructive:          true,
		AwaitingConfirmation: true,
	}
	sess.Consequence = verdict
	return verdict.Narrative
}

// groundScreenshot rewrites "this trip" / "that trip" into the trip name
// read off the attached screenshot. A vision failure or an unrecognizable
// image degrades to the original text.
func (m *Machine) groundScreenshot(ctx context.Context, in TurnInput) string {
	if len(in.Image) == 0 || m.vision == nil || !thisTripRef.MatchString(in.Text) {
		return in.Text
	}
	ex, err := m.vision.ExtractTrip(ctx, in.Image, in.ImageMIME)
	if err != nil {
		log.Printf("agent: screenshot extraction for session %s: %v", in.SessionID, err)
		return in.Text
	}
	if ex.EntityName == "" {
		return in.Text
	}
	return thisTripRef.ReplaceAllString(in.Text, fmt.Sprintf("the '%s' trip", ex.EntityName))
}

// actionHints converts the page-scoped registry view for the classifier.
func (m *Machine) actionHints(page string) []llm.ActionHint {
	specs := m.registry.AvailableOn(page)
	hints := make([]llm.ActionHint, 0, len(specs))
	for _, spec := range specs {
		hint := llm.ActionHint{Name: spec.Name, Description: spec.Description}
		for _, f := range spec.Fields {
			hint.ArgKeys = append(hint.ArgKeys, f.Key)
		}
		hints = append(hints, hint)
	}
	return hints
}
