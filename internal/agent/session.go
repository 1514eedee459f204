// Package agent implements the conversational action pipeline: intent
// classification, consequence checking, confirmation gating, slot-filling
// and execution, with per-session state.
package agent

import (
	"time"
)

// Page scope keys. The dashboard page works with trips, deployments,
// vehicles and drivers; the route-management page with stops, paths, routes,
// vehicles and drivers.
const (
	PageBusDashboard = "busDashboard"
	PageManageRoute  = "manageRoute"
)

// Message is one entry in a session's conversation history.
type Message struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// PendingAction is a classified action parked for confirmation.
type PendingAction struct {
	ActionName           string `json:"action_name"`
	Args                 Args   `json:"args"`
	Destructive          bool   `json:"destructive"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
}

// Verdict is the result of a consequence check. Produced fresh on every
// destructive attempt, never cached across turns.
type Verdict struct {
	HasConsequences bool   `json:"has_consequences"`
	Severity        string `json:"severity"` // none, medium, high
	Narrative       string `json:"narrative"`
	AffectedCount   int    `json:"affected_count"`
}

// Verdict severities.
const (
	SeverityNone   = "none"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// SlotFillState tracks a multi-turn form in progress.
type SlotFillState struct {
	ActionName string `json:"action_name"`
	Collected  Args   `json:"collected"`
}

// Session is the per-conversation state. At most one of an
// awaiting-confirmation pending action and an incomplete slot-fill is active
// at a time; the pipeline is strictly sequential per session.
type Session struct {
	ID          string
	CurrentPage string
	History     []Message
	Pending     *PendingAction
	Consequence *Verdict
	SlotFill    *SlotFillState
	LastActive  time.Time
}

// NewSession creates a fresh session for the given page.
func NewSession(id, page string) *Session {
	if page == "" {
		page = PageBusDashboard
	}
	return &Session{
		ID:          id,
		CurrentPage: page,
		LastActive:  time.Now(),
	}
}

// Append records a message in the session history. History is append-only.
func (s *Session) Append(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// Touch updates the idle timestamp. Sweepers expire sessions by LastActive.
func (s *Session) Touch() {
	s.LastActive = time.Now()
}

// ResetTransient clears pending action, consequence verdict and slot-fill
// state. Called after execution, cancellation and page switches.
func (s *Session) ResetTransient() {
	s.Pending = nil
	s.Consequence = nil
	s.SlotFill = nil
}

// AwaitingConfirmation reports whether the session is parked on a
// confirmation question.
func (s *Session) AwaitingConfirmation() bool {
	return s.Pending != nil && s.Pending.AwaitingConfirmation
}

// Store loads and saves sessions. Implementations: MemoryStore (process
// lifetime) and DBStore (GORM-backed). Load returns (nil, nil) when the
// session does not exist.
type Store interface {
	Load(sessionID string) (*Session, error)
	Save(sess *Session) error
}

// Sweepable is implemented by stores that can expire idle sessions.
type Sweepable interface {
	Sweep(olderThan time.Time) (int, error)
}
