package agent

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// execFailureReply is what the user sees when a handler fails. The real
// error goes to the log; pending state is cleared either way so the session
// is never stuck.
const execFailureReply = "Sorry, I couldn't complete that action — something went wrong on my end. Please try again."

// Executor runs a confirmed (or safe) action's handler and renders the
// outcome as a user-facing reply.
type Executor struct {
	db *gorm.DB
}

// NewExecutor creates an action executor.
func NewExecutor(db *gorm.DB) (*Executor, error) {
	if db == nil {
		return nil, fmt.Errorf("agent: executor: db is required")
	}
	return &Executor{db: db}, nil
}

// Execute invokes the handler and clears the session's transient state in
// both the success and the failure path. No retry: after a failure the user
// re-issues the command.
func (e *Executor) Execute(ctx context.Context, sess *Session, spec *ActionSpec, args Args) string {
	res, err := spec.Handler(ctx, e.db.WithContext(ctx), args)
	sess.ResetTransient()
	if err != nil {
		log.Printf("agent: execute %s for session %s: %v", spec.Name, sess.ID, err)
		return execFailureReply
	}
	return res.Message + FormatPreview(res.Preview)
}
