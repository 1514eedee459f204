package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Sweeper expires idle sessions on a cron schedule. Expiry only clears
// transient state and marks the record; conversation history stays.
type Sweeper struct {
	store   Sweepable
	idleTTL time.Duration
	cronExp string
}

// NewSweeper creates a session sweeper. cronExpr is a 5-field cron
// expression; idleTTL is how long a session may sit untouched.
func NewSweeper(store Sweepable, idleTTL time.Duration, cronExpr string) (*Sweeper, error) {
	if store == nil {
		return nil, fmt.Errorf("agent: sweeper: store is required")
	}
	if idleTTL <= 0 {
		return nil, fmt.Errorf("agent: sweeper: idle TTL must be positive")
	}
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return nil, fmt.Errorf("agent: sweeper: parse cron %q: %w", cronExpr, err)
	}
	return &Sweeper{store: store, idleTTL: idleTTL, cronExp: cronExpr}, nil
}

// Run sweeps on the cron schedule until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	timer := time.NewTimer(nextCronDuration(s.cronExp))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.SweepOnce()
			if d := nextCronDuration(s.cronExp); d > 0 {
				timer.Reset(d)
			} else {
				return
			}
		}
	}
}

// SweepOnce expires every session idle longer than the TTL.
func (s *Sweeper) SweepOnce() {
	cutoff := time.Now().Add(-s.idleTTL)
	n, err := s.store.Sweep(cutoff)
	if err != nil {
		log.Printf("agent: session sweep: %v", err)
		return
	}
	if n > 0 {
		log.Printf("agent: expired %d idle sessions", n)
	}
}
