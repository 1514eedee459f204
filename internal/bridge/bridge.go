// Package bridge connects chat platforms (Slack, Discord) to the
// conversational state machine. Each platform implements Adapter; the
// daemon maps channel+thread pairs to conversation sessions and pumps
// messages through the pipeline.
package bridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/moviops/conductor/internal/agent"
)

// Adapter is the interface platform-specific implementations satisfy.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Listen returns a channel of inbound messages. The channel is closed
	// when the context is cancelled or the adapter is closed. Listen must
	// only be called after Connect.
	Listen(ctx context.Context) (<-chan InboundMessage, error)

	// Send delivers a reply to the platform.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// InboundMessage is a message received from the chat platform.
type InboundMessage struct {
	Platform  string // "slack", "discord"
	ChannelID string
	ThreadID  string // empty for top-level messages
	UserID    string
	UserName  string
	Text      string
	Timestamp time.Time
}

// OutboundMessage is a reply to the chat platform.
type OutboundMessage struct {
	ChannelID string
	ThreadID  string // thread to reply in; empty for a top-level message
	Text      string
}

// BotUserIDer is an optional interface adapters implement to expose the
// bot's own user ID for self-message filtering.
type BotUserIDer interface {
	BotUserID() string
}

// DaemonOpts configures the bridge daemon.
type DaemonOpts struct {
	Adapter Adapter
	Machine *agent.Machine
	// DefaultPage is the dashboard page chat sessions act as; chat surfaces
	// have no page context of their own.
	DefaultPage string
	// ChannelID, when set, restricts the daemon to one channel.
	ChannelID string
}

// Daemon pumps platform messages through the state machine. One session per
// platform channel+thread pair, so a confirmation asked in a thread is
// answered in that thread.
type Daemon struct {
	adapter     Adapter
	machine     *agent.Machine
	defaultPage string
	channelID   string
}

// NewDaemon creates a bridge daemon.
func NewDaemon(opts DaemonOpts) (*Daemon, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("bridge: adapter is required")
	}
	if opts.Machine == nil {
		return nil, fmt.Errorf("bridge: machine is required")
	}
	if opts.DefaultPage == "" {
		opts.DefaultPage = agent.PageBusDashboard
	}
	return &Daemon{
		adapter:     opts.Adapter,
		machine:     opts.Machine,
		defaultPage: opts.DefaultPage,
		channelID:   opts.ChannelID,
	}, nil
}

// Run connects, then processes inbound messages until the context is
// cancelled or the adapter's channel closes.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("bridge: connect: %w", err)
	}
	defer d.adapter.Close()

	inbound, err := d.adapter.Listen(ctx)
	if err != nil {
		return fmt.Errorf("bridge: listen: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			d.handleMessage(ctx, msg)
		}
	}
}

// sessionKey derives the conversation session ID from the message's
// placement. Thread replies share the thread's session; bare channel
// messages share the channel's.
func sessionKey(msg InboundMessage) string {
	if msg.ThreadID != "" {
		return fmt.Sprintf("%s:%s:%s", msg.Platform, msg.ChannelID, msg.ThreadID)
	}
	return fmt.Sprintf("%s:%s", msg.Platform, msg.ChannelID)
}

// handleMessage runs one inbound message through the pipeline and replies
// in place. Pipeline errors are logged; the platform gets a generic
// apology rather than silence.
func (d *Daemon) handleMessage(ctx context.Context, msg InboundMessage) {
	if msg.Text == "" {
		return
	}
	if d.channelID != "" && msg.ChannelID != d.channelID {
		return
	}

	out, err := d.machine.HandleTurn(ctx, agent.TurnInput{
		SessionID:   sessionKey(msg),
		Text:        msg.Text,
		CurrentPage: d.defaultPage,
	})

	reply := "Sorry, something went wrong. Please try again."
	if err != nil {
		log.Printf("bridge: turn for %s: %v", sessionKey(msg), err)
	} else {
		reply = out.ResponseText
	}

	sendErr := d.adapter.Send(ctx, OutboundMessage{
		ChannelID: msg.ChannelID,
		ThreadID:  msg.ThreadID,
		Text:      reply,
	})
	if sendErr != nil {
		log.Printf("bridge: send to %s: %v", msg.ChannelID, sendErr)
	}
}
