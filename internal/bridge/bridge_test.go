package bridge

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moviops/conductor/internal/actions"
	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/db"
	"github.com/moviops/conductor/internal/llm"
)

func newTestMachine(t *testing.T) *agent.Machine {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	registry, err := actions.NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m, err := agent.NewMachine(agent.MachineOpts{
		DB:         gdb,
		Registry:   registry,
		Sessions:   agent.NewMemoryStore(),
		Classifier: llm.NewMockClassifier(),
	})
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return m
}

// startDaemon runs the daemon in the background and returns a stop func.
func startDaemon(t *testing.T, d *Daemon) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("daemon did not stop")
		}
	}
}

// waitForSent polls until the adapter has sent n messages.
func waitForSent(t *testing.T, adapter *MockAdapter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if adapter.SentCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("adapter sent %d messages, want %d", adapter.SentCount(), n)
}

func TestNewDaemon_Validation(t *testing.T) {
	machine := newTestMachine(t)
	if _, err := NewDaemon(DaemonOpts{Machine: machine}); err == nil {
		t.Error("nil adapter accepted")
	}
	if _, err := NewDaemon(DaemonOpts{Adapter: NewMockAdapter()}); err == nil {
		t.Error("nil machine accepted")
	}
}

func TestDaemon_RepliesInThread(t *testing.T) {
	adapter := NewMockAdapter()
	d, err := NewDaemon(DaemonOpts{
		Adapter:     adapter,
		Machine:     newTestMachine(t),
		DefaultPage: agent.PageBusDashboard,
	})
	if err != nil {
		t.Fatalf("NewDaemon: %v", err)
	}
	stop := startDaemon(t, d)
	defer stop()

	adapter.SimulateInbound(InboundMessage{
		Platform:  "slack",
		ChannelID: "C123",
		ThreadID:  "1724.0001",
		UserID:    "U1",
		Text:      "list all vehicles",
	})
	waitForSent(t, adapter, 1)

	sent, _ := adapter.LastSent()
	if sent.ChannelID != "C123" || sent.ThreadID != "1724.0001" {
		t.Errorf("reply placement = %s/%s", sent.ChannelID, sent.ThreadID)
	}
	if !strings.Contains(sent.Text, "vehicles") {
		t.Errorf("reply = %q", sent.Text)
	}
}

// The confirmation gate works across the bridge: a booked-trip removal in a
// thread parks on confirmation, and "yes" in the same thread completes it.
func TestDaemon_ConfirmationAcrossTurns(t *testing.T) {
	adapter := NewMockAdapter()
	d, err := NewDaemon(DaemonOpts{
		Adapter:     adapter,
		Machine:     newTestMachine(t),
		DefaultPage: agent.PageBusDashboard,
	})
	if err != nil {
		t.Fatalf("NewDaemon: %v", err)
	}
	stop := startDaemon(t, d)
	defer stop()

	thread := InboundMessage{Platform: "slack", ChannelID: "C123", ThreadID: "1724.0002", UserID: "U1"}

	first := thread
	first.Text = "Remove the vehicle from the 'Bulk - 00:01' trip"
	adapter.SimulateInbound(first)
	waitForSent(t, adapter, 1)

	sent, _ := adapter.LastSent()
	if !strings.Contains(sent.Text, "62% booked") {
		t.Fatalf("first reply = %q", sent.Text)
	}

	second := thread
	second.Text = "yes"
	adapter.SimulateInbound(second)
	waitForSent(t, adapter, 2)

	sent, _ = adapter.LastSent()
	if !strings.Contains(sent.Text, "removed from trip") {
		t.Errorf("confirmation reply = %q", sent.Text)
	}
}

// Distinct threads are distinct sessions: a "yes" in another thread must
// not confirm the first thread's pending action.
func TestDaemon_ThreadsAreIsolatedSessions(t *testing.T) {
	adapter := NewMockAdapter()
	d, err := NewDaemon(DaemonOpts{
		Adapter:     adapter,
		Machine:     newTestMachine(t),
		DefaultPage: agent.PageBusDashboard,
	})
	if err != nil {
		t.Fatalf("NewDaemon: %v", err)
	}
	stop := startDaemon(t, d)
	defer stop()

	adapter.SimulateInbound(InboundMessage{
		Platform: "slack", ChannelID: "C123", ThreadID: "t1", UserID: "U1",
		Text: "Remove the vehicle from the 'Bulk - 00:01' trip",
	})
	waitForSent(t, adapter, 1)

	adapter.SimulateInbound(InboundMessage{
		Platform: "slack", ChannelID: "C123", ThreadID: "t2", UserID: "U2",
		Text: "yes",
	})
	waitForSent(t, adapter, 2)

	sent, _ := adapter.LastSent()
	if strings.Contains(sent.Text, "removed from trip") {
		t.Fatalf("cross-thread confirmation executed: %q", sent.Text)
	}
}

func TestDaemon_ChannelFilter(t *testing.T) {
	adapter := NewMockAdapter()
	d, err := NewDaemon(DaemonOpts{
		Adapter:   adapter,
		Machine:   newTestMachine(t),
		ChannelID: "C-ops",
	})
	if err != nil {
		t.Fatalf("NewDaemon: %v", err)
	}
	stop := startDaemon(t, d)
	defer stop()

	adapter.SimulateInbound(InboundMessage{
		Platform: "slack", ChannelID: "C-random", UserID: "U1", Text: "list all vehicles",
	})
	adapter.SimulateInbound(InboundMessage{
		Platform: "slack", ChannelID: "C-ops", UserID: "U1", Text: "list all vehicles",
	})
	waitForSent(t, adapter, 1)

	sent, _ := adapter.LastSent()
	if sent.ChannelID != "C-ops" {
		t.Errorf("reply went to %s, want C-ops only", sent.ChannelID)
	}
}

func TestSessionKey(t *testing.T) {
	threaded := InboundMessage{Platform: "slack", ChannelID: "C1", ThreadID: "t1"}
	bare := InboundMessage{Platform: "slack", ChannelID: "C1"}
	if sessionKey(threaded) == sessionKey(bare) {
		t.Error("thread and channel sessions must differ")
	}
	if sessionKey(threaded) != "slack:C1:t1" {
		t.Errorf("threaded key = %q", sessionKey(threaded))
	}
}
