package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/moviops/conductor/internal/bridge"
)

// --- Mock Slack client ---

type mockSlackClient struct {
	mu       sync.Mutex
	authResp *slackapi.AuthTestResponse
	authErr  error
	posted   []postedMessage
	postErr  error
	users    map[string]*slackapi.User
}

type postedMessage struct {
	channelID string
	options   []slackapi.MsgOption
}

func newMockSlackClient() *mockSlackClient {
	return &mockSlackClient{
		authResp: &slackapi.AuthTestResponse{UserID: "U_BOT_123"},
		users:    make(map[string]*slackapi.User),
	}
}

func (m *mockSlackClient) AuthTest() (*slackapi.AuthTestResponse, error) {
	return m.authResp, m.authErr
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", "", m.postErr
	}
	m.posted = append(m.posted, postedMessage{channelID: channelID, options: options})
	return channelID, "1234567890.123456", nil
}

func (m *mockSlackClient) GetUserInfo(userID string) (*slackapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found: %s", userID)
}

func (m *mockSlackClient) postedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posted)
}

func (m *mockSlackClient) lastPosted() postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posted[len(m.posted)-1]
}

// --- Mock Socket Mode client ---

type mockSocketClient struct {
	events chan socketmode.Event
	acked  []socketmode.Request
	mu     sync.Mutex
	done   chan struct{}
}

func newMockSocketClient() *mockSocketClient {
	return &mockSocketClient{
		events: make(chan socketmode.Event, 100),
		done:   make(chan struct{}),
	}
}

func (m *mockSocketClient) Run() error {
	<-m.done
	return nil
}

func (m *mockSocketClient) EventsChan() chan socketmode.Event {
	return m.events
}

func (m *mockSocketClient) Ack(req socketmode.Request, payload ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, req)
}

func (m *mockSocketClient) ackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked)
}

func newTestAdapter(t *testing.T) (*Adapter, *mockSlackClient, *mockSocketClient) {
	t.Helper()
	client := newMockSlackClient()
	socket := newMockSocketClient()

	a, err := New(AdapterOpts{
		Client:    client,
		Socket:    socket,
		ChannelID: "C_DEFAULT",
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return a, client, socket
}

// messageEvent wraps a MessageEvent in a Socket Mode envelope.
func messageEvent(env string, ev *slackevents.MessageEvent) socketmode.Event {
	return socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type: slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{
				Data: ev,
			},
		},
		Request: &socketmode.Request{EnvelopeID: env},
	}
}

func TestNew_RequiresTokens(t *testing.T) {
	if _, err := New(AdapterOpts{AppToken: "xapp-test"}); err == nil {
		t.Fatal("expected error for missing bot token")
	}
	if _, err := New(AdapterOpts{BotToken: "xoxb-test"}); err == nil {
		t.Fatal("expected error for missing app token")
	}
}

func TestConnect_Success(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	if a.BotUserID() != "U_BOT_123" {
		t.Errorf("bot user ID = %q, want U_BOT_123", a.BotUserID())
	}
}

func TestConnect_AuthError(t *testing.T) {
	client := newMockSlackClient()
	client.authErr = fmt.Errorf("invalid token")

	a, _ := New(AdapterOpts{Client: client, Socket: newMockSocketClient()})
	err := a.Connect(context.Background())
	if err == nil {
		t.Fatal("expected auth error")
	}
	if !strings.Contains(err.Error(), "auth test") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestConnect_AlreadyClosed(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	a.Close()
	if err := a.Connect(context.Background()); err == nil {
		t.Fatal("expected error for closed adapter")
	}
}

func TestListen_NotConnected(t *testing.T) {
	a, _ := New(AdapterOpts{Client: newMockSlackClient(), Socket: newMockSocketClient()})
	if _, err := a.Listen(context.Background()); err == nil {
		t.Fatal("expected error for not connected")
	}
}

func TestListen_ReceivesMessages(t *testing.T) {
	a, _, socket := newTestAdapter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := a.Listen(ctx)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	socket.events <- messageEvent("env-1", &slackevents.MessageEvent{
		User:            "U_ALICE",
		Channel:         "C1",
		ThreadTimeStamp: "1699999999.000001",
		Text:            "remove the vehicle from the 'Bulk - 00:01' trip",
		TimeStamp:       "1700000000.000001",
	})

	select {
	case msg := <-ch:
		if msg.Platform != "slack" || msg.ChannelID != "C1" || msg.UserID != "U_ALICE" {
			t.Errorf("msg = %+v", msg)
		}
		if msg.ThreadID != "1699999999.000001" {
			t.Errorf("thread = %q", msg.ThreadID)
		}
		if !strings.Contains(msg.Text, "Bulk - 00:01") {
			t.Errorf("text = %q", msg.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for inbound message")
	}
}

func TestListen_FiltersSelfAndBotMessages(t *testing.T) {
	a, _, socket := newTestAdapter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := a.Listen(ctx)

	socket.events <- messageEvent("env-2", &slackevents.MessageEvent{
		User: "U_BOT_123", Channel: "C1", Text: "self", TimeStamp: "1700000000.000001",
	})
	socket.events <- messageEvent("env-3", &slackevents.MessageEvent{
		User: "U_OTHER", BotID: "B123", Channel: "C1", Text: "other bot", TimeStamp: "1700000000.000002",
	})
	socket.events <- messageEvent("env-4", &slackevents.MessageEvent{
		User: "U_ALICE", Channel: "C1", Text: "edited", SubType: "message_changed", TimeStamp: "1700000000.000003",
	})
	socket.events <- messageEvent("env-5", &slackevents.MessageEvent{
		User: "U_ALICE", Channel: "C1", Text: "real message", TimeStamp: "1700000000.000004",
	})

	select {
	case msg := <-ch:
		if msg.Text != "real message" {
			t.Errorf("expected real message first, got %q", msg.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestListen_HandlesAppMention(t *testing.T) {
	a, _, socket := newTestAdapter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := a.Listen(ctx)

	socket.events <- socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type: slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{
				Data: &slackevents.AppMentionEvent{
					User:            "U_ALICE",
					Channel:         "C1",
					Text:            "<@U_BOT_123> list all trips",
					TimeStamp:       "1700000000.000001",
					ThreadTimeStamp: "1699999999.000001",
				},
			},
		},
		Request: &socketmode.Request{EnvelopeID: "env-6"},
	}

	select {
	case msg := <-ch:
		if msg.Text != "list all trips" {
			t.Errorf("mention not stripped: %q", msg.Text)
		}
		if msg.ThreadID != "1699999999.000001" {
			t.Errorf("thread = %q", msg.ThreadID)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestListen_AcksEventsAPIEvents(t *testing.T) {
	a, _, socket := newTestAdapter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Listen(ctx)

	socket.events <- messageEvent("env-7", &slackevents.MessageEvent{
		User: "U_ALICE", Channel: "C1", Text: "hello", TimeStamp: "1700000000.000001",
	})

	time.Sleep(100 * time.Millisecond)
	if socket.ackedCount() != 1 {
		t.Errorf("expected 1 ack, got %d", socket.ackedCount())
	}
}

func TestSend_ThreadsReply(t *testing.T) {
	a, client, _ := newTestAdapter(t)

	err := a.Send(context.Background(), bridge.OutboundMessage{
		ChannelID: "C1",
		ThreadID:  "1700000000.000001",
		Text:      "The vehicle has been removed.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := client.lastPosted()
	if last.channelID != "C1" {
		t.Errorf("channel = %q, want C1", last.channelID)
	}
	// text + thread timestamp
	if len(last.options) != 2 {
		t.Errorf("expected 2 msg options, got %d", len(last.options))
	}
}

func TestSend_DefaultChannel(t *testing.T) {
	a, client, _ := newTestAdapter(t)

	if err := a.Send(context.Background(), bridge.OutboundMessage{Text: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.lastPosted().channelID != "C_DEFAULT" {
		t.Errorf("channel = %q, want C_DEFAULT", client.lastPosted().channelID)
	}
}

func TestSend_NoChannel(t *testing.T) {
	a, _ := New(AdapterOpts{Client: newMockSlackClient(), Socket: newMockSocketClient()})
	a.Connect(context.Background())

	if err := a.Send(context.Background(), bridge.OutboundMessage{Text: "hi"}); err == nil {
		t.Fatal("expected error for no channel")
	}
}

func TestSend_NotConnected(t *testing.T) {
	a, _ := New(AdapterOpts{Client: newMockSlackClient(), Socket: newMockSocketClient()})

	err := a.Send(context.Background(), bridge.OutboundMessage{ChannelID: "C1", Text: "hi"})
	if err == nil {
		t.Fatal("expected error for not connected")
	}
}

func TestSend_RetriesOnRateLimit(t *testing.T) {
	a, client, _ := newTestAdapter(t)

	rl := &rateLimitMockClient{inner: client, failCount: 2}
	a.client = rl

	err := a.Send(context.Background(), bridge.OutboundMessage{ChannelID: "C1", Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl.calls != 3 {
		t.Errorf("expected 3 calls (2 failures + 1 success), got %d", rl.calls)
	}
}

// rateLimitMockClient returns rate limit errors for the first N PostMessage calls.
type rateLimitMockClient struct {
	inner     *mockSlackClient
	mu        sync.Mutex
	calls     int
	failCount int
}

func (r *rateLimitMockClient) AuthTest() (*slackapi.AuthTestResponse, error) {
	return r.inner.AuthTest()
}

func (r *rateLimitMockClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	r.mu.Lock()
	r.calls++
	c := r.calls
	r.mu.Unlock()
	if c <= r.failCount {
		return "", "", &slackapi.RateLimitedError{RetryAfter: time.Millisecond}
	}
	return r.inner.PostMessage(channelID, options...)
}

func (r *rateLimitMockClient) GetUserInfo(userID string) (*slackapi.User, error) {
	return r.inner.GetUserInfo(userID)
}

func TestClose_Idempotent(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	a.Close()
	if err := a.Close(); err != nil {
		t.Fatalf("second close should not error: %v", err)
	}
}

// An event racing Close must not panic the pump by sending on the closed
// inbound channel. The late message is dropped.
func TestHandleMessage_AfterCloseIsDropped(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	a.handleMessage(&slackevents.MessageEvent{
		User: "U_ALICE", Channel: "C1", Text: "late", TimeStamp: "1700000000.000100",
	})
	a.handleAppMention(&slackevents.AppMentionEvent{
		User: "U_ALICE", Channel: "C1", Text: "<@UBOT1> late", TimeStamp: "1700000000.000200",
	})

	if _, ok := <-a.inbound; ok {
		t.Fatal("message delivered after close")
	}
}

func TestRetryOnRateLimit_NonRateLimitError(t *testing.T) {
	calls := 0
	err := retryOnRateLimit(context.Background(), func() error {
		calls++
		return fmt.Errorf("some other error")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("should not retry non-rate-limit errors, calls = %d", calls)
	}
}

func TestRetryOnRateLimit_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := retryOnRateLimit(context.Background(), func() error {
		calls++
		return &slackapi.RateLimitedError{RetryAfter: time.Millisecond}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != maxRetries+1 {
		t.Errorf("expected %d calls, got %d", maxRetries+1, calls)
	}
}

func TestRetryOnRateLimit_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryOnRateLimit(ctx, func() error {
		calls++
		return &slackapi.RateLimitedError{RetryAfter: time.Second}
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before context cancel, got %d", calls)
	}
}

func TestRunWithReconnect_RetriesOnError(t *testing.T) {
	socket := &failingSocketClient{
		failCount: 2,
		events:    make(chan socketmode.Event, 10),
	}

	a, err := New(AdapterOpts{Client: newMockSlackClient(), Socket: socket})
	if err != nil {
		t.Fatal(err)
	}
	a.baseBackoff = time.Millisecond
	a.maxBackoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.runWithReconnect(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout: runWithReconnect should finish after retries succeed")
	}

	socket.mu.Lock()
	calls := socket.runCalls
	socket.mu.Unlock()
	if calls != 3 {
		t.Errorf("expected 3 Run() calls (2 failures + 1 success), got %d", calls)
	}
}

// failingSocketClient fails Run() a specified number of times before succeeding.
type failingSocketClient struct {
	mu        sync.Mutex
	runCalls  int
	failCount int
	events    chan socketmode.Event
}

func (f *failingSocketClient) Run() error {
	f.mu.Lock()
	f.runCalls++
	n := f.runCalls
	f.mu.Unlock()

	if n <= f.failCount {
		return fmt.Errorf("connection failed (attempt %d)", n)
	}
	return nil
}

func (f *failingSocketClient) EventsChan() chan socketmode.Event {
	return f.events
}

func (f *failingSocketClient) Ack(req socketmode.Request, payload ...interface{}) {}

func TestResolveUserName(t *testing.T) {
	a, client, _ := newTestAdapter(t)
	client.users["U1"] = &slackapi.User{
		Profile: slackapi.UserProfile{DisplayName: "Priya"},
	}
	client.users["U2"] = &slackapi.User{RealName: "Arun Nair"}

	if got := a.resolveUserName("U1"); got != "Priya" {
		t.Errorf("name = %q, want Priya", got)
	}
	if got := a.resolveUserName("U2"); got != "Arun Nair" {
		t.Errorf("name = %q, want Arun Nair", got)
	}
	if got := a.resolveUserName("U_UNKNOWN"); got != "U_UNKNOWN" {
		t.Errorf("name = %q, want fallback to ID", got)
	}
	if got := a.resolveUserName(""); got != "" {
		t.Errorf("name = %q, want empty", got)
	}
}

func TestStripMention(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<@U123ABC> list all trips", "list all trips"},
		{"  <@U999> yes", "yes"},
		{"no mention here", "no mention here"},
		{"<@U123ABC>", ""},
	}
	for _, tt := range tests {
		if got := stripMention(tt.in); got != tt.want {
			t.Errorf("stripMention(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSlackTimestamp(t *testing.T) {
	if got := parseSlackTimestamp("1700000000.000001"); got.Unix() != 1700000000 {
		t.Errorf("got %d", got.Unix())
	}
	if got := parseSlackTimestamp("invalid"); !got.IsZero() {
		t.Errorf("got %v, want zero", got)
	}
}

var _ bridge.Adapter = (*Adapter)(nil)
