package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindhaven/go-companion-core/internal/config"
)

// ----- Fake transport -----

type fakeConn struct {
	mu        sync.Mutex
	wrote     [][]byte
	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case raw := <-c.inbound:
		return 1, raw, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	select {
	case <-c.closed:
		return errors.New("write on closed connection")
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	c.wrote = append(c.wrote, cp)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.wrote))
	copy(out, c.wrote)
	return out
}

// fakeDialer hands out conns in sequence and records when each dial happened.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	errs  []error // consumed before conns
	times []time.Time
}

func (d *fakeDialer) dial(_ context.Context, _ string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.times = append(d.times, time.Now())
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		return nil, err
	}
	if len(d.conns) == 0 {
		return nil, errors.New("no more conns")
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.times)
}

func (d *fakeDialer) dialTime(i int) time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.times[i]
}

const testDelay = 30 * time.Millisecond

func newTestSession(t *testing.T, d *fakeDialer, opts ...Option) (*Session, *Log) {
	t.Helper()
	log := NewLog()
	cfg := config.AssistantConfig{
		URL:            "ws://assistant.test/ws/webclient",
		SystemPrompt:   "stay supportive",
		ReconnectDelay: testDelay,
		DialTimeout:    time.Second,
	}
	opts = append([]Option{WithDialer(d.dial), WithLogger(zerolog.Nop())}, opts...)
	s := NewSession(cfg, log, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, log
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// ----- Tests -----

func TestConnect_SendsConfigHandshake(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, _ := newTestSession(t, d)

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if s.State() != StateOpen {
		t.Fatalf("state = %v; want open", s.State())
	}

	w := conn.writes()
	if len(w) != 1 {
		t.Fatalf("writes = %d; want exactly the handshake", len(w))
	}
	var env Envelope
	if err := json.Unmarshal(w[0], &env); err != nil {
		t.Fatalf("handshake unmarshal: %v", err)
	}
	if env.Type != TypeConfig || env.Config == nil || env.Config.SystemPrompt != "stay supportive" {
		t.Fatalf("handshake = %+v", env)
	}
}

func TestConnect_Idempotent(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn, newFakeConn()}}
	s, _ := newTestSession(t, d)

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if got := d.dialCount(); got != 1 {
		t.Fatalf("dials = %d; want 1 (idempotent while open)", got)
	}
}

func TestSend_AppendsBeforeWriteAndEncodes(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, log := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := s.Send("  I feel anxious  "); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := log.Messages()
	if len(msgs) != 1 || msgs[0].Sender != SenderUser || msgs[0].Text != "I feel anxious" {
		t.Fatalf("log = %+v", msgs)
	}

	w := conn.writes()
	if len(w) != 2 { // handshake + text
		t.Fatalf("writes = %d; want 2", len(w))
	}
	var env Envelope
	if err := json.Unmarshal(w[1], &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != TypeText || env.Data != "I feel anxious" {
		t.Fatalf("outbound = %+v", env)
	}
}

func TestSend_CallOrderPreserved(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, log := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	for _, txt := range []string{"first", "second", "third"} {
		if err := s.Send(txt); err != nil {
			t.Fatalf("Send(%q): %v", txt, err)
		}
	}
	msgs := log.Messages()
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Text != want {
			t.Fatalf("msgs[%d] = %q; want %q", i, msgs[i].Text, want)
		}
	}
}

func TestSend_RefusedWhileDisconnected(t *testing.T) {
	d := &fakeDialer{}
	s, log := newTestSession(t, d)

	err := s.Send("I feel anxious")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v; want ErrNotConnected", err)
	}
	if log.Len() != 0 {
		t.Fatalf("log must stay untouched on refused send")
	}
	if d.dialCount() != 0 {
		t.Fatalf("no outbound activity expected")
	}
}

func TestSend_RefusedWhenEmpty(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, log := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	for _, txt := range []string{"", "   ", "\t\n"} {
		if err := s.Send(txt); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Send(%q) err = %v; want ErrEmptyMessage", txt, err)
		}
	}
	if log.Len() != 0 {
		t.Fatalf("log must stay untouched")
	}
	if len(conn.writes()) != 1 { // handshake only
		t.Fatalf("no text envelope expected")
	}
}

func TestInbound_TextAppended(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, log := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	conn.inbound <- []byte(`{"type":"text","text":"How are you feeling today?"}`)
	waitFor(t, func() bool { return log.Len() == 1 }, "assistant reply")

	last, _ := log.Last()
	if last.Sender != SenderAssistant || last.Text != "How are you feeling today?" {
		t.Fatalf("last = %+v", last)
	}
	if s.State() != StateOpen {
		t.Fatalf("state = %v; want open", s.State())
	}
}

func TestInbound_GarbageDiscardedSilently(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}
	s, log := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	conn.inbound <- []byte(`not json at all`)
	conn.inbound <- []byte(`{"type":"audio","data":"…"}`)
	conn.inbound <- []byte(`{"type":"error","message":"model overloaded"}`)
	conn.inbound <- []byte(`{"type":"turn_complete"}`)
	// A recognizable reply proves the loop survived everything above.
	conn.inbound <- []byte(`{"type":"text","text":"still here"}`)

	waitFor(t, func() bool { return log.Len() == 1 }, "reply after garbage")
	last, _ := log.Last()
	if last.Text != "still here" {
		t.Fatalf("last = %+v", last)
	}
	if s.State() != StateOpen {
		t.Fatalf("protocol failures must not alter connection state; state = %v", s.State())
	}
}

func TestReconnect_ExactlyOnceAfterDrop(t *testing.T) {
	conn1 := newFakeConn()
	conn2 := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn1, conn2}}
	s, _ := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	dropped := time.Now()
	conn1.Close() // simulate transport loss

	waitFor(t, func() bool { return d.dialCount() == 2 }, "reconnect dial")
	if elapsed := d.dialTime(1).Sub(dropped); elapsed < testDelay {
		t.Fatalf("reconnect fired after %v; must wait at least %v", elapsed, testDelay)
	}
	waitFor(t, func() bool { return s.State() == StateOpen }, "channel reopen")

	// Exactly one attempt per drop: the healthy second channel must not
	// provoke further dials.
	time.Sleep(3 * testDelay)
	if got := d.dialCount(); got != 2 {
		t.Fatalf("dials = %d; want 2", got)
	}

	// The fresh channel got its own handshake.
	w := conn2.writes()
	if len(w) != 1 {
		t.Fatalf("writes on reconnected channel = %d; want handshake only", len(w))
	}
}

func TestDialFailure_RetriesAfterDelay(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{errs: []error{errors.New("connection refused")}, conns: []*fakeConn{conn}}
	s, _ := newTestSession(t, d)

	if err := s.Connect(context.Background()); err == nil {
		t.Fatalf("Connect should surface the dial error")
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state = %v; want disconnected", s.State())
	}

	waitFor(t, func() bool { return s.State() == StateOpen }, "retry to succeed")
	if got := d.dialCount(); got != 2 {
		t.Fatalf("dials = %d; want 2", got)
	}
}

func TestClose_DoesNotReconnect(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn, newFakeConn()}}
	s, _ := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	waitFor(t, func() bool { return s.State() == StateDisconnected }, "teardown")

	time.Sleep(3 * testDelay)
	if got := d.dialCount(); got != 1 {
		t.Fatalf("dials after deliberate close = %d; want 1", got)
	}
}

func TestClose_CancelsPendingReconnect(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn, newFakeConn()}}
	s, _ := newTestSession(t, d)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	conn.Close() // drop; a reconnect is now pending
	waitFor(t, func() bool { return s.State() == StateDisconnected }, "drop observed")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	time.Sleep(3 * testDelay)
	if got := d.dialCount(); got != 1 {
		t.Fatalf("dials = %d; want 1 (pending reconnect cancelled)", got)
	}
}

func TestNotify_FiresForBothSenders(t *testing.T) {
	conn := newFakeConn()
	d := &fakeDialer{conns: []*fakeConn{conn}}

	var mu sync.Mutex
	var seen []Sender
	s, _ := newTestSession(t, d, WithNotify(func(m Message) {
		mu.Lock()
		seen = append(seen, m.Sender)
		mu.Unlock()
	}))
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := s.Send("hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	conn.inbound <- []byte(`{"type":"text","text":"hi"}`)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, "both notifications")

	mu.Lock()
	defer mu.Unlock()
	if seen[0] != SenderUser || seen[1] != SenderAssistant {
		t.Fatalf("seen = %v", seen)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateOpen:         "open",
		StateClosing:      "closing",
	}
	for st, want := range cases {
		if st.String() != want {
			t.Errorf("State(%d).String() = %q; want %q", st, st.String(), want)
		}
	}
}
