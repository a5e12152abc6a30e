package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/mindhaven/go-companion-core/internal/config"
)

// State is the connection lifecycle state of a Session. Exactly one channel
// instance is active (or pending) at a time.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosing
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "disconnected"
	}
}

// Conn is the transport surface the session needs from a websocket
// connection. *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a Conn to the assistant endpoint.
type Dialer func(ctx context.Context, url string) (Conn, error)

// WebsocketDialer returns a Dialer backed by gorilla/websocket with the
// given handshake timeout.
func WebsocketDialer(timeout time.Duration) Dialer {
	return func(ctx context.Context, url string) (Conn, error) {
		d := websocket.Dialer{HandshakeTimeout: timeout}
		c, resp, err := d.DialContext(ctx, url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Option configures a Session.
type Option func(*Session)

// WithDialer replaces the websocket dialer. Used by tests to simulate the
// transport without a network.
func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dial = d }
}

// WithLogger replaces the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithNotify registers a callback invoked after each message is appended to
// the log (both senders). The callback runs on the session's goroutines and
// must not block.
func WithNotify(fn func(Message)) Option {
	return func(s *Session) { s.notify = fn }
}

// Session owns the single logical channel to the external assistant service.
// It is explicitly constructed and explicitly closed by the view that mounts
// it; sub-views read the log by reference.
//
// Lifecycle: disconnected -> connecting (Connect or retry timer) -> open
// (after the configuration handshake) -> disconnected (any closure or
// transport error). Every non-deliberate closure schedules exactly one
// reconnect after a fixed delay; Close never does.
type Session struct {
	url            string
	systemPrompt   string
	reconnectDelay time.Duration

	dial   Dialer
	log    *Log
	logger zerolog.Logger
	notify func(Message)

	mu    sync.Mutex
	state State
	conn  Conn
	retry *time.Timer
	gen   uint64 // connection generation; fences stale read loops
}

// NewSession constructs a session for the configured assistant endpoint,
// appending exchanged messages to log. The channel is not opened until
// Connect is called.
func NewSession(cfg config.AssistantConfig, log *Log, opts ...Option) *Session {
	s := &Session{
		url:            cfg.URL,
		systemPrompt:   cfg.SystemPrompt,
		reconnectDelay: cfg.ReconnectDelay,
		dial:           WebsocketDialer(cfg.DialTimeout),
		log:            log,
		logger:         zlog.With().Str("component", "chat").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Log returns the session's message log.
func (s *Session) Log() *Log { return s.log }

// Connect opens the assistant channel and sends the one-time configuration
// handshake. It is idempotent per connection state: a no-op while already
// connecting or open. A dial or handshake failure leaves the session
// disconnected with a reconnect scheduled, exactly like a dropped channel.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = StateConnecting
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	conn, err := s.dial(ctx, s.url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.url).Msg("assistant dial failed")
		s.connectFailed(gen)
		return err
	}

	// The behavior directive travels before any user text.
	payload, err := EncodeConfig(s.systemPrompt)
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, payload)
	}
	if err != nil {
		conn.Close()
		s.logger.Warn().Err(err).Msg("configuration handshake failed")
		s.connectFailed(gen)
		return err
	}

	s.mu.Lock()
	if gen != s.gen || s.state != StateConnecting {
		// Closed while dialing; the fresh channel is surplus.
		s.mu.Unlock()
		conn.Close()
		return nil
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	s.logger.Info().Str("url", s.url).Msg("assistant channel open")
	go s.readLoop(conn, gen)
	return nil
}

// connectFailed rolls the session back to disconnected after a failed dial
// or handshake and schedules the retry, unless Close intervened.
func (s *Session) connectFailed(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != StateConnecting {
		return
	}
	s.state = StateDisconnected
	s.scheduleReconnectLocked()
}

// Send transmits a user message. The text must be non-empty after trimming
// and the channel must be open; otherwise the send is refused with a
// sentinel error the caller uses to gate its affordances, and the log is
// left untouched. On acceptance the user message is appended to the log
// before the network write, so the viewer's own messages always appear in
// call order. A write failure is not surfaced: the read loop observes the
// broken channel and the reconnect policy takes over.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state != StateOpen || s.conn == nil {
		st := s.state
		s.mu.Unlock()
		s.logger.Debug().Stringer("state", st).Msg("send refused: channel not open")
		return ErrNotConnected
	}

	msg := Message{Text: text, Sender: SenderUser, Timestamp: time.Now()}
	s.log.Append(msg)

	payload, err := EncodeText(text)
	if err == nil {
		err = s.conn.WriteMessage(websocket.TextMessage, payload)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("send failed on open channel")
	} else {
		sessionSends.Inc()
	}
	if s.notify != nil {
		s.notify(msg)
	}
	return nil
}

// readLoop consumes inbound frames until the connection errors, then hands
// off to the closure handler. gen fences loops belonging to replaced
// connections.
func (s *Session) readLoop(conn Conn, gen uint64) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.handleClosed(gen, err)
			return
		}
		s.dispatch(raw)
	}
}

// dispatch routes one inbound payload. Malformed or unrecognized envelopes
// are counted and dropped; they are never fatal to the session.
func (s *Session) dispatch(raw []byte) {
	env, err := Decode(raw)
	if err != nil {
		sessionDiscards.Inc()
		s.logger.Debug().Err(err).Msg("discarding malformed envelope")
		return
	}

	switch env.Type {
	case TypeText:
		if env.Text == "" {
			sessionDiscards.Inc()
			return
		}
		msg := Message{Text: env.Text, Sender: SenderAssistant, Timestamp: time.Now()}
		s.log.Append(msg)
		sessionReplies.Inc()
		if s.notify != nil {
			s.notify(msg)
		}
	case TypeError:
		// Diagnostic only; does not alter connection state.
		s.logger.Warn().Str("message", env.Message).Msg("assistant service error")
	case TypeTurnComplete:
		s.logger.Debug().Msg("assistant turn complete")
	default:
		sessionDiscards.Inc()
		s.logger.Debug().Str("type", env.Type).Msg("discarding unrecognized envelope")
	}
}

// handleClosed reacts to a broken read loop: the session transitions to
// disconnected and, unless the closure was deliberate, exactly one reconnect
// is scheduled after the fixed delay.
func (s *Session) handleClosed(gen uint64, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}

	deliberate := s.state == StateClosing
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.state = StateDisconnected
	if deliberate {
		return
	}

	s.logger.Warn().Err(cause).Dur("retry_in", s.reconnectDelay).Msg("assistant channel lost")
	s.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the single retry timer. Callers hold s.mu.
// The policy is a fixed delay with no backoff, no attempt cap, and no
// jitter: the channel is a single per-session resource and a human is
// present to abandon it if reconnection is hopeless.
func (s *Session) scheduleReconnectLocked() {
	if s.retry != nil {
		return
	}
	sessionReconnects.Inc()
	s.retry = time.AfterFunc(s.reconnectDelay, func() {
		s.mu.Lock()
		s.retry = nil
		s.mu.Unlock()
		_ = s.Connect(context.Background())
	})
}

// Close tears the session down deliberately: any pending reconnect is
// cancelled, the channel (if open) is closed, and no reconnect is scheduled.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return nil
	}
	conn := s.conn
	s.conn = nil
	if conn != nil {
		// The read loop resolves closing -> disconnected when it observes
		// the closed connection.
		s.state = StateClosing
	} else {
		s.state = StateDisconnected
		s.gen++ // fence an in-flight Connect
	}
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
