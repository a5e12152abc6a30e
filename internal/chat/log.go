package chat

import (
	"sync"
	"time"
)

// Sender identifies which side of the conversation authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single chat utterance. Messages are created on send/receive,
// never mutated, and live only for the duration of the session.
type Message struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is the append-only, chronologically ordered record of messages for one
// session. Append order equals causal order of creation: a user message is
// appended before its network write, so it always precedes the reply it
// provoked. The log is unbounded; sessions are single-tab and short-lived.
type Log struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewLog returns an empty message log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	l.msgs = append(l.msgs, m)
	l.mu.Unlock()
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.msgs)
}

// Messages returns a snapshot copy of the log in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// Viewport models the visible window a renderer holds over the log and owns
// the autoscroll policy: when content grows, the window advances to the new
// bottom only if the viewer was already within Threshold lines of it. A
// viewer scrolled up to read history is never interrupted.
type Viewport struct {
	// Height is the number of visible lines.
	Height int
	// Threshold is the proximity to the bottom, in lines, within which the
	// viewport follows appended content.
	Threshold int

	offset int // index of the first visible line
	total  int // total content lines
}

// NewViewport returns a viewport of the given height and follow threshold.
func NewViewport(height, threshold int) *Viewport {
	return &Viewport{Height: height, Threshold: threshold}
}

// Offset returns the index of the first visible line.
func (v *Viewport) Offset() int { return v.offset }

// nearBottom reports whether the viewer is "caught up": within Threshold
// lines of the bottom of the content.
func (v *Viewport) nearBottom() bool {
	return v.total-(v.offset+v.Height) <= v.Threshold
}

// AtBottom reports whether the newest content line is visible.
func (v *Viewport) AtBottom() bool {
	return v.total <= v.offset+v.Height
}

// ScrollTo moves the window so offset is the first visible line, clamped to
// the valid range.
func (v *Viewport) ScrollTo(offset int) {
	max := v.total - v.Height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	v.offset = offset
}

// Extend records that the content grew by n lines and applies the autoscroll
// policy: the decision uses the position held immediately prior to the
// append.
func (v *Viewport) Extend(n int) {
	follow := v.nearBottom()
	v.total += n
	if follow {
		v.ScrollTo(v.total - v.Height)
	}
}
