package chat

import "errors"

// Session-level errors. These cover precondition refusals only; transport
// failures are absorbed by the reconnect policy and never surface to callers.
var (
	// ErrEmptyMessage is returned by Send when the text is empty after
	// trimming. Callers normally prevent this by disabling the send
	// affordance.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNotConnected is returned by Send while the channel is not open.
	// Callers use it to keep the send affordance disabled while
	// disconnected.
	ErrNotConnected = errors.New("assistant channel not open")
)
