package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	// sessionSends counts user messages accepted for transmission.
	sessionSends = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_sends_total",
		Help: "Total number of user messages sent over the assistant channel.",
	})

	// sessionReplies counts assistant replies appended to the log.
	sessionReplies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_replies_total",
		Help: "Total number of assistant replies received.",
	})

	// sessionReconnects counts channel losses that scheduled a reconnect.
	sessionReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_reconnects_total",
		Help: "Total number of reconnect attempts scheduled after channel loss.",
	})

	// sessionDiscards counts inbound envelopes dropped as malformed or unknown.
	sessionDiscards = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_chat_discarded_envelopes_total",
		Help: "Total number of inbound envelopes discarded.",
	})
)

func init() {
	prometheus.MustRegister(sessionSends, sessionReplies, sessionReconnects, sessionDiscards)
}
