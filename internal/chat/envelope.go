// Package chat implements the session core of the companion application:
// the connection manager for the external assistant service, the wire
// envelopes exchanged with it, and the in-memory message log with its
// autoscroll policy.
package chat

import (
	"encoding/json"
	"errors"
)

// Envelope type discriminators. Outbound envelopes carry "config" and "text";
// inbound envelopes carry "text", "error", and "turn_complete".
const (
	TypeConfig       = "config"
	TypeText         = "text"
	TypeError        = "error"
	TypeTurnComplete = "turn_complete"
)

// ErrEmptyEnvelope is returned by Decode when the payload parses but carries
// no type discriminator.
var ErrEmptyEnvelope = errors.New("envelope has no type")

// SessionConfig is the one-time configuration handshake sent immediately
// after the channel opens. The system prompt content is an external-service
// concern; the session only carries it.
type SessionConfig struct {
	SystemPrompt string `json:"systemPrompt"`
}

// Envelope is the tagged message unit exchanged over the assistant channel.
// Exactly one payload field is populated, selected by Type.
type Envelope struct {
	Type string `json:"type"`

	// Data carries outbound user text (Type == "text", client to service).
	Data string `json:"data,omitempty"`
	// Config carries the outbound handshake (Type == "config").
	Config *SessionConfig `json:"config,omitempty"`

	// Text carries an inbound assistant reply (Type == "text", service to client).
	Text string `json:"text,omitempty"`
	// Message carries an inbound service-side diagnostic (Type == "error").
	Message string `json:"message,omitempty"`
}

// EncodeConfig serializes the configuration handshake envelope.
func EncodeConfig(systemPrompt string) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:   TypeConfig,
		Config: &SessionConfig{SystemPrompt: systemPrompt},
	})
}

// EncodeText serializes a user message envelope.
func EncodeText(text string) ([]byte, error) {
	return json.Marshal(Envelope{Type: TypeText, Data: text})
}

// Decode parses an inbound payload into an Envelope. Malformed JSON and
// untyped payloads are errors; an unrecognized (but well-formed) type is not,
// so the caller can decide how to treat unknown tags.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, ErrEmptyEnvelope
	}
	return env, nil
}
