// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the assistant endpoint, reconnect policy, logging, storage paths,
// the identity backend, and observability.
package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSystemPrompt is the behavior directive sent to the assistant service
// once per connection, immediately after the channel opens.
const DefaultSystemPrompt = "You are a compassionate and emotionally intelligent mental health assistant. " +
	"Your goal is to help users talk through their feelings, understand their emotions, " +
	"and feel heard without judgment. Ask open-ended and gentle follow-up questions when appropriate, " +
	"encourage self-reflection, and validate the user's experience. Never diagnose or offer medical advice. " +
	"If a user expresses signs of crisis or self-harm, recommend speaking to a trusted person or contacting a local helpline. " +
	"Maintain a calm, kind, and supportive tone in every message."

// AssistantConfig defines how the chat session reaches the external
// assistant service and how it recovers from channel loss.
type AssistantConfig struct {
	URL            string        // ASSISTANT_URL (ws:// or wss://)
	SystemPrompt   string        // ASSISTANT_SYSTEM_PROMPT
	ReconnectDelay time.Duration // ASSISTANT_RECONNECT_DELAY (fixed, no backoff)
	DialTimeout    time.Duration // ASSISTANT_DIAL_TIMEOUT
}

// StoreConfig defines the named-slot store used for streak bookkeeping.
type StoreConfig struct {
	Backend string // STORE_BACKEND: memory|badger
	Path    string // STORE_PATH (badger directory)
}

// IdentityConfig defines the external identity/profile backend (Supabase).
// Optional: when URL is empty the identity client is not constructed.
type IdentityConfig struct {
	SupabaseURL string // SUPABASE_URL
	SupabaseKey string // SUPABASE_ANON_KEY
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-companion-core")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Assistant channel
	Assistant AssistantConfig

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Storage
	DBPath string      // SQLite path for entry histories
	Store  StoreConfig // slot store for streak state

	// Viewport
	ScrollThreshold int // lines from the bottom within which autoscroll engages

	// Identity backend (external collaborator)
	Identity IdentityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Assistant: AssistantConfig{
			URL:            getenv("ASSISTANT_URL", "ws://localhost:8000/ws/webclient"),
			SystemPrompt:   getenv("ASSISTANT_SYSTEM_PROMPT", DefaultSystemPrompt),
			ReconnectDelay: getdur("ASSISTANT_RECONNECT_DELAY", 3*time.Second),
			DialTimeout:    getdur("ASSISTANT_DIAL_TIMEOUT", 10*time.Second),
		},

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		DBPath: getenv("DB_PATH", "companion.db"),
		Store: StoreConfig{
			Backend: strings.ToLower(getenv("STORE_BACKEND", "badger")),
			Path:    getenv("STORE_PATH", "companion-slots"),
		},

		ScrollThreshold: getint("SCROLL_THRESHOLD", 3),

		Identity: IdentityConfig{
			SupabaseURL: getenv("SUPABASE_URL", ""),
			SupabaseKey: getenv("SUPABASE_ANON_KEY", ""),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-companion-core"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	u, err := url.Parse(cfg.Assistant.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return cfg, errors.New("ASSISTANT_URL must be a ws:// or wss:// URL")
	}
	if strings.TrimSpace(cfg.Assistant.SystemPrompt) == "" {
		return cfg, errors.New("ASSISTANT_SYSTEM_PROMPT must not be empty")
	}
	if cfg.Assistant.ReconnectDelay <= 0 {
		return cfg, errors.New("ASSISTANT_RECONNECT_DELAY must be a positive duration")
	}
	if cfg.Assistant.DialTimeout <= 0 {
		return cfg, errors.New("ASSISTANT_DIAL_TIMEOUT must be a positive duration")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	switch cfg.Store.Backend {
	case "memory", "badger":
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: memory, badger")
	}
	if cfg.Store.Backend == "badger" && strings.TrimSpace(cfg.Store.Path) == "" {
		return cfg, errors.New("STORE_PATH must not be empty when STORE_BACKEND is badger")
	}
	if cfg.ScrollThreshold < 0 {
		return cfg, errors.New("SCROLL_THRESHOLD must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
