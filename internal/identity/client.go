// Package identity looks up the companion user's profile from a hosted
// Supabase project. The companion itself keeps all journal and mood data
// locally; identity is only consulted to attach a display name and care
// preferences to the local state.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"
)

// Config holds Supabase connection configuration.
type Config struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // Default: 5 minutes
}

// Profile is a companion user's hosted profile record.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	// Timezone is an IANA zone name used to align calendar-day boundaries
	// with the user's locale.
	Timezone string `json:"timezone"`
	// CheckInReminder enables the daily mood check-in nudge.
	CheckInReminder bool      `json:"check_in_reminder"`
	CreatedAt       time.Time `json:"created_at"`
}

// Client fetches profiles from Supabase with a small read-through cache.
type Client struct {
	client   *supabase.Client
	cacheTTL time.Duration

	mu      sync.RWMutex
	byEmail map[string]cachedProfile
}

type cachedProfile struct {
	profile   *Profile
	expiresAt time.Time
}

// New creates a new identity client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:   client,
		cacheTTL: cfg.CacheTTL,
		byEmail:  make(map[string]cachedProfile),
	}, nil
}

// ProfileByEmail retrieves a profile by email address.
func (c *Client) ProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	if cached := c.cached(email); cached != nil {
		return cached, nil
	}

	var profile Profile
	_, err := c.client.From("profiles").
		Select("*", "", false).
		Eq("email", email).
		Single().
		ExecuteTo(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	c.store(email, &profile)
	return &profile, nil
}

func (c *Client) cached(email string) *Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.byEmail[email]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.profile
}

func (c *Client) store(email string, p *Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byEmail[email] = cachedProfile{
		profile:   p,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}
