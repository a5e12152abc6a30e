// Package store provides a small key-value slot store used for progress
// counters that live outside the relational entry history, such as the
// current streak count and the date of the most recent entry.
//
// Two drivers are available: an in-memory map for tests and ephemeral runs,
// and a Badger-backed store for durable local persistence. The factory
// follows a functional-options pattern so drivers can grow settings without
// breaking callers.
package store

import (
	"context"
	"errors"
)

// Slot keys for progress state. Each feature keeps its own streak counter
// and last-entry date, mirroring the separate per-feature persistence of
// the progress tracker.
const (
	SlotJournalStreak   = "journal:streak"
	SlotJournalLastDate = "journal:last_date"
	SlotMoodStreak      = "mood:streak"
	SlotMoodLastDate    = "mood:last_date"
)

var (
	// ErrNotFound is returned by Get when the slot has never been set.
	ErrNotFound = errors.New("store: slot not found")

	// ErrInvalidStoreType is returned by NewStore for an unknown driver.
	ErrInvalidStoreType = errors.New("store: invalid store type")

	// ErrInvalidConfig is returned when a driver is missing required options.
	ErrInvalidConfig = errors.New("store: invalid store configuration")
)

// Store is a minimal string slot store.
type Store interface {
	// Get retrieves the value for a slot.
	// Returns ErrNotFound if the slot has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for a slot, creating or overwriting it.
	Set(ctx context.Context, key, value string) error

	// Delete removes a slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// StoreType identifies a slot store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeBadger StoreType = "badger"
)

// StoreOption is a functional option for configuring a slot store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	badgerPath string
}

// WithBadgerPath sets the on-disk directory for the Badger store.
func WithBadgerPath(path string) StoreOption {
	return func(c *storeConfig) {
		c.badgerPath = path
	}
}

// NewStore creates a slot store for the given driver type.
// Supports "memory" and "badger". Badger requires WithBadgerPath.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(), nil

	case StoreTypeBadger:
		if config.badgerPath == "" {
			return nil, ErrInvalidConfig
		}
		return newBadgerStore(config.badgerPath)

	default:
		return nil, ErrInvalidStoreType
	}
}
