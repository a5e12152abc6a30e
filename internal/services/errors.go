// Package services defines the business logic for journal entries, mood
// check-ins, and progress tracking. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages should be performed at the CLI or
// presentation layer.
package services

import "errors"

// Progress-related errors.
var (
	// ErrEmptyEntry is returned when a journal entry contains no text after
	// trimming whitespace.
	ErrEmptyEntry = errors.New("entry is empty")

	// ErrEntryTooLong is returned when a journal entry exceeds the maximum
	// configured length limit.
	ErrEntryTooLong = errors.New("entry too long")

	// ErrInvalidMood is returned when a mood value is outside the allowed
	// ordinal range (1 through 5).
	ErrInvalidMood = errors.New("mood value must be between 1 and 5")

	// ErrDuplicateMood is returned when a mood check-in already exists for
	// today's calendar date.
	ErrDuplicateMood = errors.New("mood already recorded for today")

	// ErrEntryNotFound indicates that the requested entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)
