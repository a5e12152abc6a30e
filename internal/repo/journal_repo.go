// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// JournalEntry model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an entry is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindhaven/go-companion-core/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateJournalEntry inserts a new journal entry row for the given calendar
// date. The ID is a randomly generated UUID and CreatedAt is set to UTC.
func CreateJournalEntry(ctx context.Context, db *gorm.DB, content, calendarDate string) (*domain.JournalEntry, error) {
	e := &domain.JournalEntry{
		ID:           uuid.NewString(),
		Content:      content,
		CalendarDate: calendarDate,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListJournalEntries returns all journal entries ordered most-recent-first
// (CreatedAt DESC, ID DESC for determinism within a timestamp).
func ListJournalEntries(ctx context.Context, db *gorm.DB) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CountJournalEntries returns the total number of journal entries.
func CountJournalEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.JournalEntry{}).
		Count(&total).Error
	return total, err
}

// ListJournalEntriesPage returns a paginated slice of journal entries,
// most-recent-first. The caller computes offset and limit.
func ListJournalEntriesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteJournalEntry removes the entry with the given ID (soft delete).
// Returns ErrNotFound when no row matched.
func DeleteJournalEntry(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.JournalEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
