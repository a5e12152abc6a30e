package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindhaven/go-companion-core/internal/domain"
)

// CreateMoodEntry inserts a new mood entry for the given calendar date.
// The calendar date carries a unique index, so a second insert for the same
// day fails at the DB level; callers should check HasMoodForDate first for a
// friendlier error.
func CreateMoodEntry(ctx context.Context, db *gorm.DB, value int, note, calendarDate string) (*domain.MoodEntry, error) {
	e := &domain.MoodEntry{
		ID:           uuid.NewString(),
		Value:        value,
		Label:        domain.MoodLabel(value),
		Note:         note,
		CalendarDate: calendarDate,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// GetMoodByDate returns the mood entry recorded for the given calendar date,
// or ErrNotFound when the day has no entry.
func GetMoodByDate(ctx context.Context, db *gorm.DB, calendarDate string) (*domain.MoodEntry, error) {
	var e domain.MoodEntry
	err := db.WithContext(ctx).
		Where("calendar_date = ?", calendarDate).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// HasMoodForDate reports whether a mood entry already exists for the given
// calendar date.
func HasMoodForDate(ctx context.Context, db *gorm.DB, calendarDate string) (bool, error) {
	_, err := GetMoodByDate(ctx, db, calendarDate)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ListMoodEntries returns all mood entries ordered most-recent-first by
// calendar date.
func ListMoodEntries(ctx context.Context, db *gorm.DB) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Order("calendar_date DESC").
		Find(&out).Error
	return out, err
}

// CountMoodEntries returns the total number of mood entries.
func CountMoodEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Count(&total).Error
	return total, err
}

// ListMoodEntriesPage returns a paginated slice of mood entries,
// most-recent-first by calendar date.
func ListMoodEntriesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Order("calendar_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListMoodDates returns the distinct calendar dates that have a mood entry,
// most-recent-first. Used for streak derivation.
func ListMoodDates(ctx context.Context, db *gorm.DB) ([]string, error) {
	var dates []string
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Order("calendar_date DESC").
		Pluck("calendar_date", &dates).Error
	return dates, err
}

// DeleteMoodEntry removes the mood entry with the given ID. The delete is
// hard: a soft-deleted row would keep its calendar date held by the unique
// index and block a fresh check-in for that day.
// Returns ErrNotFound when no row matched.
func DeleteMoodEntry(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&domain.MoodEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
