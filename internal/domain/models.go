// Package domain defines the persistence models for journal and mood
// entries. These types are mapped with GORM and form the core data layer
// of the companion application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Mood levels. Values are ordinal: 1 is the lowest mood, 5 the highest.
const (
	MoodVerySad   = 1
	MoodSad       = 2
	MoodNeutral   = 3
	MoodHappy     = 4
	MoodVeryHappy = 5
)

// moodLabels maps a mood value to its display label.
var moodLabels = map[int]string{
	MoodVerySad:   "Very Sad",
	MoodSad:       "Sad",
	MoodNeutral:   "Neutral",
	MoodHappy:     "Happy",
	MoodVeryHappy: "Very Happy",
}

// MoodLabel returns the display label for an ordinal mood value, or ""
// if the value is outside the defined 1..5 range.
func MoodLabel(value int) string {
	return moodLabels[value]
}

// ValidMoodValue reports whether value is one of the five defined mood levels.
func ValidMoodValue(value int) bool {
	_, ok := moodLabels[value]
	return ok
}

// JournalEntry represents a single free-text journal entry. Entries are
// immutable after creation; the only mutation is deletion by ID.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Content: the entry body; never empty (validated by the service layer).
//   - CalendarDate: the entry's logical day as "YYYY-MM-DD". Distinct from
//     CreatedAt, which is the display timestamp. Indexed for streak queries.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for history).
type JournalEntry struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Content      string         `json:"content"       gorm:"type:text;not null"`
	CalendarDate string         `json:"calendar_date" gorm:"type:char(10);not null;index:idx_journal_day"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for JournalEntry.
func (JournalEntry) TableName() string { return "journal_entries" }

// MoodEntry represents one recorded mood. At most one entry may exist per
// calendar day (enforced by the service layer and a unique index).
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Value: ordinal mood level 1..5 (enforced by DB constraint).
//   - Label: display label derived from Value at creation time.
//   - Note: optional free text attached to the mood.
//   - CalendarDate: the entry's logical day as "YYYY-MM-DD"; unique.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type MoodEntry struct {
	ID           string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Value        int            `json:"value"          gorm:"not null;check:value BETWEEN 1 AND 5"`
	Label        string         `json:"label"          gorm:"type:varchar(16);not null"`
	Note         string         `json:"note,omitempty" gorm:"type:text"`
	CalendarDate string         `json:"calendar_date"  gorm:"type:char(10);not null;uniqueIndex:ux_mood_day"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for MoodEntry.
func (MoodEntry) TableName() string { return "mood_entries" }

// StreakState is the derived consecutive-day streak for a feature. It is
// recomputed whenever the underlying entry collection changes and mirrored
// to the slot store for fast restart; it is not a GORM model.
type StreakState struct {
	// Count is the number of consecutive calendar days with at least one entry.
	Count int `json:"count"`
	// LastEntryDate is the calendar date ("YYYY-MM-DD") of the most recent
	// contributing entry, or "" when no entry has ever been recorded.
	LastEntryDate string `json:"last_entry_date"`
}
