package domain

import (
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	if (JournalEntry{}).TableName() != "journal_entries" {
		t.Fatalf("JournalEntry.TableName() = %q; want %q", (JournalEntry{}).TableName(), "journal_entries")
	}
	if (MoodEntry{}).TableName() != "mood_entries" {
		t.Fatalf("MoodEntry.TableName() = %q; want %q", (MoodEntry{}).TableName(), "mood_entries")
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&JournalEntry{}, &MoodEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&JournalEntry{}, &MoodEntry{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	if !m.HasIndex(&JournalEntry{}, "idx_journal_day") {
		t.Fatalf("expected index idx_journal_day on journal_entries")
	}
	if !m.HasIndex(&MoodEntry{}, "ux_mood_day") {
		t.Fatalf("expected unique index ux_mood_day on mood_entries")
	}
}

func TestMoodLabels(t *testing.T) {
	cases := map[int]string{
		MoodVerySad:   "Very Sad",
		MoodSad:       "Sad",
		MoodNeutral:   "Neutral",
		MoodHappy:     "Happy",
		MoodVeryHappy: "Very Happy",
	}
	for v, want := range cases {
		if got := MoodLabel(v); got != want {
			t.Errorf("MoodLabel(%d) = %q; want %q", v, got, want)
		}
		if !ValidMoodValue(v) {
			t.Errorf("ValidMoodValue(%d) = false; want true", v)
		}
	}
	for _, v := range []int{0, 6, -1, 100} {
		if ValidMoodValue(v) {
			t.Errorf("ValidMoodValue(%d) = true; want false", v)
		}
		if MoodLabel(v) != "" {
			t.Errorf("MoodLabel(%d) = %q; want empty", v, MoodLabel(v))
		}
	}
}

func TestDateHelpers(t *testing.T) {
	if got := DayDiff("2025-03-01", "2025-03-04"); got != 3 {
		t.Fatalf("DayDiff = %d; want 3", got)
	}
	if got := DayDiff("2025-03-04", "2025-03-01"); got != -3 {
		t.Fatalf("DayDiff reversed = %d; want -3", got)
	}
	if got := DayDiff("2025-02-28", "2025-03-01"); got != 1 {
		t.Fatalf("DayDiff across month = %d; want 1", got)
	}
	if got := DayDiff("bogus", "2025-03-01"); got != 0 {
		t.Fatalf("DayDiff malformed = %d; want 0", got)
	}
	if got := PrevDay("2025-03-01"); got != "2025-02-28" {
		t.Fatalf("PrevDay = %q; want 2025-02-28", got)
	}
	if got := PrevDay("nope"); got != "" {
		t.Fatalf("PrevDay malformed = %q; want empty", got)
	}
}
