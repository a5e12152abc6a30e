// Package services – ProgressService
//
// This file implements the ProgressService, which manages journal entries,
// mood check-ins, and the daily streak state derived from them. Entry
// histories are persisted relationally while streak counters live in a small
// slot store, each feature keeping its own counter and last-entry date.
//
// The two features track streaks differently on purpose. The journal streak
// is incremental: it is advanced (or reset) at the moment an entry is written
// and the stored value is what gets reported, even when it has gone stale.
// The mood streak is derived from the recorded check-in dates on every read
// and reports zero unless the run of consecutive days reaches today.
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mindhaven/go-companion-core/internal/domain"
	"github.com/mindhaven/go-companion-core/internal/repo"
	"github.com/mindhaven/go-companion-core/internal/store"
	"github.com/mindhaven/go-companion-core/internal/utils"
)

// ProgressService provides journal and mood operations together with the
// streak and badge bookkeeping attached to them.
type ProgressService struct {
	// DB is the GORM handle used for entry persistence.
	DB *gorm.DB
	// Slots is the key-value store holding streak counters.
	Slots store.Store

	// MaxEntryRunes caps journal entries by rune length. Zero disables the cap.
	MaxEntryRunes int
	// TitleMaxLen caps derived entry titles by rune length.
	TitleMaxLen int
	// TitleLocale controls casing when deriving entry titles.
	TitleLocale language.Tag

	// Now supplies the current time; overridable in tests to pin the
	// calendar date.
	Now func() time.Time
}

// NewProgressService constructs a ProgressService with sane defaults.
func NewProgressService(db *gorm.DB, slots store.Store) *ProgressService {
	return &ProgressService{
		DB:            db,
		Slots:         slots,
		MaxEntryRunes: 4000,
		TitleMaxLen:   60,
		TitleLocale:   language.Und,
		Now:           time.Now,
	}
}

// today returns the current calendar date per the service clock.
func (s *ProgressService) today() string {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return domain.DateOf(now())
}

// AddJournalEntry validates and persists a journal entry for today, then
// advances the journal streak. Returns the stored entry and the streak count
// after the write.
func (s *ProgressService) AddJournalEntry(ctx context.Context, content string) (*domain.JournalEntry, int, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "AddJournalEntry")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, 0, ErrEmptyEntry
	}
	if s.MaxEntryRunes > 0 && utf8.RuneCountInString(content) > s.MaxEntryRunes {
		return nil, 0, ErrEntryTooLong
	}

	today := s.today()
	entry, err := repo.CreateJournalEntry(ctx, s.DB, content, today)
	if err != nil {
		return nil, 0, err
	}

	count, last, err := s.readStreak(ctx, store.SlotJournalStreak, store.SlotJournalLastDate)
	if err != nil {
		return nil, 0, err
	}
	count = nextStreak(count, last, today)
	if err := s.writeStreak(ctx, store.SlotJournalStreak, store.SlotJournalLastDate, count, today); err != nil {
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("streak.count", count))
	return entry, count, nil
}

// AddMoodEntry validates and persists a mood check-in for today. At most one
// check-in may exist per calendar day; a second attempt for the same day is
// rejected without changing any state.
func (s *ProgressService) AddMoodEntry(ctx context.Context, value int, note string) (*domain.MoodEntry, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "AddMoodEntry",
		trace.WithAttributes(attribute.Int("mood.value", value)),
	)
	defer span.End()

	if !domain.ValidMoodValue(value) {
		return nil, ErrInvalidMood
	}

	today := s.today()
	exists, err := repo.HasMoodForDate(ctx, s.DB, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateMood
	}

	entry, err := repo.CreateMoodEntry(ctx, s.DB, value, strings.TrimSpace(note), today)
	if err != nil {
		return nil, err
	}

	// Refresh the cached mood streak so slot state mirrors the derived value.
	streak, err := s.MoodStreak(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.writeStreak(ctx, store.SlotMoodStreak, store.SlotMoodLastDate, streak, today); err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteJournalEntry removes a journal entry by ID. Streak state is left
// untouched: removing an entry does not rewind progress already earned.
func (s *ProgressService) DeleteJournalEntry(ctx context.Context, id string) error {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "DeleteJournalEntry",
		trace.WithAttributes(attribute.String("entry.id", id)),
	)
	defer span.End()

	if err := repo.DeleteJournalEntry(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// DeleteMoodEntry removes a mood check-in by ID. As with journal entries,
// streak state is left untouched.
func (s *ProgressService) DeleteMoodEntry(ctx context.Context, id string) error {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "DeleteMoodEntry",
		trace.WithAttributes(attribute.String("entry.id", id)),
	)
	defer span.End()

	if err := repo.DeleteMoodEntry(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// ListJournalPage returns paginated journal entries, most recent first,
// along with the total entry count.
func (s *ProgressService) ListJournalPage(ctx context.Context, page, pageSize int) ([]domain.JournalEntry, int64, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "ListJournalPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	offset, limit := pageWindow(page, pageSize)
	total, err := repo.CountJournalEntries(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	entries, err := repo.ListJournalEntriesPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListMoodPage returns paginated mood check-ins, most recent first, along
// with the total check-in count.
func (s *ProgressService) ListMoodPage(ctx context.Context, page, pageSize int) ([]domain.MoodEntry, int64, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "ListMoodPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	offset, limit := pageWindow(page, pageSize)
	total, err := repo.CountMoodEntries(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	entries, err := repo.ListMoodEntriesPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// JournalStreak returns the stored journal streak count and the calendar
// date of the most recent entry. A streak that has never started reports
// zero with an empty date.
func (s *ProgressService) JournalStreak(ctx context.Context) (int, string, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "JournalStreak")
	defer span.End()

	count, last, err := s.readStreak(ctx, store.SlotJournalStreak, store.SlotJournalLastDate)
	if err != nil {
		return 0, "", err
	}
	return count, last, nil
}

// MoodStreak derives the mood streak from the recorded check-in dates. The
// run must reach today to count: a streak that ended yesterday reports zero.
func (s *ProgressService) MoodStreak(ctx context.Context) (int, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "MoodStreak")
	defer span.End()

	dates, err := repo.ListMoodDates(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	if len(dates) == 0 || dates[0] != s.today() {
		return 0, nil
	}
	return consecutiveRun(dates), nil
}

// readStreak loads a streak counter pair from the slot store. Missing slots
// read as the zero state.
func (s *ProgressService) readStreak(ctx context.Context, countKey, dateKey string) (int, string, error) {
	raw, err := s.Slots.Get(ctx, countKey)
	if errors.Is(err, store.ErrNotFound) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	// A corrupt slot reads as a never-started streak.
	count := utils.AtoiDefault(raw, 0)

	last, err := s.Slots.Get(ctx, dateKey)
	if errors.Is(err, store.ErrNotFound) {
		return count, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return count, last, nil
}

// writeStreak persists a streak counter pair to the slot store.
func (s *ProgressService) writeStreak(ctx context.Context, countKey, dateKey string, count int, date string) error {
	if err := s.Slots.Set(ctx, countKey, strconv.Itoa(count)); err != nil {
		return err
	}
	return s.Slots.Set(ctx, dateKey, date)
}

// nextStreak advances a streak counter given the previous state and today's
// date. A first entry starts at one, a consecutive day increments, a repeat
// day leaves the count unchanged, and any gap resets to one.
func nextStreak(count int, last, today string) int {
	if last == "" {
		return 1
	}
	switch domain.DayDiff(last, today) {
	case 0:
		if count < 1 {
			return 1
		}
		return count
	case 1:
		return count + 1
	default:
		return 1
	}
}

// consecutiveRun counts the run of consecutive calendar days at the head of
// a descending, duplicate-free date list.
func consecutiveRun(dates []string) int {
	run := 1
	expected := domain.PrevDay(dates[0])
	for _, d := range dates[1:] {
		if d != expected {
			break
		}
		run++
		expected = domain.PrevDay(d)
	}
	return run
}

// pageWindow converts 1-based page arguments to an offset and limit,
// clamping out-of-range values.
func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
