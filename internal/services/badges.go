package services

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/mindhaven/go-companion-core/internal/repo"
)

// Badge is a milestone awarded for journaling progress.
type Badge struct {
	// Name is the short display name of the badge.
	Name string
	// Description explains how the badge is earned.
	Description string
	// Earned reports whether the milestone has been reached.
	Earned bool
}

// EvaluateBadges returns the full badge set with earned flags computed from
// the total entry count and the current streak count. It is a pure function
// of its inputs so milestones can be re-derived at any time.
func EvaluateBadges(entryCount int64, streakCount int) []Badge {
	return []Badge{
		{
			Name:        "First Entry",
			Description: "Write your first journal entry",
			Earned:      entryCount >= 1,
		},
		{
			Name:        "3-Day Streak",
			Description: "Journal three days in a row",
			Earned:      streakCount >= 3,
		},
		{
			Name:        "7-Day Streak",
			Description: "Journal seven days in a row",
			Earned:      streakCount >= 7,
		},
		{
			Name:        "10 Entries",
			Description: "Write ten journal entries",
			Earned:      entryCount >= 10,
		},
	}
}

// Badges evaluates the badge set against the current journal entry count
// and streak state.
func (s *ProgressService) Badges(ctx context.Context) ([]Badge, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "Badges")
	defer span.End()

	total, err := repo.CountJournalEntries(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	streak, _, err := s.JournalStreak(ctx)
	if err != nil {
		return nil, err
	}
	return EvaluateBadges(total, streak), nil
}
