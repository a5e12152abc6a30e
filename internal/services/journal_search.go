package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindhaven/go-companion-core/internal/repo"
	"github.com/mindhaven/go-companion-core/internal/search"
)

// SearchJournal ranks journal entries against a free-text query and returns
// up to k matches. The index is rebuilt per call; entry volumes here are
// small enough that this stays cheap.
func (s *ProgressService) SearchJournal(ctx context.Context, query string, k int) ([]search.Result, error) {
	tr := otel.Tracer("services/ProgressService")
	ctx, span := tr.Start(ctx, "SearchJournal",
		trace.WithAttributes(attribute.Int("k", k)),
	)
	defer span.End()

	entries, err := repo.ListJournalEntries(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	indexed := make([]search.Entry, 0, len(entries))
	for _, e := range entries {
		indexed = append(indexed, search.Entry{
			ID:      e.ID,
			Date:    e.CalendarDate,
			Content: e.Content,
		})
	}

	idx := search.NewIndex(indexed)
	return idx.TopK(query, k), nil
}
