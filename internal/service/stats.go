package service

import (
	"context"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// StatsService computes reading statistics. Nothing is cached.
type StatsService struct {
	store store.Store
	now   func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st, now: time.Now}
}

// ReadingStats summarises the library. booksThisYear counts books finished
// in the given calendar year (UTC), the current one when year is 0.
func (s *StatsService) ReadingStats(ctx context.Context, year int) (*domain.ReadingStats, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	agg, err := s.store.BookAggregates(ctx, store.TimeWindow{From: from, To: from.AddDate(1, 0, 0)})
	if err != nil {
		return nil, err
	}

	return &domain.ReadingStats{
		Year:             year,
		TotalBooks:       agg.Total,
		BooksRead:        agg.Read,
		CurrentlyReading: agg.CurrentlyReading,
		WantToRead:       agg.WantToRead,
		DNF:              agg.DNF,
		PagesRead:        agg.PagesRead,
		AverageRating:    agg.AverageRating,
		BooksThisYear:    agg.FinishedInWindow,
	}, nil
}
