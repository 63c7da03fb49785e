package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// BookAggregates computes reading totals in one pass. Pages and rating
// only count READ books; FinishedInWindow counts any book whose
// finished_at falls in window.
func (s *Store) BookAggregates(ctx context.Context, window store.TimeWindow) (store.BookAggregates, error) {
	var (
		agg store.BookAggregates
		avg sql.NullFloat64
	)
	read := string(domain.BookRead)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN pages END), 0),
			AVG(CASE WHEN status = ? THEN rating END),
			COALESCE(SUM(finished_at >= ? AND finished_at < ?), 0)
		FROM books`,
		read, string(domain.BookCurrentlyReading), string(domain.BookWantToRead), string(domain.BookDNF),
		read, read,
		formatTime(window.From), formatTime(window.To),
	).Scan(&agg.Total, &agg.Read, &agg.CurrentlyReading, &agg.WantToRead, &agg.DNF,
		&agg.PagesRead, &avg, &agg.FinishedInWindow)
	if err != nil {
		return store.BookAggregates{}, fmt.Errorf("aggregate books: %w", err)
	}
	if avg.Valid {
		v := avg.Float64
		agg.AverageRating = &v
	}
	return agg, nil
}
