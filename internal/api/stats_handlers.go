package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/reading",
		Summary:     "Reading statistics",
		Description: "Returns status counts, pages read and average rating, recomputed on every call",
		Tags:        []string{"Stats"},
	}, s.handleReadingStats)
}

// ReadingStatsInput selects the year counted by booksThisYear.
type ReadingStatsInput struct {
	Year int `query:"year" minimum:"1" doc:"Calendar year, defaults to the current one"`
}

// ReadingStatsOutput wraps the reading stats for Huma.
type ReadingStatsOutput struct {
	Body *domain.ReadingStats
}

func (s *Server) handleReadingStats(ctx context.Context, input *ReadingStatsInput) (*ReadingStatsOutput, error) {
	stats, err := s.services.Stats.ReadingStats(ctx, input.Year)
	if err != nil {
		return nil, err
	}
	return &ReadingStatsOutput{Body: stats}, nil
}
