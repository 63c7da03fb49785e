package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerQuoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes",
		Summary:     "List quotes",
		Description: "Returns a page of quotes with optional filters",
		Tags:        []string{"Quotes"},
	}, s.handleListQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createQuote",
		Method:        http.MethodPost,
		Path:          "/api/v1/quotes",
		Summary:       "Create quote",
		Description:   "Saves a quote, optionally linked to a book",
		Tags:          []string{"Quotes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRandomQuote",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/random",
		Summary:     "Random quote",
		Description: "Returns one quote picked at random, or null when none match",
		Tags:        []string{"Quotes"},
	}, s.handleRandomQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuotesByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/by-tag/{tagSlug}",
		Summary:     "List quotes by tag",
		Description: "Returns quotes carrying the tag, newest first",
		Tags:        []string{"Quotes"},
	}, s.handleListQuotesByTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuote",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Get quote",
		Description: "Returns a quote by ID",
		Tags:        []string{"Quotes"},
	}, s.handleGetQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateQuote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Update quote",
		Description: "Updates a quote",
		Tags:        []string{"Quotes"},
	}, s.handleUpdateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteQuote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Delete quote",
		Description: "Deletes a quote and any collection items pointing at it",
		Tags:        []string{"Quotes"},
	}, s.handleDeleteQuote)
}

// === DTOs ===

// ListQuotesInput contains parameters for listing quotes.
type ListQuotesInput struct {
	PageQuery
	BookID    string `query:"bookId" doc:"Filter by book ID"`
	Author    string `query:"author" doc:"Substring of the author"`
	TagID     string `query:"tagId" doc:"Filter by tag ID"`
	Search    string `query:"search" doc:"Substring of content, author, source or context"`
	SortBy    string `query:"sortBy" default:"createdAt" enum:"createdAt,author,source" doc:"Sort key"`
	SortOrder string `query:"sortOrder" default:"desc" enum:"asc,desc" doc:"Sort direction"`
}

// ListQuotesResponse contains a page of quotes.
type ListQuotesResponse struct {
	Quotes []*domain.Quote `json:"quotes" doc:"Quotes on this page"`
	Pagination
}

// ListQuotesOutput wraps the list quotes response for Huma.
type ListQuotesOutput struct {
	Body ListQuotesResponse
}

// CreateQuoteInput wraps the create quote request for Huma.
type CreateQuoteInput struct {
	Body service.CreateQuoteRequest
}

// QuoteOutput wraps the quote response for Huma.
type QuoteOutput struct {
	Body *domain.Quote
}

// QuoteIDInput addresses a quote.
type QuoteIDInput struct {
	ID string `path:"id" doc:"Quote ID"`
}

// UpdateQuoteInput wraps the update quote request for Huma.
type UpdateQuoteInput struct {
	ID   string `path:"id" doc:"Quote ID"`
	Body service.UpdateQuoteRequest
}

// RandomQuoteInput optionally narrows the random pick to a tag.
type RandomQuoteInput struct {
	TagID string `query:"tagId" doc:"Only pick among quotes with this tag"`
}

// RandomQuoteResponse holds the picked quote, which may be null.
type RandomQuoteResponse struct {
	Quote *domain.Quote `json:"quote" doc:"The picked quote, null when none match"`
}

// RandomQuoteOutput wraps the random quote response for Huma.
type RandomQuoteOutput struct {
	Body RandomQuoteResponse
}

// === Handlers ===

func (s *Server) handleListQuotes(ctx context.Context, input *ListQuotesInput) (*ListQuotesOutput, error) {
	page, err := s.services.Quote.ListQuotes(ctx, service.ListQuotesRequest{
		Page:      input.Page,
		Limit:     input.Limit,
		BookID:    input.BookID,
		Author:    input.Author,
		TagID:     input.TagID,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &ListQuotesOutput{Body: ListQuotesResponse{Quotes: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleListQuotesByTag(ctx context.Context, input *ByTagInput) (*ListQuotesOutput, error) {
	page, err := s.services.Quote.ListQuotesByTag(ctx, input.request())
	if err != nil {
		return nil, err
	}

	return &ListQuotesOutput{Body: ListQuotesResponse{Quotes: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleCreateQuote(ctx context.Context, input *CreateQuoteInput) (*QuoteOutput, error) {
	q, err := s.services.Quote.CreateQuote(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: q}, nil
}

func (s *Server) handleGetQuote(ctx context.Context, input *QuoteIDInput) (*QuoteOutput, error) {
	q, err := s.services.Quote.GetQuote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: q}, nil
}

func (s *Server) handleRandomQuote(ctx context.Context, input *RandomQuoteInput) (*RandomQuoteOutput, error) {
	q, err := s.services.Quote.RandomQuote(ctx, input.TagID)
	if err != nil {
		return nil, err
	}
	return &RandomQuoteOutput{Body: RandomQuoteResponse{Quote: q}}, nil
}

func (s *Server) handleUpdateQuote(ctx context.Context, input *UpdateQuoteInput) (*QuoteOutput, error) {
	q, err := s.services.Quote.UpdateQuote(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: q}, nil
}

func (s *Server) handleDeleteQuote(ctx context.Context, input *QuoteIDInput) (*MessageOutput, error) {
	if err := s.services.Quote.DeleteQuote(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Quote deleted successfully"), nil
}
