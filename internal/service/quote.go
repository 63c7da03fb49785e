package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/validation"
)

var errQuoteNotFound = notFound("Quote")

// QuoteService orchestrates quote operations.
type QuoteService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewQuoteService creates a new quote service.
func NewQuoteService(st store.Store, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateQuoteRequest contains fields for creating a quote.
type CreateQuoteRequest struct {
	Content string   `json:"content" validate:"required,min=1,max=2000"`
	Author  *string  `json:"author,omitempty" validate:"omitempty,max=100"`
	Source  *string  `json:"source,omitempty" validate:"omitempty,max=200"`
	Context *string  `json:"context,omitempty" validate:"omitempty,max=1000"`
	Page    *int     `json:"page,omitempty" validate:"omitempty,gt=0"`
	BookID  *string  `json:"bookId,omitempty"`
	TagIDs  []string `json:"tagIds,omitempty"`
}

// CreateQuote records a quote, optionally linked to a tracked book.
func (s *QuoteService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*domain.Quote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	quoteID, err := id.Generate(id.PrefixQuote)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	q := &domain.Quote{
		ID:        quoteID,
		Content:   req.Content,
		Author:    req.Author,
		Source:    req.Source,
		Context:   req.Context,
		Page:      req.Page,
		BookID:    req.BookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateQuote(ctx, q, req.TagIDs); err != nil {
		return nil, mapStoreError(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "quote created", "id", q.ID)
	return q, nil
}

func (s *QuoteService) requireBook(ctx context.Context, bookID *string) error {
	if bookID == nil {
		return nil
	}
	if _, err := s.store.GetBook(ctx, *bookID); err != nil {
		return mapStoreError(err, domainerrors.ErrBookNotFound, nil)
	}
	return nil
}

// GetQuote returns a quote with its book and tags.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error) {
	q, err := s.store.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, mapStoreError(err, errQuoteNotFound, nil)
	}
	return q, nil
}

// ListQuotesRequest selects a page of quotes.
type ListQuotesRequest struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=50"`
	BookID    string `json:"bookId,omitempty"`
	Author    string `json:"author,omitempty"`
	TagID     string `json:"tagId,omitempty"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=createdAt author source"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListQuotes returns a page of quotes.
func (s *QuoteService) ListQuotes(ctx context.Context, req ListQuotesRequest) (store.Page[*domain.Quote], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Quote]{}, err
	}
	return s.store.ListQuotes(ctx, store.QuoteFilter{
		PageParams: store.PageParams{Page: req.Page, Limit: req.Limit},
		BookID:     req.BookID,
		Author:     req.Author,
		TagID:      req.TagID,
		Search:     req.Search,
		SortBy:     orDefault(req.SortBy, store.SortByCreatedAt),
		SortOrder:  store.SortOrder(orDefault(req.SortOrder, string(store.SortDesc))),
	})
}

// ListQuotesByBook returns every quote from a book in page order.
func (s *QuoteService) ListQuotesByBook(ctx context.Context, bookID string) ([]*domain.Quote, error) {
	return s.store.ListQuotesByBook(ctx, bookID)
}

// ListQuotesByTag returns quotes carrying a tag, newest first. An unknown
// tag yields an empty page.
func (s *QuoteService) ListQuotesByTag(ctx context.Context, req ByTagRequest) (store.Page[*domain.Quote], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Quote]{}, err
	}
	tagID, err := resolveTagSlug(ctx, s.store, req.TagSlug)
	if err != nil {
		return store.Page[*domain.Quote]{}, err
	}
	if tagID == "" {
		return emptyPage[*domain.Quote](req.Page, req.Limit), nil
	}
	return s.ListQuotes(ctx, ListQuotesRequest{Page: req.Page, Limit: req.Limit, TagID: tagID})
}

// RandomQuote picks a quote uniformly at random, optionally among those
// carrying tagID. It returns nil when nothing matches.
func (s *QuoteService) RandomQuote(ctx context.Context, tagID string) (*domain.Quote, error) {
	n, err := s.store.CountQuotes(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	q, err := s.store.QuoteAtOffset(ctx, tagID, rand.IntN(n))
	if domainerrors.Is(err, store.ErrNotFound) {
		// Deleted between count and fetch.
		return nil, nil
	}
	return q, err
}

// UpdateQuoteRequest contains the fields a quote update may change.
type UpdateQuoteRequest struct {
	Content *string   `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	Author  *string   `json:"author,omitempty" validate:"omitempty,max=100"`
	Source  *string   `json:"source,omitempty" validate:"omitempty,max=200"`
	Context *string   `json:"context,omitempty" validate:"omitempty,max=1000"`
	Page    *int      `json:"page,omitempty" validate:"omitempty,gt=0"`
	BookID  *string   `json:"bookId,omitempty"`
	TagIDs  *[]string `json:"tagIds,omitempty"`
}

// UpdateQuote applies a partial update to a quote. An empty bookId detaches
// the quote from its book.
func (s *QuoteService) UpdateQuote(ctx context.Context, quoteID string, req UpdateQuoteRequest) (*domain.Quote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, mapStoreError(err, errQuoteNotFound, nil)
	}
	if req.BookID != nil && *req.BookID != "" && (existing.BookID == nil || *existing.BookID != *req.BookID) {
		if err := s.requireBook(ctx, req.BookID); err != nil {
			return nil, err
		}
	}

	q, err := s.store.UpdateQuote(ctx, quoteID, store.QuotePatch{
		Content: req.Content,
		Author:  req.Author,
		Source:  req.Source,
		Context: req.Context,
		Page:    req.Page,
		BookID:  req.BookID,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		return nil, mapStoreError(err, errQuoteNotFound, nil)
	}

	s.logger.InfoContext(ctx, "quote updated", "id", q.ID)
	return q, nil
}

// DeleteQuote deletes a quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, quoteID string) error {
	if err := s.store.DeleteQuote(ctx, quoteID); err != nil {
		return mapStoreError(err, errQuoteNotFound, nil)
	}
	s.logger.InfoContext(ctx, "quote deleted", "id", quoteID)
	return nil
}
