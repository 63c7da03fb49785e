package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/normalize"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/validation"
)

var errBookNotFound = notFound("Book")

// BookService orchestrates books, reading progress and highlights.
type BookService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// CreateBookRequest contains fields for creating a book.
type CreateBookRequest struct {
	Title         string             `json:"title" validate:"required,min=1,max=200"`
	Author        string             `json:"author" validate:"required,min=1,max=100"`
	ISBN          *string            `json:"isbn,omitempty"`
	CoverImage    *string            `json:"coverImage,omitempty" validate:"omitempty,url"`
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Pages         *int               `json:"pages,omitempty" validate:"omitempty,gt=0"`
	PublishedYear *int               `json:"publishedYear,omitempty" validate:"omitempty,min=1,notfutureyear"`
	Language      string             `json:"language,omitempty" validate:"omitempty,language"`
	Status        *domain.BookStatus `json:"status,omitempty" validate:"omitempty,oneof=WANT_TO_READ CURRENTLY_READING READ DNF"`
	Notes         *string            `json:"notes,omitempty" validate:"omitempty,max=5000"`
	TagIDs        []string           `json:"tagIds,omitempty"`
}

// CreateBook adds a book to the library.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.ISBN != nil {
		if err := s.checkISBN(ctx, *req.ISBN, ""); err != nil {
			return nil, err
		}
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := &domain.Book{
		ID:            bookID,
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImage:    req.CoverImage,
		Description:   req.Description,
		Pages:         req.Pages,
		PublishedYear: req.PublishedYear,
		Language:      orDefault(normalize.LanguageCode(req.Language), domain.DefaultBookLanguage),
		Status:        domain.BookWantToRead,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Status != nil {
		b.Status = *req.Status
	}

	if err := s.store.CreateBook(ctx, b, req.TagIDs); err != nil {
		return nil, mapStoreError(err, nil, domainerrors.ErrISBNExists)
	}

	s.logger.InfoContext(ctx, "book created", "id", b.ID, "title", b.Title, "author", b.Author)
	return b, nil
}

func (s *BookService) checkISBN(ctx context.Context, isbn, selfID string) error {
	existing, err := s.store.GetBookByISBN(ctx, isbn)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domainerrors.ErrISBNExists
	}
	return nil
}

// GetBook returns a book with its tags, highlights and quotes.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	b, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, mapStoreError(err, errBookNotFound, nil)
	}
	return b, nil
}

// ListBooksRequest selects a page of books.
type ListBooksRequest struct {
	Page      int                `json:"page" validate:"omitempty,min=1"`
	Limit     int                `json:"limit" validate:"omitempty,min=1,max=50"`
	Status    *domain.BookStatus `json:"status,omitempty" validate:"omitempty,oneof=WANT_TO_READ CURRENTLY_READING READ DNF"`
	Rating    *int               `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	TagID     string             `json:"tagId,omitempty"`
	Search    string             `json:"search,omitempty"`
	SortBy    string             `json:"sortBy" validate:"omitempty,oneof=title author rating finishedAt createdAt"`
	SortOrder string             `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListBooks returns a page of books without highlights or quotes.
func (s *BookService) ListBooks(ctx context.Context, req ListBooksRequest) (store.Page[*domain.Book], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Book]{}, err
	}
	return s.store.ListBooks(ctx, store.BookFilter{
		PageParams: store.PageParams{Page: req.Page, Limit: req.Limit},
		Status:     req.Status,
		Rating:     req.Rating,
		TagID:      req.TagID,
		Search:     req.Search,
		SortBy:     orDefault(req.SortBy, store.SortByCreatedAt),
		SortOrder:  store.SortOrder(orDefault(req.SortOrder, string(store.SortDesc))),
	})
}

// UpdateBookRequest contains the descriptive fields a book update may change.
type UpdateBookRequest struct {
	Title         *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Author        *string            `json:"author,omitempty" validate:"omitempty,min=1,max=100"`
	ISBN          *string            `json:"isbn,omitempty"`
	CoverImage    *string            `json:"coverImage,omitempty" validate:"omitempty,url"`
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	Pages         *int               `json:"pages,omitempty" validate:"omitempty,gt=0"`
	PublishedYear *int               `json:"publishedYear,omitempty" validate:"omitempty,min=1,notfutureyear"`
	Language      *string            `json:"language,omitempty" validate:"omitempty,language"`
	Status        *domain.BookStatus `json:"status,omitempty" validate:"omitempty,oneof=WANT_TO_READ CURRENTLY_READING READ DNF"`
	Notes         *string            `json:"notes,omitempty" validate:"omitempty,max=5000"`
	TagIDs        *[]string          `json:"tagIds,omitempty"`
}

// UpdateBook applies a partial update to a book's descriptive fields.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, mapStoreError(err, errBookNotFound, nil)
	}
	if req.ISBN != nil && (existing.ISBN == nil || *existing.ISBN != *req.ISBN) {
		if err := s.checkISBN(ctx, *req.ISBN, bookID); err != nil {
			return nil, err
		}
	}

	b, err := s.store.UpdateBook(ctx, bookID, store.BookPatch{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverImage:    req.CoverImage,
		Description:   req.Description,
		Pages:         req.Pages,
		PublishedYear: req.PublishedYear,
		Language:      normalizeLanguage(req.Language),
		Status:        req.Status,
		Notes:         req.Notes,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		return nil, mapStoreError(err, errBookNotFound, domainerrors.ErrISBNExists)
	}

	s.logger.InfoContext(ctx, "book updated", "id", b.ID)
	return b, nil
}

// normalizeLanguage stores languages as ISO codes. Validation has already
// rejected anything unrecognized.
func normalizeLanguage(raw *string) *string {
	if raw == nil {
		return nil
	}
	code := normalize.LanguageCode(*raw)
	return &code
}

// DeleteBook deletes a book. Its quotes stay, detached.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return mapStoreError(err, errBookNotFound, nil)
	}
	s.logger.InfoContext(ctx, "book deleted", "id", bookID)
	return nil
}

// UpdateProgressRequest moves a book along the reading lifecycle.
type UpdateProgressRequest struct {
	Progress int                `json:"progress" validate:"min=0,max=100"`
	Status   *domain.BookStatus `json:"status,omitempty" validate:"omitempty,oneof=WANT_TO_READ CURRENTLY_READING READ DNF"`
	Rating   *int               `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes    *string            `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateReadingProgress records progress and keeps status, start and finish
// dates consistent with it. An explicit status wins over the derived one.
func (s *BookService) UpdateReadingProgress(ctx context.Context, bookID string, req UpdateProgressRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	b, err := s.store.UpdateReadingProgress(ctx, bookID, func(b *domain.Book) error {
		b.ApplyProgress(req.Progress, req.Status, now)
		if req.Rating != nil {
			b.Rating = req.Rating
		}
		if req.Notes != nil {
			b.Notes = req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, errBookNotFound, nil)
	}

	s.logger.InfoContext(ctx, "reading progress updated",
		"id", b.ID,
		"progress", b.Progress,
		"status", b.Status,
	)
	return b, nil
}

// AddHighlightRequest marks a passage in a book.
type AddHighlightRequest struct {
	Text string  `json:"text" validate:"required,min=1"`
	Page int     `json:"page" validate:"required,gt=0"`
	Note *string `json:"note,omitempty"`
}

// AddHighlight appends a highlight to a book.
func (s *BookService) AddHighlight(ctx context.Context, bookID string, req AddHighlightRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	h := domain.Highlight{
		ID:        uuid.NewString(),
		Text:      req.Text,
		Page:      req.Page,
		Note:      req.Note,
		CreatedAt: s.now(),
	}
	b, err := s.store.AppendHighlight(ctx, bookID, h)
	if err != nil {
		return nil, mapStoreError(err, errBookNotFound, nil)
	}

	s.logger.InfoContext(ctx, "highlight added", "book_id", bookID, "highlight_id", h.ID, "page", h.Page)
	return b, nil
}
