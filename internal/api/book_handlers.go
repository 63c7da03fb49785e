package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns a page of books with optional filters",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book to the library",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its tags and quotes",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates book metadata",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book; its quotes are kept and unlinked",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReadingProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/progress",
		Summary:     "Update reading progress",
		Description: "Sets progress; status and reading dates follow from it",
		Tags:        []string{"Books"},
	}, s.handleUpdateProgress)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addHighlight",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/highlights",
		Summary:       "Add highlight",
		Description:   "Appends a highlight to a book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddHighlight)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuotesByBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/quotes",
		Summary:     "List book quotes",
		Description: "Returns every quote taken from the book, by page",
		Tags:        []string{"Books", "Quotes"},
	}, s.handleListQuotesByBook)
}

// === DTOs ===

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	PageQuery
	Status    string `query:"status" enum:"WANT_TO_READ,CURRENTLY_READING,READ,DNF" doc:"Filter by reading status"`
	Rating    int    `query:"rating" minimum:"1" maximum:"5" doc:"Filter by rating"`
	TagID     string `query:"tagId" doc:"Filter by tag ID"`
	Search    string `query:"search" doc:"Substring of title, author or description"`
	SortBy    string `query:"sortBy" default:"createdAt" enum:"title,author,rating,finishedAt,createdAt" doc:"Sort key"`
	SortOrder string `query:"sortOrder" default:"desc" enum:"asc,desc" doc:"Sort direction"`
}

// ListBooksResponse contains a page of books.
type ListBooksResponse struct {
	Books []*domain.Book `json:"books" doc:"Books on this page"`
	Pagination
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body service.CreateBookRequest
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body *domain.Book
}

// BookIDInput addresses a book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateBookRequest
}

// UpdateProgressInput wraps the progress request for Huma.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateProgressRequest
}

// AddHighlightInput wraps the highlight request for Huma.
type AddHighlightInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.AddHighlightRequest
}

// BookQuotesResponse lists a book's quotes.
type BookQuotesResponse struct {
	Quotes []*domain.Quote `json:"quotes" doc:"Quotes ordered by page"`
}

// BookQuotesOutput wraps the book quotes response for Huma.
type BookQuotesOutput struct {
	Body BookQuotesResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	page, err := s.services.Book.ListBooks(ctx, service.ListBooksRequest{
		Page:      input.Page,
		Limit:     input.Limit,
		Status:    optional(domain.BookStatus(input.Status)),
		Rating:    optional(input.Rating),
		TagID:     input.TagID,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	b, err := s.services.Book.CreateBook(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	b, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	b, err := s.services.Book.UpdateBook(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Book deleted successfully"), nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*BookOutput, error) {
	b, err := s.services.Book.UpdateReadingProgress(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleAddHighlight(ctx context.Context, input *AddHighlightInput) (*BookOutput, error) {
	b, err := s.services.Book.AddHighlight(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: b}, nil
}

func (s *Server) handleListQuotesByBook(ctx context.Context, input *BookIDInput) (*BookQuotesOutput, error) {
	quotes, err := s.services.Quote.ListQuotesByBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []*domain.Quote{}
	}
	return &BookQuotesOutput{Body: BookQuotesResponse{Quotes: quotes}}, nil
}
