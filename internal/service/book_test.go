package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
)

func createBook(t *testing.T, svc *testServices, title string) *domain.Book {
	t.Helper()
	b, err := svc.books.CreateBook(t.Context(), CreateBookRequest{Title: title, Author: "Author of " + title})
	require.NoError(t, err)
	return b
}

func TestCreateBook_Defaults(t *testing.T) {
	svc := setupServices(t)

	b := createBook(t, svc, "Dune")
	assert.Equal(t, "en", b.Language)
	assert.Equal(t, domain.BookWantToRead, b.Status)
	assert.Equal(t, 0, b.Progress)
	assert.Nil(t, b.Rating)
	assert.Nil(t, b.StartedAt)
}

func TestBookLanguage_Normalized(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	b, err := svc.books.CreateBook(ctx, CreateBookRequest{Title: "Steppenwolf", Author: "Hesse", Language: "German"})
	require.NoError(t, err)
	assert.Equal(t, "de", b.Language)

	b, err = svc.books.UpdateBook(ctx, b.ID, UpdateBookRequest{Language: ptr("en_GB")})
	require.NoError(t, err)
	assert.Equal(t, "en", b.Language)
}

func TestCreateBook_ISBNExists(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	_, err := svc.books.CreateBook(ctx, CreateBookRequest{Title: "A", Author: "X", ISBN: ptr("978-0441013593")})
	require.NoError(t, err)

	_, err = svc.books.CreateBook(ctx, CreateBookRequest{Title: "B", Author: "Y", ISBN: ptr("978-0441013593")})
	assert.ErrorIs(t, err, domainerrors.ErrISBNExists)
}

func TestCreateBook_Validation(t *testing.T) {
	svc := setupServices(t)
	future := time.Now().Year() + 1

	tests := []struct {
		name  string
		req   CreateBookRequest
		field string
	}{
		{"missing title", CreateBookRequest{Author: "a"}, "title"},
		{"missing author", CreateBookRequest{Title: "t"}, "author"},
		{"zero pages", CreateBookRequest{Title: "t", Author: "a", Pages: ptr(0)}, "pages"},
		{"future year", CreateBookRequest{Title: "t", Author: "a", PublishedYear: ptr(future)}, "publishedYear"},
		{"bad status", CreateBookRequest{Title: "t", Author: "a", Status: ptr(domain.BookStatus("LOST"))}, "status"},
		{"bad cover", CreateBookRequest{Title: "t", Author: "a", CoverImage: ptr("cover.jpg")}, "coverImage"},
		{"bad language", CreateBookRequest{Title: "t", Author: "a", Language: "klingonese"}, "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.books.CreateBook(t.Context(), tt.req)
			require.ErrorIs(t, err, domainerrors.ErrValidation)

			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			assert.Contains(t, derr.Details, tt.field)
		})
	}
}

func TestGetBook_IncludesQuotes(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	b := createBook(t, svc, "Meditations")
	_, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "late", Page: ptr(90), BookID: &b.ID})
	require.NoError(t, err)
	_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "early", Page: ptr(3), BookID: &b.ID})
	require.NoError(t, err)

	got, err := svc.books.GetBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Quotes, 2)
	assert.Equal(t, "early", got.Quotes[0].Content)

	_, err = svc.books.GetBook(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdateBook_ISBN(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	a, err := svc.books.CreateBook(ctx, CreateBookRequest{Title: "A", Author: "X", ISBN: ptr("111")})
	require.NoError(t, err)
	_, err = svc.books.CreateBook(ctx, CreateBookRequest{Title: "B", Author: "Y", ISBN: ptr("222")})
	require.NoError(t, err)

	// Keeping its own ISBN is fine.
	same, err := svc.books.UpdateBook(ctx, a.ID, UpdateBookRequest{ISBN: ptr("111"), Title: ptr("A2")})
	require.NoError(t, err)
	assert.Equal(t, "A2", same.Title)

	_, err = svc.books.UpdateBook(ctx, a.ID, UpdateBookRequest{ISBN: ptr("222")})
	assert.ErrorIs(t, err, domainerrors.ErrISBNExists)

	_, err = svc.books.UpdateBook(ctx, "missing", UpdateBookRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListBooks_Filters(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	createBook(t, svc, "Alpha")
	b := createBook(t, svc, "Beta")
	createBook(t, svc, "Gamma")

	_, err := svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 100, Rating: ptr(5)})
	require.NoError(t, err)

	read := domain.BookRead
	page, err := svc.books.ListBooks(ctx, ListBooksRequest{Status: &read})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Beta", page.Items[0].Title)

	byTitle, err := svc.books.ListBooks(ctx, ListBooksRequest{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, byTitle.Items, 3)
	assert.Equal(t, "Alpha", byTitle.Items[0].Title)
	assert.Equal(t, "Gamma", byTitle.Items[2].Title)

	searched, err := svc.books.ListBooks(ctx, ListBooksRequest{Search: "GAM"})
	require.NoError(t, err)
	assert.Equal(t, 1, searched.Total)

	_, err = svc.books.ListBooks(ctx, ListBooksRequest{SortBy: "pages"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateReadingProgress_Lifecycle(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.books.now = func() time.Time { return clock }

	b := createBook(t, svc, "Lifecycle")

	b, err := svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 40})
	require.NoError(t, err)
	assert.Equal(t, domain.BookCurrentlyReading, b.Status)
	require.NotNil(t, b.StartedAt)
	assert.True(t, b.StartedAt.Equal(clock))
	assert.Nil(t, b.FinishedAt)

	clock = clock.Add(48 * time.Hour)
	b, err = svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 100, Rating: ptr(4), Notes: ptr("great")})
	require.NoError(t, err)
	assert.Equal(t, domain.BookRead, b.Status)
	require.NotNil(t, b.FinishedAt)
	assert.True(t, b.FinishedAt.Equal(clock))
	assert.True(t, b.StartedAt.Before(clock), "startedAt is not overwritten")
	assert.Equal(t, 4, *b.Rating)
	assert.Equal(t, "great", *b.Notes)

	b, err = svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 80})
	require.NoError(t, err)
	assert.Equal(t, domain.BookCurrentlyReading, b.Status)
	assert.Nil(t, b.FinishedAt)

	dnf := domain.BookDNF
	b, err = svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 80, Status: &dnf})
	require.NoError(t, err)
	assert.Equal(t, domain.BookDNF, b.Status)

	stored, err := svc.books.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookDNF, stored.Status)
	assert.Equal(t, 80, stored.Progress)
}

func TestUpdateReadingProgress_Errors(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Bounds")

	_, err := svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 101})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.books.UpdateReadingProgress(ctx, b.ID, UpdateProgressRequest{Progress: 10, Rating: ptr(6)})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.books.UpdateReadingProgress(ctx, "missing", UpdateProgressRequest{Progress: 10})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAddHighlight(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Highlighted")

	b, err := svc.books.AddHighlight(ctx, b.ID, AddHighlightRequest{Text: "first", Page: 10})
	require.NoError(t, err)
	b, err = svc.books.AddHighlight(ctx, b.ID, AddHighlightRequest{Text: "second", Page: 20, Note: ptr("why")})
	require.NoError(t, err)

	require.Len(t, b.Highlights, 2)
	assert.Equal(t, "first", b.Highlights[0].Text)
	assert.Equal(t, "why", *b.Highlights[1].Note)
	assert.Len(t, b.Highlights[0].ID, 36)
	assert.NotEqual(t, b.Highlights[0].ID, b.Highlights[1].ID)

	_, err = svc.books.AddHighlight(ctx, b.ID, AddHighlightRequest{Text: "", Page: 0})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.books.AddHighlight(ctx, "missing", AddHighlightRequest{Text: "x", Page: 1})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteBook_DetachesQuotes(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Ephemeral")

	q, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "survives", BookID: &b.ID})
	require.NoError(t, err)

	require.NoError(t, svc.books.DeleteBook(ctx, b.ID))
	assert.ErrorIs(t, svc.books.DeleteBook(ctx, b.ID), domainerrors.ErrNotFound)

	got, err := svc.quotes.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BookID)
	assert.Nil(t, got.Book)
}
