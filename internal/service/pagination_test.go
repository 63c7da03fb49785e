package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// walkPages fetches pages 1..TotalPages and checks that together they hold
// exactly total distinct ids.
func walkPages[T any](t *testing.T, fetch func(page int) (store.Page[T], error), idOf func(T) string) []string {
	t.Helper()

	first, err := fetch(1)
	require.NoError(t, err)

	seen := make(map[string]bool, first.Total)
	var ids []string
	for page := 1; page <= first.TotalPages(); page++ {
		p, err := fetch(page)
		require.NoError(t, err)
		assert.Equal(t, first.Total, p.Total, "total is stable across pages")
		if page < first.TotalPages() {
			assert.Len(t, p.Items, p.Limit, "page %d is full", page)
		}
		for _, item := range p.Items {
			id := idOf(item)
			assert.False(t, seen[id], "id %s repeated on page %d", id, page)
			seen[id] = true
			ids = append(ids, id)
		}
	}

	assert.Len(t, ids, first.Total)

	past, err := fetch(first.TotalPages() + 1)
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	return ids
}

func TestPagination_ContentListsCoverEveryRowOnce(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	const n = 7
	const limit = 3

	for i := range n {
		title := fmt.Sprintf("Item %d", i)
		_, err := svc.books.CreateBook(ctx, CreateBookRequest{Title: title, Author: "Same Author"})
		require.NoError(t, err)
		_, err = svc.essays.CreateEssay(ctx, CreateEssayRequest{Title: title, Content: "body"})
		require.NoError(t, err)
		_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: title})
		require.NoError(t, err)
		_, err = svc.notes.CreateNote(ctx, CreateNoteRequest{Content: title})
		require.NoError(t, err)
		_, err = svc.collections.CreateCollection(ctx, CreateCollectionRequest{Name: title})
		require.NoError(t, err)
	}

	t.Run("books sorted by a tied column", func(t *testing.T) {
		ids := walkPages(t, func(page int) (store.Page[*domain.Book], error) {
			return svc.books.ListBooks(ctx, ListBooksRequest{Page: page, Limit: limit, SortBy: "author"})
		}, func(b *domain.Book) string { return b.ID })
		assert.Len(t, ids, n)
	})

	t.Run("essays", func(t *testing.T) {
		ids := walkPages(t, func(page int) (store.Page[*domain.Essay], error) {
			return svc.essays.ListEssays(ctx, ListEssaysRequest{Page: page, Limit: limit})
		}, func(e *domain.Essay) string { return e.ID })
		assert.Len(t, ids, n)
	})

	t.Run("quotes", func(t *testing.T) {
		ids := walkPages(t, func(page int) (store.Page[*domain.Quote], error) {
			return svc.quotes.ListQuotes(ctx, ListQuotesRequest{Page: page, Limit: limit})
		}, func(q *domain.Quote) string { return q.ID })
		assert.Len(t, ids, n)
	})

	t.Run("notes", func(t *testing.T) {
		ids := walkPages(t, func(page int) (store.Page[*domain.Note], error) {
			return svc.notes.ListNotes(ctx, ListNotesRequest{Page: page, Limit: limit})
		}, func(note *domain.Note) string { return note.ID })
		assert.Len(t, ids, n)
	})

	t.Run("collections", func(t *testing.T) {
		ids := walkPages(t, func(page int) (store.Page[*domain.Collection], error) {
			return svc.collections.ListCollections(ctx, ListCollectionsRequest{Page: page, Limit: limit})
		}, func(c *domain.Collection) string { return c.ID })
		assert.Len(t, ids, n)
	})
}
