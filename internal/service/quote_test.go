package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/atticapp/attic-server/internal/errors"
)

func TestCreateQuote_BookLink(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Walden")

	q, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{
		Content: "Simplify, simplify.",
		Author:  ptr("Thoreau"),
		BookID:  &b.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, q.Book)
	assert.Equal(t, "Walden", q.Book.Title)

	_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "orphan", BookID: ptr("book_missing")})
	assert.ErrorIs(t, err, domainerrors.ErrBookNotFound)
}

func TestUpdateQuote(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Linked")

	q, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "original"})
	require.NoError(t, err)

	updated, err := svc.quotes.UpdateQuote(ctx, q.ID, UpdateQuoteRequest{Content: ptr("edited"), BookID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	require.NotNil(t, updated.Book)
	assert.Equal(t, b.ID, updated.Book.ID)

	_, err = svc.quotes.UpdateQuote(ctx, q.ID, UpdateQuoteRequest{BookID: ptr("book_missing")})
	assert.ErrorIs(t, err, domainerrors.ErrBookNotFound)

	_, err = svc.quotes.UpdateQuote(ctx, "missing", UpdateQuoteRequest{Content: ptr("x")})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpdateQuote_EmptyBookIDUnlinks(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Source")

	q, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "linked", BookID: &b.ID})
	require.NoError(t, err)
	require.NotNil(t, q.BookID)

	updated, err := svc.quotes.UpdateQuote(ctx, q.ID, UpdateQuoteRequest{BookID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.BookID)
	assert.Nil(t, updated.Book)
	assert.Equal(t, "linked", updated.Content)

	byBook, err := svc.quotes.ListQuotesByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, byBook)

	// Unlinking an already loose quote is a no-op.
	_, err = svc.quotes.UpdateQuote(ctx, q.ID, UpdateQuoteRequest{BookID: ptr("")})
	assert.NoError(t, err)
}

func TestListQuotes(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	for _, author := range []string{"Seneca", "Epictetus", "Marcus Aurelius"} {
		_, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "by " + author, Author: ptr(author)})
		require.NoError(t, err)
	}

	byAuthor, err := svc.quotes.ListQuotes(ctx, ListQuotesRequest{Author: "aurel"})
	require.NoError(t, err)
	require.Len(t, byAuthor.Items, 1)
	assert.Equal(t, "Marcus Aurelius", *byAuthor.Items[0].Author)

	sorted, err := svc.quotes.ListQuotes(ctx, ListQuotesRequest{SortBy: "author", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, sorted.Items, 3)
	assert.Equal(t, "Epictetus", *sorted.Items[0].Author)
}

func TestListQuotesByBookAndTag(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()
	b := createBook(t, svc, "Paged")
	tag, err := svc.tags.CreateTag(ctx, CreateTagRequest{Name: "Wisdom"})
	require.NoError(t, err)

	_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "no page", BookID: &b.ID})
	require.NoError(t, err)
	_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "p50", Page: ptr(50), BookID: &b.ID, TagIDs: []string{tag.ID}})
	require.NoError(t, err)
	_, err = svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "p5", Page: ptr(5), BookID: &b.ID})
	require.NoError(t, err)

	quotes, err := svc.quotes.ListQuotesByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "p5", quotes[0].Content)
	assert.Equal(t, "p50", quotes[1].Content)
	assert.Equal(t, "no page", quotes[2].Content)

	none, err := svc.quotes.ListQuotesByBook(ctx, "book_missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	tagged, err := svc.quotes.ListQuotesByTag(ctx, ByTagRequest{TagSlug: "wisdom"})
	require.NoError(t, err)
	require.Len(t, tagged.Items, 1)
	assert.Equal(t, "p50", tagged.Items[0].Content)
}

func TestRandomQuote(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	q, err := svc.quotes.RandomQuote(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, q, "empty library yields no quote")

	tag, err := svc.tags.CreateTag(ctx, CreateTagRequest{Name: "Chosen"})
	require.NoError(t, err)
	chosen, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "chosen", TagIDs: []string{tag.ID}})
	require.NoError(t, err)
	for range 5 {
		_, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "other"})
		require.NoError(t, err)
	}

	for range 10 {
		q, err := svc.quotes.RandomQuote(ctx, tag.ID)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, chosen.ID, q.ID)
	}

	seen := map[string]bool{}
	for range 50 {
		q, err := svc.quotes.RandomQuote(ctx, "")
		require.NoError(t, err)
		require.NotNil(t, q)
		seen[q.ID] = true
	}
	assert.Greater(t, len(seen), 1)

	other, err := svc.tags.CreateTag(ctx, CreateTagRequest{Name: "Empty"})
	require.NoError(t, err)
	q, err = svc.quotes.RandomQuote(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestDeleteQuote(t *testing.T) {
	svc := setupServices(t)
	ctx := t.Context()

	q, err := svc.quotes.CreateQuote(ctx, CreateQuoteRequest{Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, svc.quotes.DeleteQuote(ctx, q.ID))
	_, err = svc.quotes.GetQuote(ctx, q.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
