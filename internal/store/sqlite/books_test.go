package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

func TestCreateBook_Defaults(t *testing.T) {
	s := newTestStore(t)
	b := mustCreateBook(t, s, "Meditations")

	got, err := s.GetBook(t.Context(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Language != domain.DefaultBookLanguage || got.Status != domain.BookWantToRead || got.Progress != 0 {
		t.Errorf("unexpected defaults %+v", got)
	}
	if got.Highlights != nil || got.Quotes != nil {
		t.Errorf("expected no highlights or quotes")
	}
	if got.Tags == nil {
		t.Errorf("expected non-nil tags")
	}
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	now := time.Now()

	first := &domain.Book{ID: "book-1", Title: "A", Author: "X", ISBN: ptr("978-0"), CreatedAt: now, UpdatedAt: now}
	if err := s.CreateBook(ctx, first, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.Book{ID: "book-2", Title: "B", Author: "Y", ISBN: ptr("978-0"), CreatedAt: now, UpdatedAt: now}
	if err := s.CreateBook(ctx, second, nil); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Books without an ISBN never collide.
	mustCreateBook(t, s, "C")
	mustCreateBook(t, s, "D")

	got, err := s.GetBookByISBN(ctx, "978-0")
	if err != nil || got.ID != "book-1" {
		t.Errorf("get by isbn: %v %v", got, err)
	}
}

func TestCreateBook_RejectsOutOfRangeProgress(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	b := &domain.Book{ID: "book-x", Title: "A", Author: "X", Progress: 101, CreatedAt: now, UpdatedAt: now}
	if err := s.CreateBook(t.Context(), b, nil); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListBooks_FiltersSortAndProjection(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tag := mustCreateTag(t, s, "Classics")

	dune := mustCreateBook(t, s, "Dune", tag.ID)
	mustCreateBook(t, s, "Anathem")
	mustCreateBook(t, s, "Middlemarch", tag.ID)

	if _, err := s.AppendHighlight(ctx, dune.ID, domain.Highlight{ID: "h1", Text: "Fear", Page: 1, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	page, err := s.ListBooks(ctx, store.BookFilter{SortBy: store.SortByTitle, SortOrder: store.SortAsc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || page.Items[0].Title != "Anathem" || page.Items[2].Title != "Middlemarch" {
		t.Errorf("expected title asc order")
	}
	for _, b := range page.Items {
		if b.Highlights != nil {
			t.Errorf("list must not carry highlights, %s has %d", b.Title, len(b.Highlights))
		}
	}

	tagged, err := s.ListBooks(ctx, store.BookFilter{TagID: tag.ID})
	if err != nil {
		t.Fatalf("list tagged: %v", err)
	}
	if tagged.Total != 2 {
		t.Errorf("expected 2 tagged books, got %d", tagged.Total)
	}

	search, err := s.ListBooks(ctx, store.BookFilter{Search: "AUTHOR OF DUNE"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if search.Total != 1 || search.Items[0].ID != dune.ID {
		t.Errorf("expected author search to find Dune")
	}

	read := domain.BookRead
	none, err := s.ListBooks(ctx, store.BookFilter{Status: &read, Rating: ptr(5)})
	if err != nil {
		t.Fatalf("list read: %v", err)
	}
	if none.Total != 0 {
		t.Errorf("expected no read books, got %d", none.Total)
	}
}

func TestUpdateReadingProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	b := mustCreateBook(t, s, "Dune")
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	got, err := s.UpdateReadingProgress(ctx, b.ID, func(book *domain.Book) error {
		book.ApplyProgress(100, nil, now)
		book.Rating = ptr(5)
		return nil
	})
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if got.Status != domain.BookRead || got.FinishedAt == nil || got.StartedAt == nil {
		t.Errorf("unexpected state %+v", got)
	}

	stored, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Progress != 100 || *stored.Rating != 5 || !stored.FinishedAt.Equal(now) {
		t.Errorf("progress not persisted: %+v", stored)
	}

	sentinel := errors.New("abort")
	_, err = s.UpdateReadingProgress(ctx, b.ID, func(book *domain.Book) error {
		book.Progress = 10
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected apply error, got %v", err)
	}
	stored, _ = s.GetBook(ctx, b.ID)
	if stored.Progress != 100 {
		t.Errorf("failed apply must not write, progress=%d", stored.Progress)
	}

	if _, err := s.UpdateReadingProgress(ctx, "missing", func(*domain.Book) error { return nil }); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendHighlight_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	b := mustCreateBook(t, s, "Dune")

	for i, text := range []string{"first", "second", "third"} {
		h := domain.Highlight{ID: text, Text: text, Page: i + 1, CreatedAt: base}
		if i == 1 {
			h.Note = ptr("remember")
		}
		if _, err := s.AppendHighlight(ctx, b.ID, h); err != nil {
			t.Fatalf("append %s: %v", text, err)
		}
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Highlights) != 3 {
		t.Fatalf("expected 3 highlights, got %d", len(got.Highlights))
	}
	if got.Highlights[0].Text != "first" || got.Highlights[2].Page != 3 {
		t.Errorf("unexpected order %+v", got.Highlights)
	}
	if got.Highlights[1].Note == nil || *got.Highlights[1].Note != "remember" {
		t.Errorf("expected note on second highlight")
	}
	if !got.Highlights[0].CreatedAt.Equal(base) {
		t.Errorf("created_at: got %v", got.Highlights[0].CreatedAt)
	}

	if _, err := s.AppendHighlight(ctx, "missing", domain.Highlight{ID: "x", Text: "x", Page: 1}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecodeHighlights(t *testing.T) {
	hs, err := decodeHighlights(`[{"id":"a","text":"kept","page":2},{"text":"no id"},{"id":"b","text":"null note","page":3,"note":null}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(hs) != 2 || hs[0].ID != "a" || hs[1].Note != nil {
		t.Errorf("unexpected highlights %+v", hs)
	}

	if hs, err := decodeHighlights(`[]`); err != nil || hs != nil {
		t.Errorf("expected nil for empty array, got %v %v", hs, err)
	}
	if _, err := decodeHighlights(`{"id":"a"}`); err == nil {
		t.Error("expected error for non-array")
	}
	if _, err := decodeHighlights(`[{`); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestGetBook_IncludesQuotesByPage(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	b := mustCreateBook(t, s, "Dune")

	q1 := mustCreateQuote(t, s, "no page", &b.ID)
	q2 := mustCreateQuote(t, s, "page 9", &b.ID)
	q3 := mustCreateQuote(t, s, "page 2", &b.ID)
	if _, err := s.UpdateQuote(ctx, q2.ID, store.QuotePatch{Page: ptr(9)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.UpdateQuote(ctx, q3.ID, store.QuotePatch{Page: ptr(2)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(got.Quotes))
	}
	if got.Quotes[0].ID != q3.ID || got.Quotes[1].ID != q2.ID || got.Quotes[2].ID != q1.ID {
		t.Errorf("expected page order with nulls last")
	}
}

func TestDeleteBook_DetachesQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	b := mustCreateBook(t, s, "Dune")
	q := mustCreateQuote(t, s, "Fear is the mind-killer.", &b.ID)

	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetQuote(ctx, q.ID)
	if err != nil {
		t.Fatalf("quote should survive: %v", err)
	}
	if got.BookID != nil || got.Book != nil {
		t.Errorf("expected book link cleared, got %v", got.BookID)
	}
}
