package sqlite

import (
	"errors"
	"testing"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

func TestCreateQuote_LoadsBookRef(t *testing.T) {
	s := newTestStore(t)
	b := mustCreateBook(t, s, "Dune")

	q := mustCreateQuote(t, s, "Fear is the mind-killer.", &b.ID)
	if q.Book == nil || q.Book.Title != "Dune" || q.Book.Author != b.Author {
		t.Fatalf("expected book ref on created quote, got %+v", q.Book)
	}

	loose := mustCreateQuote(t, s, "Unattributed", nil)
	if loose.Book != nil || loose.BookID != nil {
		t.Errorf("expected no book, got %+v", loose.Book)
	}
}

func TestCreateQuote_UnknownBook(t *testing.T) {
	s := newTestStore(t)
	q := &domain.Quote{ID: "quote-1", Content: "x", BookID: ptr("book-missing"), CreatedAt: base, UpdatedAt: base}
	if err := s.CreateQuote(t.Context(), q, nil); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListQuotes_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tag := mustCreateTag(t, s, "Wisdom")
	b := mustCreateBook(t, s, "Meditations")

	q1 := mustCreateQuote(t, s, "The obstacle is the way.", &b.ID, tag.ID)
	mustCreateQuote(t, s, "Waste no more time.", &b.ID)
	q3 := mustCreateQuote(t, s, "Stay hungry.", nil, tag.ID)
	if _, err := s.UpdateQuote(ctx, q3.ID, store.QuotePatch{Author: ptr("Steve Jobs")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	tests := []struct {
		name   string
		filter store.QuoteFilter
		want   int
	}{
		{"all", store.QuoteFilter{}, 3},
		{"by book", store.QuoteFilter{BookID: b.ID}, 2},
		{"by tag", store.QuoteFilter{TagID: tag.ID}, 2},
		{"author substring", store.QuoteFilter{Author: "jobs"}, 1},
		{"search content", store.QuoteFilter{Search: "OBSTACLE"}, 1},
		{"tag and book", store.QuoteFilter{TagID: tag.ID, BookID: b.ID}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListQuotes(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if page.Total != tt.want {
				t.Errorf("expected %d, got %d", tt.want, page.Total)
			}
		})
	}

	page, err := s.ListQuotes(ctx, store.QuoteFilter{TagID: tag.ID, BookID: b.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Items[0].ID != q1.ID || len(page.Items[0].Tags) != 1 || page.Items[0].Book == nil {
		t.Errorf("expected q1 with tags and book loaded")
	}
}

func TestUpdateQuote_EmptyBookIDClearsLink(t *testing.T) {
	s := newTestStore(t)
	b := mustCreateBook(t, s, "Walden")
	q := mustCreateQuote(t, s, "Simplify, simplify.", &b.ID)

	got, err := s.UpdateQuote(t.Context(), q.ID, store.QuotePatch{BookID: ptr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.BookID != nil || got.Book != nil {
		t.Fatalf("expected book link cleared, got %v / %+v", got.BookID, got.Book)
	}

	var n int
	if err := s.db.QueryRowContext(t.Context(), `SELECT COUNT(*) FROM quotes WHERE book_id IS NULL`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected NULL book_id, found %d null rows", n)
	}
}

func TestListQuotesByBook_Empty(t *testing.T) {
	s := newTestStore(t)
	b := mustCreateBook(t, s, "Empty")

	quotes, err := s.ListQuotesByBook(t.Context(), b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if quotes == nil || len(quotes) != 0 {
		t.Errorf("expected empty non-nil slice")
	}
}

func TestCountQuotesAndQuoteAtOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tag := mustCreateTag(t, s, "Stoic")

	mustCreateQuote(t, s, "one", nil, tag.ID)
	mustCreateQuote(t, s, "two", nil)
	mustCreateQuote(t, s, "three", nil, tag.ID)

	total, err := s.CountQuotes(ctx, "")
	if err != nil || total != 3 {
		t.Fatalf("count all: %d %v", total, err)
	}
	tagged, err := s.CountQuotes(ctx, tag.ID)
	if err != nil || tagged != 2 {
		t.Fatalf("count tagged: %d %v", tagged, err)
	}

	seen := map[string]bool{}
	for i := range tagged {
		q, err := s.QuoteAtOffset(ctx, tag.ID, i)
		if err != nil {
			t.Fatalf("offset %d: %v", i, err)
		}
		if q.Content == "two" {
			t.Errorf("untagged quote returned for tag filter")
		}
		seen[q.ID] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected offsets to cover both tagged quotes, got %d", len(seen))
	}

	if _, err := s.QuoteAtOffset(ctx, tag.ID, 5); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound past the end, got %v", err)
	}
}

func TestDeleteQuote(t *testing.T) {
	s := newTestStore(t)
	q := mustCreateQuote(t, s, "bye", nil)

	if err := s.DeleteQuote(t.Context(), q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetQuote(t.Context(), q.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
