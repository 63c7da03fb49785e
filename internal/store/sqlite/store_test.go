package sqlite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// base is a fixed clock for fixtures so ordering tests are deterministic.
var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustCreateTag(t *testing.T, s *Store, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{
		ID:        id.MustGenerate(id.PrefixTag),
		Name:      name,
		Slug:      fmt.Sprintf("slug-%s", id.MustGenerate("x")),
		CreatedAt: time.Now(),
	}
	if err := s.CreateTag(t.Context(), tag); err != nil {
		t.Fatalf("create tag %q: %v", name, err)
	}
	return tag
}

func mustCreateEssay(t *testing.T, s *Store, title string, publishedAt time.Time, tagIDs ...string) *domain.Essay {
	t.Helper()
	e := &domain.Essay{
		ID:          id.MustGenerate(id.PrefixEssay),
		Slug:        "essay-" + id.MustGenerate("s"),
		Title:       title,
		Content:     "Body of " + title,
		Status:      domain.StatusPublished,
		PublishedAt: publishedAt,
		CreatedAt:   publishedAt,
		UpdatedAt:   publishedAt,
	}
	if err := s.CreateEssay(t.Context(), e, tagIDs); err != nil {
		t.Fatalf("create essay %q: %v", title, err)
	}
	return e
}

func mustCreateBook(t *testing.T, s *Store, title string, tagIDs ...string) *domain.Book {
	t.Helper()
	now := time.Now()
	b := &domain.Book{
		ID:        id.MustGenerate(id.PrefixBook),
		Title:     title,
		Author:    "Author of " + title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateBook(t.Context(), b, tagIDs); err != nil {
		t.Fatalf("create book %q: %v", title, err)
	}
	return b
}

func mustCreateQuote(t *testing.T, s *Store, content string, bookID *string, tagIDs ...string) *domain.Quote {
	t.Helper()
	now := time.Now()
	q := &domain.Quote{
		ID:        id.MustGenerate(id.PrefixQuote),
		Content:   content,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateQuote(t.Context(), q, tagIDs); err != nil {
		t.Fatalf("create quote: %v", err)
	}
	return q
}

func mustCreateNote(t *testing.T, s *Store, content string, tagIDs ...string) *domain.Note {
	t.Helper()
	now := time.Now()
	n := &domain.Note{
		ID:        id.MustGenerate(id.PrefixNote),
		Content:   content,
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateNote(t.Context(), n, tagIDs); err != nil {
		t.Fatalf("create note: %v", err)
	}
	return n
}

func mustCreateCollection(t *testing.T, s *Store, name string, tagIDs ...string) *domain.Collection {
	t.Helper()
	now := time.Now()
	c := &domain.Collection{
		ID:        id.MustGenerate(id.PrefixCollection),
		Name:      name,
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateCollection(t.Context(), c, tagIDs); err != nil {
		t.Fatalf("create collection %q: %v", name, err)
	}
	return c
}

func mustAddItem(t *testing.T, s *Store, collectionID string, ref domain.ContentRef, order int) *domain.CollectionItem {
	t.Helper()
	it := &domain.CollectionItem{
		ID:           id.MustGenerate(id.PrefixCollectionItem),
		CollectionID: collectionID,
		ContentRef:   ref,
		Order:        order,
		CreatedAt:    time.Now(),
	}
	if err := s.CreateCollectionItem(t.Context(), it); err != nil {
		t.Fatalf("add item %s: %v", ref, err)
	}
	return it
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"tags", "essays", "books", "quotes", "notes", "collections", "collection_items",
		"essay_tags", "book_tags", "quote_tags", "note_tags", "collection_tags",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	mustCreateTag(t, s, "Philosophy")
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open applies no migrations and keeps data.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	tags, err := s2.ListAllTagsWithCounts(t.Context())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected 1 tag after reopen, got %d", len(tags))
	}
}

func TestSchemaVersion(t *testing.T) {
	s := newTestStore(t)

	version, dirty, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("expected version 1 clean, got %d dirty=%v", version, dirty)
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	mustCreateTag(t, s, "Philosophy")
	mustCreateBook(t, s, "Meditations")

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	tags, err := s.ListAllTagsWithCounts(t.Context())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags after reset, got %d", len(tags))
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(t.Context()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unique", errors.New("constraint failed: UNIQUE constraint failed: tags.name (2067)"), store.ErrAlreadyExists},
		{"foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), store.ErrInvalidInput},
		{"check", errors.New("constraint failed: CHECK constraint failed: progress (275)"), store.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	other := errors.New("disk I/O error")
	if got := mapError(other); got != other {
		t.Errorf("expected unrecognised error unchanged, got %v", got)
	}
	if mapError(nil) != nil {
		t.Error("expected nil for nil")
	}
}

func TestFormatTime_SortsLexically(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)
	c := a.Add(time.Second)

	fa, fb, fc := formatTime(a), formatTime(b), formatTime(c)
	if !(fa < fb && fb < fc) {
		t.Errorf("expected %s < %s < %s", fa, fb, fc)
	}

	parsed, err := parseTime(fb)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(b) {
		t.Errorf("round trip: got %v, want %v", parsed, b)
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	if got := likePattern("100%_Done"); got != `%100\%\_done%` {
		t.Errorf("unexpected pattern %q", got)
	}
}
