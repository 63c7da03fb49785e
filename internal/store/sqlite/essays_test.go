package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

func TestCreateAndGetEssay(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tag := mustCreateTag(t, s, "Philosophy")

	e := &domain.Essay{
		ID:          "essay-1",
		Slug:        "on-stoicism",
		Title:       "On Stoicism",
		Subtitle:    ptr("A short guide"),
		Content:     "Virtue is the only good.",
		ReadTime:    ptr(3),
		Status:      domain.StatusPublished,
		PublishedAt: base,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	if err := s.CreateEssay(ctx, e, []string{tag.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetEssayBySlug(ctx, "on-stoicism")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != "essay-1" || *got.Subtitle != "A short guide" || *got.ReadTime != 3 {
		t.Errorf("unexpected essay %+v", got)
	}
	if got.Excerpt != nil {
		t.Errorf("expected nil excerpt, got %q", *got.Excerpt)
	}
	if !got.PublishedAt.Equal(base) {
		t.Errorf("published_at: got %v, want %v", got.PublishedAt, base)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "Philosophy" {
		t.Errorf("expected Philosophy tag, got %+v", got.Tags)
	}
}

func TestCreateEssay_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	e := mustCreateEssay(t, s, "First", base)

	dup := &domain.Essay{
		ID: "essay-dup", Slug: e.Slug, Title: "First", Content: "x",
		Status: domain.StatusPublished, PublishedAt: base, CreatedAt: base, UpdatedAt: base,
	}
	if err := s.CreateEssay(t.Context(), dup, nil); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	taken, err := s.EssaySlugTaken(t.Context(), e.Slug, "")
	if err != nil || !taken {
		t.Errorf("expected slug taken, got %v %v", taken, err)
	}
	taken, err = s.EssaySlugTaken(t.Context(), e.Slug, e.ID)
	if err != nil || taken {
		t.Errorf("expected own slug free, got %v %v", taken, err)
	}
}

func TestListEssays_FiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	tag := mustCreateTag(t, s, "Tech")

	old := mustCreateEssay(t, s, "Old Rust notes", base, tag.ID)
	mid := mustCreateEssay(t, s, "Gardening", base.Add(time.Hour))
	newest := mustCreateEssay(t, s, "New Rust notes", base.Add(2*time.Hour), tag.ID)

	draft := domain.StatusDraft
	if _, err := s.UpdateEssay(ctx, mid.ID, store.EssayPatch{Status: &draft}); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := s.ListEssays(ctx, store.EssayFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 3 || all.Items[0].ID != newest.ID || all.Items[2].ID != old.ID {
		t.Errorf("expected newest first, got %d items", len(all.Items))
	}

	published := domain.StatusPublished
	pub, err := s.ListEssays(ctx, store.EssayFilter{Status: &published})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if pub.Total != 2 {
		t.Errorf("expected 2 published, got %d", pub.Total)
	}

	tagged, err := s.ListEssays(ctx, store.EssayFilter{TagID: tag.ID, Search: "rust"})
	if err != nil {
		t.Fatalf("list tagged: %v", err)
	}
	if tagged.Total != 2 || len(tagged.Items[0].Tags) != 1 {
		t.Errorf("expected 2 tagged essays with tags loaded, got %d", tagged.Total)
	}

	none, err := s.ListEssays(ctx, store.EssayFilter{Search: "zzz"})
	if err != nil {
		t.Fatalf("list none: %v", err)
	}
	if none.Items == nil || len(none.Items) != 0 {
		t.Errorf("expected empty non-nil items")
	}
}

func TestUpdateEssay_PartialAndTags(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	a := mustCreateTag(t, s, "A")
	b := mustCreateTag(t, s, "B")
	e := mustCreateEssay(t, s, "Title", base, a.ID)

	updated, err := s.UpdateEssay(ctx, e.ID, store.EssayPatch{
		Excerpt: ptr("short"),
		TagIDs:  &[]string{b.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Title" || updated.Content != e.Content {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.Excerpt == nil || *updated.Excerpt != "short" {
		t.Errorf("expected excerpt set")
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != b.ID {
		t.Errorf("expected tags replaced with B, got %+v", updated.Tags)
	}
	if !updated.UpdatedAt.After(e.UpdatedAt) {
		t.Errorf("expected updated_at to advance")
	}

	kept, err := s.UpdateEssay(ctx, e.ID, store.EssayPatch{Title: ptr("Renamed")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if len(kept.Tags) != 1 {
		t.Errorf("nil TagIDs must leave tags alone, got %d", len(kept.Tags))
	}

	if _, err := s.UpdateEssay(ctx, "missing", store.EssayPatch{Title: ptr("x")}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEssay_RemovesReferencingItems(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	e := mustCreateEssay(t, s, "Gone", base)
	keep := mustCreateNote(t, s, "Stays")
	c := mustCreateCollection(t, s, "Mixed")

	mustAddItem(t, s, c.ID, domain.ContentRef{Type: domain.ContentEssay, ID: e.ID}, 1)
	mustAddItem(t, s, c.ID, domain.ContentRef{Type: domain.ContentNote, ID: keep.ID}, 2)

	if err := s.DeleteEssay(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := s.ListCollectionItems(ctx, c.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].ContentRef.ID != keep.ID {
		t.Errorf("expected only the note item to remain, got %d items", len(items))
	}

	if err := s.DeleteEssay(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
