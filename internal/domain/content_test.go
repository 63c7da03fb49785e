package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRef_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ref     ContentRef
		wantErr bool
	}{
		{"essay", ContentRef{Type: ContentEssay, ID: "essay-1"}, false},
		{"collection", ContentRef{Type: ContentCollection, ID: "coll-1"}, false},
		{"unknown type", ContentRef{Type: "PODCAST", ID: "x"}, true},
		{"lowercase type", ContentRef{Type: "essay", ID: "x"}, true},
		{"missing id", ContentRef{Type: ContentBook}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTagCounts(t *testing.T) {
	var c TagCounts
	assert.True(t, c.IsZero())

	c.Add(ContentEssay, 2)
	c.Add(ContentQuote, 1)
	c.Add(ContentCollection, 3)

	assert.Equal(t, 6, c.Total())
	assert.Equal(t, 2, c.Essays)
	assert.Equal(t, 0, c.Books)
	assert.False(t, c.IsZero())
}

func TestSummaries_ProjectDisplayFields(t *testing.T) {
	pages := 320
	b := &Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Pages: &pages, Status: BookRead}
	s := b.Summary()
	assert.Equal(t, ContentBook, s.Type)
	assert.Equal(t, "Dune", *s.Title)
	assert.Equal(t, BookRead, *s.BookStatus)
	assert.Nil(t, s.Content)

	q := &Quote{ID: "quote-1", Content: "Fear is the mind-killer.", Book: b.Ref()}
	qs := q.Summary()
	assert.Equal(t, "Frank Herbert", qs.Book.Author)
	assert.Nil(t, qs.Title)

	c := &Collection{ID: "coll-1", Name: "Favorites", IsPublic: true, ItemCount: 4}
	cs := c.Summary()
	assert.Equal(t, 4, *cs.ItemCount)
	assert.True(t, *cs.IsPublic)
}
