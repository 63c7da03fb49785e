package domain

import (
	"fmt"
	"time"
)

// ContentType names one of the content kinds that can be tagged or collected.
type ContentType string

// Content kinds.
const (
	ContentEssay      ContentType = "ESSAY"
	ContentBook       ContentType = "BOOK"
	ContentQuote      ContentType = "QUOTE"
	ContentNote       ContentType = "NOTE"
	ContentCollection ContentType = "COLLECTION"
)

// ContentTypes lists every content kind in display order.
var ContentTypes = []ContentType{
	ContentEssay,
	ContentBook,
	ContentQuote,
	ContentNote,
	ContentCollection,
}

// Valid reports whether t is a known content kind.
func (t ContentType) Valid() bool {
	switch t {
	case ContentEssay, ContentBook, ContentQuote, ContentNote, ContentCollection:
		return true
	default:
		return false
	}
}

// ContentRef is a polymorphic reference to one piece of content.
// The store cannot enforce it with a foreign key; the resolver checks it.
type ContentRef struct {
	Type ContentType `json:"contentType"`
	ID   string      `json:"contentId"`
}

// Validate checks the reference is well formed. It does not check existence.
func (r ContentRef) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown content type %q", r.Type)
	}
	if r.ID == "" {
		return fmt.Errorf("content id is required")
	}
	return nil
}

func (r ContentRef) String() string {
	return string(r.Type) + ":" + r.ID
}

// PublishStatus is the lifecycle state shared by essays and notes.
type PublishStatus string

// Publish states.
const (
	StatusDraft     PublishStatus = "DRAFT"
	StatusPublished PublishStatus = "PUBLISHED"
)

// Valid reports whether s is a known publish state.
func (s PublishStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// BookRef is the short book projection embedded in quotes and summaries.
type BookRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// ContentSummary is the display projection of a referenced piece of content.
// Only the fields relevant to Type are populated.
type ContentSummary struct {
	Type ContentType `json:"type"`
	ID   string      `json:"id"`

	// Essay, Note, Book
	Title *string `json:"title,omitempty"`

	// Essay
	Subtitle    *string    `json:"subtitle,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ReadTime    *int       `json:"readTime,omitempty"`
	Slug        *string    `json:"slug,omitempty"`

	// Essay, Book, Collection
	CoverImage *string `json:"coverImage,omitempty"`

	// Book, Quote
	Author *string `json:"author,omitempty"`

	// Book, Collection
	Description *string `json:"description,omitempty"`

	// Book
	BookStatus *BookStatus `json:"bookStatus,omitempty"`
	Rating     *int        `json:"rating,omitempty"`
	Pages      *int        `json:"pages,omitempty"`

	// Quote, Note
	Content *string `json:"content,omitempty"`

	// Quote
	Source *string  `json:"source,omitempty"`
	Book   *BookRef `json:"book,omitempty"`

	// Note
	Status    *PublishStatus `json:"status,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`

	// Collection
	Name      *string `json:"name,omitempty"`
	IsPublic  *bool   `json:"isPublic,omitempty"`
	ItemCount *int    `json:"itemCount,omitempty"`
}
