package store

import (
	"time"

	"github.com/atticapp/attic-server/internal/domain"
)

// SortOrder is a list sort direction.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort keys accepted by list operations. Unknown keys fall back to each
// list's default.
const (
	SortByName       = "name"
	SortByTitle      = "title"
	SortByAuthor     = "author"
	SortBySource     = "source"
	SortByRating     = "rating"
	SortByUsage      = "usage"
	SortByCreatedAt  = "createdAt"
	SortByUpdatedAt  = "updatedAt"
	SortByFinishedAt = "finishedAt"
)

// TagFilter selects tags with their usage counts.
type TagFilter struct {
	PageParams
	Search        string
	SortBy        string
	SortOrder     SortOrder
	IncludeUnused bool
}

// EssayFilter selects essays, newest publication first.
type EssayFilter struct {
	PageParams
	Status *domain.PublishStatus
	TagID  string
	Search string
}

// BookFilter selects books.
type BookFilter struct {
	PageParams
	Status    *domain.BookStatus
	Rating    *int
	TagID     string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// QuoteFilter selects quotes.
type QuoteFilter struct {
	PageParams
	BookID    string
	Author    string
	TagID     string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// NoteFilter selects notes.
type NoteFilter struct {
	PageParams
	Status    *domain.PublishStatus
	TagID     string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// CollectionFilter selects collections.
type CollectionFilter struct {
	PageParams
	IsPublic  *bool
	TagID     string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// Patches carry only the fields a caller supplied. A nil field is left
// untouched. A non-nil TagIDs replaces the whole tag set.

// TagPatch updates a tag.
type TagPatch struct {
	Name  *string
	Slug  *string
	Color *string
}

// EssayPatch updates an essay.
type EssayPatch struct {
	Slug       *string
	Title      *string
	Subtitle   *string
	Content    *string
	Excerpt    *string
	ReadTime   *int
	CoverImage *string
	Status     *domain.PublishStatus
	TagIDs     *[]string
}

// BookPatch updates a book's descriptive fields. Reading state goes
// through UpdateReadingProgress.
type BookPatch struct {
	Title         *string
	Author        *string
	ISBN          *string
	CoverImage    *string
	Description   *string
	Pages         *int
	PublishedYear *int
	Language      *string
	Status        *domain.BookStatus
	Notes         *string
	TagIDs        *[]string
}

// QuotePatch updates a quote.
type QuotePatch struct {
	Content *string
	Author  *string
	Source  *string
	Context *string
	Page    *int
	BookID  *string // "" unlinks the book
	TagIDs  *[]string
}

// NotePatch updates a note.
type NotePatch struct {
	Title   *string
	Content *string
	Status  *domain.PublishStatus
	TagIDs  *[]string
}

// CollectionPatch updates a collection.
type CollectionPatch struct {
	Name        *string
	Description *string
	CoverImage  *string
	IsPublic    *bool
	TagIDs      *[]string
}

// BookAggregates are the raw numbers behind reading statistics.
type BookAggregates struct {
	Total            int
	Read             int
	CurrentlyReading int
	WantToRead       int
	DNF              int
	PagesRead        int
	AverageRating    *float64
	FinishedInWindow int
}

// TimeWindow is a half-open interval [From, To).
type TimeWindow struct {
	From time.Time
	To   time.Time
}
