package domain

import "time"

// BookStatus is a position in the reading lifecycle.
type BookStatus string

// Reading states. DNF is only ever set explicitly.
const (
	BookWantToRead       BookStatus = "WANT_TO_READ"
	BookCurrentlyReading BookStatus = "CURRENTLY_READING"
	BookRead             BookStatus = "READ"
	BookDNF              BookStatus = "DNF"
)

// Valid reports whether s is a known reading state.
func (s BookStatus) Valid() bool {
	switch s {
	case BookWantToRead, BookCurrentlyReading, BookRead, BookDNF:
		return true
	default:
		return false
	}
}

// Progress bounds, in percent.
const (
	ProgressNone     = 0
	ProgressComplete = 100
)

// DefaultBookLanguage is used when a book is created without a language.
const DefaultBookLanguage = "en"

// Highlight is a passage marked while reading.
type Highlight struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Page      int       `json:"page"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuoteRef is the short quote projection embedded in a book.
type QuoteRef struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Page      *int      `json:"page"`
	CreatedAt time.Time `json:"createdAt"`
}

// Book is a tracked book with its reading state.
type Book struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	ISBN          *string     `json:"isbn"`
	CoverImage    *string     `json:"coverImage"`
	Description   *string     `json:"description"`
	Pages         *int        `json:"pages"`
	PublishedYear *int        `json:"publishedYear"`
	Language      string      `json:"language"`
	Status        BookStatus  `json:"status"`
	Progress      int         `json:"progress"`
	Rating        *int        `json:"rating"`
	StartedAt     *time.Time  `json:"startedAt"`
	FinishedAt    *time.Time  `json:"finishedAt"`
	Notes         *string     `json:"notes"`
	Highlights    []Highlight `json:"highlights,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Tags          []*Tag      `json:"tags"`
	Quotes        []QuoteRef  `json:"quotes,omitempty"`
}

// StatusForProgress derives the reading state implied by a progress value.
func StatusForProgress(progress int) BookStatus {
	switch {
	case progress <= ProgressNone:
		return BookWantToRead
	case progress >= ProgressComplete:
		return BookRead
	default:
		return BookCurrentlyReading
	}
}

// ApplyProgress moves the book to a new progress value and keeps status,
// StartedAt and FinishedAt consistent with it.
//
// An explicit status replaces the derived one but the date side effects
// still apply. StartedAt is set once, the first time progress is positive.
// FinishedAt is set the first time progress reaches 100 and cleared when
// progress later drops below 100.
func (b *Book) ApplyProgress(progress int, explicit *BookStatus, now time.Time) {
	b.Progress = progress

	if explicit != nil {
		b.Status = *explicit
	} else {
		b.Status = StatusForProgress(progress)
	}

	if progress > ProgressNone && b.StartedAt == nil {
		started := now
		b.StartedAt = &started
	}

	switch {
	case progress == ProgressComplete && b.FinishedAt == nil:
		finished := now
		b.FinishedAt = &finished
	case progress < ProgressComplete && b.FinishedAt != nil:
		b.FinishedAt = nil
	}
}

// Ref returns the short projection used by quotes.
func (b *Book) Ref() *BookRef {
	return &BookRef{ID: b.ID, Title: b.Title, Author: b.Author}
}

// Summary projects the book for collection display.
func (b *Book) Summary() *ContentSummary {
	title, author, status := b.Title, b.Author, b.Status
	return &ContentSummary{
		Type:        ContentBook,
		ID:          b.ID,
		Title:       &title,
		Author:      &author,
		CoverImage:  b.CoverImage,
		Description: b.Description,
		BookStatus:  &status,
		Rating:      b.Rating,
		Pages:       b.Pages,
	}
}
