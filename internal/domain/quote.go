package domain

import "time"

// Quote is a passage, optionally attributed to a tracked book.
type Quote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    *string   `json:"author"`
	Source    *string   `json:"source"`
	Context   *string   `json:"context"`
	Page      *int      `json:"page"`
	BookID    *string   `json:"bookId"`
	Book      *BookRef  `json:"book"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []*Tag    `json:"tags"`
}

// Summary projects the quote for collection display.
func (q *Quote) Summary() *ContentSummary {
	content := q.Content
	return &ContentSummary{
		Type:    ContentQuote,
		ID:      q.ID,
		Content: &content,
		Author:  q.Author,
		Source:  q.Source,
		Book:    q.Book,
	}
}
