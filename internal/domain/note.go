package domain

import "time"

// NotePreviewLength is how many characters of a note list projections keep.
const NotePreviewLength = 150

// Note is a short, optionally titled piece of writing.
type Note struct {
	ID             string        `json:"id"`
	Title          *string       `json:"title"`
	Content        string        `json:"content,omitempty"`
	ContentPreview string        `json:"contentPreview,omitempty"`
	Status         PublishStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Tags           []*Tag        `json:"tags"`
}

// Summary projects the note for collection display.
func (n *Note) Summary() *ContentSummary {
	content, status, created := n.Content, n.Status, n.CreatedAt
	return &ContentSummary{
		Type:      ContentNote,
		ID:        n.ID,
		Title:     n.Title,
		Content:   &content,
		Status:    &status,
		CreatedAt: &created,
	}
}
