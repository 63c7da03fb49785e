package domain

import "time"

// Essay is long-form writing addressed by a slug derived from its title.
type Essay struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Subtitle    *string       `json:"subtitle"`
	Content     string        `json:"content,omitempty"`
	Excerpt     *string       `json:"excerpt"`
	ReadTime    *int          `json:"readTime"`
	CoverImage  *string       `json:"coverImage"`
	Status      PublishStatus `json:"status"`
	PublishedAt time.Time     `json:"publishedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Tags        []*Tag        `json:"tags"`
}

// Summary projects the essay for collection display.
func (e *Essay) Summary() *ContentSummary {
	publishedAt := e.PublishedAt
	slug := e.Slug
	title := e.Title
	return &ContentSummary{
		Type:        ContentEssay,
		ID:          e.ID,
		Title:       &title,
		Subtitle:    e.Subtitle,
		Excerpt:     e.Excerpt,
		PublishedAt: &publishedAt,
		ReadTime:    e.ReadTime,
		CoverImage:  e.CoverImage,
		Slug:        &slug,
	}
}
