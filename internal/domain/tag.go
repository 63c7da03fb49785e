package domain

import "time"

// DefaultTagColor is assigned when a tag is created without a color.
const DefaultTagColor = "#6366f1"

// Tag labels content of any kind. Name and slug are both unique.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagCounts holds how many rows of each content kind carry a tag.
type TagCounts struct {
	Essays      int `json:"essays"`
	Books       int `json:"books"`
	Quotes      int `json:"quotes"`
	Notes       int `json:"notes"`
	Collections int `json:"collections"`
}

// Total sums the per-kind counts.
func (c TagCounts) Total() int {
	return c.Essays + c.Books + c.Quotes + c.Notes + c.Collections
}

// IsZero reports whether no content carries the tag.
func (c TagCounts) IsZero() bool {
	return c.Total() == 0
}

// Add increments the count for kind by n.
func (c *TagCounts) Add(kind ContentType, n int) {
	switch kind {
	case ContentEssay:
		c.Essays += n
	case ContentBook:
		c.Books += n
	case ContentQuote:
		c.Quotes += n
	case ContentNote:
		c.Notes += n
	case ContentCollection:
		c.Collections += n
	}
}

// TagWithCounts is a tag together with its per-kind usage.
type TagWithCounts struct {
	Tag
	Counts TagCounts `json:"_count"`
}

// TotalUsage is the number of content rows carrying the tag.
func (t *TagWithCounts) TotalUsage() int {
	return t.Counts.Total()
}

// TagUsage reports how a single tag is used.
type TagUsage struct {
	Tag            *Tag      `json:"tag"`
	TotalUsage     int       `json:"totalUsage"`
	UsageBreakdown TagCounts `json:"usageBreakdown"`
}

// TagMergeResult reports what a merge moved.
type TagMergeResult struct {
	Source      *Tag      `json:"-"`
	Target      *Tag      `json:"-"`
	MergedCount TagCounts `json:"mergedCount"`
}
