package domain

import "time"

// Collection is an ordered, heterogeneous list of content.
type Collection struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	CoverImage  *string           `json:"coverImage"`
	IsPublic    bool              `json:"isPublic"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Tags        []*Tag            `json:"tags"`
	ItemCount   int               `json:"itemCount"`
	Items       []*CollectionItem `json:"items,omitempty"`
}

// Summary projects the collection for display inside another collection.
func (c *Collection) Summary() *ContentSummary {
	name, public, count := c.Name, c.IsPublic, c.ItemCount
	return &ContentSummary{
		Type:        ContentCollection,
		ID:          c.ID,
		Name:        &name,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		IsPublic:    &public,
		ItemCount:   &count,
	}
}

// CollectionItem places one piece of content in a collection.
// (CollectionID, Ref) is unique. Order need not be contiguous.
type CollectionItem struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId"`
	ContentRef
	Order     int       `json:"order"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"createdAt"`

	// Content is filled by the resolver. It is nil when the target is gone.
	Content  *ContentSummary `json:"content"`
	Orphaned bool            `json:"orphaned,omitempty"`
}

// ItemOrder assigns a new order to one collection item.
type ItemOrder struct {
	ItemID string `json:"itemId"`
	Order  int    `json:"order"`
}
