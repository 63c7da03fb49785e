package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/validation"
)

var (
	errCollectionNotFound = notFound("Collection")
	errItemNotFound       = notFound("Collection item")
)

// CollectionService orchestrates collections and their membership.
type CollectionService struct {
	store     store.Store
	resolver  *ContentResolver
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st store.Store, resolver *ContentResolver, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     st,
		resolver:  resolver,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateCollectionRequest contains fields for creating a collection.
type CreateCollectionRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	CoverImage  *string  `json:"coverImage,omitempty" validate:"omitempty,url"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
}

// CreateCollection creates an empty collection. Collections are public
// unless stated otherwise.
func (s *CollectionService) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*domain.Collection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	collID, err := id.Generate(id.PrefixCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Collection{
		ID:          collID,
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsPublic != nil {
		c.IsPublic = *req.IsPublic
	}

	if err := s.store.CreateCollection(ctx, c, req.TagIDs); err != nil {
		return nil, mapStoreError(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "collection created", "id", c.ID, "name", c.Name)
	return c, nil
}

// GetCollection returns a collection. With includeItems its items come
// back in order, each with its resolved content.
func (s *CollectionService) GetCollection(ctx context.Context, collID string, includeItems bool) (*domain.Collection, error) {
	c, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, mapStoreError(err, errCollectionNotFound, nil)
	}
	if !includeItems {
		return c, nil
	}

	items, err := s.store.ListCollectionItems(ctx, collID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.ResolveMany(ctx, items); err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

// ListCollectionsRequest selects a page of collections.
type ListCollectionsRequest struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=50"`
	IsPublic  *bool  `json:"isPublic,omitempty"`
	TagID     string `json:"tagId,omitempty"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=name createdAt updatedAt"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListCollections returns a page of collections with item counts.
func (s *CollectionService) ListCollections(ctx context.Context, req ListCollectionsRequest) (store.Page[*domain.Collection], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Collection]{}, err
	}
	return s.store.ListCollections(ctx, store.CollectionFilter{
		PageParams: store.PageParams{Page: req.Page, Limit: req.Limit},
		IsPublic:   req.IsPublic,
		TagID:      req.TagID,
		Search:     req.Search,
		SortBy:     orDefault(req.SortBy, store.SortByUpdatedAt),
		SortOrder:  store.SortOrder(orDefault(req.SortOrder, string(store.SortDesc))),
	})
}

// ListCollectionsByTag returns collections carrying a tag.
func (s *CollectionService) ListCollectionsByTag(ctx context.Context, req ByTagRequest) (store.Page[*domain.Collection], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Collection]{}, err
	}
	tagID, err := resolveTagSlug(ctx, s.store, req.TagSlug)
	if err != nil {
		return store.Page[*domain.Collection]{}, err
	}
	if tagID == "" {
		return emptyPage[*domain.Collection](req.Page, req.Limit), nil
	}
	return s.ListCollections(ctx, ListCollectionsRequest{Page: req.Page, Limit: req.Limit, TagID: tagID})
}

// UpdateCollectionRequest contains the fields a collection update may change.
type UpdateCollectionRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	CoverImage  *string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
	TagIDs      *[]string `json:"tagIds,omitempty"`
}

// UpdateCollection applies a partial update to a collection.
func (s *CollectionService) UpdateCollection(ctx context.Context, collID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	c, err := s.store.UpdateCollection(ctx, collID, store.CollectionPatch{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		IsPublic:    req.IsPublic,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return nil, mapStoreError(err, errCollectionNotFound, nil)
	}
	s.logger.InfoContext(ctx, "collection updated", "id", c.ID)
	return c, nil
}

// DeleteCollection deletes a collection with its items.
func (s *CollectionService) DeleteCollection(ctx context.Context, collID string) error {
	if err := s.store.DeleteCollection(ctx, collID); err != nil {
		return mapStoreError(err, errCollectionNotFound, nil)
	}
	s.logger.InfoContext(ctx, "collection deleted", "id", collID)
	return nil
}

// AddItemRequest places one piece of content in a collection.
type AddItemRequest struct {
	ContentType domain.ContentType `json:"contentType" validate:"required,oneof=ESSAY BOOK QUOTE NOTE COLLECTION"`
	ContentID   string             `json:"contentId" validate:"required"`
	Note        *string            `json:"note,omitempty" validate:"omitempty,max=500"`
	Order       *int               `json:"order,omitempty"`
}

// AddItem adds content to a collection. Without an explicit order the item
// goes after the current last one.
func (s *CollectionService) AddItem(ctx context.Context, collID string, req AddItemRequest) (*domain.CollectionItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	ref := domain.ContentRef{Type: req.ContentType, ID: req.ContentID}

	if _, err := s.store.GetCollection(ctx, collID); err != nil {
		return nil, mapStoreError(err, domainerrors.ErrCollectionNotFound, nil)
	}

	content, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, domainerrors.ErrContentNotFound
	}

	_, err = s.store.FindCollectionItem(ctx, collID, ref)
	switch {
	case err == nil:
		return nil, domainerrors.ErrItemExists
	case !domainerrors.Is(err, store.ErrNotFound):
		return nil, err
	}

	order := 1
	if req.Order != nil {
		order = *req.Order
	} else {
		maxOrder, ok, err := s.store.MaxCollectionOrder(ctx, collID)
		if err != nil {
			return nil, err
		}
		if ok {
			order = maxOrder + 1
		}
	}

	itemID, err := id.Generate(id.PrefixCollectionItem)
	if err != nil {
		return nil, err
	}
	item := &domain.CollectionItem{
		ID:           itemID,
		CollectionID: collID,
		ContentRef:   ref,
		Order:        order,
		Note:         req.Note,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateCollectionItem(ctx, item); err != nil {
		return nil, mapStoreError(err, nil, domainerrors.ErrItemExists)
	}
	item.Content = content

	s.logger.InfoContext(ctx, "collection item added",
		"collection_id", collID,
		"item_id", item.ID,
		"content", ref.String(),
		"order", order,
	)
	return item, nil
}

// RemoveItem removes an item from whatever collection holds it. Remaining
// orders are left as they are.
func (s *CollectionService) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.store.DeleteCollectionItem(ctx, itemID); err != nil {
		return mapStoreError(err, errItemNotFound, nil)
	}
	s.logger.InfoContext(ctx, "collection item removed", "item_id", itemID)
	return nil
}

// ReorderItemsRequest assigns new orders to items of one collection.
type ReorderItemsRequest struct {
	Items []domain.ItemOrder `json:"items" validate:"required"`
}

// ReorderItems applies all orders in one transaction. An item from another
// collection rejects the whole request.
func (s *CollectionService) ReorderItems(ctx context.Context, collID string, req ReorderItemsRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if _, err := s.store.GetCollection(ctx, collID); err != nil {
		return mapStoreError(err, domainerrors.ErrCollectionNotFound, nil)
	}

	if err := s.store.ReorderCollectionItems(ctx, collID, req.Items); err != nil {
		if domainerrors.Is(err, store.ErrInvalidInput) {
			return domainerrors.ErrItemNotInCollection.WithCause(err)
		}
		return err
	}

	s.logger.InfoContext(ctx, "collection reordered", "collection_id", collID, "items", len(req.Items))
	return nil
}
