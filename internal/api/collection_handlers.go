package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections",
		Summary:     "List collections",
		Description: "Returns a page of collections with item counts",
		Tags:        []string{"Collections"},
	}, s.handleListCollections)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCollection",
		Method:        http.MethodPost,
		Path:          "/api/v1/collections",
		Summary:       "Create collection",
		Description:   "Creates an empty collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollectionsByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/by-tag/{tagSlug}",
		Summary:     "List collections by tag",
		Description: "Returns collections carrying the tag",
		Tags:        []string{"Collections"},
	}, s.handleListCollectionsByTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeItemFromCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/items/{itemId}",
		Summary:     "Remove collection item",
		Description: "Removes one item; remaining orders are left unchanged",
		Tags:        []string{"Collections"},
	}, s.handleRemoveItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a collection, by default with its resolved items in order",
		Tags:        []string{"Collections"},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Update collection",
		Description: "Updates collection metadata",
		Tags:        []string{"Collections"},
	}, s.handleUpdateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Delete collection",
		Description: "Deletes a collection and its items",
		Tags:        []string{"Collections"},
	}, s.handleDeleteCollection)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addItemToCollection",
		Method:        http.MethodPost,
		Path:          "/api/v1/collections/{id}/items",
		Summary:       "Add collection item",
		Description:   "Adds an essay, book, quote, note or collection",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderCollectionItems",
		Method:      http.MethodPut,
		Path:        "/api/v1/collections/{id}/items/order",
		Summary:     "Reorder collection items",
		Description: "Assigns new orders atomically; every item must belong to the collection",
		Tags:        []string{"Collections"},
	}, s.handleReorderItems)
}

// === DTOs ===

// ListCollectionsInput contains parameters for listing collections.
type ListCollectionsInput struct {
	PageQuery
	IsPublic  string `query:"isPublic" enum:"true,false" doc:"Filter by visibility"`
	TagID     string `query:"tagId" doc:"Filter by tag ID"`
	Search    string `query:"search" doc:"Substring of name or description"`
	SortBy    string `query:"sortBy" default:"updatedAt" enum:"name,createdAt,updatedAt" doc:"Sort key"`
	SortOrder string `query:"sortOrder" default:"desc" enum:"asc,desc" doc:"Sort direction"`
}

// ListCollectionsResponse contains a page of collections.
type ListCollectionsResponse struct {
	Collections []*domain.Collection `json:"collections" doc:"Collections on this page"`
	Pagination
}

// ListCollectionsOutput wraps the list collections response for Huma.
type ListCollectionsOutput struct {
	Body ListCollectionsResponse
}

// CreateCollectionInput wraps the create collection request for Huma.
type CreateCollectionInput struct {
	Body service.CreateCollectionRequest
}

// CollectionOutput wraps the collection response for Huma.
type CollectionOutput struct {
	Body *domain.Collection
}

// GetCollectionInput addresses a collection for reading.
type GetCollectionInput struct {
	ID           string `path:"id" doc:"Collection ID"`
	IncludeItems bool   `query:"includeItems" default:"true" doc:"Include resolved items"`
}

// CollectionIDInput addresses a collection.
type CollectionIDInput struct {
	ID string `path:"id" doc:"Collection ID"`
}

// UpdateCollectionInput wraps the update collection request for Huma.
type UpdateCollectionInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body service.UpdateCollectionRequest
}

// AddItemInput wraps the add item request for Huma.
type AddItemInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body service.AddItemRequest
}

// AddItemResponse returns the new item with its resolved content.
type AddItemResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Item    *domain.CollectionItem `json:"item"`
}

// AddItemOutput wraps the add item response for Huma.
type AddItemOutput struct {
	Body AddItemResponse
}

// RemoveItemInput addresses a collection item.
type RemoveItemInput struct {
	ItemID string `path:"itemId" doc:"Collection item ID"`
}

// ReorderItemsInput wraps the reorder request for Huma.
type ReorderItemsInput struct {
	ID   string `path:"id" doc:"Collection ID"`
	Body service.ReorderItemsRequest
}

// === Handlers ===

func (s *Server) handleListCollections(ctx context.Context, input *ListCollectionsInput) (*ListCollectionsOutput, error) {
	page, err := s.services.Collection.ListCollections(ctx, service.ListCollectionsRequest{
		Page:      input.Page,
		Limit:     input.Limit,
		IsPublic:  parseOptionalBool(input.IsPublic),
		TagID:     input.TagID,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &ListCollectionsOutput{Body: ListCollectionsResponse{Collections: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleListCollectionsByTag(ctx context.Context, input *ByTagInput) (*ListCollectionsOutput, error) {
	page, err := s.services.Collection.ListCollectionsByTag(ctx, input.request())
	if err != nil {
		return nil, err
	}

	return &ListCollectionsOutput{Body: ListCollectionsResponse{Collections: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	c, err := s.services.Collection.CreateCollection(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: c}, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *GetCollectionInput) (*CollectionOutput, error) {
	c, err := s.services.Collection.GetCollection(ctx, input.ID, input.IncludeItems)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: c}, nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*CollectionOutput, error) {
	c, err := s.services.Collection.UpdateCollection(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CollectionOutput{Body: c}, nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *CollectionIDInput) (*MessageOutput, error) {
	if err := s.services.Collection.DeleteCollection(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Collection deleted successfully"), nil
}

func (s *Server) handleAddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	item, err := s.services.Collection.AddItem(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &AddItemOutput{Body: AddItemResponse{
		Success: true,
		Message: "Item added to collection successfully",
		Item:    item,
	}}, nil
}

func (s *Server) handleRemoveItem(ctx context.Context, input *RemoveItemInput) (*MessageOutput, error) {
	if err := s.services.Collection.RemoveItem(ctx, input.ItemID); err != nil {
		return nil, err
	}
	return messageOutput("Item removed from collection successfully"), nil
}

func (s *Server) handleReorderItems(ctx context.Context, input *ReorderItemsInput) (*MessageOutput, error) {
	if err := s.services.Collection.ReorderItems(ctx, input.ID, input.Body); err != nil {
		return nil, err
	}
	return messageOutput("Collection items reordered successfully"), nil
}
