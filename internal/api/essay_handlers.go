package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerEssayRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getEssays",
		Method:      http.MethodGet,
		Path:        "/api/v1/essays",
		Summary:     "List essays",
		Description: "Returns a page of essays, newest publication first, without bodies",
		Tags:        []string{"Essays"},
	}, s.handleListEssays)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createEssay",
		Method:        http.MethodPost,
		Path:          "/api/v1/essays",
		Summary:       "Create essay",
		Description:   "Creates an essay; HTML content is stored as Markdown",
		Tags:          []string{"Essays"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateEssay)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEssaysByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/essays/by-tag/{tagSlug}",
		Summary:     "List essays by tag",
		Description: "Returns published essays carrying the tag",
		Tags:        []string{"Essays"},
	}, s.handleListEssaysByTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEssay",
		Method:      http.MethodGet,
		Path:        "/api/v1/essays/{id}",
		Summary:     "Get essay",
		Description: "Returns an essay by ID or slug",
		Tags:        []string{"Essays"},
	}, s.handleGetEssay)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEssay",
		Method:      http.MethodPatch,
		Path:        "/api/v1/essays/{id}",
		Summary:     "Update essay",
		Description: "Updates an essay; a new title regenerates the slug",
		Tags:        []string{"Essays"},
	}, s.handleUpdateEssay)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEssay",
		Method:      http.MethodDelete,
		Path:        "/api/v1/essays/{id}",
		Summary:     "Delete essay",
		Description: "Deletes an essay and any collection items pointing at it",
		Tags:        []string{"Essays"},
	}, s.handleDeleteEssay)
}

// === DTOs ===

// ListEssaysInput contains parameters for listing essays.
type ListEssaysInput struct {
	PageQuery
	Status string `query:"status" enum:"DRAFT,PUBLISHED" doc:"Filter by status"`
	TagID  string `query:"tagId" doc:"Filter by tag ID"`
	Search string `query:"search" doc:"Substring of title, subtitle or excerpt"`
}

// ByTagInput lists content carrying the tag with the given slug.
type ByTagInput struct {
	TagSlug string `path:"tagSlug" doc:"Tag slug"`
	PageQuery
}

func (in *ByTagInput) request() service.ByTagRequest {
	return service.ByTagRequest{TagSlug: in.TagSlug, Page: in.Page, Limit: in.Limit}
}

// ListEssaysResponse contains a page of essays.
type ListEssaysResponse struct {
	Essays []*domain.Essay `json:"essays" doc:"Essays on this page"`
	Pagination
}

// ListEssaysOutput wraps the list essays response for Huma.
type ListEssaysOutput struct {
	Body ListEssaysResponse
}

// CreateEssayInput wraps the create essay request for Huma.
type CreateEssayInput struct {
	Body service.CreateEssayRequest
}

// EssayOutput wraps the essay response for Huma.
type EssayOutput struct {
	Body *domain.Essay
}

// EssayIDInput addresses an essay.
type EssayIDInput struct {
	ID string `path:"id" doc:"Essay ID or slug"`
}

// UpdateEssayInput wraps the update essay request for Huma.
type UpdateEssayInput struct {
	ID   string `path:"id" doc:"Essay ID"`
	Body service.UpdateEssayRequest
}

// === Handlers ===

func (s *Server) handleListEssays(ctx context.Context, input *ListEssaysInput) (*ListEssaysOutput, error) {
	page, err := s.services.Essay.ListEssays(ctx, service.ListEssaysRequest{
		Page:   input.Page,
		Limit:  input.Limit,
		Status: optional(domain.PublishStatus(input.Status)),
		TagID:  input.TagID,
		Search: input.Search,
	})
	if err != nil {
		return nil, err
	}

	return &ListEssaysOutput{Body: ListEssaysResponse{Essays: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleListEssaysByTag(ctx context.Context, input *ByTagInput) (*ListEssaysOutput, error) {
	page, err := s.services.Essay.ListEssaysByTag(ctx, input.request())
	if err != nil {
		return nil, err
	}

	return &ListEssaysOutput{Body: ListEssaysResponse{Essays: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleCreateEssay(ctx context.Context, input *CreateEssayInput) (*EssayOutput, error) {
	e, err := s.services.Essay.CreateEssay(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &EssayOutput{Body: e}, nil
}

func (s *Server) handleGetEssay(ctx context.Context, input *EssayIDInput) (*EssayOutput, error) {
	e, err := s.services.Essay.GetEssay(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EssayOutput{Body: e}, nil
}

func (s *Server) handleUpdateEssay(ctx context.Context, input *UpdateEssayInput) (*EssayOutput, error) {
	e, err := s.services.Essay.UpdateEssay(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &EssayOutput{Body: e}, nil
}

func (s *Server) handleDeleteEssay(ctx context.Context, input *EssayIDInput) (*MessageOutput, error) {
	if err := s.services.Essay.DeleteEssay(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Essay deleted successfully"), nil
}
