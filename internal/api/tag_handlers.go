package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns a page of tags with per-kind usage counts",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a new tag; the slug is derived from the name",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMostUsedTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top",
		Summary:     "Most used tags",
		Description: "Returns tags in use, most used first",
		Tags:        []string{"Tags"},
	}, s.handleMostUsedTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnusedTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/unused",
		Summary:     "Unused tags",
		Description: "Returns tags attached to nothing, newest first",
		Tags:        []string{"Tags"},
	}, s.handleUnusedTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "mergeTags",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags/merge",
		Summary:     "Merge tags",
		Description: "Moves every association of the source tag onto the target and deletes the source",
		Tags:        []string{"Tags"},
	}, s.handleMergeTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID or slug",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagUsage",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/usage",
		Summary:     "Get tag usage",
		Description: "Returns how many items of each kind carry the tag",
		Tags:        []string{"Tags"},
	}, s.handleGetTagUsage)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Renames or recolors a tag",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and detaches it from all content",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	Page          int    `query:"page" default:"1" minimum:"1" doc:"1-based page number"`
	Limit         int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Items per page"`
	Search        string `query:"search" doc:"Case-insensitive substring of the name"`
	SortBy        string `query:"sortBy" default:"name" enum:"name,createdAt,usage" doc:"Sort key"`
	SortOrder     string `query:"sortOrder" default:"asc" enum:"asc,desc" doc:"Sort direction"`
	IncludeUnused bool   `query:"includeUnused" default:"true" doc:"Include tags attached to nothing"`
}

// TagListItem is a tag with its usage counts.
type TagListItem struct {
	domain.TagWithCounts
	TotalUsage int `json:"totalUsage" doc:"Sum of all per-kind counts"`
}

func tagListItems(tags []*domain.TagWithCounts) []TagListItem {
	items := make([]TagListItem, len(tags))
	for i, t := range tags {
		items[i] = TagListItem{TagWithCounts: *t, TotalUsage: t.TotalUsage()}
	}
	return items
}

// ListTagsResponse contains a page of tags.
type ListTagsResponse struct {
	Tags []TagListItem `json:"tags" doc:"Tags on this page"`
	Pagination
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body service.CreateTagRequest
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// TagIDInput addresses a tag by ID, or by slug where the operation allows it.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID or slug"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body service.UpdateTagRequest
}

// TagUsageOutput wraps a tag usage report for Huma.
type TagUsageOutput struct {
	Body *domain.TagUsage
}

// TagReportInput bounds a tag report.
type TagReportInput struct {
	Limit int `query:"limit" default:"10" minimum:"1" maximum:"50" doc:"Maximum tags to return"`
}

// TagReportResponse lists tags without pagination.
type TagReportResponse struct {
	Tags []TagListItem `json:"tags" doc:"Tags in report order"`
}

// TagReportOutput wraps a tag report for Huma.
type TagReportOutput struct {
	Body TagReportResponse
}

// MergeTagsInput wraps the merge request for Huma.
type MergeTagsInput struct {
	Body service.MergeTagsRequest
}

// MergeTagsResponse reports a finished merge.
type MergeTagsResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	MergedCount domain.TagCounts `json:"mergedCount" doc:"Associations moved, per kind"`
}

// MergeTagsOutput wraps the merge response for Huma.
type MergeTagsOutput struct {
	Body MergeTagsResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	page, err := s.services.Tag.ListTags(ctx, service.ListTagsRequest{
		Page:          input.Page,
		Limit:         input.Limit,
		Search:        input.Search,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
		IncludeUnused: &input.IncludeUnused,
	})
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: ListTagsResponse{
		Tags:       tagListItems(page.Items),
		Pagination: paginationOf(page),
	}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Tag.CreateTag(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	t, err := s.services.Tag.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleGetTagUsage(ctx context.Context, input *TagIDInput) (*TagUsageOutput, error) {
	usage, err := s.services.Tag.GetTagUsage(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagUsageOutput{Body: usage}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.services.Tag.UpdateTag(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*MessageOutput, error) {
	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Tag deleted successfully"), nil
}

func (s *Server) handleMostUsedTags(ctx context.Context, input *TagReportInput) (*TagReportOutput, error) {
	tags, err := s.services.Tag.MostUsedTags(ctx, service.TagReportRequest{Limit: input.Limit})
	if err != nil {
		return nil, err
	}
	return &TagReportOutput{Body: TagReportResponse{Tags: tagListItems(tags)}}, nil
}

func (s *Server) handleUnusedTags(ctx context.Context, input *TagReportInput) (*TagReportOutput, error) {
	tags, err := s.services.Tag.UnusedTags(ctx, service.TagReportRequest{Limit: input.Limit})
	if err != nil {
		return nil, err
	}
	return &TagReportOutput{Body: TagReportResponse{Tags: tagListItems(tags)}}, nil
}

func (s *Server) handleMergeTags(ctx context.Context, input *MergeTagsInput) (*MergeTagsOutput, error) {
	res, err := s.services.Tag.MergeTags(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &MergeTagsOutput{Body: MergeTagsResponse{
		Success:     true,
		Message:     fmt.Sprintf(`Successfully merged "%s" into "%s"`, res.Source.Name, res.Target.Name),
		MergedCount: res.MergedCount,
	}}, nil
}
