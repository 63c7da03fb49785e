package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/util"
	"github.com/atticapp/attic-server/internal/validation"
)

// Limits for the most-used and unused tag reports.
const (
	DefaultTagReportLimit = 10
	MaxTagReportLimit     = 50
)

var errTagNotFound = notFound("Tag")

// TagService orchestrates tag lifecycle and usage reporting.
type TagService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor6"`
}

// CreateTag creates a tag. The slug is derived from the name.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := util.Slugify(req.Name)
	taken, err := s.store.TagNameOrSlugTaken(ctx, req.Name, slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domainerrors.ErrNameExists
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, err
	}

	tag := &domain.Tag{
		ID:        tagID,
		Name:      req.Name,
		Slug:      slug,
		Color:     domain.DefaultTagColor,
		CreatedAt: time.Now(),
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, mapStoreError(err, nil, domainerrors.ErrNameExists)
	}

	s.logger.InfoContext(ctx, "tag created", "id", tag.ID, "name", tag.Name, "slug", tag.Slug)
	return tag, nil
}

// GetTag looks a tag up by id, then by slug.
func (s *TagService) GetTag(ctx context.Context, idOrSlug string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, idOrSlug)
	if errors.Is(err, store.ErrNotFound) {
		tag, err = s.store.GetTagBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, mapStoreError(err, errTagNotFound, nil)
	}
	return tag, nil
}

// ListTagsRequest selects a page of tags. Zero values take defaults.
type ListTagsRequest struct {
	Page          int    `json:"page" validate:"omitempty,min=1"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Search        string `json:"search"`
	SortBy        string `json:"sortBy" validate:"omitempty,oneof=name createdAt usage"`
	SortOrder     string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
	IncludeUnused *bool  `json:"includeUnused"`
}

// ListTags returns a page of tags with per-kind usage counts.
func (s *TagService) ListTags(ctx context.Context, req ListTagsRequest) (store.Page[*domain.TagWithCounts], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.TagWithCounts]{}, err
	}
	includeUnused := true
	if req.IncludeUnused != nil {
		includeUnused = *req.IncludeUnused
	}
	return s.store.ListTags(ctx, store.TagFilter{
		PageParams:    store.PageParams{Page: req.Page, Limit: req.Limit},
		Search:        req.Search,
		SortBy:        orDefault(req.SortBy, store.SortByName),
		SortOrder:     store.SortOrder(orDefault(req.SortOrder, string(store.SortAsc))),
		IncludeUnused: includeUnused,
	})
}

// UpdateTagRequest contains the fields a tag update may change.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor6"`
}

// UpdateTag renames or recolors a tag. A rename regenerates the slug.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreError(err, errTagNotFound, nil)
	}

	patch := store.TagPatch{Color: req.Color}
	if req.Name != nil && *req.Name != existing.Name {
		slug := util.Slugify(*req.Name)
		taken, err := s.store.TagNameOrSlugTaken(ctx, *req.Name, slug, tagID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domainerrors.ErrNameExists
		}
		patch.Name = req.Name
		patch.Slug = &slug
	}

	tag, err := s.store.UpdateTag(ctx, tagID, patch)
	if err != nil {
		return nil, mapStoreError(err, errTagNotFound, domainerrors.ErrNameExists)
	}

	s.logger.InfoContext(ctx, "tag updated", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// DeleteTag deletes a tag and its associations.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return mapStoreError(err, errTagNotFound, nil)
	}
	s.logger.InfoContext(ctx, "tag deleted", "id", tagID)
	return nil
}

// GetTagUsage reports how many items of each kind carry a tag.
func (s *TagService) GetTagUsage(ctx context.Context, idOrSlug string) (*domain.TagUsage, error) {
	tag, err := s.GetTag(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.GetTagCounts(ctx, tag.ID)
	if err != nil {
		return nil, mapStoreError(err, errTagNotFound, nil)
	}
	return &domain.TagUsage{
		Tag:            tag,
		TotalUsage:     counts.Total(),
		UsageBreakdown: counts,
	}, nil
}

// TagReportRequest bounds a tag report.
type TagReportRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=50"`
}

// MostUsedTags returns tags in use, most used first.
func (s *TagService) MostUsedTags(ctx context.Context, req TagReportRequest) ([]*domain.TagWithCounts, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	all, err := s.store.ListAllTagsWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	used := make([]*domain.TagWithCounts, 0, len(all))
	for _, t := range all {
		if t.TotalUsage() > 0 {
			used = append(used, t)
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		return used[i].TotalUsage() > used[j].TotalUsage()
	})
	return truncate(used, orDefault(req.Limit, DefaultTagReportLimit)), nil
}

// UnusedTags returns tags no content carries, newest first.
func (s *TagService) UnusedTags(ctx context.Context, req TagReportRequest) ([]*domain.TagWithCounts, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	all, err := s.store.ListAllTagsWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	unused := make([]*domain.TagWithCounts, 0, len(all))
	for _, t := range all {
		if t.Counts.IsZero() {
			unused = append(unused, t)
		}
	}
	sort.SliceStable(unused, func(i, j int) bool {
		return unused[i].CreatedAt.After(unused[j].CreatedAt)
	})
	return truncate(unused, orDefault(req.Limit, DefaultTagReportLimit)), nil
}

// MergeTagsRequest names the tag to fold away and the tag that absorbs it.
type MergeTagsRequest struct {
	SourceTagID string `json:"sourceTagId" validate:"required"`
	TargetTagID string `json:"targetTagId" validate:"required"`
}

// MergeTags moves every association from source to target and deletes
// source. It runs in one transaction.
func (s *TagService) MergeTags(ctx context.Context, req MergeTagsRequest) (*domain.TagMergeResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.SourceTagID == req.TargetTagID {
		return nil, domainerrors.ErrSameTag
	}

	source, err := s.store.GetTag(ctx, req.SourceTagID)
	if err != nil {
		return nil, mapStoreError(err, domainerrors.ErrSourceNotFound, nil)
	}
	target, err := s.store.GetTag(ctx, req.TargetTagID)
	if err != nil {
		return nil, mapStoreError(err, domainerrors.ErrTargetNotFound, nil)
	}

	merged, err := s.store.MergeTags(ctx, source.ID, target.ID)
	if err != nil {
		return nil, mapStoreError(err, domainerrors.ErrSourceNotFound, nil)
	}

	s.logger.InfoContext(ctx, "tags merged",
		"source_id", source.ID,
		"target_id", target.ID,
		"merged", merged.Total(),
	)
	return &domain.TagMergeResult{Source: source, Target: target, MergedCount: merged}, nil
}

// ResolveTagSlug returns the id of the tag with slug, or "" when none.
func (s *TagService) ResolveTagSlug(ctx context.Context, slug string) (string, error) {
	return resolveTagSlug(ctx, s.store, slug)
}

func resolveTagSlug(ctx context.Context, st store.Store, slug string) (string, error) {
	tag, err := st.GetTagBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tag.ID, nil
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
