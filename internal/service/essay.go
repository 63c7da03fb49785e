package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/util"
	"github.com/atticapp/attic-server/internal/validation"
)

// ExcerptLength is how much of an essay's body becomes its excerpt when
// none is given.
const ExcerptLength = 200

var errEssayNotFound = notFound("Essay")

// EssayService orchestrates essay operations.
type EssayService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewEssayService creates a new essay service.
func NewEssayService(st store.Store, logger *slog.Logger) *EssayService {
	return &EssayService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateEssayRequest contains fields for creating an essay.
type CreateEssayRequest struct {
	Title      string                `json:"title" validate:"required,min=1,max=200"`
	Subtitle   *string               `json:"subtitle,omitempty" validate:"omitempty,max=500"`
	Content    string                `json:"content" validate:"required,min=1"`
	Excerpt    *string               `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	ReadTime   *int                  `json:"readTime,omitempty" validate:"omitempty,gt=0"`
	CoverImage *string               `json:"coverImage,omitempty" validate:"omitempty,url"`
	Status     *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs     []string              `json:"tagIds,omitempty"`
}

// CreateEssay creates an essay. HTML bodies are stored as Markdown, and a
// missing excerpt or read time is derived from the body.
func (s *EssayService) CreateEssay(ctx context.Context, req CreateEssayRequest) (*domain.Essay, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := util.Slugify(req.Title)
	taken, err := s.store.EssaySlugTaken(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domainerrors.ErrSlugExists
	}

	essayID, err := id.Generate(id.PrefixEssay)
	if err != nil {
		return nil, err
	}

	content := util.ToMarkdown(req.Content)
	now := time.Now()
	e := &domain.Essay{
		ID:          essayID,
		Slug:        slug,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     content,
		Excerpt:     req.Excerpt,
		ReadTime:    req.ReadTime,
		CoverImage:  req.CoverImage,
		Status:      domain.StatusPublished,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if e.Excerpt == nil {
		excerpt := util.Preview(content, ExcerptLength)
		e.Excerpt = &excerpt
	}
	if e.ReadTime == nil {
		minutes := util.ReadTimeMinutes(content)
		e.ReadTime = &minutes
	}

	if err := s.store.CreateEssay(ctx, e, req.TagIDs); err != nil {
		return nil, mapStoreError(err, nil, domainerrors.ErrSlugExists)
	}

	s.logger.InfoContext(ctx, "essay created", "id", e.ID, "slug", e.Slug, "status", e.Status)
	return e, nil
}

// GetEssay looks an essay up by id, then by slug.
func (s *EssayService) GetEssay(ctx context.Context, idOrSlug string) (*domain.Essay, error) {
	e, err := s.store.GetEssay(ctx, idOrSlug)
	if errors.Is(err, store.ErrNotFound) {
		e, err = s.store.GetEssayBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, mapStoreError(err, errEssayNotFound, nil)
	}
	return e, nil
}

// ListEssaysRequest selects a page of essays.
type ListEssaysRequest struct {
	Page   int                   `json:"page" validate:"omitempty,min=1"`
	Limit  int                   `json:"limit" validate:"omitempty,min=1,max=50"`
	Status *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagID  string                `json:"tagId,omitempty"`
	Search string                `json:"search,omitempty"`
}

// ListEssays returns essays newest first, without their bodies.
func (s *EssayService) ListEssays(ctx context.Context, req ListEssaysRequest) (store.Page[*domain.Essay], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Essay]{}, err
	}
	page, err := s.store.ListEssays(ctx, store.EssayFilter{
		PageParams: store.PageParams{Page: req.Page, Limit: req.Limit},
		Status:     req.Status,
		TagID:      req.TagID,
		Search:     req.Search,
	})
	if err != nil {
		return page, err
	}
	for _, e := range page.Items {
		e.Content = ""
	}
	return page, nil
}

// ByTagRequest selects a page of content carrying the tag with TagSlug.
type ByTagRequest struct {
	TagSlug string `json:"tagSlug" validate:"required"`
	Page    int    `json:"page" validate:"omitempty,min=1"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// ListEssaysByTag returns published essays carrying a tag. An unknown tag
// yields an empty page.
func (s *EssayService) ListEssaysByTag(ctx context.Context, req ByTagRequest) (store.Page[*domain.Essay], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Essay]{}, err
	}
	tagID, err := resolveTagSlug(ctx, s.store, req.TagSlug)
	if err != nil {
		return store.Page[*domain.Essay]{}, err
	}
	if tagID == "" {
		return emptyPage[*domain.Essay](req.Page, req.Limit), nil
	}
	published := domain.StatusPublished
	return s.ListEssays(ctx, ListEssaysRequest{
		Page:   req.Page,
		Limit:  req.Limit,
		Status: &published,
		TagID:  tagID,
	})
}

// UpdateEssayRequest contains the fields an essay update may change.
type UpdateEssayRequest struct {
	Title      *string               `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Subtitle   *string               `json:"subtitle,omitempty" validate:"omitempty,max=500"`
	Content    *string               `json:"content,omitempty" validate:"omitempty,min=1"`
	Excerpt    *string               `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	ReadTime   *int                  `json:"readTime,omitempty" validate:"omitempty,gt=0"`
	CoverImage *string               `json:"coverImage,omitempty" validate:"omitempty,url"`
	Status     *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs     *[]string             `json:"tagIds,omitempty"`
}

// UpdateEssay applies a partial update. Changing the title regenerates the
// slug; the old slug is not kept.
func (s *EssayService) UpdateEssay(ctx context.Context, essayID string, req UpdateEssayRequest) (*domain.Essay, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetEssay(ctx, essayID)
	if err != nil {
		return nil, mapStoreError(err, errEssayNotFound, nil)
	}

	patch := store.EssayPatch{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Excerpt:    req.Excerpt,
		ReadTime:   req.ReadTime,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		TagIDs:     req.TagIDs,
	}
	if req.Content != nil {
		content := util.ToMarkdown(*req.Content)
		patch.Content = &content
	}
	if req.Title != nil && *req.Title != existing.Title {
		slug := util.Slugify(*req.Title)
		taken, err := s.store.EssaySlugTaken(ctx, slug, essayID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domainerrors.ErrSlugExists
		}
		patch.Slug = &slug
	}

	e, err := s.store.UpdateEssay(ctx, essayID, patch)
	if err != nil {
		return nil, mapStoreError(err, errEssayNotFound, domainerrors.ErrSlugExists)
	}

	s.logger.InfoContext(ctx, "essay updated", "id", e.ID, "slug", e.Slug)
	return e, nil
}

// DeleteEssay deletes an essay.
func (s *EssayService) DeleteEssay(ctx context.Context, essayID string) error {
	if err := s.store.DeleteEssay(ctx, essayID); err != nil {
		return mapStoreError(err, errEssayNotFound, nil)
	}
	s.logger.InfoContext(ctx, "essay deleted", "id", essayID)
	return nil
}

// emptyPage is the result for a listing whose filter matches nothing.
func emptyPage[T any](page, limit int) store.Page[T] {
	params := store.PageParams{Page: page, Limit: limit}
	params.Normalize(store.DefaultPageLimit, store.MaxPageLimit)
	return store.NewPage[T](nil, 0, params)
}
