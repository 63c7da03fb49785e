package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/id"
	"github.com/atticapp/attic-server/internal/store"
	"github.com/atticapp/attic-server/internal/util"
	"github.com/atticapp/attic-server/internal/validation"
)

var errNoteNotFound = notFound("Note")

// NoteService orchestrates note operations.
type NoteService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewNoteService creates a new note service.
func NewNoteService(st store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:     st,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateNoteRequest contains fields for creating a note.
type CreateNoteRequest struct {
	Title   *string               `json:"title,omitempty" validate:"omitempty,max=200"`
	Content string                `json:"content" validate:"required,min=1"`
	Status  *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs  []string              `json:"tagIds,omitempty"`
}

// CreateNote creates a note, a draft unless a status is given.
func (s *NoteService) CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	n := &domain.Note{
		ID:        noteID,
		Title:     req.Title,
		Content:   req.Content,
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status != nil {
		n.Status = *req.Status
	}

	if err := s.store.CreateNote(ctx, n, req.TagIDs); err != nil {
		return nil, mapStoreError(err, nil, nil)
	}

	s.logger.InfoContext(ctx, "note created", "id", n.ID, "status", n.Status)
	return n, nil
}

// GetNote returns a note with its full content.
func (s *NoteService) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	n, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err, errNoteNotFound, nil)
	}
	return n, nil
}

// ListNotesRequest selects a page of notes.
type ListNotesRequest struct {
	Page      int                   `json:"page" validate:"omitempty,min=1"`
	Limit     int                   `json:"limit" validate:"omitempty,min=1,max=50"`
	Status    *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagID     string                `json:"tagId,omitempty"`
	Search    string                `json:"search,omitempty"`
	SortBy    string                `json:"sortBy" validate:"omitempty,oneof=createdAt updatedAt title"`
	SortOrder string                `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListNotes returns a page of notes. Items carry a content preview instead
// of the full content.
func (s *NoteService) ListNotes(ctx context.Context, req ListNotesRequest) (store.Page[*domain.Note], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Note]{}, err
	}
	page, err := s.store.ListNotes(ctx, store.NoteFilter{
		PageParams: store.PageParams{Page: req.Page, Limit: req.Limit},
		Status:     req.Status,
		TagID:      req.TagID,
		Search:     req.Search,
		SortBy:     orDefault(req.SortBy, store.SortByUpdatedAt),
		SortOrder:  store.SortOrder(orDefault(req.SortOrder, string(store.SortDesc))),
	})
	if err != nil {
		return page, err
	}
	for _, n := range page.Items {
		n.ContentPreview = util.Preview(n.Content, domain.NotePreviewLength)
		n.Content = ""
	}
	return page, nil
}

// ListNotesByTag returns notes carrying a tag, most recently updated first.
func (s *NoteService) ListNotesByTag(ctx context.Context, req ByTagRequest) (store.Page[*domain.Note], error) {
	if err := s.validator.Validate(req); err != nil {
		return store.Page[*domain.Note]{}, err
	}
	tagID, err := resolveTagSlug(ctx, s.store, req.TagSlug)
	if err != nil {
		return store.Page[*domain.Note]{}, err
	}
	if tagID == "" {
		return emptyPage[*domain.Note](req.Page, req.Limit), nil
	}
	return s.ListNotes(ctx, ListNotesRequest{Page: req.Page, Limit: req.Limit, TagID: tagID})
}

// UpdateNoteRequest contains the fields a note update may change.
type UpdateNoteRequest struct {
	Title   *string               `json:"title,omitempty" validate:"omitempty,max=200"`
	Content *string               `json:"content,omitempty" validate:"omitempty,min=1"`
	Status  *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs  *[]string             `json:"tagIds,omitempty"`
}

// UpdateNote applies a partial update to a note.
func (s *NoteService) UpdateNote(ctx context.Context, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	n, err := s.store.UpdateNote(ctx, noteID, store.NotePatch{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		TagIDs:  req.TagIDs,
	})
	if err != nil {
		return nil, mapStoreError(err, errNoteNotFound, nil)
	}
	s.logger.InfoContext(ctx, "note updated", "id", n.ID)
	return n, nil
}

// SetNoteStatus moves a single note between draft and published.
func (s *NoteService) SetNoteStatus(ctx context.Context, noteID string, status domain.PublishStatus) (*domain.Note, error) {
	return s.UpdateNote(ctx, noteID, UpdateNoteRequest{Status: &status})
}

// BulkUpdateNotesRequest applies one status and/or tag set to many notes.
type BulkUpdateNotesRequest struct {
	NoteIDs []string              `json:"noteIds" validate:"required,min=1"`
	Status  *domain.PublishStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs  *[]string             `json:"tagIds,omitempty"`
}

// BulkUpdateResult reports how many notes a bulk update touched.
type BulkUpdateResult struct {
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// BulkUpdateNotes sets status and/or tags on several notes. It is not
// atomic: the status update commits first and tags are then replaced note
// by note. Unknown ids are skipped.
func (s *NoteService) BulkUpdateNotes(ctx context.Context, req BulkUpdateNotesRequest) (*BulkUpdateResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	updated := 0
	if req.Status != nil {
		n, err := s.store.SetNotesStatus(ctx, req.NoteIDs, *req.Status)
		if err != nil {
			return nil, fmt.Errorf("set notes status: %w", err)
		}
		updated = n
	}

	if req.TagIDs != nil {
		tagged := 0
		for _, noteID := range req.NoteIDs {
			_, err := s.store.UpdateNote(ctx, noteID, store.NotePatch{TagIDs: req.TagIDs})
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, mapStoreError(err, nil, nil)
			}
			tagged++
		}
		if req.Status == nil {
			updated = tagged
		}
	}

	s.logger.InfoContext(ctx, "notes bulk updated", "requested", len(req.NoteIDs), "updated", updated)
	return &BulkUpdateResult{
		Updated: updated,
		Message: fmt.Sprintf("Successfully updated %d notes", updated),
	}, nil
}

// DeleteNote deletes a note.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return mapStoreError(err, errNoteNotFound, nil)
	}
	s.logger.InfoContext(ctx, "note deleted", "id", noteID)
	return nil
}
