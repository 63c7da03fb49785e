package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns a page of notes with content previews",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/v1/notes",
		Summary:       "Create note",
		Description:   "Creates a note, as a draft unless a status is given",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkUpdateNotes",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/bulk",
		Summary:     "Bulk update notes",
		Description: "Sets status and/or tags on many notes. Best effort: the status change commits before tags are replaced",
		Tags:        []string{"Notes"},
	}, s.handleBulkUpdateNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNotesByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/by-tag/{tagSlug}",
		Summary:     "List notes by tag",
		Description: "Returns notes carrying the tag, most recently updated first",
		Tags:        []string{"Notes"},
	}, s.handleListNotesByTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note with its full content",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Updates a note",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleNoteStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/notes/{id}/status",
		Summary:     "Set note status",
		Description: "Publishes or unpublishes a note",
		Tags:        []string{"Notes"},
	}, s.handleSetNoteStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note and any collection items pointing at it",
		Tags:        []string{"Notes"},
	}, s.handleDeleteNote)
}

// === DTOs ===

// ListNotesInput contains parameters for listing notes.
type ListNotesInput struct {
	PageQuery
	Status    string `query:"status" enum:"DRAFT,PUBLISHED" doc:"Filter by status"`
	TagID     string `query:"tagId" doc:"Filter by tag ID"`
	Search    string `query:"search" doc:"Substring of title or content"`
	SortBy    string `query:"sortBy" default:"updatedAt" enum:"createdAt,updatedAt,title" doc:"Sort key"`
	SortOrder string `query:"sortOrder" default:"desc" enum:"asc,desc" doc:"Sort direction"`
}

// ListNotesResponse contains a page of notes.
type ListNotesResponse struct {
	Notes []*domain.Note `json:"notes" doc:"Notes on this page"`
	Pagination
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body service.CreateNoteRequest
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body *domain.Note
}

// NoteIDInput addresses a note.
type NoteIDInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body service.UpdateNoteRequest
}

// NoteStatusRequest is the request body for setting a note's status.
type NoteStatusRequest struct {
	Status domain.PublishStatus `json:"status" enum:"DRAFT,PUBLISHED" doc:"New status"`
}

// NoteStatusInput wraps the status request for Huma.
type NoteStatusInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body NoteStatusRequest
}

// BulkUpdateNotesInput wraps the bulk request for Huma.
type BulkUpdateNotesInput struct {
	Body service.BulkUpdateNotesRequest
}

// BulkUpdateNotesResponse reports how many notes changed.
type BulkUpdateNotesResponse struct {
	Success bool   `json:"success"`
	Updated int    `json:"updated" doc:"Number of notes updated"`
	Message string `json:"message"`
}

// BulkUpdateNotesOutput wraps the bulk response for Huma.
type BulkUpdateNotesOutput struct {
	Body BulkUpdateNotesResponse
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	page, err := s.services.Note.ListNotes(ctx, service.ListNotesRequest{
		Page:      input.Page,
		Limit:     input.Limit,
		Status:    optional(domain.PublishStatus(input.Status)),
		TagID:     input.TagID,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleListNotesByTag(ctx context.Context, input *ByTagInput) (*ListNotesOutput, error) {
	page, err := s.services.Note.ListNotesByTag(ctx, input.request())
	if err != nil {
		return nil, err
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: page.Items, Pagination: paginationOf(page)}}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	n, err := s.services.Note.CreateNote(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	n, err := s.services.Note.GetNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	n, err := s.services.Note.UpdateNote(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleSetNoteStatus(ctx context.Context, input *NoteStatusInput) (*NoteOutput, error) {
	n, err := s.services.Note.SetNoteStatus(ctx, input.ID, input.Body.Status)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleBulkUpdateNotes(ctx context.Context, input *BulkUpdateNotesInput) (*BulkUpdateNotesOutput, error) {
	res, err := s.services.Note.BulkUpdateNotes(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &BulkUpdateNotesOutput{Body: BulkUpdateNotesResponse{
		Success: true,
		Updated: res.Updated,
		Message: res.Message,
	}}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*MessageOutput, error) {
	if err := s.services.Note.DeleteNote(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("Note deleted successfully"), nil
}
