package api

import (
	"strconv"

	"github.com/atticapp/attic-server/internal/store"
)

// PageQuery holds the page parameters shared by content lists.
type PageQuery struct {
	Page  int `query:"page" default:"1" minimum:"1" doc:"1-based page number"`
	Limit int `query:"limit" default:"10" minimum:"1" maximum:"50" doc:"Items per page"`
}

// Pagination is embedded in every list response next to the kind-specific items key.
type Pagination struct {
	Total      int `json:"total" doc:"Total matching items"`
	Page       int `json:"page" doc:"Current page"`
	Limit      int `json:"limit" doc:"Items per page"`
	TotalPages int `json:"totalPages" doc:"Number of pages"`
}

func paginationOf[T any](p store.Page[T]) Pagination {
	return Pagination{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(),
	}
}

// MessageResponse acknowledges a mutation that returns no entity.
type MessageResponse struct {
	Success bool   `json:"success" doc:"Whether the operation succeeded"`
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func messageOutput(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Success: true, Message: msg}}
}

// parseOptionalBool reads "true"/"false" query values; anything else means unset.
func parseOptionalBool(s string) *bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// optional returns nil for the zero value.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
