package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/store"
)

func TestEnvelopeTransformer(t *testing.T) {
	t.Run("wraps data", func(t *testing.T) {
		out, err := EnvelopeTransformer(nil, "200", map[string]int{"n": 1})
		require.NoError(t, err)

		env, ok := out.(APIEnvelope)
		require.True(t, ok)
		assert.True(t, env.Success)
		assert.Equal(t, EnvelopeVersion, env.Version)
		assert.Equal(t, map[string]int{"n": 1}, env.Data)
	})

	t.Run("nil body", func(t *testing.T) {
		out, err := EnvelopeTransformer(nil, "200", nil)
		require.NoError(t, err)
		assert.True(t, out.(APIEnvelope).Success)
	})

	t.Run("coded error", func(t *testing.T) {
		out, err := EnvelopeTransformer(nil, "409", &APIError{status: http.StatusConflict, Code: "NAME_EXISTS", Message: "taken"})
		require.NoError(t, err)

		env, ok := out.(APIErrorEnvelope)
		require.True(t, ok)
		assert.False(t, env.Success)
		assert.Equal(t, "NAME_EXISTS", env.Code)
		assert.Equal(t, "taken", env.Error)
	})

	t.Run("health passes through", func(t *testing.T) {
		health := &HealthResponse{Status: "healthy"}
		out, err := EnvelopeTransformer(nil, "200", health)
		require.NoError(t, err)
		assert.Same(t, health, out)
	})
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		input   string
		errs    []error
		want    int
		code    string
		message string
	}{
		{
			name:    "domain error keeps its code",
			status:  http.StatusInternalServerError,
			input:   "boom",
			errs:    []error{fmt.Errorf("wrap: %w", domainerrors.ErrSameTag)},
			want:    http.StatusBadRequest,
			code:    "SAME_TAG",
			message: domainerrors.ErrSameTag.Message,
		},
		{
			name:    "store not found",
			status:  http.StatusInternalServerError,
			input:   "boom",
			errs:    []error{store.ErrNotFound.WithMessage("tag not found")},
			want:    http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "tag not found",
		},
		{
			name:    "store conflict",
			status:  http.StatusInternalServerError,
			input:   "boom",
			errs:    []error{store.ErrAlreadyExists},
			want:    http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: store.ErrAlreadyExists.Message,
		},
		{
			name:    "unknown error hides message",
			status:  http.StatusInternalServerError,
			input:   "boom",
			errs:    []error{errors.New("disk on fire")},
			want:    http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal server error",
		},
		{
			name:    "schema failure",
			status:  http.StatusUnprocessableEntity,
			input:   "validation failed",
			errs:    nil,
			want:    http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAPIError(tt.status, tt.input, tt.errs)
			assert.Equal(t, tt.want, got.GetStatus())
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestFromDomain_HidesInternalDetails(t *testing.T) {
	got := fromDomain(domainerrors.Internal("db exploded").WithDetails("stack"))

	assert.Equal(t, http.StatusInternalServerError, got.GetStatus())
	assert.Equal(t, "internal server error", got.Message)
	assert.Nil(t, got.Details)
}
