package service

import (
	"errors"

	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/store"
)

// mapStoreError turns persistence failures into coded errors. notFound and
// conflict replace store.ErrNotFound and store.ErrAlreadyExists when set.
// Any other constraint failure becomes a validation error. Everything else
// is returned as is and surfaces as INTERNAL.
func mapStoreError(err error, notFound, conflict *domainerrors.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, store.ErrAlreadyExists) && conflict != nil:
		return conflict
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid input")
	default:
		return err
	}
}

func notFound(what string) *domainerrors.Error {
	return domainerrors.NotFound(what + " not found")
}

// orDefault returns v unless it is the zero value.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
