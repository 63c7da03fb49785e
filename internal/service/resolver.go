package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// ContentResolver turns polymorphic content references into display
// projections. The store cannot enforce these references, so a missing
// target is an expected outcome rather than an error.
type ContentResolver struct {
	store store.Store
}

// NewContentResolver creates a resolver over st.
func NewContentResolver(st store.Store) *ContentResolver {
	return &ContentResolver{store: st}
}

// Resolve returns the projection for ref, or nil when the target is gone.
func (r *ContentResolver) Resolve(ctx context.Context, ref domain.ContentRef) (*domain.ContentSummary, error) {
	summary, err := r.resolve(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return summary, nil
}

func (r *ContentResolver) resolve(ctx context.Context, ref domain.ContentRef) (*domain.ContentSummary, error) {
	switch ref.Type {
	case domain.ContentEssay:
		e, err := r.store.GetEssay(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return e.Summary(), nil
	case domain.ContentBook:
		b, err := r.store.GetBook(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return b.Summary(), nil
	case domain.ContentQuote:
		q, err := r.store.GetQuote(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return q.Summary(), nil
	case domain.ContentNote:
		n, err := r.store.GetNote(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return n.Summary(), nil
	case domain.ContentCollection:
		c, err := r.store.GetCollection(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return c.Summary(), nil
	default:
		return nil, store.ErrNotFound
	}
}

// ResolveMany fills Content on each item. Items whose target is gone keep
// a nil Content and are marked Orphaned.
func (r *ContentResolver) ResolveMany(ctx context.Context, items []*domain.CollectionItem) error {
	for _, it := range items {
		summary, err := r.Resolve(ctx, it.ContentRef)
		if err != nil {
			return err
		}
		it.Content = summary
		it.Orphaned = summary == nil
	}
	return nil
}
