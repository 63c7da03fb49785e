package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const itemColumns = `i.id, i.collection_id, i.content_type, i.content_id, i.sort_order, i.note, i.created_at`

func scanItem(sc scanner) (*domain.CollectionItem, error) {
	var (
		it          domain.CollectionItem
		contentType string
		note        sql.NullString
		createdAt   string
	)
	if err := sc.Scan(&it.ID, &it.CollectionID, &contentType, &it.ContentRef.ID, &it.Order, &note, &createdAt); err != nil {
		return nil, err
	}
	it.ContentRef.Type = domain.ContentType(contentType)
	it.Note = stringPtr(note)

	var err error
	if it.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &it, nil
}

// CreateCollectionItem inserts an item. A duplicate (collection, content)
// pair fails with ErrAlreadyExists.
func (s *Store) CreateCollectionItem(ctx context.Context, it *domain.CollectionItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_items (id, collection_id, content_type, content_id, sort_order, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.CollectionID, string(it.ContentRef.Type), it.ContentRef.ID, it.Order,
		nullableString(it.Note), formatTime(it.CreatedAt),
	)
	return mapError(err)
}

// GetCollectionItem retrieves an item by id.
func (s *Store) GetCollectionItem(ctx context.Context, id string) (*domain.CollectionItem, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM collection_items i WHERE i.id = ?`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return it, nil
}

// FindCollectionItem returns the item placing ref in a collection.
func (s *Store) FindCollectionItem(ctx context.Context, collectionID string, ref domain.ContentRef) (*domain.CollectionItem, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM collection_items i
		WHERE i.collection_id = ? AND i.content_type = ? AND i.content_id = ?`,
		collectionID, string(ref.Type), ref.ID))
	if err != nil {
		return nil, mapError(err)
	}
	return it, nil
}

// ListCollectionItems returns a collection's items in display order.
// Ties keep insertion order.
func (s *Store) ListCollectionItems(ctx context.Context, collectionID string) ([]*domain.CollectionItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM collection_items i
		WHERE i.collection_id = ?
		ORDER BY i.sort_order ASC, i.created_at ASC, i.rowid ASC`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("query collection items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CollectionItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MaxCollectionOrder returns the highest order in a collection. ok is
// false when the collection is empty.
func (s *Store) MaxCollectionOrder(ctx context.Context, collectionID string) (int, bool, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM collection_items WHERE collection_id = ?`, collectionID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, false, err
	}
	return int(maxOrder.Int64), maxOrder.Valid, nil
}

// DeleteCollectionItem removes one item. Other orders are left as they are.
func (s *Store) DeleteCollectionItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collection_items WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// ReorderCollectionItems assigns new orders atomically. Every item must
// belong to collectionID; otherwise nothing changes and ErrInvalidInput
// is returned.
func (s *Store) ReorderCollectionItems(ctx context.Context, collectionID string, orders []domain.ItemOrder) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, o := range orders {
			res, err := tx.ExecContext(ctx,
				`UPDATE collection_items SET sort_order = ? WHERE id = ? AND collection_id = ?`,
				o.Order, o.ItemID, collectionID)
			if err != nil {
				return mapError(err)
			}
			if err := requireAffected(res); err != nil {
				return store.ErrInvalidInput.WithMessage(
					fmt.Sprintf("item %s is not in collection %s", o.ItemID, collectionID))
			}
		}
		return nil
	})
}
