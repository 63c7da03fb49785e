package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const collectionColumns = `c.id, c.name, c.description, c.cover_image, c.is_public, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM collection_items ci WHERE ci.collection_id = c.id)`

var collectionSortColumns = map[string]string{
	store.SortByName:      "c.name",
	store.SortByCreatedAt: "c.created_at",
	store.SortByUpdatedAt: "c.updated_at",
}

func scanCollection(sc scanner) (*domain.Collection, error) {
	var (
		c                    domain.Collection
		description, cover   sql.NullString
		isPublic             int
		createdAt, updatedAt string
	)
	if err := sc.Scan(&c.ID, &c.Name, &description, &cover, &isPublic, &createdAt, &updatedAt, &c.ItemCount); err != nil {
		return nil, err
	}
	c.Description = stringPtr(description)
	c.CoverImage = stringPtr(cover)
	c.IsPublic = isPublic != 0

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &c, nil
}

// CreateCollection inserts a collection and its tag set.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection, tagIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO collections (id, name, description, cover_image, is_public, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, nullableString(c.Description), nullableString(c.CoverImage),
			boolToInt(c.IsPublic), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := setTags(ctx, tx, domain.ContentCollection, c.ID, tagIDs); err != nil {
			return err
		}
		c.Tags, err = tagsFor(ctx, tx, domain.ContentCollection, c.ID)
		return err
	})
}

// GetCollection retrieves a collection with its tags and item count.
// Items are loaded separately.
func (s *Store) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	return getCollection(ctx, s.db, id)
}

func getCollection(ctx context.Context, q querier, id string) (*domain.Collection, error) {
	c, err := scanCollection(q.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections c WHERE c.id = ?`, id))
	if err != nil {
		return nil, mapError(err)
	}
	if c.Tags, err = tagsFor(ctx, q, domain.ContentCollection, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollections returns a page of collections.
func (s *Store) ListCollections(ctx context.Context, filter store.CollectionFilter) (store.Page[*domain.Collection], error) {
	filter.Normalize(store.DefaultPageLimit, store.MaxPageLimit)

	var w whereBuilder
	if filter.IsPublic != nil {
		w.add("c.is_public = ?", boolToInt(*filter.IsPublic))
	}
	w.tagged(domain.ContentCollection, "c.id", filter.TagID)
	w.search(filter.Search, "c.name", "c.description")

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM collections c`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.Collection]{}, fmt.Errorf("count collections: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections c`+w.sql()+
			orderBy(collectionSortColumns, filter.SortBy, store.SortByUpdatedAt, filter.SortOrder, store.SortDesc, "c.id")+
			` LIMIT ? OFFSET ?`,
		append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.Collection]{}, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var colls []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return store.Page[*domain.Collection]{}, err
		}
		colls = append(colls, c)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.Collection]{}, err
	}

	tags, err := tagsForMany(ctx, s.db, domain.ContentCollection,
		idsOf(colls, func(c *domain.Collection) string { return c.ID }))
	if err != nil {
		return store.Page[*domain.Collection]{}, err
	}
	for _, c := range colls {
		c.Tags = nonNilTags(tags[c.ID])
	}
	return store.NewPage(colls, total, filter.PageParams), nil
}

// UpdateCollection applies a partial update and returns the collection.
func (s *Store) UpdateCollection(ctx context.Context, id string, patch store.CollectionPatch) (*domain.Collection, error) {
	var out *domain.Collection
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var p patchBuilder
		setIf(&p, "name", patch.Name)
		setIf(&p, "description", patch.Description)
		setIf(&p, "cover_image", patch.CoverImage)
		if patch.IsPublic != nil {
			p.set("is_public", boolToInt(*patch.IsPublic))
		}
		p.set("updated_at", formatTime(time.Now()))

		if err := p.exec(ctx, tx, "collections", id); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := setTags(ctx, tx, domain.ContentCollection, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getCollection(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteCollection deletes a collection. Its own items cascade, and items
// in other collections that point at it are removed.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	return s.deleteContent(ctx, domain.ContentCollection, id)
}
