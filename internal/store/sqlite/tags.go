package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const tagColumns = `t.id, t.name, t.slug, t.color, t.created_at`

// countColumns computes per-kind usage for the tag aliased t.
const countColumns = `
	(SELECT COUNT(*) FROM essay_tags x WHERE x.tag_id = t.id) AS essays,
	(SELECT COUNT(*) FROM book_tags x WHERE x.tag_id = t.id) AS books,
	(SELECT COUNT(*) FROM quote_tags x WHERE x.tag_id = t.id) AS quotes,
	(SELECT COUNT(*) FROM note_tags x WHERE x.tag_id = t.id) AS notes,
	(SELECT COUNT(*) FROM collection_tags x WHERE x.tag_id = t.id) AS collections`

// countedTags exposes every tag with its counts and total usage.
const countedTags = `
	WITH counted AS (
		SELECT ` + tagColumns + `, ` + countColumns + `
		FROM tags t
	), usage AS (
		SELECT c.*, (c.essays + c.books + c.quotes + c.notes + c.collections) AS total
		FROM counted c
	)`

var tagSortColumns = map[string]string{
	store.SortByName:      "name",
	store.SortByCreatedAt: "created_at",
	store.SortByUsage:     "total",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTag(sc scanner) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)
	if err := sc.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &t, nil
}

func scanTagWithCounts(sc scanner) (*domain.TagWithCounts, error) {
	var (
		t         domain.TagWithCounts
		createdAt string
		total     int
	)
	c := &t.Counts
	if err := sc.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &createdAt,
		&c.Essays, &c.Books, &c.Quotes, &c.Notes, &c.Collections, &total); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &t, nil
}

// CreateTag inserts a new tag.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if tag.Color == "" {
		tag.Color = domain.DefaultTagColor
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.Slug, tag.Color, formatTime(tag.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetTag retrieves a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return getTag(ctx, s.db, "t.id = ?", id)
}

// GetTagBySlug retrieves a tag by slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return getTag(ctx, s.db, "t.slug = ?", slug)
}

func getTag(ctx context.Context, q querier, where string, arg any) (*domain.Tag, error) {
	row := q.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE `+where, arg)
	t, err := scanTag(row)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

// ListTags returns a page of tags with their usage counts.
func (s *Store) ListTags(ctx context.Context, filter store.TagFilter) (store.Page[*domain.TagWithCounts], error) {
	filter.Normalize(store.DefaultTagPageLimit, store.MaxTagPageLimit)

	var w whereBuilder
	w.search(filter.Search, "name")
	if !filter.IncludeUnused {
		w.add("total > 0")
	}

	total, err := count(ctx, s.db, countedTags+` SELECT COUNT(*) FROM usage`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.TagWithCounts]{}, fmt.Errorf("count tags: %w", err)
	}

	query := countedTags + `
		SELECT id, name, slug, color, created_at, essays, books, quotes, notes, collections, total
		FROM usage` + w.sql() +
		orderBy(tagSortColumns, filter.SortBy, store.SortByName, filter.SortOrder, store.SortAsc, "id") +
		` LIMIT ? OFFSET ?`

	tags, err := s.queryTagsWithCounts(ctx, query, append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.TagWithCounts]{}, err
	}
	return store.NewPage(tags, total, filter.PageParams), nil
}

// ListAllTagsWithCounts returns every tag with counts, ordered by name.
func (s *Store) ListAllTagsWithCounts(ctx context.Context) ([]*domain.TagWithCounts, error) {
	return s.queryTagsWithCounts(ctx, countedTags+`
		SELECT id, name, slug, color, created_at, essays, books, quotes, notes, collections, total
		FROM usage ORDER BY name ASC, id ASC`)
}

func (s *Store) queryTagsWithCounts(ctx context.Context, query string, args ...any) ([]*domain.TagWithCounts, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.TagWithCounts
	for rows.Next() {
		t, err := scanTagWithCounts(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagCounts returns how many rows of each kind carry the tag.
func (s *Store) GetTagCounts(ctx context.Context, id string) (domain.TagCounts, error) {
	var c domain.TagCounts
	err := s.db.QueryRowContext(ctx, `SELECT `+countColumns+` FROM tags t WHERE t.id = ?`, id).
		Scan(&c.Essays, &c.Books, &c.Quotes, &c.Notes, &c.Collections)
	if err != nil {
		return domain.TagCounts{}, mapError(err)
	}
	return c, nil
}

// TagNameOrSlugTaken reports whether another tag already uses name or slug.
func (s *Store) TagNameOrSlugTaken(ctx context.Context, name, slug, excludeID string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tags WHERE (name = ? OR slug = ?) AND id != ?)`,
		name, slug, excludeID,
	).Scan(&taken)
	return taken, err
}

// UpdateTag applies a partial update and returns the updated tag.
func (s *Store) UpdateTag(ctx context.Context, id string, patch store.TagPatch) (*domain.Tag, error) {
	var p patchBuilder
	setIf(&p, "name", patch.Name)
	setIf(&p, "slug", patch.Slug)
	setIf(&p, "color", patch.Color)

	if err := p.exec(ctx, s.db, "tags", id); err != nil {
		return nil, err
	}
	return s.GetTag(ctx, id)
}

// DeleteTag deletes a tag. Join rows cascade.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// MergeTags moves every association of source onto target and deletes
// source, in one transaction. Rows whose content already carries target
// are dropped rather than moved; only moved rows are counted.
func (s *Store) MergeTags(ctx context.Context, sourceID, targetID string) (domain.TagCounts, error) {
	if sourceID == targetID {
		return domain.TagCounts{}, store.ErrInvalidInput.WithMessage("cannot merge a tag into itself")
	}

	var merged domain.TagCounts
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, kind := range domain.ContentTypes {
			jt := joinTables[kind]

			_, err := tx.ExecContext(ctx, fmt.Sprintf(`
				DELETE FROM %[1]s
				WHERE tag_id = ? AND %[2]s IN (SELECT %[2]s FROM %[1]s WHERE tag_id = ?)`,
				jt.table, jt.column), sourceID, targetID)
			if err != nil {
				return fmt.Errorf("drop duplicate %s: %w", jt.table, err)
			}

			res, err := tx.ExecContext(ctx,
				fmt.Sprintf(`UPDATE %s SET tag_id = ? WHERE tag_id = ?`, jt.table), targetID, sourceID)
			if err != nil {
				return mapError(err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			merged.Add(kind, int(n))
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, sourceID)
		if err != nil {
			return mapError(err)
		}
		return requireAffected(res)
	})
	if err != nil {
		return domain.TagCounts{}, err
	}
	return merged, nil
}
