package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// joinTable describes the tag join table of one content kind.
type joinTable struct {
	table  string // join table name
	column string // content id column in the join table
	parent string // content table
}

var joinTables = map[domain.ContentType]joinTable{
	domain.ContentEssay:      {table: "essay_tags", column: "essay_id", parent: "essays"},
	domain.ContentBook:       {table: "book_tags", column: "book_id", parent: "books"},
	domain.ContentQuote:      {table: "quote_tags", column: "quote_id", parent: "quotes"},
	domain.ContentNote:       {table: "note_tags", column: "note_id", parent: "notes"},
	domain.ContentCollection: {table: "collection_tags", column: "collection_id", parent: "collections"},
}

func linkFor(kind domain.ContentType) (joinTable, error) {
	jt, ok := joinTables[kind]
	if !ok {
		return joinTable{}, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown content type %q", kind))
	}
	return jt, nil
}

// setTags replaces the tag set of one content row. Duplicate ids are
// collapsed; unknown ids fail the foreign key.
func setTags(ctx context.Context, q querier, kind domain.ContentType, contentID string, tagIDs []string) error {
	jt, err := linkFor(kind)
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", jt.table, jt.column), contentID); err != nil {
		return fmt.Errorf("clear %s: %w", jt.table, err)
	}

	now := formatTime(time.Now())
	seen := make(map[string]struct{}, len(tagIDs))
	insert := fmt.Sprintf("INSERT INTO %s (%s, tag_id, created_at) VALUES (?, ?, ?)", jt.table, jt.column)
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}
		if _, err := q.ExecContext(ctx, insert, contentID, tagID, now); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// tagsFor returns the tags on one content row, ordered by name.
func tagsFor(ctx context.Context, q querier, kind domain.ContentType, contentID string) ([]*domain.Tag, error) {
	byID, err := tagsForMany(ctx, q, kind, []string{contentID})
	if err != nil {
		return nil, err
	}
	tags := byID[contentID]
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// tagsForMany loads tags for a page of content rows in one query.
func tagsForMany(ctx context.Context, q querier, kind domain.ContentType, contentIDs []string) (map[string][]*domain.Tag, error) {
	out := make(map[string][]*domain.Tag, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	jt, err := linkFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT jt.%s, %s
		FROM %s jt
		JOIN tags t ON t.id = jt.tag_id
		WHERE jt.%s IN (%s)
		ORDER BY t.name ASC`,
		jt.column, tagColumns, jt.table, jt.column, placeholders(len(contentIDs)))

	rows, err := q.QueryContext(ctx, query, stringArgs(contentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", jt.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			contentID string
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&contentID, &t.ID, &t.Name, &t.Slug, &t.Color, &createdAt); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out[contentID] = append(out[contentID], &t)
	}
	return out, rows.Err()
}

// deleteItemsReferencing removes collection items pointing at ref.
func deleteItemsReferencing(ctx context.Context, q querier, ref domain.ContentRef) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM collection_items WHERE content_type = ? AND content_id = ?`,
		string(ref.Type), ref.ID)
	return err
}

// deleteContent removes one content row and every collection item that
// points at it.
func (s *Store) deleteContent(ctx context.Context, kind domain.ContentType, id string) error {
	jt, err := linkFor(kind)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", jt.parent), id)
		if err != nil {
			return mapError(err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return deleteItemsReferencing(ctx, tx, domain.ContentRef{Type: kind, ID: id})
	})
}

// TagsFor returns the tags on one content row.
func (s *Store) TagsFor(ctx context.Context, kind domain.ContentType, contentID string) ([]*domain.Tag, error) {
	return tagsFor(ctx, s.db, kind, contentID)
}

// idsOf collects ids for batch tag loading.
func idsOf[T any](items []T, id func(T) string) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = id(it)
	}
	return ids
}
