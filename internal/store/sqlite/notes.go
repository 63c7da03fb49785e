package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const noteColumns = `n.id, n.title, n.content, n.status, n.created_at, n.updated_at`

var noteSortColumns = map[string]string{
	store.SortByCreatedAt: "n.created_at",
	store.SortByUpdatedAt: "n.updated_at",
	store.SortByTitle:     "n.title",
}

func scanNote(sc scanner) (*domain.Note, error) {
	var (
		n                    domain.Note
		title                sql.NullString
		status               string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&n.ID, &title, &n.Content, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.Title = stringPtr(title)
	n.Status = domain.PublishStatus(status)

	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &n, nil
}

// CreateNote inserts a note and its tag set.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note, tagIDs []string) error {
	if n.Status == "" {
		n.Status = domain.StatusDraft
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, title, content, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, nullableString(n.Title), n.Content, string(n.Status),
			formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := setTags(ctx, tx, domain.ContentNote, n.ID, tagIDs); err != nil {
			return err
		}
		n.Tags, err = tagsFor(ctx, tx, domain.ContentNote, n.ID)
		return err
	})
}

// GetNote retrieves a note with its tags.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	return getNote(ctx, s.db, id)
}

func getNote(ctx context.Context, q querier, id string) (*domain.Note, error) {
	n, err := scanNote(q.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id = ?`, id))
	if err != nil {
		return nil, mapError(err)
	}
	if n.Tags, err = tagsFor(ctx, q, domain.ContentNote, n.ID); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns a page of notes.
func (s *Store) ListNotes(ctx context.Context, filter store.NoteFilter) (store.Page[*domain.Note], error) {
	filter.Normalize(store.DefaultPageLimit, store.MaxPageLimit)

	var w whereBuilder
	if filter.Status != nil {
		w.add("n.status = ?", string(*filter.Status))
	}
	w.tagged(domain.ContentNote, "n.id", filter.TagID)
	w.search(filter.Search, "n.title", "n.content")

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM notes n`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.Note]{}, fmt.Errorf("count notes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes n`+w.sql()+
			orderBy(noteSortColumns, filter.SortBy, store.SortByUpdatedAt, filter.SortOrder, store.SortDesc, "n.id")+
			` LIMIT ? OFFSET ?`,
		append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.Note]{}, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return store.Page[*domain.Note]{}, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.Note]{}, err
	}

	tags, err := tagsForMany(ctx, s.db, domain.ContentNote, idsOf(notes, func(n *domain.Note) string { return n.ID }))
	if err != nil {
		return store.Page[*domain.Note]{}, err
	}
	for _, n := range notes {
		n.Tags = nonNilTags(tags[n.ID])
	}
	return store.NewPage(notes, total, filter.PageParams), nil
}

// UpdateNote applies a partial update and returns the note.
func (s *Store) UpdateNote(ctx context.Context, id string, patch store.NotePatch) (*domain.Note, error) {
	var out *domain.Note
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var p patchBuilder
		setIf(&p, "title", patch.Title)
		setIf(&p, "content", patch.Content)
		if patch.Status != nil {
			p.set("status", string(*patch.Status))
		}
		p.set("updated_at", formatTime(time.Now()))

		if err := p.exec(ctx, tx, "notes", id); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := setTags(ctx, tx, domain.ContentNote, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getNote(ctx, tx, id)
		return err
	})
	return out, err
}

// SetNotesStatus sets status on every listed note and returns how many
// rows matched. Unknown ids are ignored.
func (s *Store) SetNotesStatus(ctx context.Context, ids []string, status domain.PublishStatus) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := append([]any{string(status), formatTime(time.Now())}, stringArgs(ids)...)
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET status = ?, updated_at = ? WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteNote deletes a note and any collection items pointing at it.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.deleteContent(ctx, domain.ContentNote, id)
}
