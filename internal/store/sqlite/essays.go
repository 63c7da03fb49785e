package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const essayColumns = `e.id, e.slug, e.title, e.subtitle, e.content, e.excerpt, e.read_time,
	e.cover_image, e.status, e.published_at, e.created_at, e.updated_at`

func scanEssay(sc scanner) (*domain.Essay, error) {
	var (
		e                                 domain.Essay
		subtitle, excerpt, cover          sql.NullString
		readTime                          sql.NullInt64
		status                            string
		publishedAt, createdAt, updatedAt string
	)
	if err := sc.Scan(&e.ID, &e.Slug, &e.Title, &subtitle, &e.Content, &excerpt, &readTime,
		&cover, &status, &publishedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	e.Subtitle = stringPtr(subtitle)
	e.Excerpt = stringPtr(excerpt)
	e.ReadTime = intPtr(readTime)
	e.CoverImage = stringPtr(cover)
	e.Status = domain.PublishStatus(status)

	var err error
	if e.PublishedAt, err = parseTime(publishedAt); err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &e, nil
}

// CreateEssay inserts an essay and its tag set.
func (s *Store) CreateEssay(ctx context.Context, e *domain.Essay, tagIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO essays (id, slug, title, subtitle, content, excerpt, read_time,
				cover_image, status, published_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Slug, e.Title, nullableString(e.Subtitle), e.Content, nullableString(e.Excerpt),
			nullableInt(e.ReadTime), nullableString(e.CoverImage), string(e.Status),
			formatTime(e.PublishedAt), formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := setTags(ctx, tx, domain.ContentEssay, e.ID, tagIDs); err != nil {
			return err
		}
		e.Tags, err = tagsFor(ctx, tx, domain.ContentEssay, e.ID)
		return err
	})
}

// GetEssay retrieves an essay with its tags.
func (s *Store) GetEssay(ctx context.Context, id string) (*domain.Essay, error) {
	return getEssay(ctx, s.db, "e.id = ?", id)
}

// GetEssayBySlug retrieves an essay by slug.
func (s *Store) GetEssayBySlug(ctx context.Context, slug string) (*domain.Essay, error) {
	return getEssay(ctx, s.db, "e.slug = ?", slug)
}

func getEssay(ctx context.Context, q querier, where string, arg any) (*domain.Essay, error) {
	e, err := scanEssay(q.QueryRowContext(ctx, `SELECT `+essayColumns+` FROM essays e WHERE `+where, arg))
	if err != nil {
		return nil, mapError(err)
	}
	if e.Tags, err = tagsFor(ctx, q, domain.ContentEssay, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

// EssaySlugTaken reports whether another essay uses slug.
func (s *Store) EssaySlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM essays WHERE slug = ? AND id != ?)`, slug, excludeID,
	).Scan(&taken)
	return taken, err
}

// ListEssays returns a page of essays, newest publication first.
func (s *Store) ListEssays(ctx context.Context, filter store.EssayFilter) (store.Page[*domain.Essay], error) {
	filter.Normalize(store.DefaultPageLimit, store.MaxPageLimit)

	var w whereBuilder
	if filter.Status != nil {
		w.add("e.status = ?", string(*filter.Status))
	}
	w.tagged(domain.ContentEssay, "e.id", filter.TagID)
	w.search(filter.Search, "e.title", "e.subtitle", "e.excerpt")

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM essays e`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.Essay]{}, fmt.Errorf("count essays: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+essayColumns+` FROM essays e`+w.sql()+
			` ORDER BY e.published_at DESC, e.id ASC LIMIT ? OFFSET ?`,
		append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.Essay]{}, fmt.Errorf("query essays: %w", err)
	}
	defer rows.Close()

	var essays []*domain.Essay
	for rows.Next() {
		e, err := scanEssay(rows)
		if err != nil {
			return store.Page[*domain.Essay]{}, err
		}
		essays = append(essays, e)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.Essay]{}, err
	}

	tags, err := tagsForMany(ctx, s.db, domain.ContentEssay, idsOf(essays, func(e *domain.Essay) string { return e.ID }))
	if err != nil {
		return store.Page[*domain.Essay]{}, err
	}
	for _, e := range essays {
		e.Tags = nonNilTags(tags[e.ID])
	}
	return store.NewPage(essays, total, filter.PageParams), nil
}

// UpdateEssay applies a partial update and returns the essay.
func (s *Store) UpdateEssay(ctx context.Context, id string, patch store.EssayPatch) (*domain.Essay, error) {
	var out *domain.Essay
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var p patchBuilder
		setIf(&p, "slug", patch.Slug)
		setIf(&p, "title", patch.Title)
		setIf(&p, "subtitle", patch.Subtitle)
		setIf(&p, "content", patch.Content)
		setIf(&p, "excerpt", patch.Excerpt)
		setIf(&p, "read_time", patch.ReadTime)
		setIf(&p, "cover_image", patch.CoverImage)
		if patch.Status != nil {
			p.set("status", string(*patch.Status))
		}
		p.set("updated_at", formatTime(time.Now()))

		if err := p.exec(ctx, tx, "essays", id); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := setTags(ctx, tx, domain.ContentEssay, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getEssay(ctx, tx, "e.id = ?", id)
		return err
	})
	return out, err
}

// DeleteEssay deletes an essay and any collection items pointing at it.
func (s *Store) DeleteEssay(ctx context.Context, id string) error {
	return s.deleteContent(ctx, domain.ContentEssay, id)
}

func nonNilTags(tags []*domain.Tag) []*domain.Tag {
	if tags == nil {
		return []*domain.Tag{}
	}
	return tags
}
