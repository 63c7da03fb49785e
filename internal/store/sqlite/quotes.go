package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const quoteColumns = `q.id, q.content, q.author, q.source, q.context, q.page, q.book_id,
	q.created_at, q.updated_at, b.title, b.author`

const quoteFrom = ` FROM quotes q LEFT JOIN books b ON b.id = q.book_id`

var quoteSortColumns = map[string]string{
	store.SortByCreatedAt: "q.created_at",
	store.SortByAuthor:    "q.author",
	store.SortBySource:    "q.source",
}

func scanQuote(sc scanner) (*domain.Quote, error) {
	var (
		q                                domain.Quote
		author, source, quoteCtx, bookID sql.NullString
		page                             sql.NullInt64
		createdAt, updatedAt             string
		bookTitle, bookAuthor            sql.NullString
	)
	if err := sc.Scan(&q.ID, &q.Content, &author, &source, &quoteCtx, &page, &bookID,
		&createdAt, &updatedAt, &bookTitle, &bookAuthor); err != nil {
		return nil, err
	}

	q.Author = stringPtr(author)
	q.Source = stringPtr(source)
	q.Context = stringPtr(quoteCtx)
	q.Page = intPtr(page)
	q.BookID = stringPtr(bookID)
	if bookID.Valid && bookTitle.Valid {
		q.Book = &domain.BookRef{ID: bookID.String, Title: bookTitle.String, Author: bookAuthor.String}
	}

	var err error
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if q.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &q, nil
}

// CreateQuote inserts a quote and its tag set.
func (s *Store) CreateQuote(ctx context.Context, q *domain.Quote, tagIDs []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quotes (id, content, author, source, context, page, book_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ID, q.Content, nullableString(q.Author), nullableString(q.Source),
			nullableString(q.Context), nullableInt(q.Page), nullableString(q.BookID),
			formatTime(q.CreatedAt), formatTime(q.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := setTags(ctx, tx, domain.ContentQuote, q.ID, tagIDs); err != nil {
			return err
		}
		saved, err := getQuote(ctx, tx, "q.id = ?", q.ID)
		if err != nil {
			return err
		}
		*q = *saved
		return nil
	})
}

// GetQuote retrieves a quote with its book and tags.
func (s *Store) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return getQuote(ctx, s.db, "q.id = ?", id)
}

func getQuote(ctx context.Context, db querier, where string, args ...any) (*domain.Quote, error) {
	q, err := scanQuote(db.QueryRowContext(ctx, `SELECT `+quoteColumns+quoteFrom+` WHERE `+where, args...))
	if err != nil {
		return nil, mapError(err)
	}
	if q.Tags, err = tagsFor(ctx, db, domain.ContentQuote, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuotes returns a page of quotes.
func (s *Store) ListQuotes(ctx context.Context, filter store.QuoteFilter) (store.Page[*domain.Quote], error) {
	filter.Normalize(store.DefaultPageLimit, store.MaxPageLimit)

	var w whereBuilder
	if filter.BookID != "" {
		w.add("q.book_id = ?", filter.BookID)
	}
	w.search(filter.Author, "q.author")
	w.tagged(domain.ContentQuote, "q.id", filter.TagID)
	w.search(filter.Search, "q.content", "q.author", "q.source", "q.context")

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM quotes q`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.Quote]{}, fmt.Errorf("count quotes: %w", err)
	}

	quotes, err := s.queryQuotes(ctx,
		`SELECT `+quoteColumns+quoteFrom+w.sql()+
			orderBy(quoteSortColumns, filter.SortBy, store.SortByCreatedAt, filter.SortOrder, store.SortDesc, "q.id")+
			` LIMIT ? OFFSET ?`,
		append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.Quote]{}, err
	}
	return store.NewPage(quotes, total, filter.PageParams), nil
}

// ListQuotesByBook returns every quote from a book, by page with unpaged
// quotes last.
func (s *Store) ListQuotesByBook(ctx context.Context, bookID string) ([]*domain.Quote, error) {
	quotes, err := s.queryQuotes(ctx,
		`SELECT `+quoteColumns+quoteFrom+
			` WHERE q.book_id = ? ORDER BY q.page IS NULL, q.page ASC, q.created_at ASC, q.id ASC`,
		bookID)
	if err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []*domain.Quote{}
	}
	return quotes, nil
}

func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]*domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := tagsForMany(ctx, s.db, domain.ContentQuote, idsOf(quotes, func(q *domain.Quote) string { return q.ID }))
	if err != nil {
		return nil, err
	}
	for _, q := range quotes {
		q.Tags = nonNilTags(tags[q.ID])
	}
	return quotes, nil
}

// CountQuotes counts quotes, optionally only those carrying tagID.
func (s *Store) CountQuotes(ctx context.Context, tagID string) (int, error) {
	var w whereBuilder
	w.tagged(domain.ContentQuote, "q.id", tagID)
	return count(ctx, s.db, `SELECT COUNT(*) FROM quotes q`+w.sql(), w.args...)
}

// QuoteAtOffset returns the quote at a position in id order, optionally
// among those carrying tagID.
func (s *Store) QuoteAtOffset(ctx context.Context, tagID string, offset int) (*domain.Quote, error) {
	var w whereBuilder
	w.tagged(domain.ContentQuote, "q.id", tagID)
	return getQuote(ctx, s.db, "q.id = (SELECT q.id FROM quotes q"+w.sql()+" ORDER BY q.id LIMIT 1 OFFSET ?)",
		append(w.args, offset)...)
}

// UpdateQuote applies a partial update and returns the quote.
func (s *Store) UpdateQuote(ctx context.Context, id string, patch store.QuotePatch) (*domain.Quote, error) {
	var out *domain.Quote
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var p patchBuilder
		setIf(&p, "content", patch.Content)
		setIf(&p, "author", patch.Author)
		setIf(&p, "source", patch.Source)
		setIf(&p, "context", patch.Context)
		setIf(&p, "page", patch.Page)
		if patch.BookID != nil {
			p.set("book_id", sql.NullString{String: *patch.BookID, Valid: *patch.BookID != ""})
		}
		p.set("updated_at", formatTime(time.Now()))

		if err := p.exec(ctx, tx, "quotes", id); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := setTags(ctx, tx, domain.ContentQuote, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getQuote(ctx, tx, "q.id = ?", id)
		return err
	})
	return out, err
}

// DeleteQuote deletes a quote and any collection items pointing at it.
func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	return s.deleteContent(ctx, domain.ContentQuote, id)
}
