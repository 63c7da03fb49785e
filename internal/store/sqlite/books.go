package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

const bookColumns = `b.id, b.title, b.author, b.isbn, b.cover_image, b.description, b.pages,
	b.published_year, b.language, b.status, b.progress, b.rating, b.started_at, b.finished_at,
	b.notes, b.highlights, b.created_at, b.updated_at`

// List projections skip the highlights payload.
var bookListColumns = strings.Replace(bookColumns, "b.highlights", "'[]'", 1)

var bookSortColumns = map[string]string{
	store.SortByTitle:      "b.title",
	store.SortByAuthor:     "b.author",
	store.SortByRating:     "b.rating",
	store.SortByFinishedAt: "b.finished_at",
	store.SortByCreatedAt:  "b.created_at",
}

func scanBook(sc scanner) (*domain.Book, error) {
	var (
		b                               domain.Book
		isbn, cover, description, notes sql.NullString
		pages, publishedYear, rating    sql.NullInt64
		status, highlights              string
		startedAt, finishedAt           sql.NullString
		createdAt, updatedAt            string
	)
	if err := sc.Scan(&b.ID, &b.Title, &b.Author, &isbn, &cover, &description, &pages,
		&publishedYear, &b.Language, &status, &b.Progress, &rating, &startedAt, &finishedAt,
		&notes, &highlights, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	b.ISBN = stringPtr(isbn)
	b.CoverImage = stringPtr(cover)
	b.Description = stringPtr(description)
	b.Pages = intPtr(pages)
	b.PublishedYear = intPtr(publishedYear)
	b.Status = domain.BookStatus(status)
	b.Rating = intPtr(rating)
	b.Notes = stringPtr(notes)

	var err error
	if b.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if b.FinishedAt, err = parseNullableTime(finishedAt); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if b.Highlights, err = decodeHighlights(highlights); err != nil {
		return nil, err
	}
	return &b, nil
}

// decodeHighlights reads the JSON highlights column. Entries without an
// id or text are skipped.
func decodeHighlights(raw string) ([]domain.Highlight, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("highlights column is not valid JSON")
	}
	arr := gjson.Parse(raw)
	if !arr.IsArray() {
		return nil, errors.New("highlights column is not a JSON array")
	}
	n := arr.Get("#").Int()
	if n == 0 {
		return nil, nil
	}

	out := make([]domain.Highlight, 0, n)
	var parseErr error
	arr.ForEach(func(_, v gjson.Result) bool {
		h := domain.Highlight{
			ID:   v.Get("id").String(),
			Text: v.Get("text").String(),
			Page: int(v.Get("page").Int()),
		}
		if h.ID == "" || h.Text == "" {
			return true
		}
		if note := v.Get("note"); note.Exists() && note.Type != gjson.Null {
			s := note.String()
			h.Note = &s
		}
		if ts := v.Get("createdAt").String(); ts != "" {
			t, err := parseTime(ts)
			if err != nil {
				parseErr = fmt.Errorf("parse highlight %s createdAt: %w", h.ID, err)
				return false
			}
			h.CreatedAt = t
		}
		out = append(out, h)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func encodeHighlights(hs []domain.Highlight) (string, error) {
	if len(hs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(hs)
	if err != nil {
		return "", fmt.Errorf("encode highlights: %w", err)
	}
	return string(data), nil
}

// CreateBook inserts a book and its tag set.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book, tagIDs []string) error {
	if b.Language == "" {
		b.Language = domain.DefaultBookLanguage
	}
	if b.Status == "" {
		b.Status = domain.BookWantToRead
	}
	highlights, err := encodeHighlights(b.Highlights)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO books (id, title, author, isbn, cover_image, description, pages,
				published_year, language, status, progress, rating, started_at, finished_at,
				notes, highlights, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Title, b.Author, nullableString(b.ISBN), nullableString(b.CoverImage),
			nullableString(b.Description), nullableInt(b.Pages), nullableInt(b.PublishedYear),
			b.Language, string(b.Status), b.Progress, nullableInt(b.Rating),
			nullTimeString(b.StartedAt), nullTimeString(b.FinishedAt), nullableString(b.Notes),
			highlights, formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		if err := setTags(ctx, tx, domain.ContentBook, b.ID, tagIDs); err != nil {
			return err
		}
		b.Tags, err = tagsFor(ctx, tx, domain.ContentBook, b.ID)
		return err
	})
}

// GetBook retrieves a book with its tags and quotes.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return getBook(ctx, s.db, "b.id = ?", id)
}

// GetBookByISBN retrieves a book by ISBN.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return getBook(ctx, s.db, "b.isbn = ?", isbn)
}

func getBook(ctx context.Context, q querier, where string, arg any) (*domain.Book, error) {
	b, err := scanBook(q.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books b WHERE `+where, arg))
	if err != nil {
		return nil, mapError(err)
	}
	if b.Tags, err = tagsFor(ctx, q, domain.ContentBook, b.ID); err != nil {
		return nil, err
	}
	if b.Quotes, err = bookQuoteRefs(ctx, q, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func bookQuoteRefs(ctx context.Context, q querier, bookID string) ([]domain.QuoteRef, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, content, page, created_at FROM quotes
		WHERE book_id = ?
		ORDER BY page IS NULL, page ASC, created_at ASC, id ASC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query book quotes: %w", err)
	}
	defer rows.Close()

	var refs []domain.QuoteRef
	for rows.Next() {
		var (
			r         domain.QuoteRef
			page      sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Content, &page, &createdAt); err != nil {
			return nil, err
		}
		r.Page = intPtr(page)
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ListBooks returns a page of books without highlights or quotes.
func (s *Store) ListBooks(ctx context.Context, filter store.BookFilter) (store.Page[*domain.Book], error) {
	filter.Normalize(store.DefaultPageLimit, store.MaxPageLimit)

	var w whereBuilder
	if filter.Status != nil {
		w.add("b.status = ?", string(*filter.Status))
	}
	if filter.Rating != nil {
		w.add("b.rating = ?", *filter.Rating)
	}
	w.tagged(domain.ContentBook, "b.id", filter.TagID)
	w.search(filter.Search, "b.title", "b.author", "b.description")

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM books b`+w.sql(), w.args...)
	if err != nil {
		return store.Page[*domain.Book]{}, fmt.Errorf("count books: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookListColumns+` FROM books b`+w.sql()+
			orderBy(bookSortColumns, filter.SortBy, store.SortByCreatedAt, filter.SortOrder, store.SortDesc, "b.id")+
			` LIMIT ? OFFSET ?`,
		append(w.args, filter.Limit, filter.Offset())...)
	if err != nil {
		return store.Page[*domain.Book]{}, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return store.Page[*domain.Book]{}, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.Book]{}, err
	}

	tags, err := tagsForMany(ctx, s.db, domain.ContentBook, idsOf(books, func(b *domain.Book) string { return b.ID }))
	if err != nil {
		return store.Page[*domain.Book]{}, err
	}
	for _, b := range books {
		b.Tags = nonNilTags(tags[b.ID])
	}
	return store.NewPage(books, total, filter.PageParams), nil
}

// UpdateBook applies a partial update to descriptive fields.
func (s *Store) UpdateBook(ctx context.Context, id string, patch store.BookPatch) (*domain.Book, error) {
	var out *domain.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var p patchBuilder
		setIf(&p, "title", patch.Title)
		setIf(&p, "author", patch.Author)
		setIf(&p, "isbn", patch.ISBN)
		setIf(&p, "cover_image", patch.CoverImage)
		setIf(&p, "description", patch.Description)
		setIf(&p, "pages", patch.Pages)
		setIf(&p, "published_year", patch.PublishedYear)
		setIf(&p, "language", patch.Language)
		if patch.Status != nil {
			p.set("status", string(*patch.Status))
		}
		setIf(&p, "notes", patch.Notes)
		p.set("updated_at", formatTime(time.Now()))

		if err := p.exec(ctx, tx, "books", id); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := setTags(ctx, tx, domain.ContentBook, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getBook(ctx, tx, "b.id = ?", id)
		return err
	})
	return out, err
}

// UpdateReadingProgress loads the book, lets apply mutate its reading
// state, and writes the result back in one transaction.
func (s *Store) UpdateReadingProgress(ctx context.Context, id string, apply func(*domain.Book) error) (*domain.Book, error) {
	var out *domain.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := getBook(ctx, tx, "b.id = ?", id)
		if err != nil {
			return err
		}
		if err := apply(b); err != nil {
			return err
		}
		b.UpdatedAt = time.Now()

		_, err = tx.ExecContext(ctx, `
			UPDATE books SET status = ?, progress = ?, rating = ?, started_at = ?,
				finished_at = ?, notes = ?, updated_at = ?
			WHERE id = ?`,
			string(b.Status), b.Progress, nullableInt(b.Rating), nullTimeString(b.StartedAt),
			nullTimeString(b.FinishedAt), nullableString(b.Notes), formatTime(b.UpdatedAt), id,
		)
		if err != nil {
			return mapError(err)
		}
		out = b
		return nil
	})
	return out, err
}

// AppendHighlight adds h to the end of the book's highlights.
func (s *Store) AppendHighlight(ctx context.Context, bookID string, h domain.Highlight) (*domain.Book, error) {
	var out *domain.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := getBook(ctx, tx, "b.id = ?", bookID)
		if err != nil {
			return err
		}
		b.Highlights = append(b.Highlights, h)
		encoded, err := encodeHighlights(b.Highlights)
		if err != nil {
			return err
		}
		b.UpdatedAt = time.Now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE books SET highlights = ?, updated_at = ? WHERE id = ?`,
			encoded, formatTime(b.UpdatedAt), bookID); err != nil {
			return mapError(err)
		}
		out = b
		return nil
	})
	return out, err
}

// DeleteBook deletes a book. Its quotes keep their rows with book_id cleared.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.deleteContent(ctx, domain.ContentBook, id)
}
