// Package store defines the persistence interface for the Attic server.
package store

import (
	"context"

	"github.com/atticapp/attic-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Create and update methods that accept tag ids write the entity and its
// tag set in one transaction. Deleting content also removes collection
// items that reference it.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, filter TagFilter) (Page[*domain.TagWithCounts], error)
	ListAllTagsWithCounts(ctx context.Context) ([]*domain.TagWithCounts, error)
	GetTagCounts(ctx context.Context, id string) (domain.TagCounts, error)
	TagNameOrSlugTaken(ctx context.Context, name, slug, excludeID string) (bool, error)
	UpdateTag(ctx context.Context, id string, patch TagPatch) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	MergeTags(ctx context.Context, sourceID, targetID string) (domain.TagCounts, error)
	TagsFor(ctx context.Context, kind domain.ContentType, contentID string) ([]*domain.Tag, error)

	// Essays
	CreateEssay(ctx context.Context, essay *domain.Essay, tagIDs []string) error
	GetEssay(ctx context.Context, id string) (*domain.Essay, error)
	GetEssayBySlug(ctx context.Context, slug string) (*domain.Essay, error)
	EssaySlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	ListEssays(ctx context.Context, filter EssayFilter) (Page[*domain.Essay], error)
	UpdateEssay(ctx context.Context, id string, patch EssayPatch) (*domain.Essay, error)
	DeleteEssay(ctx context.Context, id string) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book, tagIDs []string) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) (Page[*domain.Book], error)
	UpdateBook(ctx context.Context, id string, patch BookPatch) (*domain.Book, error)
	UpdateReadingProgress(ctx context.Context, id string, apply func(*domain.Book) error) (*domain.Book, error)
	AppendHighlight(ctx context.Context, bookID string, h domain.Highlight) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
	BookAggregates(ctx context.Context, window TimeWindow) (BookAggregates, error)

	// Quotes
	CreateQuote(ctx context.Context, quote *domain.Quote, tagIDs []string) error
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, filter QuoteFilter) (Page[*domain.Quote], error)
	ListQuotesByBook(ctx context.Context, bookID string) ([]*domain.Quote, error)
	CountQuotes(ctx context.Context, tagID string) (int, error)
	QuoteAtOffset(ctx context.Context, tagID string, offset int) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, id string, patch QuotePatch) (*domain.Quote, error)
	DeleteQuote(ctx context.Context, id string) error

	// Notes
	CreateNote(ctx context.Context, note *domain.Note, tagIDs []string) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	ListNotes(ctx context.Context, filter NoteFilter) (Page[*domain.Note], error)
	UpdateNote(ctx context.Context, id string, patch NotePatch) (*domain.Note, error)
	SetNotesStatus(ctx context.Context, ids []string, status domain.PublishStatus) (int, error)
	DeleteNote(ctx context.Context, id string) error

	// Collections
	CreateCollection(ctx context.Context, coll *domain.Collection, tagIDs []string) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	ListCollections(ctx context.Context, filter CollectionFilter) (Page[*domain.Collection], error)
	UpdateCollection(ctx context.Context, id string, patch CollectionPatch) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, id string) error

	// Collection items
	CreateCollectionItem(ctx context.Context, item *domain.CollectionItem) error
	GetCollectionItem(ctx context.Context, id string) (*domain.CollectionItem, error)
	FindCollectionItem(ctx context.Context, collectionID string, ref domain.ContentRef) (*domain.CollectionItem, error)
	ListCollectionItems(ctx context.Context, collectionID string) ([]*domain.CollectionItem, error)
	MaxCollectionOrder(ctx context.Context, collectionID string) (int, bool, error)
	DeleteCollectionItem(ctx context.Context, id string) error
	ReorderCollectionItems(ctx context.Context, collectionID string, orders []domain.ItemOrder) error
}
