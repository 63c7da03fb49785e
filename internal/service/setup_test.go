package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atticapp/attic-server/internal/store/sqlite"
)

type testServices struct {
	store       *sqlite.Store
	tags        *TagService
	essays      *EssayService
	books       *BookService
	quotes      *QuoteService
	notes       *NoteService
	collections *CollectionService
	stats       *StatsService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &testServices{
		store:       st,
		tags:        NewTagService(st, logger),
		essays:      NewEssayService(st, logger),
		books:       NewBookService(st, logger),
		quotes:      NewQuoteService(st, logger),
		notes:       NewNoteService(st, logger),
		collections: NewCollectionService(st, NewContentResolver(st), logger),
		stats:       NewStatsService(st),
	}
}

func ptr[T any](v T) *T { return &v }
