package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atticapp/attic-server/internal/service"
	"github.com/atticapp/attic-server/internal/store/sqlite"
)

// testEnvelope decodes either envelope shape.
type testEnvelope[T any] struct {
	Version int               `json:"v"`
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	*Server
	api humatest.TestAPI
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, Options{})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := testLogger()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	services := &Services{
		Tag:        service.NewTagService(st, logger),
		Essay:      service.NewEssayService(st, logger),
		Book:       service.NewBookService(st, logger),
		Quote:      service.NewQuoteService(st, logger),
		Note:       service.NewNoteService(st, logger),
		Collection: service.NewCollectionService(st, service.NewContentResolver(st), logger),
		Stats:      service.NewStatsService(st),
		Todo:       service.NewTodoService(service.NewTodoStore(), logger),
	}

	s := NewServer(st, services, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

// idOf extracts data.id from a create response.
func idOf(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()

	require.Equal(t, http.StatusCreated, resp.Code, "body: %s", resp.Body.String())
	env := decode[struct {
		ID string `json:"id"`
	}](t, resp)
	require.NotEmpty(t, env.Data.ID)
	return env.Data.ID
}

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.NotEmpty(t, health.Components["database"].Latency)
}

func TestOpenAPI_Served(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, http.StatusOK, resp.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/v1/collections/{id}/items/order")
}

func TestUnknownRoute_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nothing-here")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRateLimit_Returns429(t *testing.T) {
	ts := setupTestServerWithOptions(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	first := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.api.Get("/api/v1/tags")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	env := decode[any](t, second)
	assert.False(t, env.Success)
	assert.Equal(t, "RATE_LIMITED", env.Code)
}

func TestGetTodos_LimitsAmount(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/todos?amount=2")
	require.Equal(t, http.StatusOK, resp.Code)
	env := decode[TodosResponse](t, resp)
	require.Len(t, env.Data.Todos, 2)
	assert.Equal(t, "First Todo", env.Data.Todos[0].Title)

	resp = ts.api.Get("/api/v1/todos?amount=11")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decode[any](t, resp).Code)
}

func TestCreateTodo(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/todos", map[string]any{"title": "Water plants"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	list := decode[TodosResponse](t, ts.api.Get("/api/v1/todos"))
	titles := make([]string, len(list.Data.Todos))
	for i, td := range list.Data.Todos {
		titles[i] = td.Title
	}
	assert.Contains(t, titles, "Water plants")
}

func TestReadingStats(t *testing.T) {
	ts := setupTestServer(t)

	bookID := idOf(t, ts.api.Post("/api/v1/books", map[string]any{
		"title":  "Dune",
		"author": "Frank Herbert",
		"pages":  412,
	}))
	resp := ts.api.Put("/api/v1/books/"+bookID+"/progress", map[string]any{"progress": 100, "rating": 4})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/stats/reading")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[map[string]any](t, resp)
	assert.Equal(t, float64(1), env.Data["totalBooks"])
	assert.Equal(t, float64(1), env.Data["booksRead"])
	assert.Equal(t, float64(412), env.Data["pagesRead"])
	assert.Equal(t, float64(4), env.Data["averageRating"])
	assert.Equal(t, float64(1), env.Data["booksThisYear"])
}
