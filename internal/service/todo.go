package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/atticapp/attic-server/internal/domain"
	domainerrors "github.com/atticapp/attic-server/internal/errors"
	"github.com/atticapp/attic-server/internal/validation"
)

// MaxTodoAmount is the most todos a single read may ask for.
const MaxTodoAmount = 10

var defaultTodos = [][2]string{
	{"First Todo", "This is the first todo"},
	{"Second Todo", "This is the second todo"},
	{"Third Todo", "This is the third todo"},
}

// TodoStore keeps todos in memory. Its contents are lost on restart.
type TodoStore struct {
	mu    sync.Mutex
	todos []*domain.Todo
	seq   int
}

// NewTodoStore creates an empty todo store.
func NewTodoStore() *TodoStore {
	return &TodoStore{}
}

func (s *TodoStore) add(title string, description *string, now time.Time) *domain.Todo {
	s.seq++
	t := &domain.Todo{
		ID:          strconv.Itoa(s.seq),
		Title:       title,
		Description: description,
		CreatedAt:   now,
	}
	s.todos = append(s.todos, t)
	return t
}

// Create appends a todo and returns it.
func (s *TodoStore) Create(title string, description *string) *domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(title, description, time.Now())
}

// List returns up to n todos in insertion order. An empty store is seeded
// with sample todos first.
func (s *TodoStore) List(n int) []*domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.todos) == 0 {
		now := time.Now()
		for _, seed := range defaultTodos {
			desc := seed[1]
			s.add(seed[0], &desc, now)
		}
	}

	n = min(n, len(s.todos))
	out := make([]*domain.Todo, n)
	copy(out, s.todos[:n])
	return out
}

// TodoService is the sample todo API.
type TodoService struct {
	todos     *TodoStore
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTodoService creates a todo service backed by todos.
func NewTodoService(todos *TodoStore, logger *slog.Logger) *TodoService {
	return &TodoService{
		todos:     todos,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateTodoRequest contains fields for creating a todo.
type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateTodo adds a todo.
func (s *TodoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	t := s.todos.Create(req.Title, req.Description)
	s.logger.InfoContext(ctx, "todo created", "id", t.ID)
	return t, nil
}

// GetTodos returns the first amount todos. Zero means the maximum.
func (s *TodoService) GetTodos(_ context.Context, amount int) ([]*domain.Todo, error) {
	if amount > MaxTodoAmount {
		return nil, domainerrors.Forbidden("You can only request up to 10 todos")
	}
	if amount < 0 {
		return nil, domainerrors.Validation("amount must be positive")
	}
	return s.todos.List(orDefault(amount, MaxTodoAmount)), nil
}
