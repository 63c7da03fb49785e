package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func (s *Server) registerTodoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTodos",
		Method:      http.MethodGet,
		Path:        "/api/v1/todos",
		Summary:     "List todos",
		Description: "Returns up to amount scratch todos; the list is seeded on first use",
		Tags:        []string{"Todos"},
	}, s.handleGetTodos)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTodo",
		Method:        http.MethodPost,
		Path:          "/api/v1/todos",
		Summary:       "Create todo",
		Description:   "Adds an in-memory todo",
		Tags:          []string{"Todos"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTodo)
}

// GetTodosInput bounds the todo list.
type GetTodosInput struct {
	Amount int `query:"amount" default:"10" minimum:"1" doc:"How many todos to return, at most 10"`
}

// TodosResponse lists todos.
type TodosResponse struct {
	Todos []*domain.Todo `json:"todos"`
}

// TodosOutput wraps the todo list for Huma.
type TodosOutput struct {
	Body TodosResponse
}

// CreateTodoInput wraps the create todo request for Huma.
type CreateTodoInput struct {
	Body service.CreateTodoRequest
}

// TodoOutput wraps a todo for Huma.
type TodoOutput struct {
	Body *domain.Todo
}

func (s *Server) handleGetTodos(ctx context.Context, input *GetTodosInput) (*TodosOutput, error) {
	todos, err := s.services.Todo.GetTodos(ctx, input.Amount)
	if err != nil {
		return nil, err
	}
	return &TodosOutput{Body: TodosResponse{Todos: todos}}, nil
}

func (s *Server) handleCreateTodo(ctx context.Context, input *CreateTodoInput) (*TodoOutput, error) {
	t, err := s.services.Todo.CreateTodo(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TodoOutput{Body: t}, nil
}
