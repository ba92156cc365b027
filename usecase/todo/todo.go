// Package todo implements the task service: validation, the ownership
// gate, and status transitions. Every mutation on a todo passes through
// this package before it reaches storage.
package todo

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/repository"
)

// CreateInput carries the fields a caller may set on a new todo.
// DueDate is the raw ISO-8601 string from the request; parsing happens
// here so both the REST and MCP surfaces share the same rules.
type CreateInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// UpdateInput is a partial patch. Nil fields are untouched; an empty
// DueDate string clears the due date.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
}

// ListFilter narrows List results by equality on status and priority.
type ListFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

type UseCase struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		logger: logger,
	}
}

// List returns the todos owned by uid, newest first. An empty result is
// not an error.
func (uc *UseCase) List(ctx context.Context, uid string, filter ListFilter) ([]domain.Todo, error) {
	status := domain.Status(filter.Status)
	if filter.Status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	priority := domain.Priority(filter.Priority)
	if filter.Priority != "" && !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	return uc.todos.List(ctx, repository.TodoFilter{
		UserID:   uid,
		Status:   status,
		Priority: priority,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// Create validates the input and stores a new pending todo owned by uid.
func (uc *UseCase) Create(ctx context.Context, uid string, in CreateInput) (*domain.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	priority := domain.PriorityMedium
	if in.Priority != "" {
		priority = domain.Priority(in.Priority)
		if !priority.Valid() {
			return nil, domain.ErrInvalidPriority
		}
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	created, err := uc.todos.Create(ctx, &domain.Todo{
		UserID:      uid,
		Title:       title,
		Description: in.Description,
		Status:      domain.StatusPending,
		Priority:    priority,
		DueDate:     due,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("todo created", zap.String("todo_id", created.ID), zap.String("user_id", uid))
	return created, nil
}

// Get returns the todo only if uid owns it.
func (uc *UseCase) Get(ctx context.Context, uid, id string) (*domain.Todo, error) {
	return uc.ownedTodo(ctx, uid, id)
}

// Update applies a partial patch, re-validating any changed enum or
// date field before anything is written.
func (uc *UseCase) Update(ctx context.Context, uid, id string, in UpdateInput) (*domain.Todo, error) {
	todo, err := uc.ownedTodo(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		todo.Title = title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Status != nil {
		status := domain.Status(*in.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		todo.Status = status
	}
	if in.Priority != nil {
		priority := domain.Priority(*in.Priority)
		if !priority.Valid() {
			return nil, domain.ErrInvalidPriority
		}
		todo.Priority = priority
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		todo.DueDate = due
	}

	if err := uc.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Toggle flips completion: completed todos reopen as pending, pending
// and in_progress todos both complete.
func (uc *UseCase) Toggle(ctx context.Context, uid, id string) (*domain.Todo, error) {
	todo, err := uc.ownedTodo(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	todo.Status = todo.Toggled()
	if err := uc.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes the todo. A second delete reports not found.
func (uc *UseCase) Delete(ctx context.Context, uid, id string) error {
	if _, err := uc.ownedTodo(ctx, uid, id); err != nil {
		return err
	}
	return uc.todos.Delete(ctx, id)
}

// Stats aggregates counts for uid's todos.
func (uc *UseCase) Stats(ctx context.Context, uid string) (*domain.Stats, error) {
	row, err := uc.todos.Stats(ctx, uid)
	if err != nil {
		return nil, err
	}

	breakdown := row.OpenByPriority
	if breakdown == nil {
		breakdown = map[domain.Priority]int{}
	}

	return &domain.Stats{
		Total:             row.Total,
		Pending:           row.Total - row.Completed,
		Completed:         row.Completed,
		CompletionRate:    domain.CompletionRate(row.Completed, row.Total),
		PriorityBreakdown: breakdown,
	}, nil
}

// ownedTodo is the single ownership gate. A todo owned by another user
// is reported exactly like a nonexistent one.
func (uc *UseCase) ownedTodo(ctx context.Context, uid, id string) (*domain.Todo, error) {
	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != uid {
		return nil, domain.ErrTodoNotFound
	}
	return todo, nil
}

// parseDueDate accepts RFC 3339 and the naive ISO forms the original
// web clients send. An empty string clears the due date.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, domain.ErrInvalidDueDate
}
