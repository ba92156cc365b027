package repository

import (
	"context"

	"github.com/cybertodo/backend/domain"
)

// TodoFilter narrows List results. UserID is mandatory in practice:
// every query path scopes by owner before any other condition.
type TodoFilter struct {
	UserID   string
	Status   domain.Status
	Priority domain.Priority
	Limit    int
	Offset   int
}

// StatsRow carries raw aggregate counts straight from storage.
type StatsRow struct {
	Total          int
	Completed      int
	OpenByPriority map[domain.Priority]int
}

type TodoRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	List(ctx context.Context, filter TodoFilter) ([]domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (*StatsRow, error)
}
