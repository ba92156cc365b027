package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/repository"
)

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	const query = `
	SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
	FROM todos
	WHERE id = $1
	`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

func (r *todoRepository) List(ctx context.Context, filter repository.TodoFilter) ([]domain.Todo, error) {
	const query = `
	SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
	FROM todos
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR priority = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.Status),
		string(filter.Priority),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	if todo == nil {
		return nil, domain.ErrInvalidPayload
	}
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO todos (id, user_id, title, description, status, priority, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		string(todo.Status),
		string(todo.Priority),
		nullTime(todo.DueDate),
	).Scan(&todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, err
	}

	return todo, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	if todo == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE todos
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		string(todo.Status),
		string(todo.Priority),
		nullTime(todo.DueDate),
	).Scan(&todo.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTodoNotFound
		}
		return err
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM todos WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *todoRepository) Stats(ctx context.Context, userID string) (*repository.StatsRow, error) {
	const query = `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status <> 'completed' AND priority = 'low'),
		COUNT(*) FILTER (WHERE status <> 'completed' AND priority = 'medium'),
		COUNT(*) FILTER (WHERE status <> 'completed' AND priority = 'high'),
		COUNT(*) FILTER (WHERE status <> 'completed' AND priority = 'critical')
	FROM todos
	WHERE user_id = $1
	`

	var row repository.StatsRow
	var low, medium, high, critical int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&row.Total,
		&row.Completed,
		&low,
		&medium,
		&high,
		&critical,
	); err != nil {
		return nil, err
	}

	row.OpenByPriority = map[domain.Priority]int{
		domain.PriorityLow:      low,
		domain.PriorityMedium:   medium,
		domain.PriorityHigh:     high,
		domain.PriorityCritical: critical,
	}
	return &row, nil
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var todo domain.Todo
	var due *time.Time

	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.Status,
		&todo.Priority,
		&due,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}

	todo.DueDate = due
	return &todo, nil
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
