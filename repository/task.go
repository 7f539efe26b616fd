package repository

import (
	"context"
	"time"

	"github.com/disciplinehub/backend/domain"
)

// TaskFilter narrows list queries to a user and an optional [From, To) window.
type TaskFilter struct {
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	// CountCompletedDays returns the number of distinct task dates inside
	// [from, to) on which the user has at least one completed task.
	CountCompletedDays(ctx context.Context, userID string, from, to time.Time) (int, error)
	// CompletionsByDay returns completed-task counts grouped by task date,
	// starting at since.
	CompletionsByDay(ctx context.Context, userID string, since time.Time) (map[time.Time]int, error)
}
