package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
	id, user_id, title, date, is_routine, is_completed, xp_awarded,
	category_id, completed_at, last_completed_date, created_at, updated_at
`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2::timestamptz IS NULL OR date >= $2)
	  AND ($3::timestamptz IS NULL OR date < $3)
	ORDER BY created_at ASC
	LIMIT $4 OFFSET $5
	`

	var from, to interface{}
	if !filter.From.IsZero() {
		from = filter.From
	}
	if !filter.To.IsZero() {
		to = filter.To
	}

	rows, err := r.pool.Query(ctx, query, filter.UserID, from, to, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, date, is_routine, is_completed, xp_awarded, category_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Date,
		task.IsRoutine,
		task.IsCompleted,
		task.XPAwarded,
		task.CategoryID,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		date = $3,
		is_routine = $4,
		is_completed = $5,
		xp_awarded = $6,
		category_id = $7,
		completed_at = $8,
		last_completed_date = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Date,
		task.IsRoutine,
		task.IsCompleted,
		task.XPAwarded,
		task.CategoryID,
		nullTime(task.CompletedAt),
		nullTime(task.LastCompletedDate),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountCompletedDays(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `
	SELECT COUNT(DISTINCT date_trunc('day', date))
	FROM tasks
	WHERE user_id = $1
	  AND is_completed = TRUE
	  AND date >= $2
	  AND date < $3
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) CompletionsByDay(ctx context.Context, userID string, since time.Time) (map[time.Time]int, error) {
	const query = `
	SELECT date_trunc('day', completed_at) AS day, COUNT(*)
	FROM tasks
	WHERE user_id = $1
	  AND is_completed = TRUE
	  AND completed_at >= $2
	GROUP BY day
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[time.Time]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[domain.DayOf(day)] = count
	}
	return counts, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		completedAt *time.Time
		lastDone    *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Date,
		&task.IsRoutine,
		&task.IsCompleted,
		&task.XPAwarded,
		&task.CategoryID,
		&completedAt,
		&lastDone,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedAt = completedAt
	task.LastCompletedDate = lastDone
	return &task, nil
}
