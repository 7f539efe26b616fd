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

type focusSessionRepository struct {
	pool *pgxpool.Pool
}

// NewFocusSessionRepository returns a Postgres-backed FocusSessionRepository.
func NewFocusSessionRepository(pool *pgxpool.Pool) repository.FocusSessionRepository {
	return &focusSessionRepository{pool: pool}
}

const focusColumns = `id, user_id, start_time, end_time, duration_minutes, task_tag, is_pomodoro`

func (r *focusSessionRepository) Insert(ctx context.Context, session *domain.FocusSession) error {
	if session == nil {
		return domain.ErrInvalidPayload
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO focus_sessions (id, user_id, start_time, end_time, duration_minutes, task_tag, is_pomodoro)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.StartTime,
		session.EndTime,
		session.DurationMinutes,
		session.TaskTag,
		session.IsPomodoro,
	)
	return err
}

func (r *focusSessionRepository) GetByID(ctx context.Context, id string) (*domain.FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE id = $1`
	return scanFocusSession(r.pool.QueryRow(ctx, query, id))
}

func (r *focusSessionRepository) ListForUser(ctx context.Context, userID string, limit int) ([]domain.FocusSession, error) {
	query := `
	SELECT ` + focusColumns + `
	FROM focus_sessions
	WHERE user_id = $1
	ORDER BY end_time DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFocusSessions(rows)
}

func (r *focusSessionRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.FocusSession, error) {
	query := `
	SELECT ` + focusColumns + `
	FROM focus_sessions
	WHERE user_id = $1 AND end_time >= $2
	ORDER BY end_time DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFocusSessions(rows)
}

func (r *focusSessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM focus_sessions WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFocusSessionNotFound
	}
	return nil
}

func collectFocusSessions(rows pgx.Rows) ([]domain.FocusSession, error) {
	var sessions []domain.FocusSession
	for rows.Next() {
		session, err := scanFocusSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanFocusSession(row interface {
	Scan(dest ...interface{}) error
}) (*domain.FocusSession, error) {
	var session domain.FocusSession
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.StartTime,
		&session.EndTime,
		&session.DurationMinutes,
		&session.TaskTag,
		&session.IsPomodoro,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFocusSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}
