package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
	id, email, display_name,
	level, current_xp, total_xp, daily_xp_earned, last_xp_reset_date,
	gold_coins, total_focus_minutes,
	created_at, updated_at
`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.Progression.Level < 1 {
		user.Progression.Level = 1
	}

	const query = `
	INSERT INTO users (
		id, email, display_name,
		level, current_xp, total_xp, daily_xp_earned, last_xp_reset_date,
		gold_coins, total_focus_minutes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		display_name = EXCLUDED.display_name,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.Progression.Level,
		user.Progression.CurrentXP,
		user.Progression.TotalXP,
		user.Progression.DailyXPEarned,
		nullTime(user.Progression.LastXPResetDate),
		user.Progression.GoldCoins,
		user.Progression.TotalFocusMinutes,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) SaveProgression(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET level = $2,
		current_xp = $3,
		total_xp = $4,
		daily_xp_earned = $5,
		last_xp_reset_date = $6,
		gold_coins = $7,
		total_focus_minutes = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Progression.Level,
		user.Progression.CurrentXP,
		user.Progression.TotalXP,
		user.Progression.DailyXPEarned,
		nullTime(user.Progression.LastXPResetDate),
		user.Progression.GoldCoins,
		user.Progression.TotalFocusMinutes,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) Leaderboard(ctx context.Context, sortBy repository.LeaderboardSort, limit int) ([]domain.User, error) {
	order := "total_xp"
	switch sortBy {
	case repository.SortByCoins:
		order = "gold_coins"
	case repository.SortByFocus:
		order = "total_focus_minutes"
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY ` + order + ` DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var user domain.User
	var lastReset *time.Time

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.Progression.Level,
		&user.Progression.CurrentXP,
		&user.Progression.TotalXP,
		&user.Progression.DailyXPEarned,
		&lastReset,
		&user.Progression.GoldCoins,
		&user.Progression.TotalFocusMinutes,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Progression.LastXPResetDate = lastReset
	return &user, nil
}
