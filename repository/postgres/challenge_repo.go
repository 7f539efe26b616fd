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

type challengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository returns a Postgres-backed ChallengeRepository.
func NewChallengeRepository(pool *pgxpool.Pool) repository.ChallengeRepository {
	return &challengeRepository{pool: pool}
}

const challengeColumns = `
	id, type, share_token, created_by_user_id, created_by_name,
	accepted_by_user_id, accepted_at, completed_at, is_active, created_at
`

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	return scanChallenge(r.pool.QueryRow(ctx, query, id))
}

func (r *challengeRepository) FindByToken(ctx context.Context, token string) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE share_token = $1 AND is_active = TRUE`
	return scanChallenge(r.pool.QueryRow(ctx, query, token))
}

func (r *challengeRepository) ListCreatedBy(ctx context.Context, userID string) ([]domain.Challenge, error) {
	query := `
	SELECT ` + challengeColumns + `
	FROM challenges
	WHERE created_by_user_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []domain.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *challenge)
	}
	return challenges, rows.Err()
}

func (r *challengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	if challenge == nil {
		return domain.ErrInvalidPayload
	}
	if challenge.ID == "" {
		challenge.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO challenges (id, type, share_token, created_by_user_id, created_by_name, is_active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		challenge.ID,
		challenge.Type,
		challenge.ShareToken,
		challenge.CreatedByUserID,
		challenge.CreatedByName,
		challenge.IsActive,
	).Scan(&challenge.CreatedAt)
}

func (r *challengeRepository) Update(ctx context.Context, challenge *domain.Challenge) error {
	if challenge == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE challenges
	SET accepted_by_user_id = $2,
		accepted_at = $3,
		completed_at = $4,
		is_active = $5
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		challenge.ID,
		nullString(challenge.AcceptedByUserID),
		nullTime(challenge.AcceptedAt),
		nullTime(challenge.CompletedAt),
		challenge.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChallengeNotFound
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanChallenge(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Challenge, error) {
	var challenge domain.Challenge
	var (
		acceptedBy  *string
		acceptedAt  *time.Time
		completedAt *time.Time
	)

	if err := row.Scan(
		&challenge.ID,
		&challenge.Type,
		&challenge.ShareToken,
		&challenge.CreatedByUserID,
		&challenge.CreatedByName,
		&acceptedBy,
		&acceptedAt,
		&completedAt,
		&challenge.IsActive,
		&challenge.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}

	if acceptedBy != nil {
		challenge.AcceptedByUserID = *acceptedBy
	}
	challenge.AcceptedAt = acceptedAt
	challenge.CompletedAt = completedAt
	return &challenge, nil
}
