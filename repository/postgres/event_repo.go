package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
)

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns a Postgres-backed append-only event sink.
func NewAnalyticsRepository(pool *pgxpool.Pool) repository.AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) Append(ctx context.Context, event domain.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO analytics_events (id, user_id, event_name, category, data, timestamp)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		nullString(event.UserID),
		event.EventName,
		nullString(event.Category),
		nullString(event.Data),
		event.Timestamp,
	)
	return err
}
