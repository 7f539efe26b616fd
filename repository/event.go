package repository

import (
	"context"

	"github.com/disciplinehub/backend/domain"
)

// AnalyticsRepository is an append-only sink for usage events.
type AnalyticsRepository interface {
	Append(ctx context.Context, event domain.AnalyticsEvent) error
}
