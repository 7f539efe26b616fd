package repository

import (
	"context"
	"time"

	"github.com/disciplinehub/backend/domain"
)

type FocusSessionRepository interface {
	Insert(ctx context.Context, session *domain.FocusSession) error
	GetByID(ctx context.Context, id string) (*domain.FocusSession, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.FocusSession, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]domain.FocusSession, error)
	Delete(ctx context.Context, id string) error
}
