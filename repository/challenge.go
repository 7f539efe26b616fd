package repository

import (
	"context"

	"github.com/disciplinehub/backend/domain"
)

type ChallengeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	// FindByToken resolves an active challenge by its share token.
	FindByToken(ctx context.Context, token string) (*domain.Challenge, error)
	ListCreatedBy(ctx context.Context, userID string) ([]domain.Challenge, error)
	Create(ctx context.Context, challenge *domain.Challenge) error
	Update(ctx context.Context, challenge *domain.Challenge) error
}
