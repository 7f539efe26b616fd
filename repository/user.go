package repository

import (
	"context"

	"github.com/disciplinehub/backend/domain"
)

// LeaderboardSort selects the ordering column for leaderboard queries.
type LeaderboardSort string

const (
	SortByXP    LeaderboardSort = "xp"
	SortByCoins LeaderboardSort = "coins"
	SortByFocus LeaderboardSort = "focus"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	// SaveProgression persists only the progression columns of an already
	// loaded user in a single statement.
	SaveProgression(ctx context.Context, user *domain.User) error
	Leaderboard(ctx context.Context, sortBy LeaderboardSort, limit int) ([]domain.User, error)
}
