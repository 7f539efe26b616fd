package usecase

import (
	"context"

	"github.com/disciplinehub/backend/domain"
)

// GuestTaskStore abstracts the local store that holds tasks for
// unauthenticated challenge acceptors. Guest tasks never touch the shared
// database until the guest signs up and claims them.
type GuestTaskStore interface {
	AddTask(ctx context.Context, task *domain.Task) error
	Claim(ctx context.Context, userID string) (int, error)
}
