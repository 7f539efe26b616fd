package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
	"github.com/disciplinehub/backend/usecase"
)

// UseCase manages Redis-backed auth sessions. When a guest signs in for the
// first time, their locally stored challenge tasks are claimed so the guest
// sync processor can move them into the shared database.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	guest    usecase.GuestTaskStore
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, guest usecase.GuestTaskStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		guest:    guest,
		logger:   logger,
	}
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if uc.guest != nil {
		claimed, err := uc.guest.Claim(ctx, userID)
		if err != nil {
			uc.logger.Warn("failed to claim guest tasks", zap.Error(err))
		} else if claimed > 0 {
			uc.logger.Info("guest tasks claimed",
				zap.String("user_id", userID), zap.Int("count", claimed))
		}
	}

	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}
