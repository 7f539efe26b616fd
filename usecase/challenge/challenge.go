package challenge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
	"github.com/disciplinehub/backend/usecase"
)

// challengeCategoryID pins materialized challenge tasks to the fixed system category.
const challengeCategoryID = 1

// UseCase manages the challenge lifecycle: create, accept, and the
// completion predicate over the acceptor's task history.
type UseCase struct {
	challenges repository.ChallengeRepository
	tasks      repository.TaskRepository
	guest      usecase.GuestTaskStore
	analytics  repository.AnalyticsRepository
	logger     *zap.Logger

	now      func() time.Time
	newToken func() string
}

func New(
	challenges repository.ChallengeRepository,
	tasks repository.TaskRepository,
	guest usecase.GuestTaskStore,
	analytics repository.AnalyticsRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		challenges: challenges,
		tasks:      tasks,
		guest:      guest,
		analytics:  analytics,
		logger:     logger,
		now:        time.Now,
		newToken:   shareToken,
	}
}

// shareToken returns a short url-safe token for challenge links.
func shareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create persists a new active challenge and returns it with its share token.
func (uc *UseCase) Create(ctx context.Context, userID, userName, challengeType string) (*domain.Challenge, error) {
	if userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if challengeType == "" {
		challengeType = domain.ChallengeTypeSevenDayFocus
	}

	challenge := &domain.Challenge{
		Type:            challengeType,
		ShareToken:      uc.newToken(),
		CreatedByUserID: userID,
		CreatedByName:   userName,
		IsActive:        true,
	}
	if err := uc.challenges.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// ByToken resolves an active challenge from its share token.
func (uc *UseCase) ByToken(ctx context.Context, token string) (*domain.Challenge, error) {
	return uc.challenges.FindByToken(ctx, token)
}

// ListCreatedBy returns challenges created by a user, newest first.
func (uc *UseCase) ListCreatedBy(ctx context.Context, userID string) ([]domain.Challenge, error) {
	return uc.challenges.ListCreatedBy(ctx, userID)
}

// Accept marks an active challenge as accepted and materializes its tasks for
// the acceptor. An unknown or inactive token returns false without error; a
// second acceptance is a conflict. An empty userID records the guest sentinel
// and routes the tasks to the local guest store.
func (uc *UseCase) Accept(ctx context.Context, token, userID string) (bool, error) {
	challenge, err := uc.challenges.FindByToken(ctx, token)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	if challenge.IsAccepted() {
		return false, domain.ErrChallengeAccepted
	}

	acceptor := userID
	if acceptor == "" {
		acceptor = domain.GuestUserID
	}
	now := uc.now()
	challenge.AcceptedByUserID = acceptor
	challenge.AcceptedAt = &now
	if err := uc.challenges.Update(ctx, challenge); err != nil {
		return false, err
	}

	if err := uc.materializeTasks(ctx, challenge, userID); err != nil {
		return false, err
	}

	uc.track(ctx, acceptor, domain.EventChallengeAccepted, challenge.ID)
	return true, nil
}

func (uc *UseCase) materializeTasks(ctx context.Context, challenge *domain.Challenge, userID string) error {
	if challenge.Type != domain.ChallengeTypeSevenDayFocus {
		return nil
	}

	start := domain.DayOf(uc.now())
	category := challengeCategoryID

	for i := 0; i < domain.SevenDayWindowDays; i++ {
		task := &domain.Task{
			UserID:     challenge.AcceptedByUserID,
			Title:      fmt.Sprintf("Day %d of 7: focus challenge from %s", i+1, challenge.CreatedByName),
			Date:       start.AddDate(0, 0, i),
			IsRoutine:  false,
			CategoryID: &category,
		}

		if userID == "" {
			if uc.guest == nil {
				continue
			}
			if err := uc.guest.AddTask(ctx, task); err != nil {
				return err
			}
			continue
		}
		if _, err := uc.tasks.Create(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// CheckCompletion evaluates the completion predicate: at least 7 distinct
// task days with one or more completed tasks inside the 7-day window anchored
// at the acceptance day. The rule is distinct days, not consecutive days,
// despite the challenge type name. Guests cannot be checked reliably.
func (uc *UseCase) CheckCompletion(ctx context.Context, challengeID string) (bool, error) {
	challenge, err := uc.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return false, err
	}
	if challenge.IsCompleted() {
		return true, nil
	}
	if challenge.Type != domain.ChallengeTypeSevenDayFocus {
		return false, nil
	}
	if !challenge.IsAccepted() || challenge.AcceptedByGuest() {
		return false, nil
	}

	start, end, ok := challenge.Window()
	if !ok {
		return false, nil
	}

	days, err := uc.tasks.CountCompletedDays(ctx, challenge.AcceptedByUserID, start, end)
	if err != nil {
		return false, err
	}
	if days < domain.SevenDayWindowDays {
		return false, nil
	}

	now := uc.now()
	challenge.CompletedAt = &now
	if err := uc.challenges.Update(ctx, challenge); err != nil {
		return false, err
	}

	uc.track(ctx, challenge.AcceptedByUserID, domain.EventChallengeComplete, challenge.ID)
	return true, nil
}

func (uc *UseCase) track(ctx context.Context, userID, event, challengeID string) {
	if uc.analytics == nil {
		return
	}
	actor := userID
	if actor == domain.GuestUserID {
		actor = ""
	}
	err := uc.analytics.Append(ctx, domain.AnalyticsEvent{
		UserID:    actor,
		EventName: event,
		Category:  "challenge",
		Data:      challengeID,
		Timestamp: uc.now(),
	})
	if err != nil {
		uc.logger.Warn("failed to record analytics event",
			zap.String("event", event), zap.Error(err))
	}
}
