package progression

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/pkg/keylock"
	"github.com/disciplinehub/backend/repository"
)

// UseCase is the progression ledger: the only legal mutation path for XP,
// levels, coins and focus minutes. Every mutating method serializes on a
// per-user lock so the daily cap and the leveling loop are applied atomically
// even under concurrent requests.
type UseCase struct {
	users     repository.UserRepository
	tasks     repository.TaskRepository
	sessions  repository.FocusSessionRepository
	analytics repository.AnalyticsRepository
	locks     *keylock.KeyLock
	logger    *zap.Logger

	// Injected for deterministic tests.
	now  func() time.Time
	roll func(min, max int) int
}

func New(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	sessions repository.FocusSessionRepository,
	analytics repository.AnalyticsRepository,
	locks *keylock.KeyLock,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &UseCase{
		users:     users,
		tasks:     tasks,
		sessions:  sessions,
		analytics: analytics,
		locks:     locks,
		logger:    logger,
		now:       time.Now,
		roll:      rollUniform,
	}
}

func rollUniform(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}

// AwardXP applies one XP award under the daily cap and leveling rules.
// A refused award (cap exhausted) is a normal outcome, not an error.
func (uc *UseCase) AwardXP(ctx context.Context, userID string, amount int) (domain.XPResult, error) {
	if amount < 0 {
		return domain.XPResult{}, domain.ErrInvalidPayload
	}

	unlock := uc.locks.Lock("user:" + userID)
	defer unlock()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.XPResult{}, err
	}

	result := user.Progression.ApplyXP(amount, uc.now())
	if err := uc.users.SaveProgression(ctx, user); err != nil {
		return domain.XPResult{}, err
	}

	if result.LevelsGained > 0 {
		uc.logger.Info("user leveled up",
			zap.String("user_id", userID),
			zap.Int("level", user.Progression.Level),
			zap.Int("levels_gained", result.LevelsGained))
	}
	return result, nil
}

// AwardCoins adds a uniformly random coin amount in [min, max] inclusive.
// Coins are never capped and never interact with XP.
func (uc *UseCase) AwardCoins(ctx context.Context, userID string, min, max int) (int, error) {
	if min < 0 || max < min {
		return 0, domain.ErrInvalidPayload
	}

	unlock := uc.locks.Lock("user:" + userID)
	defer unlock()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	coins := uc.roll(min, max)
	user.Progression.GoldCoins += coins
	if err := uc.users.SaveProgression(ctx, user); err != nil {
		return 0, err
	}
	return coins, nil
}

// RecordFocusSession persists an immutable session spanning [now-minutes, now]
// and applies the focus rewards: coins for sessions of 20 minutes or more
// (with a bonus roll at 50), and floor(minutes) XP through the same daily-cap
// and leveling transition as AwardXP. Coin, minute and XP updates land in a
// single progression write.
func (uc *UseCase) RecordFocusSession(ctx context.Context, userID string, minutes float64, taskTag string, isPomodoro bool) (domain.FocusReward, error) {
	if minutes <= 0 {
		return domain.FocusReward{}, domain.ErrInvalidPayload
	}

	unlock := uc.locks.Lock("user:" + userID)
	defer unlock()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return domain.FocusReward{}, err
	}

	now := uc.now()
	session := &domain.FocusSession{
		UserID:          userID,
		StartTime:       now.Add(-time.Duration(minutes * float64(time.Minute))),
		EndTime:         now,
		DurationMinutes: minutes,
		TaskTag:         taskTag,
		IsPomodoro:      isPomodoro,
	}
	if err := uc.sessions.Insert(ctx, session); err != nil {
		return domain.FocusReward{}, err
	}

	user.Progression.TotalFocusMinutes += minutes

	coins := 0
	if minutes >= domain.FocusCoinMinMinutes {
		coins = uc.roll(domain.FocusCoinBaseMin, domain.FocusCoinBaseMax)
		if minutes >= domain.FocusBonusMinMinutes {
			coins += uc.roll(domain.FocusCoinBonusMin, domain.FocusCoinBonusMax)
		}
		user.Progression.GoldCoins += coins
	}

	xpResult := user.Progression.ApplyXP(int(math.Floor(minutes)), now)

	if err := uc.users.SaveProgression(ctx, user); err != nil {
		return domain.FocusReward{}, err
	}

	uc.track(ctx, userID, domain.EventFocusRecorded, taskTag)

	return domain.FocusReward{
		Success:      true,
		XPAwarded:    xpResult.Awarded,
		CoinsAwarded: coins,
		CapReached:   !xpResult.Granted,
	}, nil
}

// UserStats returns the full progression snapshot for a user.
func (uc *UseCase) UserStats(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Leaderboard returns the top users ordered by XP, coins or focus minutes.
func (uc *UseCase) Leaderboard(ctx context.Context, sortBy repository.LeaderboardSort, count int) ([]domain.User, error) {
	switch sortBy {
	case repository.SortByXP, repository.SortByCoins, repository.SortByFocus:
	case "":
		sortBy = repository.SortByXP
	default:
		return nil, domain.ErrInvalidPayload
	}
	return uc.users.Leaderboard(ctx, sortBy, count)
}

// ActivityData merges completed-task counts and focus-session counts per UTC
// day since the given date. It feeds the activity heatmap.
func (uc *UseCase) ActivityData(ctx context.Context, userID string, since time.Time) (map[time.Time]int, error) {
	activity, err := uc.tasks.CompletionsByDay(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	sessions, err := uc.sessions.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		activity[domain.DayOf(s.EndTime)]++
	}
	return activity, nil
}

// WeeklyFocusMinutes sums focus time recorded in the 7 days ending now.
func (uc *UseCase) WeeklyFocusMinutes(ctx context.Context, userID string) (float64, error) {
	since := uc.now().AddDate(0, 0, -7)
	sessions, err := uc.sessions.ListSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, s := range sessions {
		total += s.DurationMinutes
	}
	return total, nil
}

// DailyFocusActivity returns focus minutes per UTC day over the trailing window.
func (uc *UseCase) DailyFocusActivity(ctx context.Context, userID string, days int) (map[time.Time]float64, error) {
	if days <= 0 {
		days = 7
	}
	since := domain.DayOf(uc.now()).AddDate(0, 0, -(days - 1))

	sessions, err := uc.sessions.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	daily := make(map[time.Time]float64)
	for _, s := range sessions {
		daily[domain.DayOf(s.EndTime)] += s.DurationMinutes
	}
	return daily, nil
}

// ListFocusSessions returns the newest sessions for a user.
func (uc *UseCase) ListFocusSessions(ctx context.Context, userID string, limit int) ([]domain.FocusSession, error) {
	return uc.sessions.ListForUser(ctx, userID, limit)
}

// DeleteFocusSession removes a session owned by the caller. Sessions are
// immutable otherwise.
func (uc *UseCase) DeleteFocusSession(ctx context.Context, sessionID, userID string) error {
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrNotSessionOwner
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) track(ctx context.Context, userID, event, data string) {
	if uc.analytics == nil {
		return
	}
	err := uc.analytics.Append(ctx, domain.AnalyticsEvent{
		UserID:    userID,
		EventName: event,
		Data:      data,
		Timestamp: uc.now(),
	})
	if err != nil {
		uc.logger.Warn("failed to record analytics event",
			zap.String("event", event), zap.Error(err))
	}
}
