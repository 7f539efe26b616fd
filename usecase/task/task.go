package task

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/pkg/keylock"
	"github.com/disciplinehub/backend/repository"
)

// Ledger is the slice of the progression ledger the tracker drives.
type Ledger interface {
	AwardXP(ctx context.Context, userID string, amount int) (domain.XPResult, error)
}

// UseCase is the task completion tracker. It decides, per toggle, whether a
// reward is due and drives the ledger; toggles on the same task serialize on
// a per-task lock.
type UseCase struct {
	tasks     repository.TaskRepository
	ledger    Ledger
	analytics repository.AnalyticsRepository
	locks     *keylock.KeyLock
	logger    *zap.Logger

	now func() time.Time
}

func New(
	tasks repository.TaskRepository,
	ledger Ledger,
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
		tasks:     tasks,
		ledger:    ledger,
		analytics: analytics,
		locks:     locks,
		logger:    logger,
		now:       time.Now,
	}
}

// TasksForDate lists a user's tasks scheduled on the given UTC day. Completed
// routine tasks whose last rewarded day is in the past are normalized back to
// pending so they reappear for the new day; the normalization clears the
// reward gate and is not a toggle.
func (uc *UseCase) TasksForDate(ctx context.Context, userID string, date time.Time) ([]domain.Task, error) {
	day := domain.DayOf(date)
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		UserID: userID,
		From:   day,
		To:     day.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	for i := range tasks {
		if !tasks[i].NeedsDailyReset(now) {
			continue
		}
		tasks[i].ResetForNewDay()
		if err := uc.tasks.Update(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// AddTask creates a pending task for the user on the given day.
func (uc *UseCase) AddTask(ctx context.Context, userID, title string, date time.Time, isRoutine bool, categoryID *int) (*domain.Task, error) {
	if userID == "" || title == "" {
		return nil, domain.ErrInvalidPayload
	}

	task := &domain.Task{
		UserID:     userID,
		Title:      title,
		Date:       domain.DayOf(date),
		IsRoutine:  isRoutine,
		CategoryID: categoryID,
	}
	return uc.tasks.Create(ctx, task)
}

// ToggleCompletion flips a task's completion state.
//
// Completing attempts a reward only when it is due: routine tasks once per
// UTC day, one-off tasks once ever. XPAwarded is set after any attempt even
// when the ledger refused for the daily cap, so a later un-toggle/re-toggle
// cannot farm the award once the cap resets. Un-completing clears CompletedAt
// but never the reward gates.
func (uc *UseCase) ToggleCompletion(ctx context.Context, taskID, userID string) (domain.ToggleOutcome, error) {
	unlock := uc.locks.Lock("task:" + taskID)
	defer unlock()

	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.ToggleOutcome{}, err
	}
	if task.UserID != userID {
		return domain.ToggleOutcome{}, domain.ErrNotTaskOwner
	}

	now := uc.now()

	if task.IsCompleted {
		task.IsCompleted = false
		task.CompletedAt = nil
		if err := uc.tasks.Update(ctx, task); err != nil {
			return domain.ToggleOutcome{}, err
		}
		uc.track(ctx, userID, task, false)
		return domain.ToggleOutcome{Completed: false}, nil
	}

	task.IsCompleted = true
	task.CompletedAt = &now

	outcome := domain.ToggleOutcome{Completed: true}
	if task.RewardDue(now) {
		result, err := uc.ledger.AwardXP(ctx, userID, domain.TaskCompletionXP)
		if err != nil {
			return domain.ToggleOutcome{}, err
		}

		task.XPAwarded = true
		if task.IsRoutine {
			today := domain.DayOf(now)
			task.LastCompletedDate = &today
		}

		outcome.Rewarded = result.Granted
		outcome.XPAwarded = result.Awarded
		outcome.RemainingDaily = result.RemainingDaily
		outcome.CapReached = !result.Granted
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return domain.ToggleOutcome{}, err
	}
	uc.track(ctx, userID, task, true)
	return outcome, nil
}

// DeleteTask removes a task owned by the caller.
func (uc *UseCase) DeleteTask(ctx context.Context, taskID, userID string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return domain.ErrNotTaskOwner
	}
	return uc.tasks.Delete(ctx, taskID)
}

func (uc *UseCase) track(ctx context.Context, userID string, task *domain.Task, completed bool) {
	if uc.analytics == nil {
		return
	}
	err := uc.analytics.Append(ctx, domain.AnalyticsEvent{
		UserID:    userID,
		EventName: domain.EventTaskToggled,
		Data:      fmt.Sprintf("task=%s completed=%t", task.ID, completed),
		Timestamp: uc.now(),
	})
	if err != nil {
		uc.logger.Warn("failed to record analytics event",
			zap.String("task_id", task.ID), zap.Error(err))
	}
}
