package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
)

var frozen = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	updates int
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: map[string]*domain.Task{}}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if !filter.From.IsZero() && task.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !task.Date.Before(filter.To) {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == "" {
		task.ID = "t-new"
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return task, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	cp := *task
	f.tasks[task.ID] = &cp
	f.updates++
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) CountCompletedDays(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return 0, nil
}

func (f *fakeTaskRepo) CompletionsByDay(ctx context.Context, userID string, since time.Time) (map[time.Time]int, error) {
	return map[time.Time]int{}, nil
}

type fakeLedger struct {
	calls   int
	amounts []int
	granted bool
}

func (f *fakeLedger) AwardXP(ctx context.Context, userID string, amount int) (domain.XPResult, error) {
	f.calls++
	f.amounts = append(f.amounts, amount)
	if !f.granted {
		return domain.XPResult{Granted: false, RemainingDaily: 0}, nil
	}
	return domain.XPResult{Granted: true, Awarded: amount, RemainingDaily: domain.DailyXPCap - amount}, nil
}

func newTestUseCase(t *testing.T, repo *fakeTaskRepo, ledger *fakeLedger) *UseCase {
	t.Helper()
	uc := New(repo, ledger, nil, nil, nil)
	uc.now = func() time.Time { return frozen }
	return uc
}

func TestToggleOneOffAwardsOnce(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1", UserID: "u1", Title: "write report", Date: domain.DayOf(frozen)})
	ledger := &fakeLedger{granted: true}
	uc := newTestUseCase(t, repo, ledger)
	ctx := context.Background()

	out, err := uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !out.Completed || !out.Rewarded || out.XPAwarded != domain.TaskCompletionXP {
		t.Fatalf("first toggle = %+v, want %d XP", out, domain.TaskCompletionXP)
	}
	if !repo.tasks["t1"].XPAwarded || repo.tasks["t1"].CompletedAt == nil {
		t.Fatalf("task state after complete: %+v", repo.tasks["t1"])
	}

	out, err = uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("un-toggle: %v", err)
	}
	if out.Completed || out.Rewarded {
		t.Fatalf("un-toggle = %+v, want no reward", out)
	}
	// Un-completing clears the timestamp but never the reward gate.
	if repo.tasks["t1"].CompletedAt != nil {
		t.Fatal("CompletedAt should be cleared on un-toggle")
	}
	if !repo.tasks["t1"].XPAwarded {
		t.Fatal("XPAwarded must survive un-toggle")
	}

	out, err = uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("re-toggle: %v", err)
	}
	if !out.Completed || out.Rewarded || out.XPAwarded != 0 {
		t.Fatalf("re-toggle = %+v, want completion without reward", out)
	}
	if ledger.calls != 1 {
		t.Fatalf("ledger calls = %d, want exactly 1", ledger.calls)
	}
}

func TestToggleRoutineOncePerDay(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1", UserID: "u1", Title: "morning run", Date: domain.DayOf(frozen), IsRoutine: true})
	ledger := &fakeLedger{granted: true}
	uc := newTestUseCase(t, repo, ledger)
	ctx := context.Background()

	if _, err := uc.ToggleCompletion(ctx, "t1", "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := repo.tasks["t1"].LastCompletedDate; got == nil || !got.Equal(domain.DayOf(frozen)) {
		t.Fatalf("LastCompletedDate = %v, want %v", got, domain.DayOf(frozen))
	}

	// Same-day farming attempt: un-toggle and complete again.
	if _, err := uc.ToggleCompletion(ctx, "t1", "u1"); err != nil {
		t.Fatalf("un-toggle: %v", err)
	}
	out, err := uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("re-toggle: %v", err)
	}
	if out.Rewarded || ledger.calls != 1 {
		t.Fatalf("same-day re-completion rewarded (calls %d)", ledger.calls)
	}

	// Next day the routine is eligible again.
	uc.now = func() time.Time { return frozen.AddDate(0, 0, 1) }
	if _, err := uc.ToggleCompletion(ctx, "t1", "u1"); err != nil {
		t.Fatalf("un-toggle next day: %v", err)
	}
	out, err = uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("toggle next day: %v", err)
	}
	if !out.Rewarded || ledger.calls != 2 {
		t.Fatalf("next-day completion = %+v (calls %d), want reward", out, ledger.calls)
	}
}

func TestToggleCapRefusalStillBurnsEligibility(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1", UserID: "u1", Title: "write report", Date: domain.DayOf(frozen)})
	ledger := &fakeLedger{granted: false}
	uc := newTestUseCase(t, repo, ledger)
	ctx := context.Background()

	out, err := uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !out.Completed || out.Rewarded || !out.CapReached {
		t.Fatalf("capped toggle = %+v, want completed with CapReached", out)
	}
	// The attempt itself consumes eligibility, so the award cannot be farmed
	// back after the cap resets.
	if !repo.tasks["t1"].XPAwarded {
		t.Fatal("XPAwarded must be set even when the cap refused the award")
	}

	ledger.granted = true
	if _, err := uc.ToggleCompletion(ctx, "t1", "u1"); err != nil {
		t.Fatalf("un-toggle: %v", err)
	}
	out, err = uc.ToggleCompletion(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("re-toggle: %v", err)
	}
	if out.Rewarded || ledger.calls != 1 {
		t.Fatalf("refused award came back: %+v (calls %d)", out, ledger.calls)
	}
}

func TestToggleOwnershipAndLookup(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1", UserID: "u1", Title: "write report"})
	uc := newTestUseCase(t, repo, &fakeLedger{granted: true})
	ctx := context.Background()

	if _, err := uc.ToggleCompletion(ctx, "t1", "intruder"); !errors.Is(err, domain.ErrNotTaskOwner) {
		t.Fatalf("err = %v, want ErrNotTaskOwner", err)
	}
	if _, err := uc.ToggleCompletion(ctx, "missing", "u1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestTasksForDateResetsStaleRoutines(t *testing.T) {
	yesterday := domain.DayOf(frozen.AddDate(0, 0, -1))
	completedAt := frozen.AddDate(0, 0, -1)
	repo := newFakeTaskRepo(&domain.Task{
		ID:                "t1",
		UserID:            "u1",
		Title:             "morning run",
		Date:              domain.DayOf(frozen),
		IsRoutine:         true,
		IsCompleted:       true,
		XPAwarded:         true,
		CompletedAt:       &completedAt,
		LastCompletedDate: &yesterday,
	})
	uc := newTestUseCase(t, repo, &fakeLedger{granted: true})

	tasks, err := uc.TasksForDate(context.Background(), "u1", frozen)
	if err != nil {
		t.Fatalf("TasksForDate: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if tasks[0].IsCompleted || tasks[0].XPAwarded || tasks[0].CompletedAt != nil {
		t.Fatalf("stale routine not reset: %+v", tasks[0])
	}
	if repo.updates != 1 {
		t.Fatalf("updates = %d, want reset persisted once", repo.updates)
	}
	// The reset re-arms the reward: a toggle now goes to the ledger.
	out, err := uc.ToggleCompletion(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("toggle after reset: %v", err)
	}
	if !out.Rewarded {
		t.Fatalf("toggle after reset = %+v, want reward", out)
	}
}

func TestAddTaskValidation(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(t, repo, &fakeLedger{})
	ctx := context.Background()

	if _, err := uc.AddTask(ctx, "u1", "", frozen, false, nil); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}

	task, err := uc.AddTask(ctx, "u1", "write report", frozen, false, nil)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if !task.Date.Equal(domain.DayOf(frozen)) {
		t.Fatalf("date = %v, want truncated to %v", task.Date, domain.DayOf(frozen))
	}
}

func TestDeleteTaskOwnership(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{ID: "t1", UserID: "u1"})
	uc := newTestUseCase(t, repo, &fakeLedger{})
	ctx := context.Background()

	if err := uc.DeleteTask(ctx, "t1", "intruder"); !errors.Is(err, domain.ErrNotTaskOwner) {
		t.Fatalf("err = %v, want ErrNotTaskOwner", err)
	}
	if err := uc.DeleteTask(ctx, "t1", "u1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := repo.tasks["t1"]; ok {
		t.Fatal("task still present after delete")
	}
}
