package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disciplinehub/backend/domain"
	"github.com/disciplinehub/backend/repository"
)

var frozen = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	users map[string]*domain.User
	saves int
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SaveProgression(ctx context.Context, user *domain.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Progression = user.Progression
	f.saves++
	return nil
}

func (f *fakeUserRepo) Leaderboard(ctx context.Context, sortBy repository.LeaderboardSort, limit int) ([]domain.User, error) {
	return nil, nil
}

type fakeFocusRepo struct {
	sessions []domain.FocusSession
	deleted  []string
}

func (f *fakeFocusRepo) Insert(ctx context.Context, session *domain.FocusSession) error {
	if session.ID == "" {
		session.ID = "fs-1"
	}
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeFocusRepo) GetByID(ctx context.Context, id string) (*domain.FocusSession, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			cp := f.sessions[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrFocusSessionNotFound
}

func (f *fakeFocusRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.FocusSession, error) {
	var out []domain.FocusSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeFocusRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.FocusSession, error) {
	var out []domain.FocusSession
	for _, s := range f.sessions {
		if s.UserID == userID && !s.EndTime.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeFocusRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTaskRepo struct {
	completions map[time.Time]int
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeTaskRepo) CountCompletedDays(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return len(f.completions), nil
}

func (f *fakeTaskRepo) CompletionsByDay(ctx context.Context, userID string, since time.Time) (map[time.Time]int, error) {
	out := make(map[time.Time]int, len(f.completions))
	for day, count := range f.completions {
		out[day] = count
	}
	return out, nil
}

func newTestUseCase(t *testing.T, user *domain.User) (*UseCase, *fakeUserRepo, *fakeFocusRepo) {
	t.Helper()
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	if user != nil {
		users.users[user.ID] = user
	}
	focus := &fakeFocusRepo{}
	uc := New(users, &fakeTaskRepo{}, focus, nil, nil, nil)
	uc.now = func() time.Time { return frozen }
	return uc, users, focus
}

func TestAwardXPRespectsDailyCap(t *testing.T) {
	uc, users, _ := newTestUseCase(t, &domain.User{ID: "u1", Progression: domain.Progression{Level: 10}})
	ctx := context.Background()

	res, err := uc.AwardXP(ctx, "u1", 300)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if !res.Granted || res.Awarded != 300 || res.RemainingDaily != 200 {
		t.Fatalf("first award = %+v, want 300 granted, 200 remaining", res)
	}

	res, err = uc.AwardXP(ctx, "u1", 300)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if !res.Granted || res.Awarded != 200 || res.RemainingDaily != 0 {
		t.Fatalf("clamped award = %+v, want 200 granted, 0 remaining", res)
	}

	res, err = uc.AwardXP(ctx, "u1", 50)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.Granted {
		t.Fatalf("award past cap = %+v, want refused", res)
	}

	if got := users.users["u1"].Progression.DailyXPEarned; got != domain.DailyXPCap {
		t.Fatalf("DailyXPEarned = %d, want %d", got, domain.DailyXPCap)
	}
}

func TestAwardXPUnknownUser(t *testing.T) {
	uc, _, _ := newTestUseCase(t, nil)
	if _, err := uc.AwardXP(context.Background(), "ghost", 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAwardXPNegativeAmount(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &domain.User{ID: "u1", Progression: domain.Progression{Level: 1}})
	if _, err := uc.AwardXP(context.Background(), "u1", -5); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestRecordFocusSessionLongSession(t *testing.T) {
	uc, users, focus := newTestUseCase(t, &domain.User{ID: "u1", Progression: domain.Progression{Level: 10}})

	var rolls [][2]int
	uc.roll = func(min, max int) int {
		rolls = append(rolls, [2]int{min, max})
		return min
	}

	reward, err := uc.RecordFocusSession(context.Background(), "u1", 55, "deep work", true)
	if err != nil {
		t.Fatalf("RecordFocusSession: %v", err)
	}

	if !reward.Success || reward.XPAwarded != 55 {
		t.Fatalf("reward = %+v, want 55 XP", reward)
	}
	// Base roll plus bonus roll, both pinned to their minimums.
	if reward.CoinsAwarded != domain.FocusCoinBaseMin+domain.FocusCoinBonusMin {
		t.Fatalf("coins = %d, want %d", reward.CoinsAwarded, domain.FocusCoinBaseMin+domain.FocusCoinBonusMin)
	}
	if len(rolls) != 2 {
		t.Fatalf("roll calls = %d, want 2", len(rolls))
	}
	if rolls[0] != [2]int{domain.FocusCoinBaseMin, domain.FocusCoinBaseMax} ||
		rolls[1] != [2]int{domain.FocusCoinBonusMin, domain.FocusCoinBonusMax} {
		t.Fatalf("roll ranges = %v", rolls)
	}

	if len(focus.sessions) != 1 {
		t.Fatalf("sessions stored = %d, want 1", len(focus.sessions))
	}
	s := focus.sessions[0]
	if s.DurationMinutes != 55 || !s.EndTime.Equal(frozen) || !s.IsPomodoro {
		t.Fatalf("stored session = %+v", s)
	}

	p := users.users["u1"].Progression
	if p.TotalFocusMinutes != 55 {
		t.Fatalf("TotalFocusMinutes = %v, want 55", p.TotalFocusMinutes)
	}
	if p.DailyXPEarned != 55 {
		t.Fatalf("DailyXPEarned = %v, want 55", p.DailyXPEarned)
	}
	// Session row plus exactly one progression write.
	if users.saves != 1 {
		t.Fatalf("progression saves = %d, want 1", users.saves)
	}
}

func TestRecordFocusSessionShortSession(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &domain.User{ID: "u1", Progression: domain.Progression{Level: 10}})

	rollCalls := 0
	uc.roll = func(min, max int) int {
		rollCalls++
		return max
	}

	reward, err := uc.RecordFocusSession(context.Background(), "u1", 10.5, "", false)
	if err != nil {
		t.Fatalf("RecordFocusSession: %v", err)
	}
	if reward.CoinsAwarded != 0 || rollCalls != 0 {
		t.Fatalf("short session rolled coins: %+v (rolls %d)", reward, rollCalls)
	}
	if reward.XPAwarded != 10 {
		t.Fatalf("XP = %d, want floor(10.5) = 10", reward.XPAwarded)
	}
}

func TestRecordFocusSessionMidSession(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &domain.User{ID: "u1", Progression: domain.Progression{Level: 10}})

	rollCalls := 0
	uc.roll = func(min, max int) int {
		rollCalls++
		return max
	}

	reward, err := uc.RecordFocusSession(context.Background(), "u1", 30, "", false)
	if err != nil {
		t.Fatalf("RecordFocusSession: %v", err)
	}
	if rollCalls != 1 {
		t.Fatalf("roll calls = %d, want base roll only", rollCalls)
	}
	if reward.CoinsAwarded != domain.FocusCoinBaseMax {
		t.Fatalf("coins = %d, want %d", reward.CoinsAwarded, domain.FocusCoinBaseMax)
	}
}

func TestRecordFocusSessionInvalidMinutes(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &domain.User{ID: "u1"})
	if _, err := uc.RecordFocusSession(context.Background(), "u1", 0, "", false); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestDeleteFocusSessionOwnership(t *testing.T) {
	uc, _, focus := newTestUseCase(t, &domain.User{ID: "u1"})
	focus.sessions = []domain.FocusSession{{ID: "fs-1", UserID: "u1"}}

	if err := uc.DeleteFocusSession(context.Background(), "fs-1", "intruder"); !errors.Is(err, domain.ErrNotSessionOwner) {
		t.Fatalf("err = %v, want ErrNotSessionOwner", err)
	}
	if len(focus.deleted) != 0 {
		t.Fatal("session deleted despite ownership failure")
	}

	if err := uc.DeleteFocusSession(context.Background(), "fs-1", "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(focus.deleted) != 1 || focus.deleted[0] != "fs-1" {
		t.Fatalf("deleted = %v, want [fs-1]", focus.deleted)
	}
}

func TestLeaderboardSortValidation(t *testing.T) {
	uc, _, _ := newTestUseCase(t, nil)
	ctx := context.Background()

	if _, err := uc.Leaderboard(ctx, "karma", 10); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
	for _, sort := range []repository.LeaderboardSort{"", repository.SortByXP, repository.SortByCoins, repository.SortByFocus} {
		if _, err := uc.Leaderboard(ctx, sort, 10); err != nil {
			t.Fatalf("Leaderboard(%q): %v", sort, err)
		}
	}
}

func TestActivityDataMergesTasksAndFocus(t *testing.T) {
	day := domain.DayOf(frozen)
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	focus := &fakeFocusRepo{sessions: []domain.FocusSession{
		{ID: "fs-1", UserID: "u1", EndTime: frozen, DurationMinutes: 25},
	}}
	tasks := &fakeTaskRepo{completions: map[time.Time]int{day: 2}}

	uc := New(users, tasks, focus, nil, nil, nil)
	uc.now = func() time.Time { return frozen }

	activity, err := uc.ActivityData(context.Background(), "u1", frozen.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("ActivityData: %v", err)
	}
	if activity[day] != 3 {
		t.Fatalf("activity[%v] = %d, want 2 completions + 1 session = 3", day, activity[day])
	}
}
