package domain

import "time"

// Task represents a user-owned activity item scheduled for a calendar day.
// Routine tasks recur daily; one-off tasks are reward-eligible once, ever.
type Task struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Date              time.Time  `json:"date"`
	IsRoutine         bool       `json:"is_routine"`
	IsCompleted       bool       `json:"is_completed"`
	XPAwarded         bool       `json:"xp_awarded"`
	CategoryID        *int       `json:"category_id,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// RewardDue reports whether completing the task right now should attempt an
// XP award. Routine tasks are eligible once per UTC calendar day; one-off
// tasks once, ever.
func (t *Task) RewardDue(now time.Time) bool {
	if t == nil {
		return false
	}
	if t.IsRoutine {
		return t.LastCompletedDate == nil || DayOf(*t.LastCompletedDate).Before(DayOf(now))
	}
	return !t.XPAwarded
}

// NeedsDailyReset reports whether a completed routine task belongs to a
// previous day and should reappear as pending.
func (t *Task) NeedsDailyReset(now time.Time) bool {
	if t == nil || !t.IsRoutine || !t.IsCompleted {
		return false
	}
	return t.LastCompletedDate != nil && DayOf(*t.LastCompletedDate).Before(DayOf(now))
}

// ResetForNewDay clears the completion state so the routine instance is
// pending again. This is a view-time normalization, not a toggle: it also
// clears XPAwarded because a fresh day means a fresh reward window.
func (t *Task) ResetForNewDay() {
	t.IsCompleted = false
	t.CompletedAt = nil
	t.XPAwarded = false
}

// ToggleOutcome is the caller-facing result of a completion toggle.
// CapReached flags the case where a reward was due but the daily cap refused
// it; that is a normal outcome, not an error.
type ToggleOutcome struct {
	Completed      bool `json:"completed"`
	Rewarded       bool `json:"rewarded"`
	XPAwarded      int  `json:"xp_awarded"`
	RemainingDaily int  `json:"remaining_daily"`
	CapReached     bool `json:"cap_reached"`
}
