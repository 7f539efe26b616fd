package domain

import (
	"testing"
)

func TestRewardDueOneOff(t *testing.T) {
	task := Task{Title: "write report"}
	if !task.RewardDue(noon) {
		t.Fatal("fresh one-off task should be reward-eligible")
	}

	task.XPAwarded = true
	if task.RewardDue(noon) {
		t.Fatal("one-off task stays ineligible after an award attempt")
	}
	// One-off eligibility never comes back, not even days later.
	if task.RewardDue(noon.AddDate(0, 0, 3)) {
		t.Fatal("one-off task must not regain eligibility on a later day")
	}
}

func TestRewardDueRoutine(t *testing.T) {
	task := Task{Title: "morning run", IsRoutine: true}
	if !task.RewardDue(noon) {
		t.Fatal("routine task with no completion history should be eligible")
	}

	today := DayOf(noon)
	task.LastCompletedDate = &today
	if task.RewardDue(noon) {
		t.Fatal("routine task already rewarded today should be ineligible")
	}
	if !task.RewardDue(noon.AddDate(0, 0, 1)) {
		t.Fatal("routine task should be eligible again the next day")
	}
}

func TestNeedsDailyReset(t *testing.T) {
	yesterday := DayOf(noon.AddDate(0, 0, -1))
	completed := noon.AddDate(0, 0, -1)

	task := Task{
		IsRoutine:         true,
		IsCompleted:       true,
		XPAwarded:         true,
		CompletedAt:       &completed,
		LastCompletedDate: &yesterday,
	}
	if !task.NeedsDailyReset(noon) {
		t.Fatal("completed routine task from yesterday should need a reset")
	}

	task.ResetForNewDay()
	if task.IsCompleted || task.CompletedAt != nil || task.XPAwarded {
		t.Fatalf("reset left state behind: %+v", task)
	}
	if task.LastCompletedDate == nil {
		t.Fatal("reset must keep LastCompletedDate for eligibility history")
	}

	oneOff := Task{IsCompleted: true, LastCompletedDate: &yesterday}
	if oneOff.NeedsDailyReset(noon) {
		t.Fatal("one-off tasks never reset")
	}
}
