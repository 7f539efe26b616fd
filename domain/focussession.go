package domain

import "time"

// Focus session reward constants.
const (
	FocusCoinMinMinutes   = 20
	FocusBonusMinMinutes  = 50
	FocusCoinBaseMin      = 1
	FocusCoinBaseMax      = 10
	FocusCoinBonusMin     = 5
	FocusCoinBonusMax     = 14
)

// FocusSession is an immutable record of one completed timed focus period.
// Sessions are deletable by their owner but never edited.
type FocusSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
	TaskTag         string    `json:"task_tag,omitempty"`
	IsPomodoro      bool      `json:"is_pomodoro"`
}

// FocusReward is the combined outcome of recording a session.
type FocusReward struct {
	Success      bool `json:"success"`
	XPAwarded    int  `json:"xp_awarded"`
	CoinsAwarded int  `json:"coins_awarded"`
	CapReached   bool `json:"cap_reached"`
}
