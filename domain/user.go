package domain

import "time"

// Progression reward constants. These are fixed business rules, not configuration.
const (
	DailyXPCap        = 500
	TaskCompletionXP  = 50
	LevelUpCoinReward = 50
)

// User represents an authenticated identity together with its progression ledger.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Progression Progression `json:"progression"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Progression is the XP/level/coin state owned by the ledger. All reward
// mutations go through ApplyXP so the daily cap and the leveling loop are
// applied in a single state transition.
type Progression struct {
	Level             int        `json:"level"`
	CurrentXP         int        `json:"current_xp"`
	TotalXP           int        `json:"total_xp"`
	DailyXPEarned     int        `json:"daily_xp_earned"`
	LastXPResetDate   *time.Time `json:"last_xp_reset_date,omitempty"`
	GoldCoins         int        `json:"gold_coins"`
	TotalFocusMinutes float64    `json:"total_focus_minutes"`
}

// XPResult reports the outcome of one ApplyXP transition.
type XPResult struct {
	Granted        bool `json:"granted"`
	Awarded        int  `json:"awarded"`
	RemainingDaily int  `json:"remaining_daily"`
	LevelsGained   int  `json:"levels_gained"`
}

// NextLevelThreshold returns the XP required to advance past the current level.
func (p *Progression) NextLevelThreshold() int {
	return p.Level * 100
}

// ApplyXP runs the daily reset, the cap check and the leveling loop against
// the in-memory progression state. Calendar days are evaluated in UTC.
// The cap check happens before CurrentXP/TotalXP are touched, so DailyXPEarned
// can never exceed DailyXPCap and a refused award mutates nothing beyond the
// reset itself.
func (p *Progression) ApplyXP(amount int, now time.Time) XPResult {
	if p.Level < 1 {
		p.Level = 1
	}

	today := DayOf(now)
	if p.LastXPResetDate == nil || DayOf(*p.LastXPResetDate).Before(today) {
		p.DailyXPEarned = 0
		p.LastXPResetDate = &today
	}

	remaining := DailyXPCap - p.DailyXPEarned
	if remaining <= 0 {
		return XPResult{Granted: false, Awarded: 0, RemainingDaily: 0}
	}

	awarded := amount
	if awarded > remaining {
		awarded = remaining
	}
	if awarded <= 0 {
		return XPResult{Granted: false, Awarded: 0, RemainingDaily: remaining}
	}

	p.CurrentXP += awarded
	p.TotalXP += awarded
	p.DailyXPEarned += awarded

	// Threshold is recomputed from the new level on every pass, so one large
	// award can climb several levels.
	levels := 0
	for p.CurrentXP >= p.NextLevelThreshold() {
		p.CurrentXP -= p.NextLevelThreshold()
		p.Level++
		p.GoldCoins += LevelUpCoinReward
		levels++
	}

	return XPResult{
		Granted:        true,
		Awarded:        awarded,
		RemainingDaily: DailyXPCap - p.DailyXPEarned,
		LevelsGained:   levels,
	}
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
