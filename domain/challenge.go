package domain

import "time"

// Challenge type identifiers and the sentinel acceptor for unauthenticated users.
const (
	ChallengeTypeSevenDayFocus = "7-day-focus"
	GuestUserID                = "guest"

	// SevenDayWindowDays is both the window length and the required number of
	// distinct completed days. The rule is deliberately "7 distinct days with
	// at least one completion each inside the window", not 7 consecutive days.
	SevenDayWindowDays = 7
)

// Challenge is a shareable multi-day commitment. Lifecycle: created active,
// accepted at most once, completed at most once, never reopened.
type Challenge struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	ShareToken       string     `json:"share_token"`
	CreatedByUserID  string     `json:"created_by_user_id"`
	CreatedByName    string     `json:"created_by_name"`
	AcceptedByUserID string     `json:"accepted_by_user_id,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsAccepted reports whether someone already took the challenge.
func (c *Challenge) IsAccepted() bool {
	return c != nil && c.AcceptedByUserID != ""
}

// IsCompleted reports whether the completion predicate has already fired.
func (c *Challenge) IsCompleted() bool {
	return c != nil && c.CompletedAt != nil
}

// AcceptedByGuest reports whether the acceptor is the unauthenticated sentinel.
func (c *Challenge) AcceptedByGuest() bool {
	return c != nil && c.AcceptedByUserID == GuestUserID
}

// Window returns the [start, end) completion window anchored at the
// acceptance day. The second value is false until the challenge is accepted.
func (c *Challenge) Window() (start, end time.Time, ok bool) {
	if c == nil || c.AcceptedAt == nil {
		return time.Time{}, time.Time{}, false
	}
	start = DayOf(*c.AcceptedAt)
	return start, start.AddDate(0, 0, SevenDayWindowDays), true
}
