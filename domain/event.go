package domain

import "time"

// Analytics event names recorded by the core flows.
const (
	EventTaskToggled       = "task_toggled"
	EventFocusRecorded     = "focus_session_recorded"
	EventChallengeAccepted = "challenge_accepted"
	EventChallengeComplete = "challenge_completed"
)

// AnalyticsEvent is an append-only usage record. UserID is empty for
// unauthenticated actors.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	EventName string    `json:"event_name"`
	Category  string    `json:"category,omitempty"`
	Data      string    `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
