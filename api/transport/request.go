package transport

type TaskRequest struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	IsRoutine  bool   `json:"is_routine"`
	CategoryID *int   `json:"category_id,omitempty"`
}

type FocusSessionRequest struct {
	Minutes    float64 `json:"minutes"`
	TaskTag    string  `json:"task_tag"`
	IsPomodoro bool    `json:"is_pomodoro"`
}

type ChallengeCreateRequest struct {
	Type     string `json:"type"`
	UserName string `json:"user_name"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
