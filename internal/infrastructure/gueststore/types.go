package gueststore

import (
	"time"

	"github.com/google/uuid"

	"github.com/disciplinehub/backend/domain"
)

// Record wraps a guest task while it lives outside the shared database.
// ClaimedBy is empty until the guest signs in; once set, the sync processor
// re-homes the task to that user and removes the record.
type Record struct {
	ID        string      `json:"id"`
	Task      domain.Task `json:"task"`
	ClaimedBy string      `json:"claimed_by,omitempty"`
	Retries   int         `json:"retries"`
	StoredAt  time.Time   `json:"stored_at"`
}

func (r *Record) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Task.ID == "" {
		r.Task.ID = r.ID
	}
	if r.StoredAt.IsZero() {
		r.StoredAt = time.Now()
	}
}
