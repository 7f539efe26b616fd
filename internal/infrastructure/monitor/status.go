package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	GuestStore bool      `json:"guest_store"`
	GuestTasks int       `json:"guest_tasks"`
	LastCheck  time.Time `json:"last_check"`
}
