package monitor

import "time"

// Status captures the latest dependency health snapshot.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether every dependency answered its last probe.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
