package monitor

import "time"

// Status is the last observed health of the storage dependencies. PendingOps
// counts mutations waiting in the write-behind buffer.
type Status struct {
	TaskStore    bool      `json:"task_store"`
	SessionStore bool      `json:"session_store"`
	Buffer       bool      `json:"buffer"`
	PendingOps   int       `json:"pending_ops"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Healthy reports whether both primary stores are reachable.
func (s Status) Healthy() bool {
	return s.TaskStore && s.SessionStore
}
