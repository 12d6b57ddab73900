// Package audit records who changed what through the console API. Entries
// are batched in memory and written to a Sink by a small worker pool.
package audit

import "time"

// Entry is one audited request.
type Entry struct {
	Timestamp  time.Time     `json:"timestamp"`
	Action     string        `json:"action"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	UserID     string        `json:"user_id,omitempty"`
	Role       string        `json:"role,omitempty"`
	Target     string        `json:"target,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	RemoteAddr string        `json:"remote_addr,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Succeeded reports whether the audited request finished with a 2xx or 3xx status.
func (e Entry) Succeeded() bool {
	return e.StatusCode >= 200 && e.StatusCode < 400
}
