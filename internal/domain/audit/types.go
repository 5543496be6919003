// Package audit persists a query-event log: one append-only row per tool
// invocation, recording which tool ran and how it went.
package audit

import (
	"encoding/json"
	"time"
)

// Outcome represents the result of a recorded tool invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeError   Outcome = "error"
)

// QueryEvent is a single query-log entry.
// Append-only - once created, it is never modified.
type QueryEvent struct {
	ID         string          `json:"id"`
	Tool       string          `json:"tool"`
	Outcome    Outcome         `json:"outcome"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	CreatedAt  time.Time       `json:"created_at"`
}

// InvocationDetail is the structured detail payload attached to an event.
type InvocationDetail struct {
	Query string `json:"query,omitempty"`
	Email string `json:"email,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Error string `json:"error,omitempty"`
}
