package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matiasleandrokruk/rolodex/pkg/uuid"
)

// eventTimeLayout is RFC 3339 with fixed-width (zero-padded) nanoseconds.
// created_at is a TEXT column ordered lexicographically, so the fractional
// part must never shrink; RFC3339Nano trims trailing zeros and would sort
// ".1Z" after ".15Z". Timestamps are normalized to UTC for the same reason.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Service provides query-event logging.
// All operations are append-only; no updates or deletes are supported.
type Service struct {
	db *sql.DB
}

// NewService creates a new query-event service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Log creates a new query event (append-only, immutable).
// This is the ONLY way to create events - no updates, no deletes.
func (s *Service) Log(ctx context.Context, event *QueryEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()
	detail := normalizeJSON(event.Detail, []byte("{}"))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_events (id, tool, outcome, detail, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.Tool,
		string(event.Outcome),
		string(detail),
		event.DurationMS,
		event.CreatedAt.Format(eventTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("log query event: %w", err)
	}
	return nil
}

// LogInvocation is a helper for the common case with structured detail.
func (s *Service) LogInvocation(
	ctx context.Context,
	tool string,
	outcome Outcome,
	detail *InvocationDetail,
	duration time.Duration,
) error {
	var detailJSON json.RawMessage
	if detail != nil {
		var err error
		detailJSON, err = json.Marshal(detail)
		if err != nil {
			return err
		}
	}

	return s.Log(ctx, &QueryEvent{
		Tool:       tool,
		Outcome:    outcome,
		Detail:     detailJSON,
		DurationMS: duration.Milliseconds(),
	})
}

// Recent retrieves the newest events, ordered by created_at DESC.
func (s *Service) Recent(ctx context.Context, limit int) ([]*QueryEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool, outcome, detail, duration_ms, created_at
		FROM query_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ByTool retrieves the newest events for a single tool.
func (s *Service) ByTool(ctx context.Context, tool string, limit int) ([]*QueryEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool, outcome, detail, duration_ms, created_at
		FROM query_events
		WHERE tool = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, tool, limit)
	if err != nil {
		return nil, fmt.Errorf("list query events for %q: %w", tool, err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*QueryEvent, error) {
	var events []*QueryEvent
	for rows.Next() {
		var (
			evt       QueryEvent
			outcome   string
			detail    string
			createdAt string
		)
		if err := rows.Scan(&evt.ID, &evt.Tool, &outcome, &detail, &evt.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query event: %w", err)
		}
		evt.Outcome = Outcome(outcome)
		evt.Detail = json.RawMessage(detail)

		ts, err := time.Parse(eventTimeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse query event timestamp %q: %w", createdAt, err)
		}
		evt.CreatedAt = ts

		events = append(events, &evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query events: %w", err)
	}
	return events, nil
}

func normalizeJSON(raw json.RawMessage, fallback []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return raw
}
