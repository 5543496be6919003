package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/matiasleandrokruk/rolodex/internal/infra/eventbus"
)

// TopicToolInvoked is the bus topic carrying one Invocation per tool call.
const TopicToolInvoked = "tool.invoked"

// Invocation is the bus payload published by the tool dispatcher.
type Invocation struct {
	Tool     string
	Outcome  Outcome
	Detail   *InvocationDetail
	Duration time.Duration
}

// Recorder drains tool-invocation events off the bus and persists them.
// Persistence failures are logged, never propagated: the query log must not
// take a tool call down with it.
type Recorder struct {
	svc    *Service
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewRecorder creates a Recorder over svc and bus. A nil logger falls back
// to slog.Default.
func NewRecorder(svc *Service, bus eventbus.EventBus, lg *slog.Logger) *Recorder {
	if lg == nil {
		lg = slog.Default()
	}
	return &Recorder{svc: svc, bus: bus, logger: lg}
}

// Run subscribes to the tool-invocation topic and persists events until ctx
// is cancelled. Intended to run in its own goroutine.
func (r *Recorder) Run(ctx context.Context) {
	events := r.bus.Subscribe(TopicToolInvoked)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			r.record(ctx, evt)
		}
	}
}

func (r *Recorder) record(ctx context.Context, evt eventbus.Event) {
	inv, ok := evt.Payload.(Invocation)
	if !ok {
		r.logger.Warn("dropping unexpected payload on tool-invocation topic",
			"topic", evt.Topic)
		return
	}

	err := r.svc.LogInvocation(ctx, inv.Tool, inv.Outcome, inv.Detail, inv.Duration)
	if err != nil {
		r.logger.Error("persisting query event failed",
			"tool", inv.Tool, "error", err)
	}
}
