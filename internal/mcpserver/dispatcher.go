package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/matiasleandrokruk/rolodex/internal/domain/audit"
	"github.com/matiasleandrokruk/rolodex/internal/domain/people"
	"github.com/matiasleandrokruk/rolodex/internal/infra/eventbus"
)

// Tool names exposed over the protocol. The dispatcher routes on these.
const (
	OpSearch     = "search_people"
	OpGetDetails = "get_person_details"
	OpImage      = "search_by_image"
	OpListAll    = "list_all_people"
)

// defaultListLimit bounds list_all_people when the caller omits a limit.
const defaultListLimit = 10

// maxListLimit caps any caller-supplied limit.
const maxListLimit = 100

// Result is the uniform envelope every operation resolves to: rendered text
// plus a failure flag. "No results" and "person not found" are successful
// outcomes; IsError marks invalid input, unknown operations, and store
// failures.
type Result struct {
	Text    string
	IsError bool
}

// Dispatcher validates arguments, routes operations to the people service,
// and publishes one invocation event per call.
type Dispatcher struct {
	svc    *people.Service
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher. bus may be nil, in which case no
// invocation events are published. A nil logger falls back to slog.Default.
func NewDispatcher(svc *people.Service, bus eventbus.EventBus, lg *slog.Logger) *Dispatcher {
	if lg == nil {
		lg = slog.Default()
	}
	return &Dispatcher{svc: svc, bus: bus, logger: lg}
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type emailArgs struct {
	Email string `json:"email"`
}

type listArgs struct {
	Limit int `json:"limit"`
}

// Dispatch routes a single operation. Argument validation happens before any
// store access; an unknown operation fails without touching the store.
func (d *Dispatcher) Dispatch(ctx context.Context, op string, rawArgs json.RawMessage) Result {
	start := time.Now()
	res, detail := d.dispatch(ctx, op, rawArgs)
	d.publish(op, res, detail, time.Since(start))
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, op string, rawArgs json.RawMessage) (Result, *audit.InvocationDetail) {
	switch op {
	case OpSearch:
		return d.search(ctx, rawArgs)
	case OpGetDetails:
		return d.getDetails(ctx, rawArgs)
	case OpImage:
		return d.imageSearch(ctx, rawArgs)
	case OpListAll:
		return d.listAll(ctx, rawArgs)
	default:
		return failure(fmt.Sprintf("unknown operation: %s", op)), nil
	}
}

func (d *Dispatcher) search(ctx context.Context, rawArgs json.RawMessage) (Result, *audit.InvocationDetail) {
	var args searchArgs
	if err := parseArgs(rawArgs, &args); err != nil {
		return failure(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return failure("query is required"), nil
	}
	limit := clampLimit(args.Limit)
	detail := &audit.InvocationDetail{Query: args.Query, Limit: limit}

	text, err := d.svc.SearchPeople(ctx, args.Query, limit)
	if err != nil {
		d.logger.Error("search_people failed", "query", args.Query, "error", err)
		return failure(fmt.Sprintf("search failed: %v", err)), detail
	}
	return success(text), detail
}

func (d *Dispatcher) getDetails(ctx context.Context, rawArgs json.RawMessage) (Result, *audit.InvocationDetail) {
	var args emailArgs
	if err := parseArgs(rawArgs, &args); err != nil {
		return failure(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Email == "" {
		return failure("email is required"), nil
	}
	detail := &audit.InvocationDetail{Email: args.Email}

	text, err := d.svc.PersonDetails(ctx, args.Email)
	if err != nil {
		d.logger.Error("get_person_details failed", "email", args.Email, "error", err)
		return failure(fmt.Sprintf("lookup failed: %v", err)), detail
	}
	return success(text), detail
}

func (d *Dispatcher) imageSearch(ctx context.Context, rawArgs json.RawMessage) (Result, *audit.InvocationDetail) {
	var args emailArgs
	if err := parseArgs(rawArgs, &args); err != nil {
		return failure(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Email == "" {
		return failure("email is required"), nil
	}
	detail := &audit.InvocationDetail{Email: args.Email}

	text, err := d.svc.ImageLookup(ctx, args.Email)
	if err != nil {
		d.logger.Error("search_by_image failed", "email", args.Email, "error", err)
		return failure(fmt.Sprintf("image lookup failed: %v", err)), detail
	}
	return success(text), detail
}

func (d *Dispatcher) listAll(ctx context.Context, rawArgs json.RawMessage) (Result, *audit.InvocationDetail) {
	var args listArgs
	if err := parseArgs(rawArgs, &args); err != nil {
		return failure(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	limit := clampLimit(args.Limit)
	detail := &audit.InvocationDetail{Limit: limit}

	text, err := d.svc.ListAll(ctx, limit)
	if err != nil {
		d.logger.Error("list_all_people failed", "error", err)
		return failure(fmt.Sprintf("listing failed: %v", err)), detail
	}
	return success(text), detail
}

func (d *Dispatcher) publish(op string, res Result, detail *audit.InvocationDetail, elapsed time.Duration) {
	if d.bus == nil {
		return
	}

	outcome := audit.OutcomeSuccess
	if res.IsError {
		outcome = audit.OutcomeFailure
		if detail != nil {
			detail.Error = res.Text
		}
	}

	d.bus.Publish(audit.TopicToolInvoked, audit.Invocation{
		Tool:     op,
		Outcome:  outcome,
		Detail:   detail,
		Duration: elapsed,
	})
}

func success(text string) Result { return Result{Text: text} }

func failure(msg string) Result { return Result{Text: msg, IsError: true} }

// clampLimit applies the default and ceiling to a caller-supplied limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// parseArgs unmarshals raw JSON tool arguments into dst. Empty arguments are
// valid and leave dst at its zero value.
func parseArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parsing tool arguments: %w", err)
	}
	return nil
}
