package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matiasleandrokruk/rolodex/internal/domain/audit"
	"github.com/matiasleandrokruk/rolodex/internal/domain/people"
	"github.com/matiasleandrokruk/rolodex/internal/infra/eventbus"
)

// stubStore implements people.Store and records whether it was reached.
type stubStore struct {
	people    []people.PersonRecord
	touched   bool
	lastLimit int
}

func (s *stubStore) Search(_ context.Context, preds []people.Predicate, limit int) ([]people.PersonRecord, error) {
	s.touched = true
	s.lastLimit = limit

	var out []people.PersonRecord
	for _, rec := range s.people {
		if len(out) == limit {
			break
		}
		out = append(out, rec)
	}
	_ = preds
	return out, nil
}

func (s *stubStore) PersonByEmail(_ context.Context, email string) (*people.PersonRecord, error) {
	s.touched = true
	for _, rec := range s.people {
		if rec.Email == email {
			r := rec
			return &r, nil
		}
	}
	return nil, people.ErrNotFound
}

func (s *stubStore) ImageByEmail(_ context.Context, _ string) (*people.ImageRecord, error) {
	s.touched = true
	return nil, people.ErrNotFound
}

func newTestDispatcher(store *stubStore, bus eventbus.EventBus) *Dispatcher {
	return NewDispatcher(people.NewService(store, nil), bus, nil)
}

func TestDispatch_UnknownOperation(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	d := newTestDispatcher(store, nil)

	res := d.Dispatch(context.Background(), "bogus", nil)
	if !res.IsError {
		t.Error("Dispatch(bogus).IsError = false; want failure")
	}
	if res.Text != "unknown operation: bogus" {
		t.Errorf("Dispatch(bogus).Text = %q; want unknown-operation message", res.Text)
	}
	if store.touched {
		t.Error("unknown operation reached the store")
	}
}

func TestDispatch_SearchRequiresQuery(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	d := newTestDispatcher(store, nil)

	res := d.Dispatch(context.Background(), OpSearch, json.RawMessage(`{}`))
	if !res.IsError || res.Text != "query is required" {
		t.Errorf("Dispatch(search, {}) = %+v; want query-required failure", res)
	}
	if store.touched {
		t.Error("invalid arguments reached the store")
	}
}

func TestDispatch_SearchSuccess(t *testing.T) {
	t.Parallel()

	store := &stubStore{people: []people.PersonRecord{
		{Email: "alice@techcorp.com", Name: "Alice Johnson", Company: "Tech Corp"},
	}}
	d := newTestDispatcher(store, nil)

	res := d.Dispatch(context.Background(), OpSearch, json.RawMessage(`{"query": "find Alice"}`))
	if res.IsError {
		t.Fatalf("Dispatch(search) failed: %s", res.Text)
	}
	if !strings.Contains(res.Text, "Alice Johnson") {
		t.Errorf("Dispatch(search).Text = %q; want rendered summary", res.Text)
	}
	if store.lastLimit != 10 {
		t.Errorf("limit = %d; want default 10", store.lastLimit)
	}
}

func TestDispatch_DetailsNotFoundIsNotAnError(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&stubStore{}, nil)

	res := d.Dispatch(context.Background(), OpGetDetails, json.RawMessage(`{"email": "nobody@nowhere.com"}`))
	if res.IsError {
		t.Errorf("Dispatch(get_person_details).IsError = true; missing person is a normal answer")
	}
	if res.Text != "No person found with email: nobody@nowhere.com" {
		t.Errorf("Text = %q; want exact not-found sentence", res.Text)
	}
}

func TestDispatch_DetailsRequiresEmail(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&stubStore{}, nil)

	res := d.Dispatch(context.Background(), OpGetDetails, nil)
	if !res.IsError || res.Text != "email is required" {
		t.Errorf("Dispatch(get_person_details, nil) = %+v; want email-required failure", res)
	}
}

func TestDispatch_MalformedArguments(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(&stubStore{}, nil)

	res := d.Dispatch(context.Background(), OpSearch, json.RawMessage(`{not json`))
	if !res.IsError || !strings.Contains(res.Text, "invalid arguments") {
		t.Errorf("Dispatch(search, malformed) = %+v; want invalid-arguments failure", res)
	}
}

func TestDispatch_ListAllLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args string
		want int
	}{
		{`{}`, 10},
		{`{"limit": 25}`, 25},
		{`{"limit": -3}`, 10},
		{`{"limit": 5000}`, 100},
	}
	for _, tt := range tests {
		store := &stubStore{}
		d := newTestDispatcher(store, nil)

		res := d.Dispatch(context.Background(), OpListAll, json.RawMessage(tt.args))
		if res.IsError {
			t.Fatalf("Dispatch(list_all_people, %s) failed: %s", tt.args, res.Text)
		}
		if store.lastLimit != tt.want {
			t.Errorf("Dispatch(list_all_people, %s) limit = %d; want %d", tt.args, store.lastLimit, tt.want)
		}
	}
}

func TestDispatch_PublishesInvocationEvents(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	events := bus.Subscribe(audit.TopicToolInvoked)
	d := newTestDispatcher(&stubStore{}, bus)

	d.Dispatch(context.Background(), OpListAll, nil)
	d.Dispatch(context.Background(), "bogus", nil)

	first := receiveInvocation(t, events)
	if first.Tool != OpListAll || first.Outcome != audit.OutcomeSuccess {
		t.Errorf("first invocation = %+v; want successful list_all_people", first)
	}

	second := receiveInvocation(t, events)
	if second.Tool != "bogus" || second.Outcome != audit.OutcomeFailure {
		t.Errorf("second invocation = %+v; want failed bogus op", second)
	}
}

func receiveInvocation(t *testing.T, events <-chan eventbus.Event) audit.Invocation {
	t.Helper()

	select {
	case evt := <-events:
		inv, ok := evt.Payload.(audit.Invocation)
		if !ok {
			t.Fatalf("payload type = %T; want audit.Invocation", evt.Payload)
		}
		return inv
	case <-time.After(time.Second):
		t.Fatal("no invocation event published")
		return audit.Invocation{}
	}
}
