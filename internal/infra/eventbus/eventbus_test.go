package eventbus

import (
	"testing"
	"time"
)

func TestBus_PublishAndSubscribe(t *testing.T) {
	t.Parallel()

	bus := New()
	ch := bus.Subscribe("tool.invoked")

	bus.Publish("tool.invoked", "search_people")

	select {
	case evt := <-ch:
		if evt.Topic != "tool.invoked" {
			t.Errorf("evt.Topic = %q; want %q", evt.Topic, "tool.invoked")
		}
		if evt.Payload != "search_people" {
			t.Errorf("evt.Payload = %v; want %q", evt.Payload, "search_people")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout: expected event to be received within 100ms")
	}
}

func TestBus_MultipleSubscribersAllReceive(t *testing.T) {
	t.Parallel()

	bus := New()
	ch1 := bus.Subscribe("multi.topic")
	ch2 := bus.Subscribe("multi.topic")

	bus.Publish("multi.topic", 42)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Payload != 42 {
				t.Errorf("subscriber %d: evt.Payload = %v; want 42", i, evt.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestBus_DifferentTopicsNoInterference(t *testing.T) {
	t.Parallel()

	bus := New()
	chA := bus.Subscribe("topic.a")
	chB := bus.Subscribe("topic.b")

	bus.Publish("topic.a", "for-a")

	select {
	case evt := <-chA:
		if evt.Payload != "for-a" {
			t.Errorf("topic.a: unexpected payload %v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("topic.a: timeout waiting for event")
	}

	select {
	case evt := <-chB:
		t.Errorf("topic.b: unexpected event %v", evt)
	case <-time.After(20 * time.Millisecond):
		// expected: nothing published on topic.b
	}
}

func TestBus_FullBufferDropsEvent(t *testing.T) {
	t.Parallel()

	bus := New()
	ch := bus.Subscribe("flood")

	// Never consumed: fill the buffer and one more. Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBufferSize+10; i++ {
			bus.Publish("flood", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on full subscriber buffer")
	}

	if got := len(ch); got != defaultBufferSize {
		t.Errorf("buffered events = %d; want %d", got, defaultBufferSize)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	bus := New()
	// Must not panic or block.
	bus.Publish("nobody.listening", "hello")
}
