package events

import (
	"errors"
	"testing"
	"time"
)

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := NewEventBus()
	got := make(chan Event, 1)
	bus.Subscribe(EventThought, func(e Event) { got <- e })

	bus.PublishThought("id-1", "TKN", "buy", "trade_candidate", 90)

	select {
	case e := <-got:
		if e.Data["symbol"] != "TKN" || e.Data["score"] != 90 {
			t.Errorf("event data = %v", e.Data)
		}
		if e.Timestamp.IsZero() {
			t.Error("publish should stamp a timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestSubscribeIgnoresOtherTypes(t *testing.T) {
	bus := NewEventBus()
	got := make(chan Event, 1)
	bus.Subscribe(EventTradeExecuted, func(e Event) { got <- e })

	bus.PublishScreenerUpdate(10, 4, 1)

	select {
	case e := <-got:
		t.Errorf("unexpected delivery: %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewEventBus()
	got := make(chan EventType, 3)
	bus.SubscribeAll(func(e Event) { got <- e.Type })

	bus.PublishScreenerUpdate(10, 4, 1)
	bus.PublishTradeExecuted("TKN", "mint1", "paper", "buy", 0.01)
	bus.PublishError("photon", "feed down", errors.New("status 502"))

	seen := map[EventType]bool{}
	for i := 0; i < 3; i++ {
		select {
		case et := <-got:
			seen[et] = true
		case <-time.After(time.Second):
			t.Fatalf("only %d of 3 events delivered", i)
		}
	}
	for _, want := range []EventType{EventScreenerUpdate, EventTradeExecuted, EventError} {
		if !seen[want] {
			t.Errorf("missing %s", want)
		}
	}
}

func TestPublishErrorOmitsNilError(t *testing.T) {
	bus := NewEventBus()
	got := make(chan Event, 1)
	bus.Subscribe(EventError, func(e Event) { got <- e })

	bus.PublishError("bot", "degraded", nil)

	select {
	case e := <-got:
		if _, ok := e.Data["error"]; ok {
			t.Error("nil error should not appear in the payload")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}
