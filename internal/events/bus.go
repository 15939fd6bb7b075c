package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventThought         EventType = "THOUGHT"
	EventScreenerUpdate  EventType = "SCREENER_UPDATE"
	EventCronTick        EventType = "CRON_TICK"
	EventTradeExecuted   EventType = "TRADE_EXECUTED"
	EventPositionOpened  EventType = "POSITION_OPENED"
	EventPositionClosed  EventType = "POSITION_CLOSED"
	EventSettingsUpdated EventType = "SETTINGS_UPDATED"
	EventBotStarted      EventType = "BOT_STARTED"
	EventBotStopped      EventType = "BOT_STOPPED"
	EventError           EventType = "ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Delivery is asynchronous so
// a slow subscriber cannot stall the publisher.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event)
		}
	}

	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishThought publishes a completed decision cycle for a coin
func (eb *EventBus) PublishThought(thoughtID, symbol, intent, tier string, score int) {
	eb.Publish(Event{
		Type: EventThought,
		Data: map[string]interface{}{
			"thought_id": thoughtID,
			"symbol":     symbol,
			"intent":     intent,
			"tier":       tier,
			"score":      score,
		},
	})
}

// PublishScreenerUpdate publishes the result of a discovery pass
func (eb *EventBus) PublishScreenerUpdate(total, eligible, candidates int) {
	eb.Publish(Event{
		Type: EventScreenerUpdate,
		Data: map[string]interface{}{
			"total":      total,
			"eligible":   eligible,
			"candidates": candidates,
		},
	})
}

// PublishTradeExecuted publishes an executed order
func (eb *EventBus) PublishTradeExecuted(symbol, tokenAddress, mode, side string, amountSol float64) {
	eb.Publish(Event{
		Type: EventTradeExecuted,
		Data: map[string]interface{}{
			"symbol":        symbol,
			"token_address": tokenAddress,
			"mode":          mode,
			"side":          side,
			"amount_sol":    amountSol,
		},
	})
}

// PublishSettingsUpdated publishes a settings document change
func (eb *EventBus) PublishSettingsUpdated(configVersion int) {
	eb.Publish(Event{
		Type: EventSettingsUpdated,
		Data: map[string]interface{}{
			"config_version": configVersion,
		},
	})
}

// PublishError publishes an error event
func (eb *EventBus) PublishError(source, message string, err error) {
	data := map[string]interface{}{
		"source":  source,
		"message": message,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	eb.Publish(Event{
		Type: EventError,
		Data: data,
	})
}
