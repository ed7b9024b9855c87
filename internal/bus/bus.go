// Package bus routes in-process events between the agent's background
// services and its front surfaces (CLI output, the gateway's WebSocket
// subscribers).
package bus

import (
	"sync"
	"time"
)

// EventType classifies a bus event.
type EventType string

const (
	// EventLog is an operational log line surfaced to the user.
	EventLog EventType = "log"

	// EventChat is an utterance addressed to the user (answers, autonomous
	// speech).
	EventChat EventType = "chat"

	// EventReflection announces that a reflection was stored.
	EventReflection EventType = "reflection"
)

// Event is one bus message.
type Event struct {
	Type   EventType `json:"type"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Handler receives broadcast events. Handlers must not block.
type Handler func(Event)

// Bus fans events out to named subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string]Handler)}
}

// Subscribe registers a handler under id, replacing any previous handler
// with the same id.
func (b *Bus) Subscribe(id string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[id] = handler
}

// Unsubscribe removes a subscriber.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

// Publish broadcasts an event to every subscriber.
func (b *Bus) Publish(typ EventType, source, text string) {
	event := Event{Type: typ, Source: source, Text: text, At: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, handler := range b.subscribers {
		handler(event)
	}
}
