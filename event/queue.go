package event

import (
	"sync"

	"github.com/lixenwraith/hydrosim/parameter"
)

// EventQueue collects events from any goroutine until the scheduler drains them
// Events are delivered in push order and never dropped
type EventQueue struct {
	mu      sync.Mutex
	pending []SimEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{pending: make([]SimEvent, 0, parameter.EventQueueCapacity)}
}

// Push appends an event; safe for concurrent producers
func (eq *EventQueue) Push(ev SimEvent) {
	eq.mu.Lock()
	eq.pending = append(eq.pending, ev)
	eq.mu.Unlock()
}

// Consume hands the pending batch to the caller and starts a fresh one
// Events pushed by handlers during dispatch land in the next batch
func (eq *EventQueue) Consume() []SimEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if len(eq.pending) == 0 {
		return nil
	}
	batch := eq.pending
	eq.pending = make([]SimEvent, 0, max(parameter.EventQueueCapacity, len(batch)))
	return batch
}

// Len returns the number of undelivered events
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.pending)
}
