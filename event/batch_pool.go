package event

import (
	"sync"

	"github.com/lixenwraith/hydrosim/core"
)

// BatchPayload is the pooled payload for bulk events
type BatchPayload[T any] struct {
	Entries []T
}

// BatchPool provides batch payload recycling for a specific entry type
type BatchPool[T any] struct {
	pool sync.Pool
}

// NewBatchPool creates a pool with pre-allocated entry slice capacity
func NewBatchPool[T any](defaultCap int) *BatchPool[T] {
	return &BatchPool[T]{
		pool: sync.Pool{
			New: func() any {
				return &BatchPayload[T]{
					Entries: make([]T, 0, defaultCap),
				}
			},
		},
	}
}

// Acquire returns a pooled payload with zero-length, retained-capacity slice
func (p *BatchPool[T]) Acquire() *BatchPayload[T] {
	bp := p.pool.Get().(*BatchPayload[T])
	bp.Entries = bp.Entries[:0]
	return bp
}

// Release returns payload to pool
func (p *BatchPool[T]) Release(bp *BatchPayload[T]) {
	if bp == nil {
		return
	}
	bp.Entries = bp.Entries[:0]
	p.pool.Put(bp)
}

// EmitBatch acquires a pooled payload, copies entries, and pushes to queue
func EmitBatch[T any](q *EventQueue, pool *BatchPool[T], eventType EventType, entries []T, frame int64) {
	if len(entries) == 0 {
		return
	}
	p := pool.Acquire()
	p.Entries = append(p.Entries, entries...)
	q.Push(SimEvent{
		Type:    eventType,
		Payload: p,
		Frame:   frame,
	})
}

// EntityBatchPool recycles bulk creation payloads
// Handlers must not retain the payload; Router.DispatchAll releases it after all handlers ran
var EntityBatchPool = NewBatchPool[core.Entity](256)
