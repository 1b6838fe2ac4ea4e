package engine

import (
	"sync"

	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/status"
)

// World contains all source records and their components using typed stores
type World struct {
	mu           sync.RWMutex
	nextEntityID core.Entity

	Components ComponentStore
	Resource   Resource

	// Commands is the deferred mutation queue, played back by the scheduler after each pass
	Commands *CommandBuffer

	// retired holds records whose autofilling lake reached its terminal state this session
	retired map[core.Entity]struct{}

	systems     []System
	updateMutex sync.Mutex
}

// NewWorld creates a world bound to the host collaborators and initial settings
func NewWorld(host Host, settings config.Settings) *World {
	w := &World{
		nextEntityID: 1,
		Components:   newComponentStore(),
		Resource: Resource{
			Time:     &TimeResource{},
			Settings: NewSettingsResource(settings),
			Event:    &EventQueueResource{Queue: event.NewEventQueue()},
			Host:     host,
			Status:   status.NewRegistry(),
		},
		retired: make(map[core.Entity]struct{}),
		systems: make([]System, 0),
	}
	w.Commands = newCommandBuffer(w)
	return w
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// ReserveEntity ensures future CreateEntity calls never return e
// Used when restoring records with persisted ids
func (w *World) ReserveEntity(e core.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e >= w.nextEntityID {
		w.nextEntityID = e + 1
	}
}

// DestroyEntity removes all components associated with an entity
func (w *World) DestroyEntity(e core.Entity) {
	for _, store := range w.Components.all() {
		store.Remove(e)
	}
}

// Exists reports whether the entity carries a water-source record
func (w *World) Exists(e core.Entity) bool {
	return w.Components.Source.Has(e)
}

// Clear removes all entities and components and forgets retired records
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextEntityID = 1
	for _, store := range w.Components.all() {
		store.Clear()
	}
	w.retired = make(map[core.Entity]struct{})
}

// Retire records that an entity's autofilling lake completed
// Retired entities can never get an AutofillingLake again this session
func (w *World) Retire(e core.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.retired[e] = struct{}{}
}

// IsRetired reports whether Retire was called for the entity this session
func (w *World) IsRetired(e core.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.retired[e]
	return ok
}

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort by priority (insertion sort, small N, stable for equal priorities)
	for i := len(w.systems) - 1; i > 0 && w.systems[i-1].Priority() > w.systems[i].Priority(); i-- {
		w.systems[i-1], w.systems[i] = w.systems[i], w.systems[i-1]
	}
}

// Systems returns a copy of all registered systems in priority order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes a function while holding the world's update lock
// Ticks, saves and loads are serialized through it
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// PushEvent emits a simulation event stamped with the current frame
func (w *World) PushEvent(eventType event.EventType, payload any) {
	w.Resource.Event.Queue.Push(event.SimEvent{
		Type:    eventType,
		Payload: payload,
		Frame:   w.Resource.Time.Frame,
	})
}
