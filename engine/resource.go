package engine

import (
	"sync"

	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/status"
)

// Resource holds singleton simulation resources, accessed via World.Resource
type Resource struct {
	Time     *TimeResource
	Settings *SettingsResource
	Event    *EventQueueResource
	Host     Host

	// Telemetry
	Status *status.Registry
}

// TimeResource tracks the host timeline
// Updated by the ClockScheduler at the start of a tick under the world lock
type TimeResource struct {
	// Frame is the current host simulation frame
	Frame int64

	// TickCount is the number of scheduler ticks executed
	TickCount uint64
}

// Day returns the number of whole in-game days elapsed
func (tr *TimeResource) Day() int64 {
	return tr.Frame / parameter.FramesPerDay
}

// Update modifies TimeResource fields in-place
func (tr *TimeResource) Update(frame int64, tickCount uint64) {
	tr.Frame = frame
	tr.TickCount = tickCount
}

// SettingsResource is the current configuration
// Passes never read it directly: the scheduler copies it into each TickContext
type SettingsResource struct {
	mu      sync.RWMutex
	current config.Settings
}

// NewSettingsResource wraps sanitized settings
func NewSettingsResource(s config.Settings) *SettingsResource {
	return &SettingsResource{current: s.Sanitize()}
}

// Get returns a copy of the current settings
func (sr *SettingsResource) Get() config.Settings {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.current
}

// Set replaces the current settings after sanitizing, returning the previous value
func (sr *SettingsResource) Set(s config.Settings) config.Settings {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	prev := sr.current
	sr.current = s.Sanitize()
	return prev
}

// EventQueueResource wraps the event queue for systems access
type EventQueueResource struct {
	Queue *event.EventQueue
}
