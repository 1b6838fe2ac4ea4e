package engine

import (
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/event"
)

// System is one simulation pass
type System interface {
	// Name is the registry name used by EventSystemCommand
	Name() string

	// Priority orders passes within a tick, lower values run first
	Priority() int

	// UpdatesPerDay is the pass frequency in runs per in-game day, 0 runs every tick
	UpdatesPerDay() int

	// Update executes the pass against a tick snapshot
	Update(ctx *TickContext)
}

// EventHandler is implemented by systems that consume routed events
type EventHandler = event.Handler[*World]

// TickContext is the read-only snapshot handed to a pass
// Shared external state is read once per pass invocation, before iterating records
type TickContext struct {
	Frame       int64
	Settings    config.Settings
	Climate     ClimateState
	OracleReady bool
}

// SystemBase provides common dependency for all systems
// Embed in system struct to eliminate boilerplate
type SystemBase struct {
	World     *World
	Resource  *Resource
	Component *ComponentStore
	Commands  *CommandBuffer

	enabled bool
}

// NewSystemBase initializes base dependency from world
// Call once in system constructor
func NewSystemBase(w *World) SystemBase {
	return SystemBase{
		World:     w,
		Resource:  &w.Resource,
		Component: &w.Components,
		Commands:  w.Commands,
		enabled:   true,
	}
}

// Enabled reports whether the system accepts updates
func (b *SystemBase) Enabled() bool {
	return b.enabled
}

// HandleSystemCommand applies an EventSystemCommand addressed to name
// Returns true if the event was consumed
func (b *SystemBase) HandleSystemCommand(name string, ev event.SimEvent) bool {
	if ev.Type != event.EventSystemCommand {
		return false
	}
	if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.SystemName == name {
		b.enabled = payload.Enabled
	}
	return true
}
