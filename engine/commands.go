package engine

import (
	"log"
	"sync"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
)

// CommandOp identifies the mutation carried by a Command
type CommandOp uint8

const (
	OpSpawn CommandOp = iota
	OpDestroy
	OpSetSource
	OpAttach
	OpDetach
)

func (op CommandOp) String() string {
	switch op {
	case OpSpawn:
		return "Spawn"
	case OpDestroy:
		return "Destroy"
	case OpSetSource:
		return "SetSource"
	case OpAttach:
		return "Attach"
	case OpDetach:
		return "Detach"
	default:
		return "Unknown"
	}
}

// Command is one deferred mutation intent
type Command struct {
	Op       CommandOp
	Entity   core.Entity
	Source   component.WaterSourceComponent
	Position component.PositionComponent
	Kind     component.BehaviorKind
	Behavior any // concrete behavior component value for OpAttach/OpSpawn
}

// PlaybackResult summarizes one apply phase
type PlaybackResult struct {
	Applied  int
	Rejected int
}

// CommandBuffer collects mutations produced during a pass and applies them atomically afterwards
// Safe for concurrent producers; Playback must run under the world update lock
type CommandBuffer struct {
	world *World

	mu       sync.Mutex
	pending  []Command
	spare    []Command
	rejected uint64
}

func newCommandBuffer(w *World) *CommandBuffer {
	return &CommandBuffer{
		world:   w,
		pending: make([]Command, 0, 256),
		spare:   make([]Command, 0, 256),
	}
}

func (cb *CommandBuffer) push(cmd Command) {
	cb.mu.Lock()
	cb.pending = append(cb.pending, cmd)
	cb.mu.Unlock()
}

// Spawn reserves an id now and creates the record at playback
// behavior may be nil for a plain source
func (cb *CommandBuffer) Spawn(pos component.PositionComponent, src component.WaterSourceComponent, behavior any) core.Entity {
	e := cb.world.CreateEntity()
	cb.push(Command{Op: OpSpawn, Entity: e, Position: pos, Source: src, Behavior: behavior})
	return e
}

// Destroy removes the record and every component
func (cb *CommandBuffer) Destroy(e core.Entity) {
	cb.push(Command{Op: OpDestroy, Entity: e})
}

// SetSource replaces the water-source record
func (cb *CommandBuffer) SetSource(e core.Entity, src component.WaterSourceComponent) {
	cb.push(Command{Op: OpSetSource, Entity: e, Source: src})
}

// Attach attaches or updates a behavior component
// Rejected at playback if the record carries a different behavior
func (cb *CommandBuffer) Attach(e core.Entity, behavior any) {
	cb.push(Command{Op: OpAttach, Entity: e, Kind: KindOf(behavior), Behavior: behavior})
}

// Detach removes a behavior component of the given kind
func (cb *CommandBuffer) Detach(e core.Entity, kind component.BehaviorKind) {
	cb.push(Command{Op: OpDetach, Entity: e, Kind: kind})
}

// Len returns the number of pending commands
func (cb *CommandBuffer) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return len(cb.pending)
}

// Rejected returns the total number of commands rejected since creation
func (cb *CommandBuffer) Rejected() uint64 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.rejected
}

// Playback applies pending commands in FIFO order
func (cb *CommandBuffer) Playback() PlaybackResult {
	cb.mu.Lock()
	cmds := cb.pending
	cb.pending = cb.spare[:0]
	cb.mu.Unlock()

	var res PlaybackResult
	for i := range cmds {
		if cb.apply(&cmds[i]) {
			res.Applied++
		} else {
			res.Rejected++
		}
	}

	clear(cmds)
	cb.mu.Lock()
	cb.spare = cmds[:0]
	cb.rejected += uint64(res.Rejected)
	cb.mu.Unlock()

	return res
}

func (cb *CommandBuffer) apply(cmd *Command) bool {
	w := cb.world
	c := &w.Components

	switch cmd.Op {
	case OpSpawn:
		c.Position.Set(cmd.Entity, cmd.Position)
		c.Source.Set(cmd.Entity, cmd.Source)
		if cmd.Behavior != nil {
			return cb.attach(cmd.Entity, KindOf(cmd.Behavior), cmd.Behavior)
		}
		return true

	case OpDestroy:
		if !w.Exists(cmd.Entity) {
			return false
		}
		w.DestroyEntity(cmd.Entity)
		return true

	case OpSetSource:
		if !w.Exists(cmd.Entity) {
			return false
		}
		c.Source.Set(cmd.Entity, cmd.Source)
		return true

	case OpAttach:
		if !w.Exists(cmd.Entity) {
			return false
		}
		return cb.attach(cmd.Entity, cmd.Kind, cmd.Behavior)

	case OpDetach:
		return cb.detach(cmd.Entity, cmd.Kind)
	}
	return false
}

func (cb *CommandBuffer) attach(e core.Entity, kind component.BehaviorKind, behavior any) bool {
	w := cb.world
	c := &w.Components

	if existing := c.BehaviorOf(e); existing != component.BehaviorNone && existing != kind {
		log.Printf("commands: reject %s on entity %d, already %s", kind, e, existing)
		return false
	}

	switch b := behavior.(type) {
	case component.AutofillingLakeComponent:
		if w.IsRetired(e) {
			return false
		}
		c.Autofill.Set(e, b)
	case component.DetentionBasinComponent:
		c.Detention.Set(e, b)
	case component.RetentionBasinComponent:
		c.Retention.Set(e, b)
	case component.SeasonalStreamComponent:
		if prev, ok := c.Seasonal.Get(e); ok {
			b.OriginalAmount = prev.OriginalAmount
		}
		c.Seasonal.Set(e, b)
	case component.TidesAndWavesComponent:
		if prev, ok := c.Tides.Get(e); ok {
			b.OriginalAmount = prev.OriginalAmount
		}
		c.Tides.Set(e, b)
	case component.TideReferenceComponent:
		c.TideReference.Set(e, b)
	default:
		return false
	}
	return true
}

func (cb *CommandBuffer) detach(e core.Entity, kind component.BehaviorKind) bool {
	c := &cb.world.Components

	var store AnyStore
	switch kind {
	case component.BehaviorAutofillingLake:
		store = c.Autofill
	case component.BehaviorDetentionBasin:
		store = c.Detention
	case component.BehaviorRetentionBasin:
		store = c.Retention
	case component.BehaviorSeasonalStream:
		store = c.Seasonal
	case component.BehaviorTidesAndWaves:
		store = c.Tides
	default:
		return false
	}
	if !store.Has(e) {
		return false
	}
	store.Remove(e)
	return true
}

// KindOf maps a behavior component value to its kind
// TideReferenceComponent is not a behavior and maps to BehaviorNone
func KindOf(behavior any) component.BehaviorKind {
	switch behavior.(type) {
	case component.AutofillingLakeComponent:
		return component.BehaviorAutofillingLake
	case component.DetentionBasinComponent:
		return component.BehaviorDetentionBasin
	case component.RetentionBasinComponent:
		return component.BehaviorRetentionBasin
	case component.SeasonalStreamComponent:
		return component.BehaviorSeasonalStream
	case component.TidesAndWavesComponent:
		return component.BehaviorTidesAndWaves
	default:
		return component.BehaviorNone
	}
}
