// Package persist encodes simulation state into versioned binary snapshots
package persist

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
)

// Record is one persisted source with its optional components
type Record struct {
	Entity   core.Entity
	Source   component.WaterSourceComponent
	Position component.PositionComponent
	Owner    *component.OwnerComponent

	// Behavior holds at most one behavior component value, nil for a plain source
	Behavior any
}

// Snapshot is the serializable simulation state
// Tide references are derived and never included
type Snapshot struct {
	Session uuid.UUID
	Frame   int64
	Records []Record
}

// FromWorld captures every canonical record
// Callers run the serialize guard and play back commands first
func FromWorld(w *engine.World, session uuid.UUID, frame int64) Snapshot {
	c := &w.Components
	entities := w.Query().
		With(c.Source).
		Without(c.TideReference).
		Execute()

	snap := Snapshot{
		Session: session,
		Frame:   frame,
		Records: make([]Record, 0, len(entities)),
	}

	for _, e := range entities {
		r := Record{Entity: e}
		r.Source, _ = c.Source.Get(e)
		r.Position, _ = c.Position.Get(e)
		if owner, ok := c.Owner.Get(e); ok {
			r.Owner = &owner
		}
		r.Behavior = behaviorOf(c, e)
		snap.Records = append(snap.Records, r)
	}
	return snap
}

func behaviorOf(c *engine.ComponentStore, e core.Entity) any {
	switch c.BehaviorOf(e) {
	case component.BehaviorAutofillingLake:
		v, _ := c.Autofill.Get(e)
		return v
	case component.BehaviorDetentionBasin:
		v, _ := c.Detention.Get(e)
		return v
	case component.BehaviorRetentionBasin:
		v, _ := c.Retention.Get(e)
		return v
	case component.BehaviorSeasonalStream:
		v, _ := c.Seasonal.Get(e)
		return v
	case component.BehaviorTidesAndWaves:
		v, _ := c.Tides.Get(e)
		return v
	}
	return nil
}

// Restore replaces the world contents with the snapshot
// Entity ids are kept and the id allocator moves past the largest one
func (s Snapshot) Restore(w *engine.World) {
	w.Clear()
	c := &w.Components

	for _, r := range s.Records {
		w.ReserveEntity(r.Entity)
		c.Source.Set(r.Entity, r.Source)
		c.Position.Set(r.Entity, r.Position)
		if r.Owner != nil {
			c.Owner.Set(r.Entity, *r.Owner)
		}

		switch b := r.Behavior.(type) {
		case component.AutofillingLakeComponent:
			c.Autofill.Set(r.Entity, b)
		case component.DetentionBasinComponent:
			c.Detention.Set(r.Entity, b)
		case component.RetentionBasinComponent:
			c.Retention.Set(r.Entity, b)
		case component.SeasonalStreamComponent:
			c.Seasonal.Set(r.Entity, b)
		case component.TidesAndWavesComponent:
			c.Tides.Set(r.Entity, b)
		}
	}
}
