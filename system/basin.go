package system

import (
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/climate"
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// Registry names of the two basin instances
const (
	NameDetention = "detention_basins"
	NameRetention = "retention_basins"
)

// BasinSystem runs the rainfall-runoff model for one basin kind
// Detention and Retention share the decision; only retention passes a floor
type BasinSystem struct {
	engine.SystemBase

	kind component.BehaviorKind
	name string

	statCount   *atomic.Int64
	statSkipped *atomic.Int64
	statRules   [4]*atomic.Int64
}

// NewDetentionBasinSystem creates the detention instance
func NewDetentionBasinSystem(world *engine.World) *BasinSystem {
	return newBasinSystem(world, component.BehaviorDetentionBasin, NameDetention, "detention")
}

// NewRetentionBasinSystem creates the retention instance
func NewRetentionBasinSystem(world *engine.World) *BasinSystem {
	return newBasinSystem(world, component.BehaviorRetentionBasin, NameRetention, "retention")
}

func newBasinSystem(world *engine.World, kind component.BehaviorKind, name, prefix string) *BasinSystem {
	reg := world.Resource.Status
	s := &BasinSystem{
		SystemBase:  engine.NewSystemBase(world),
		kind:        kind,
		name:        name,
		statCount:   reg.Ints.Get(prefix + ".count"),
		statSkipped: reg.Ints.Get(prefix + ".skipped"),
	}
	for r := climate.BasinOverflow; r <= climate.BasinDry; r++ {
		s.statRules[r] = reg.Ints.Get(prefix + ".rule." + r.String())
	}
	return s
}

func (s *BasinSystem) Name() string { return s.name }

func (s *BasinSystem) Priority() int {
	if s.kind == component.BehaviorRetentionBasin {
		return parameter.PriorityRetention
	}
	return parameter.PriorityDetention
}

func (s *BasinSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayBasin }

// EventTypes returns the event types BasinSystem handles
func (s *BasinSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventSystemCommand}
}

// HandleEvent processes system commands
func (s *BasinSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	s.HandleSystemCommand(s.Name(), ev)
}

func (s *BasinSystem) query() []core.Entity {
	q := s.World.Query().With(s.Component.Source)
	if s.kind == component.BehaviorRetentionBasin {
		q.With(s.Component.Retention)
	} else {
		q.With(s.Component.Detention)
	}
	return q.Execute()
}

// input reads the behavior component into the shared decision input
func (s *BasinSystem) input(r record) climate.BasinInput {
	in := climate.BasinInput{
		Amount:  r.source.Amount,
		Terrain: r.heights.Terrain,
		Water:   r.heights.Water,
	}
	if s.kind == component.BehaviorRetentionBasin {
		b, _ := s.Component.Retention.Get(r.entity)
		in.MaxHeight, in.MinHeight, in.Snow, in.Floor = b.MaxHeight, b.MinHeight, b.SnowAccumulation, true
	} else {
		b, _ := s.Component.Detention.Get(r.entity)
		in.MaxHeight, in.Snow = b.MaxHeight, b.SnowAccumulation
	}
	return in
}

// Update evaluates every basin of this kind
func (s *BasinSystem) Update(ctx *engine.TickContext) {
	entities := s.query()
	s.statCount.Store(int64(len(entities)))

	if len(entities) == 0 || !ctx.OracleReady {
		s.statSkipped.Add(1)
		return
	}

	recs := gather(s.World, entities, true)
	inputs := make([]climate.BasinInput, len(recs))
	for i, r := range recs {
		inputs[i] = s.input(r)
	}

	results := make([]climate.BasinResult, len(recs))
	_ = engine.ParallelFor(len(recs), ctx.Settings.Workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			results[i] = climate.BasinStep(inputs[i], ctx.Climate)
		}
		return nil
	})

	for i, r := range recs {
		res := results[i]
		s.statRules[res.Rule].Add(1)

		if res.Snow != inputs[i].Snow {
			if s.kind == component.BehaviorRetentionBasin {
				s.Commands.Attach(r.entity, component.RetentionBasinComponent{
					MaxHeight:        inputs[i].MaxHeight,
					MinHeight:        inputs[i].MinHeight,
					SnowAccumulation: res.Snow,
				})
			} else {
				s.Commands.Attach(r.entity, component.DetentionBasinComponent{
					MaxHeight:        inputs[i].MaxHeight,
					SnowAccumulation: res.Snow,
				})
			}
		}

		src := r.source
		src.Amount = res.Amount
		src.DepthMode = component.DepthCreek
		s.Commands.SetSource(r.entity, src)
	}
}
