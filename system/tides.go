package system

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/climate"
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/status"
)

// NameTides is the registry name of the tides and waves system
const NameTides = "tides_and_waves"

// TidesSystem oscillates tagged sea records and maintains the synthetic reference source
// The reference sits below the lowest still-water level by the full amplitude
type TidesSystem struct {
	engine.SystemBase

	statCount   *atomic.Int64
	statSkipped *atomic.Int64
	statResets  *atomic.Int64
	statOffset  *status.AtomicFloat
}

// NewTidesSystem creates the tides system
func NewTidesSystem(world *engine.World) *TidesSystem {
	reg := world.Resource.Status
	return &TidesSystem{
		SystemBase:  engine.NewSystemBase(world),
		statCount:   reg.Ints.Get("tides.count"),
		statSkipped: reg.Ints.Get("tides.skipped"),
		statResets:  reg.Ints.Get("tides.resets"),
		statOffset:  reg.Floats.Get("tides.offset"),
	}
}

func (s *TidesSystem) Name() string       { return NameTides }
func (s *TidesSystem) Priority() int      { return parameter.PriorityTides }
func (s *TidesSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayEveryTick }

// EventTypes returns the event types TidesSystem handles
func (s *TidesSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventSystemCommand}
}

// HandleEvent processes system commands
func (s *TidesSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	s.HandleSystemCommand(s.Name(), ev)
}

// Update resets a stale reference, creates a missing one, then applies the offset
func (s *TidesSystem) Update(ctx *engine.TickContext) {
	cfg := ctx.Settings
	tagged := s.World.Query().
		With(s.Component.Source).
		With(s.Component.Tides).
		Execute()
	s.statCount.Store(int64(len(tagged)))

	if !cfg.TidesAndWaves || !cfg.WavesActive() || !ctx.OracleReady || len(tagged) == 0 {
		s.statSkipped.Add(1)
		return
	}

	height := climate.ReferenceHeight(cfg)

	// Reset runs before recompute; a destroyed reference is recreated next tick
	refs := s.World.Query().With(s.Component.TideReference).Execute()
	hasReference := false
	for _, ref := range refs {
		tr, _ := s.Component.TideReference.Get(ref)
		if tr.PreviousHeight != height {
			s.Commands.Destroy(ref)
			s.statResets.Add(1)
		}
		hasReference = true
	}

	recs := gather(s.World, tagged, false)

	if !hasReference {
		lowest := float32(0)
		for i, r := range recs {
			tw, _ := s.Component.Tides.Get(r.entity)
			if i == 0 || tw.OriginalAmount < lowest {
				lowest = tw.OriginalAmount
			}
		}
		ref := s.Commands.Spawn(
			component.PositionComponent{},
			component.WaterSourceComponent{
				Amount:     lowest - height,
				DepthMode:  component.DepthSea,
				Radius:     0,
				Multiplier: component.UncalibratedMultiplier,
			},
			component.TideReferenceComponent{PreviousHeight: height},
		)
		log.Printf("tides: reference %d at %.2f", ref, lowest-height)
	}

	offset := climate.TideOffset(cfg, ctx.Climate)
	s.statOffset.Set(float64(offset))

	for _, r := range recs {
		if r.source.DepthMode != component.DepthSea || r.source.Amount <= 0 {
			continue
		}
		tw, _ := s.Component.Tides.Get(r.entity)
		src := r.source
		src.Amount = tw.OriginalAmount - offset
		s.Commands.SetSource(r.entity, src)
	}
}
