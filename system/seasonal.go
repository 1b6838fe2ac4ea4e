package system

import (
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/climate"
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/status"
)

// NameSeasonal is the registry name of the seasonal stream system
const NameSeasonal = "seasonal_streams"

// SeasonalStreamSystem drives creek flow from season, precipitation and snowpack
type SeasonalStreamSystem struct {
	engine.SystemBase

	model *climate.FlowModel

	statCount      *atomic.Int64
	statSkipped    *atomic.Int64
	statMultiplier *status.AtomicFloat
	statSnow       *status.AtomicFloat
}

// NewSeasonalStreamSystem creates the system with an empty season cache
func NewSeasonalStreamSystem(world *engine.World) *SeasonalStreamSystem {
	reg := world.Resource.Status
	return &SeasonalStreamSystem{
		SystemBase:     engine.NewSystemBase(world),
		model:          climate.NewFlowModel(),
		statCount:      reg.Ints.Get("seasonal.count"),
		statSkipped:    reg.Ints.Get("seasonal.skipped"),
		statMultiplier: reg.Floats.Get("seasonal.multiplier"),
		statSnow:       reg.Floats.Get("seasonal.snow"),
	}
}

func (s *SeasonalStreamSystem) Name() string       { return NameSeasonal }
func (s *SeasonalStreamSystem) Priority() int      { return parameter.PrioritySeasonal }
func (s *SeasonalStreamSystem) UpdatesPerDay() int { return parameter.UpdatesPerDaySeasonal }

// EventTypes returns the event types SeasonalStreamSystem handles
func (s *SeasonalStreamSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventLoadComplete, event.EventSystemCommand}
}

// HandleEvent processes system commands and drops the season cache on load
func (s *SeasonalStreamSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	if s.HandleSystemCommand(s.Name(), ev) {
		return
	}
	if ev.Type == event.EventLoadComplete {
		s.model.Reset()
	}
}

// Update recomputes every seasonal record
func (s *SeasonalStreamSystem) Update(ctx *engine.TickContext) {
	entities := s.World.Query().
		With(s.Component.Source).
		With(s.Component.Seasonal).
		Execute()
	s.statCount.Store(int64(len(entities)))

	if len(entities) == 0 || !ctx.Settings.SeasonalStreams || !ctx.OracleReady {
		s.statSkipped.Add(1)
		return
	}

	s.model.Observe(s.Resource.Host.Climate, ctx.Climate)
	flow := s.model.Compute(ctx.Settings, ctx.Climate)
	s.statMultiplier.Set(float64(flow.Multiplier))

	recs := gather(s.World, entities, true)
	streams := make([]component.SeasonalStreamComponent, len(recs))
	for i, r := range recs {
		streams[i], _ = s.Component.Seasonal.Get(r.entity)
	}

	results := make([]climate.StreamState, len(recs))
	_ = engine.ParallelFor(len(recs), ctx.Settings.Workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			st := streams[i]
			results[i] = climate.StreamStep(st.OriginalAmount, st.SnowAccumulation, recs[i].heights.Terrain, flow)
		}
		return nil
	})

	var snow float64
	for i, r := range recs {
		res := results[i]
		snow += float64(res.Snow)

		st := streams[i]
		if st.SnowAccumulation != res.Snow {
			st.SnowAccumulation = res.Snow
			s.Commands.Attach(r.entity, st)
		}

		src := r.source
		src.Amount = res.Amount
		s.Commands.SetSource(r.entity, src)
	}
	s.statSnow.Set(snow)
}
