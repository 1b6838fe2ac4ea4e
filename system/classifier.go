package system

import (
	"log"
	"slices"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// NameClassifier is the registry name of the classifier
const NameClassifier = "classifier"

// ClassifierSystem tags plain sources into seasonal streams or tidal seas
// Single-shot: a load or feature enable arms a full scan, creation events classify only the named records
type ClassifierSystem struct {
	engine.SystemBase

	armed   bool
	pending []core.Entity

	statRuns       *atomic.Int64
	statSeasonal   *atomic.Int64
	statTides      *atomic.Int64
	statUnassigned *atomic.Int64
}

// NewClassifierSystem creates a disarmed classifier
func NewClassifierSystem(world *engine.World) *ClassifierSystem {
	reg := world.Resource.Status
	return &ClassifierSystem{
		SystemBase:     engine.NewSystemBase(world),
		statRuns:       reg.Ints.Get("classifier.runs"),
		statSeasonal:   reg.Ints.Get("classifier.seasonal"),
		statTides:      reg.Ints.Get("classifier.tides"),
		statUnassigned: reg.Ints.Get("classifier.plain"),
	}
}

func (s *ClassifierSystem) Name() string       { return NameClassifier }
func (s *ClassifierSystem) Priority() int      { return parameter.PriorityClassifier }
func (s *ClassifierSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayEveryTick }

// Armed reports whether a full scan is pending
func (s *ClassifierSystem) Armed() bool {
	return s.armed
}

// EventTypes returns the event types ClassifierSystem handles
func (s *ClassifierSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLoadComplete,
		event.EventSourceCreated,
		event.EventSourcesCreated,
		event.EventSettingsChanged,
		event.EventSystemCommand,
	}
}

// HandleEvent arms the classifier or queues created records
func (s *ClassifierSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	if s.HandleSystemCommand(s.Name(), ev) {
		return
	}

	switch ev.Type {
	case event.EventLoadComplete:
		s.armed = true
		s.pending = s.pending[:0]

	case event.EventSourceCreated:
		if payload, ok := ev.Payload.(*event.SourceCreatedPayload); ok {
			s.pending = append(s.pending, payload.Entity)
		}

	case event.EventSourcesCreated:
		// Router releases the batch after dispatch; entries are copied
		if batch, ok := ev.Payload.(*event.BatchPayload[core.Entity]); ok {
			s.pending = append(s.pending, batch.Entries...)
		}

	case event.EventSettingsChanged:
		if payload, ok := ev.Payload.(*event.SettingsChangedPayload); ok {
			if payload.Enabled[event.FeatureSeasonalStreams] || payload.Enabled[event.FeatureTidesAndWaves] {
				s.armed = true
			}
		}
	}
}

// Update classifies armed or pending records
func (s *ClassifierSystem) Update(ctx *engine.TickContext) {
	if !s.armed && len(s.pending) == 0 {
		return
	}

	var candidates []core.Entity
	if s.armed {
		candidates = s.World.Query().
			With(s.Component.Source).
			Without(s.Component.Behaviors()...).
			Without(s.Component.Owner, s.Component.TideReference).
			Execute()
	} else {
		slices.Sort(s.pending)
		candidates = slices.Compact(s.pending)
	}

	var seasonal, tides, plain int
	for _, e := range candidates {
		src, ok := s.Component.Source.Get(e)
		if !ok || s.Component.Owner.Has(e) || s.Component.TideReference.Has(e) {
			continue
		}
		if s.Component.BehaviorOf(e) != component.BehaviorNone {
			continue
		}

		switch b := Classify(src, ctx.Settings).(type) {
		case component.SeasonalStreamComponent:
			s.Commands.Attach(e, b)
			seasonal++
		case component.TidesAndWavesComponent:
			s.Commands.Attach(e, b)
			tides++
		default:
			plain++
		}
	}

	if s.armed {
		log.Printf("classifier: %d seasonal, %d tides, %d plain", seasonal, tides, plain)
	}

	s.armed = false
	s.pending = s.pending[:0]

	s.statRuns.Add(1)
	s.statSeasonal.Add(int64(seasonal))
	s.statTides.Add(int64(tides))
	s.statUnassigned.Add(int64(plain))
}

// Classify returns the behavior a plain source should receive, or nil
// Seasonal creeks take precedence over tidal seas
func Classify(src component.WaterSourceComponent, s config.Settings) any {
	if src.DepthMode == component.DepthCreek && src.Amount > 0 && s.SeasonalStreams {
		return component.SeasonalStreamComponent{OriginalAmount: src.Amount}
	}
	if src.DepthMode == component.DepthSea && src.Amount > 0 && src.Radius > 0 && s.TidesAndWaves {
		return component.TidesAndWavesComponent{OriginalAmount: src.Amount}
	}
	return nil
}
