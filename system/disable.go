package system

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// DisableSystem removes one optional feature from every record
// Restores anchors, detaches the behavior and, for tides, destroys the reference
// Single-shot: armed at load completion or by a settings change when the feature is off
type DisableSystem struct {
	engine.SystemBase

	feature event.Feature
	armed   bool

	statRuns    *atomic.Int64
	statRemoved *atomic.Int64
}

// NewDisableSystem creates the disable pass for feature
func NewDisableSystem(world *engine.World, feature event.Feature) *DisableSystem {
	reg := world.Resource.Status
	return &DisableSystem{
		SystemBase:  engine.NewSystemBase(world),
		feature:     feature,
		statRuns:    reg.Ints.Get("disable." + string(feature) + ".runs"),
		statRemoved: reg.Ints.Get("disable." + string(feature) + ".removed"),
	}
}

func (s *DisableSystem) Name() string       { return "disable_" + string(s.feature) }
func (s *DisableSystem) Priority() int      { return parameter.PriorityDisable }
func (s *DisableSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayEveryTick }

// Feature returns the feature this pass removes
func (s *DisableSystem) Feature() event.Feature {
	return s.feature
}

// Armed reports whether the pass runs on the next tick
func (s *DisableSystem) Armed() bool {
	return s.armed
}

// EventTypes returns the event types DisableSystem handles
func (s *DisableSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLoadComplete,
		event.EventSettingsChanged,
		event.EventSystemCommand,
	}
}

// HandleEvent arms the pass when its feature is off
func (s *DisableSystem) HandleEvent(w *engine.World, ev event.SimEvent) {
	if s.HandleSystemCommand(s.Name(), ev) {
		return
	}

	switch ev.Type {
	case event.EventLoadComplete:
		if !s.enabledIn(w) {
			s.armed = true
		}
	case event.EventSettingsChanged:
		if payload, ok := ev.Payload.(*event.SettingsChangedPayload); ok && payload.Disabled[s.feature] {
			s.armed = true
		}
	}
}

func (s *DisableSystem) enabledIn(w *engine.World) bool {
	cfg := w.Resource.Settings.Get()
	switch s.feature {
	case event.FeatureSeasonalStreams:
		return cfg.SeasonalStreams
	case event.FeatureTidesAndWaves:
		return cfg.TidesAndWaves
	}
	return true
}

// Update restores and detaches every record of the feature, then disarms
func (s *DisableSystem) Update(_ *engine.TickContext) {
	if !s.armed {
		return
	}
	s.armed = false

	var n int
	switch s.feature {
	case event.FeatureSeasonalStreams:
		n = restoreAnchored(s.World, s.Component.Seasonal, func(e core.Entity) (float32, bool) {
			st, ok := s.Component.Seasonal.Get(e)
			return st.OriginalAmount, ok
		}, true)
	case event.FeatureTidesAndWaves:
		n = restoreAnchored(s.World, s.Component.Tides, func(e core.Entity) (float32, bool) {
			tw, ok := s.Component.Tides.Get(e)
			return tw.OriginalAmount, ok
		}, true)
		destroyReferences(s.World)
	}

	s.statRuns.Add(1)
	s.statRemoved.Add(int64(n))
	if n > 0 {
		log.Printf("disable: %s removed from %d records", s.feature, n)
	}
}
