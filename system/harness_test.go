package system

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// stepFrames crosses every day-relative boundary used by the passes
const stepFrames = parameter.FramesPerDay / parameter.UpdatesPerDaySeasonal

type harness struct {
	t       *testing.T
	w       *engine.World
	cs      *engine.ClockScheduler
	set     *Set
	oracle  *engine.FakeOracle
	climate *engine.FakeClimate
	knobs   *engine.FakeKnobs
	cal     *engine.FakeCalibrator
}

func newHarness(t *testing.T, cfg config.Settings) *harness {
	t.Helper()
	host, oracle, climate, knobs, cal := engine.NewTestHost()
	w := engine.NewWorld(host, cfg)
	cs := engine.NewClockScheduler(w, engine.NewPausableClock(), time.Millisecond, stepFrames)
	set := NewSet(w)
	set.Register(cs)
	return &harness{t: t, w: w, cs: cs, set: set, oracle: oracle, climate: climate, knobs: knobs, cal: cal}
}

// spawn commits a record immediately
func (h *harness) spawn(pos component.PositionComponent, src component.WaterSourceComponent, behavior any) core.Entity {
	e := h.w.Commands.Spawn(pos, src, behavior)
	h.w.Commands.Playback()
	return e
}

func (h *harness) tick() {
	h.cs.Tick(stepFrames)
}

func (h *harness) loadComplete() {
	h.w.PushEvent(event.EventLoadComplete, nil)
}

func (h *harness) source(e core.Entity) component.WaterSourceComponent {
	h.t.Helper()
	src, ok := h.w.Components.Source.Get(e)
	if !ok {
		h.t.Fatalf("entity %d has no source", e)
	}
	return src
}

func (h *harness) metric(key string) int64 {
	return h.w.Resource.Status.Ints.Get(key).Load()
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// settingsAllOn enables both optional features with waves active
func settingsAllOn() config.Settings {
	s := config.Default()
	s.SeasonalStreams = true
	s.TidesAndWaves = true
	s.WaveHeight = 4
	s.TideHeight = 0
	s.WaveFrequency = 130
	return s
}
