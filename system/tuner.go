package system

import (
	"log"
	"math"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/status"
)

// NameTuner is the registry name of the evaporation and damping tuner
const NameTuner = "tuner"

// TunerSystem keeps the host's evaporation and damping at their configured values
// A spike holds a temporary evaporation rate until the debounce window elapses
type TunerSystem struct {
	engine.SystemBase

	requested   bool
	requestRate float32

	spiking     bool
	spikeRate   float32
	dateChanged float32

	statSpikes  *atomic.Int64
	statReverts *atomic.Int64
	statWrites  *atomic.Int64
	statSpiking *atomic.Bool
	statEvap    *status.AtomicFloat
}

// NewTunerSystem creates the tuner
func NewTunerSystem(world *engine.World) *TunerSystem {
	reg := world.Resource.Status
	return &TunerSystem{
		SystemBase:  engine.NewSystemBase(world),
		statSpikes:  reg.Ints.Get("tuner.spikes"),
		statReverts: reg.Ints.Get("tuner.reverts"),
		statWrites:  reg.Ints.Get("tuner.writes"),
		statSpiking: reg.Bools.Get("tuner.spiking"),
		statEvap:    reg.Floats.Get("tuner.evaporation"),
	}
}

func (s *TunerSystem) Name() string       { return NameTuner }
func (s *TunerSystem) Priority() int      { return parameter.PriorityTuner }
func (s *TunerSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayEveryTick }

// Spiking reports whether a temporary rate is active
func (s *TunerSystem) Spiking() bool {
	return s.spiking
}

// EventTypes returns the event types TunerSystem handles
func (s *TunerSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLoadComplete,
		event.EventEvaporationSpike,
		event.EventSystemCommand,
	}
}

// HandleEvent records a spike request, applied at the next update, and cancels spikes on load
func (s *TunerSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	if s.HandleSystemCommand(s.Name(), ev) {
		return
	}
	switch ev.Type {
	case event.EventLoadComplete:
		// A spike belongs to the session that requested it; Update restores the configured rate
		s.requested = false
		s.spiking = false

	case event.EventEvaporationSpike:
		if payload, ok := ev.Payload.(*event.EvaporationSpikePayload); ok {
			s.requested = true
			s.requestRate = payload.Rate
		}
	}
}

// Update applies spikes, reverts them after the window and corrects drift
func (s *TunerSystem) Update(ctx *engine.TickContext) {
	knobs := s.Resource.Host.Knobs
	if knobs == nil {
		return
	}
	cfg := ctx.Settings
	date := ctx.Climate.NormalizedDate

	if s.requested {
		s.requested = false
		rate := s.requestRate
		if rate <= 0 {
			rate = cfg.TemporaryEvaporationRate
		}
		s.spiking = true
		s.spikeRate = rate
		s.dateChanged = date
		s.set(knobs.SetEvaporation, rate)
		s.statSpikes.Add(1)
		log.Printf("tuner: evaporation spike %.4f at date %.4f", rate, date)
	} else if s.spiking && (date > s.dateChanged+cfg.ResetTimeLimit || date < s.dateChanged) {
		s.spiking = false
		s.statReverts.Add(1)
		log.Printf("tuner: evaporation reverted to %.6f", cfg.EvaporationRate)
	}

	target := cfg.EvaporationRate
	if s.spiking {
		target = s.spikeRate
	}
	if !approxEqual(knobs.Evaporation(), target) {
		s.set(knobs.SetEvaporation, target)
	}
	if !approxEqual(knobs.Damping(), cfg.Damping) {
		s.set(knobs.SetDamping, cfg.Damping)
	}

	s.statSpiking.Store(s.spiking)
	s.statEvap.Set(float64(knobs.Evaporation()))
}

func (s *TunerSystem) set(fn func(float32), v float32) {
	fn(v)
	s.statWrites.Add(1)
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) <= parameter.KnobEpsilon
}
