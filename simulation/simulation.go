// Package simulation wires the world, scheduler, passes and persistence into one engine instance
package simulation

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/persist"
	"github.com/lixenwraith/hydrosim/status"
	"github.com/lixenwraith/hydrosim/system"
)

// Options controls the standalone clock loop
type Options struct {
	TickInterval  time.Duration
	FramesPerTick int64
}

// DefaultOptions returns the standard loop timing
func DefaultOptions() Options {
	return Options{
		TickInterval:  parameter.ClockTickInterval,
		FramesPerTick: parameter.DefaultFramesPerTick,
	}
}

// Simulation is the engine facade consumed by the host and the commands
type Simulation struct {
	world     *engine.World
	scheduler *engine.ClockScheduler
	systems   *system.Set
	session   uuid.UUID
}

// NewSource describes a source to create
// Behavior is optional; nil leaves classification to the classifier
type NewSource struct {
	Position component.PositionComponent
	Source   component.WaterSourceComponent
	Behavior any
}

// SourceView is a read-only copy of one record
type SourceView struct {
	Entity    core.Entity
	Source    component.WaterSourceComponent
	Position  component.PositionComponent
	Behavior  component.BehaviorKind
	Reference bool
}

// New creates a simulation bound to host
func New(host engine.Host, settings config.Settings, opts Options) *Simulation {
	if opts.TickInterval <= 0 {
		opts.TickInterval = parameter.ClockTickInterval
	}
	world := engine.NewWorld(host, settings)
	scheduler := engine.NewClockScheduler(world, engine.NewPausableClock(), opts.TickInterval, opts.FramesPerTick)
	systems := system.NewSet(world)
	systems.Register(scheduler)

	return &Simulation{
		world:     world,
		scheduler: scheduler,
		systems:   systems,
		session:   persist.NewSession(),
	}
}

// World exposes the underlying world for tests and tooling
func (s *Simulation) World() *engine.World { return s.world }

// Systems exposes the pass ensemble
func (s *Simulation) Systems() *system.Set { return s.systems }

// Session returns the snapshot session id
func (s *Simulation) Session() uuid.UUID { return s.session }

// Frame returns the current timeline frame
func (s *Simulation) Frame() int64 { return s.scheduler.Frame() }

// Settings returns the active configuration
func (s *Simulation) Settings() config.Settings {
	return s.world.Resource.Settings.Get()
}

// RegisterEventHandler subscribes h to simulation events
// Handlers run inside the tick and must not block
func (s *Simulation) RegisterEventHandler(h engine.EventHandler) {
	s.scheduler.RegisterEventHandler(h)
}

// LoadComplete arms classification of every plain source, as after a host load
func (s *Simulation) LoadComplete() {
	s.world.PushEvent(event.EventLoadComplete, nil)
}

// CreateSource commits one record and queues it for classification and calibration
func (s *Simulation) CreateSource(src NewSource) core.Entity {
	var e core.Entity
	s.world.RunSafe(func() {
		e = s.world.Commands.Spawn(src.Position, src.Source, src.Behavior)
		s.world.Commands.Playback()
	})
	s.world.PushEvent(event.EventSourceCreated, &event.SourceCreatedPayload{Entity: e})
	return e
}

// CreateSources commits a batch of records with a single creation event
func (s *Simulation) CreateSources(srcs []NewSource) []core.Entity {
	entities := make([]core.Entity, 0, len(srcs))
	s.world.RunSafe(func() {
		for _, src := range srcs {
			entities = append(entities, s.world.Commands.Spawn(src.Position, src.Source, src.Behavior))
		}
		s.world.Commands.Playback()
	})
	event.EmitBatch(s.world.Resource.Event.Queue, event.EntityBatchPool, event.EventSourcesCreated, entities, s.Frame())
	return entities
}

// RemoveSource destroys a record and all its components
func (s *Simulation) RemoveSource(e core.Entity) bool {
	var ok bool
	s.world.RunSafe(func() {
		ok = s.world.Exists(e)
		s.world.Commands.Destroy(e)
		s.world.Commands.Playback()
	})
	return ok
}

// Tick advances the timeline by frames and runs every due pass
func (s *Simulation) Tick(frames int64) {
	s.scheduler.Tick(frames)
}

// ApplySettings replaces the configuration and announces feature toggles
// Disable and classification react at the next tick boundary
func (s *Simulation) ApplySettings(next config.Settings) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	prev := s.world.Resource.Settings.Set(next)

	payload := &event.SettingsChangedPayload{
		Enabled:  make(map[event.Feature]bool),
		Disabled: make(map[event.Feature]bool),
	}
	diff := func(f event.Feature, was, now bool) {
		switch {
		case !was && now:
			payload.Enabled[f] = true
		case was && !now:
			payload.Disabled[f] = true
		}
	}
	diff(event.FeatureSeasonalStreams, prev.SeasonalStreams, next.SeasonalStreams)
	diff(event.FeatureTidesAndWaves, prev.TidesAndWaves, next.TidesAndWaves)

	s.world.PushEvent(event.EventSettingsChanged, payload)
	return nil
}

// RequestEvaporationSpike asks the tuner for a temporary evaporation rate
// Zero uses the configured temporary rate
func (s *Simulation) RequestEvaporationSpike(rate float32) {
	s.world.PushEvent(event.EventEvaporationSpike, &event.EvaporationSpikePayload{Rate: rate})
}

// SendSystemCommand enables or disables a pass by name
func (s *Simulation) SendSystemCommand(name string, enabled bool) {
	s.world.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{SystemName: name, Enabled: enabled})
}

// Canonicalize runs the serialize guard and commits its restorations
func (s *Simulation) Canonicalize() int {
	var n int
	s.world.RunSafe(func() {
		n = s.canonicalize()
	})
	return n
}

func (s *Simulation) canonicalize() int {
	n := s.systems.Guard.Canonicalize()
	s.world.Commands.Playback()
	return n
}

// Snapshot canonicalizes the world and captures it
func (s *Simulation) Snapshot() persist.Snapshot {
	var snap persist.Snapshot
	s.world.RunSafe(func() {
		s.canonicalize()
		snap = persist.FromWorld(s.world, s.session, s.world.Resource.Time.Frame)
	})
	return snap
}

// Save writes a canonical snapshot to w
func (s *Simulation) Save(w io.Writer) error {
	snap := s.Snapshot()
	if err := persist.Encode(w, snap); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Printf("simulation: saved %d records at frame %d", len(snap.Records), snap.Frame)
	return nil
}

// SaveBytes returns a canonical snapshot encoding
func (s *Simulation) SaveBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load replaces the world with a snapshot read from r
func (s *Simulation) Load(r io.Reader) error {
	snap, err := persist.Decode(r)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.Restore(snap)
	return nil
}

// Restore replaces the world with snap and re-arms classification
func (s *Simulation) Restore(snap persist.Snapshot) {
	s.world.RunSafe(func() {
		snap.Restore(s.world)
	})
	s.scheduler.SetFrame(snap.Frame)
	if snap.Session != uuid.Nil {
		s.session = snap.Session
	}
	s.LoadComplete()
	log.Printf("simulation: restored %d records at frame %d", len(snap.Records), snap.Frame)
}

// Sources returns a copy of every record ordered by entity
func (s *Simulation) Sources() []SourceView {
	var views []SourceView
	s.world.RunSafe(func() {
		c := &s.world.Components
		entities := s.world.Query().With(c.Source).Execute()
		views = make([]SourceView, 0, len(entities))
		for _, e := range entities {
			v := SourceView{Entity: e, Behavior: c.BehaviorOf(e), Reference: c.TideReference.Has(e)}
			v.Source, _ = c.Source.Get(e)
			v.Position, _ = c.Position.Get(e)
			views = append(views, v)
		}
	})
	return views
}

// Source returns one record
func (s *Simulation) Source(e core.Entity) (component.WaterSourceComponent, bool) {
	var src component.WaterSourceComponent
	var ok bool
	s.world.RunSafe(func() {
		src, ok = s.world.Components.Source.Get(e)
	})
	return src, ok
}

// Status returns every metric formatted as text
func (s *Simulation) Status() []status.Entry {
	return s.world.Resource.Status.Snapshot()
}

// Registry exposes the metric registry
func (s *Simulation) Registry() *status.Registry {
	return s.world.Resource.Status
}

// Start runs the wall-clock loop
func (s *Simulation) Start() { s.scheduler.Start() }

// Stop halts the wall-clock loop
func (s *Simulation) Stop() { s.scheduler.Stop() }

// Pause suspends the wall-clock loop
func (s *Simulation) Pause() { s.scheduler.Pause() }

// Resume continues a paused loop
func (s *Simulation) Resume() { s.scheduler.Resume() }

// IsPaused reports the loop pause state
func (s *Simulation) IsPaused() bool { return s.scheduler.IsPaused() }

// SaveTo writes a canonical snapshot through the file manager
func (s *Simulation) SaveTo(m *persist.Manager, name string) error {
	snap := s.Snapshot()
	if err := m.Save(name, snap); err != nil {
		return err
	}
	log.Printf("simulation: saved %d records to %s", len(snap.Records), m.FilePath(name))
	return nil
}

// LoadFrom restores a snapshot through the file manager
func (s *Simulation) LoadFrom(m *persist.Manager, name string) error {
	snap, err := m.Load(name)
	if err != nil {
		return err
	}
	s.Restore(snap)
	return nil
}
