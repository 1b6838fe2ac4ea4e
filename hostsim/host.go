package hostsim

import (
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/engine"
)

// Config sizes the synthetic world
type Config struct {
	Seed        uint64
	Width       int
	Depth       int
	Cell        float32
	DaysPerYear int64
	MinRadius   float32
	Evaporation float32
	Damping     float32
}

// DefaultConfig returns a small map suitable for the demo and tests
func DefaultConfig(seed uint64) Config {
	return Config{
		Seed:        seed,
		Width:       64,
		Depth:       64,
		Cell:        4,
		DaysPerYear: 16,
		MinRadius:   6,
		Evaporation: 0.0001,
		Damping:     0.995,
	}
}

// Host is the synthetic host bundle
// It implements engine.HeightOracle directly
type Host struct {
	Terrain    *Terrain
	Water      *Water
	Climate    *Climate
	Knobs      *Knobs
	Calibrator *Calibrator

	ready atomic.Bool
	frame atomic.Int64
}

// New builds a host from cfg; the oracle is ready immediately
func New(cfg Config) *Host {
	terrain := NewTerrain(cfg.Width, cfg.Depth, cfg.Cell, cfg.Seed)
	h := &Host{
		Terrain:    terrain,
		Water:      NewWater(terrain),
		Climate:    NewClimate(cfg.Seed, cfg.DaysPerYear),
		Knobs:      NewKnobs(cfg.Evaporation, cfg.Damping),
		Calibrator: NewCalibrator(terrain, cfg.MinRadius, cfg.Seed),
	}
	h.ready.Store(true)
	return h
}

// Engine returns the collaborator bundle consumed by the engine
func (h *Host) Engine() engine.Host {
	return engine.Host{
		Oracle:     h,
		Climate:    h.Climate,
		Knobs:      h.Knobs,
		Calibrator: h.Calibrator,
	}
}

// SetReady toggles oracle readiness, as during a host map load
func (h *Host) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Host) Ready() bool {
	return h.ready.Load()
}

func (h *Host) SampleTerrainHeight(pos component.PositionComponent) float32 {
	return h.Terrain.HeightAt(pos)
}

func (h *Host) SampleWaterSurfaceHeight(pos component.PositionComponent) float32 {
	return h.Water.SurfaceAt(pos)
}

// Frame returns the host timeline frame
func (h *Host) Frame() int64 {
	return h.frame.Load()
}

// Advance moves the host clock and integrates water with the current knobs
// Call before the engine tick for the same frame
func (h *Host) Advance(frames int64, emitters []Emitter) {
	frame := h.frame.Add(frames)
	h.Climate.SetFrame(frame)
	h.Water.Step(emitters, h.Knobs.Evaporation(), h.Knobs.Damping())
}

// SyncFrame sets the host clock without integrating, used after a snapshot load
func (h *Host) SyncFrame(frame int64) {
	h.frame.Store(frame)
	h.Climate.SetFrame(frame)
}
