package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
)

// FakeOracle is a controllable height oracle for tests
// Heights come from per-position overrides or fall back to the defaults
type FakeOracle struct {
	mu       sync.RWMutex
	NotReady bool
	Terrain  float32
	Water    float32

	terrainAt map[component.PositionComponent]float32
	waterAt   map[component.PositionComponent]float32
	samples   int
}

func NewFakeOracle(terrain, water float32) *FakeOracle {
	return &FakeOracle{
		Terrain:   terrain,
		Water:     water,
		terrainAt: make(map[component.PositionComponent]float32),
		waterAt:   make(map[component.PositionComponent]float32),
	}
}

// SetAt overrides both heights at one position
func (o *FakeOracle) SetAt(pos component.PositionComponent, terrain, water float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.terrainAt[pos] = terrain
	o.waterAt[pos] = water
}

// SetWater sets the default water height
func (o *FakeOracle) SetWater(water float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Water = water
}

// Samples returns how many height reads were made
func (o *FakeOracle) Samples() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.samples
}

func (o *FakeOracle) Ready() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return !o.NotReady
}

func (o *FakeOracle) SampleTerrainHeight(pos component.PositionComponent) float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples++
	if h, ok := o.terrainAt[pos]; ok {
		return h
	}
	return o.Terrain
}

func (o *FakeOracle) SampleWaterSurfaceHeight(pos component.PositionComponent) float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples++
	if h, ok := o.waterAt[pos]; ok {
		return h
	}
	return o.Water
}

// FakeClimate returns a fixed state and a per-season mean precipitation table
type FakeClimate struct {
	mu      sync.RWMutex
	State   ClimateState
	Table   []Season
	Means   map[SeasonID]float32
	reads   int
	samples int
}

// NewFakeClimate creates a four-season climate in the given state
func NewFakeClimate(state ClimateState) *FakeClimate {
	return &FakeClimate{
		State: state,
		Table: []Season{
			{ID: "spring", Start: 0},
			{ID: "summer", Start: 0.25},
			{ID: "autumn", Start: 0.5},
			{ID: "winter", Start: 0.75},
		},
		Means: make(map[SeasonID]float32),
	}
}

// Set replaces the current state
func (c *FakeClimate) Set(state ClimateState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State = state
}

// Reads returns how many times Current was called
func (c *FakeClimate) Reads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reads
}

// MeanSamples returns how many times MeanPrecipitationAt was called
func (c *FakeClimate) MeanSamples() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.samples
}

func (c *FakeClimate) Current() ClimateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.State
}

func (c *FakeClimate) Seasons() []Season {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Table
}

func (c *FakeClimate) MeanPrecipitationAt(date float32) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples++
	for i := len(c.Table) - 1; i >= 0; i-- {
		if date >= c.Table[i].Start {
			return c.Means[c.Table[i].ID]
		}
	}
	if len(c.Table) > 0 {
		return c.Means[c.Table[len(c.Table)-1].ID]
	}
	return 0
}

// FakeKnobs records evaporation and damping writes
type FakeKnobs struct {
	mu          sync.Mutex
	evaporation float32
	damping     float32
	Writes      int
}

func NewFakeKnobs(evaporation, damping float32) *FakeKnobs {
	return &FakeKnobs{evaporation: evaporation, damping: damping}
}

func (k *FakeKnobs) Evaporation() float32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.evaporation
}

func (k *FakeKnobs) SetEvaporation(rate float32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.evaporation = rate
	k.Writes++
}

func (k *FakeKnobs) Damping() float32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.damping
}

func (k *FakeKnobs) SetDamping(damping float32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.damping = damping
	k.Writes++
}

// FakeCalibrator succeeds once the radius reaches MinRadius
type FakeCalibrator struct {
	mu        sync.Mutex
	MinRadius float32
	Result    float32
	Calls     int
}

func (c *FakeCalibrator) CalibrateMultiplier(_ component.PositionComponent, radius float32, _ component.DepthMode) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if radius < c.MinRadius {
		return component.UncalibratedMultiplier
	}
	return c.Result
}

// NewTestHost bundles fresh fakes
func NewTestHost() (Host, *FakeOracle, *FakeClimate, *FakeKnobs, *FakeCalibrator) {
	oracle := NewFakeOracle(0, 0)
	climate := NewFakeClimate(ClimateState{Season: "spring", Temperature: 10})
	knobs := NewFakeKnobs(0, 0)
	cal := &FakeCalibrator{Result: 0.5}
	return Host{Oracle: oracle, Climate: climate, Knobs: knobs, Calibrator: cal}, oracle, climate, knobs, cal
}

// NewTestWorld creates a world over fake collaborators with default settings
func NewTestWorld() (*World, *FakeOracle, *FakeClimate) {
	host, oracle, climate, _, _ := NewTestHost()
	return NewWorld(host, config.Default()), oracle, climate
}

// ManualTime is a controllable wall clock for PausableClock tests
type ManualTime struct {
	mu      sync.RWMutex
	current time.Time
}

func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{current: start}
}

func (m *ManualTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
