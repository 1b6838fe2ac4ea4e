package engine

import (
	"github.com/lixenwraith/hydrosim/component"
)

// HeightOracle is the host's terrain and water-surface height service
// Reads are pure and frame-stable once Ready reports true for the tick
type HeightOracle interface {
	// Ready is the per-tick dependency token; passes needing heights skip the tick when false
	Ready() bool
	SampleTerrainHeight(pos component.PositionComponent) float32
	SampleWaterSurfaceHeight(pos component.PositionComponent) float32
}

// SeasonID identifies a climate season
type SeasonID string

// Season is one entry of the climate's season table
// Start is the normalized date [0,1) the season begins at
type Season struct {
	ID    SeasonID
	Start float32
}

// ClimateState is the per-tick read of the host climate
type ClimateState struct {
	Season              SeasonID
	NormalizedDate      float32 // [0,1) through the year
	NormalizedTime      float32 // [0,1) through the day
	Precipitation       float32 // [0,1]
	IsSnowing           bool
	Temperature         float32
	FreezingTemperature float32
}

// TemperatureDifferential returns degrees above freezing
func (c ClimateState) TemperatureDifferential() float32 {
	return c.Temperature - c.FreezingTemperature
}

// IsRaining reports any precipitation, regardless of phase
func (c ClimateState) IsRaining() bool {
	return c.Precipitation > 0
}

// ClimateProvider is the versioned climate surface
// It replaces direct access to host climate internals; only these fields are relied upon
type ClimateProvider interface {
	Current() ClimateState
	Seasons() []Season
	// MeanPrecipitationAt samples the climate curve, used once per season transition
	MeanPrecipitationAt(normalizedDate float32) float32
}

// WaterKnobs are the host's global water parameters
type WaterKnobs interface {
	Evaporation() float32
	SetEvaporation(rate float32)
	Damping() float32
	SetDamping(damping float32)
}

// Calibrator searches the solver multiplier for a newly placed source
// Returns component.UncalibratedMultiplier when no usable value exists at this radius
type Calibrator interface {
	CalibrateMultiplier(pos component.PositionComponent, radius float32, mode component.DepthMode) float32
}

// Host bundles every external collaborator the engine consumes
type Host struct {
	Oracle     HeightOracle
	Climate    ClimateProvider
	Knobs      WaterKnobs
	Calibrator Calibrator
}

// SeasonMidpoint returns the normalized date halfway through the season at index i
// Seasons wrap around the year
func SeasonMidpoint(seasons []Season, i int) float32 {
	if len(seasons) == 0 || i < 0 || i >= len(seasons) {
		return 0
	}
	start := seasons[i].Start
	end := float32(1) + seasons[0].Start
	if i+1 < len(seasons) {
		end = seasons[i+1].Start
	}
	mid := start + (end-start)/2
	if mid >= 1 {
		mid -= 1
	}
	return mid
}
