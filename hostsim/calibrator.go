package hostsim

import (
	"math"

	"github.com/lixenwraith/hydrosim/component"
)

// Calibrator finds solver multipliers once the radius covers enough terrain
type Calibrator struct {
	terrain   *Terrain
	minRadius float32
	seed      uint64
}

// NewCalibrator creates a calibrator that fails for radii below minRadius
func NewCalibrator(terrain *Terrain, minRadius float32, seed uint64) *Calibrator {
	return &Calibrator{terrain: terrain, minRadius: minRadius, seed: seed}
}

// MinRadius returns the smallest radius that calibrates
func (c *Calibrator) MinRadius() float32 {
	return c.minRadius
}

// CalibrateMultiplier returns a deterministic multiplier in [0.05, 0.95]
// or component.UncalibratedMultiplier when the radius is too small
func (c *Calibrator) CalibrateMultiplier(pos component.PositionComponent, radius float32, mode component.DepthMode) float32 {
	if radius < c.minRadius {
		return component.UncalibratedMultiplier
	}
	x, z := c.terrain.cellOf(pos)
	key := uint64(z)<<32 | uint64(x)
	key ^= uint64(mode) << 60
	key ^= uint64(math.Float32bits(radius))
	return 0.05 + 0.9*unitHash(c.seed, key)
}
