// Package hostsim is a self-contained synthetic host: terrain, a toy water integrator, climate, knobs and calibrator
// It drives the engine in the headless runner, the monitor and integration tests
package hostsim

import (
	"math"
	"math/rand/v2"

	"github.com/lixenwraith/hydrosim/component"
)

// Terrain is a bilinear height field over the X/Z plane, Y is up
type Terrain struct {
	width, depth int
	cell         float32
	heights      []float32
}

// Lattice spacing of the value noise, in cells
const noiseSpacing = 8

// NewTerrain generates a deterministic height field
// The surface slopes down toward X=0 so the low edge reads as a coast
func NewTerrain(width, depth int, cell float32, seed uint64) *Terrain {
	if width < 2 {
		width = 2
	}
	if depth < 2 {
		depth = 2
	}
	if cell <= 0 {
		cell = 1
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lw, ld := width/noiseSpacing+2, depth/noiseSpacing+2
	lattice := make([]float32, lw*ld)
	for i := range lattice {
		lattice[i] = rng.Float32()
	}

	t := &Terrain{width: width, depth: depth, cell: cell, heights: make([]float32, width*depth)}
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			n := bilinear(lattice, lw, float32(x)/noiseSpacing, float32(z)/noiseSpacing)
			slope := float32(x) / float32(width-1)
			t.heights[z*width+x] = 20 + 60*slope + 25*n
		}
	}
	return t
}

// NewFlatTerrain returns a terrain of constant height
func NewFlatTerrain(width, depth int, cell, height float32) *Terrain {
	t := &Terrain{width: width, depth: depth, cell: cell, heights: make([]float32, width*depth)}
	for i := range t.heights {
		t.heights[i] = height
	}
	return t
}

// Size returns the world extent along X and Z
func (t *Terrain) Size() (float32, float32) {
	return float32(t.width-1) * t.cell, float32(t.depth-1) * t.cell
}

// HeightAt samples the terrain at a world position
func (t *Terrain) HeightAt(pos component.PositionComponent) float32 {
	return bilinear(t.heights, t.width, clampf(pos.X/t.cell, 0, float32(t.width-1)), clampf(pos.Z/t.cell, 0, float32(t.depth-1)))
}

// cellOf maps a world position to the nearest grid cell
func (t *Terrain) cellOf(pos component.PositionComponent) (int, int) {
	x := int(math.Round(float64(clampf(pos.X/t.cell, 0, float32(t.width-1)))))
	z := int(math.Round(float64(clampf(pos.Z/t.cell, 0, float32(t.depth-1)))))
	return x, z
}

func bilinear(grid []float32, stride int, fx, fz float32) float32 {
	rows := len(grid) / stride
	x0, z0 := int(fx), int(fz)
	x1, z1 := min(x0+1, stride-1), min(z0+1, rows-1)
	tx, tz := fx-float32(x0), fz-float32(z0)

	a := grid[z0*stride+x0]*(1-tx) + grid[z0*stride+x1]*tx
	b := grid[z1*stride+x0]*(1-tx) + grid[z1*stride+x1]*tx
	return a*(1-tz) + b*tz
}

func clampf(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
