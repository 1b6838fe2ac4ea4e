package hostsim

import (
	"sync"

	"github.com/lixenwraith/hydrosim/component"
)

// Emitter is one source as seen by the water integrator
type Emitter struct {
	Position component.PositionComponent
	Source   component.WaterSourceComponent
}

// Water is a toy depth field over the terrain grid
// Creek and river sources add depth, lake and sea sources hold an absolute surface, evaporation drains
type Water struct {
	mu      sync.RWMutex
	terrain *Terrain
	depth   []float32
	scratch []float32
}

// Flow scale from source amount to depth per step
const flowScale = 0.05

// NewWater creates a dry field over terrain
func NewWater(terrain *Terrain) *Water {
	n := terrain.width * terrain.depth
	return &Water{terrain: terrain, depth: make([]float32, n), scratch: make([]float32, n)}
}

// SurfaceAt returns terrain height plus water depth
func (w *Water) SurfaceAt(pos component.PositionComponent) float32 {
	x, z := w.terrain.cellOf(pos)
	w.mu.RLock()
	d := w.depth[z*w.terrain.width+x]
	w.mu.RUnlock()
	return w.terrain.HeightAt(pos) + d
}

// DepthAt returns the water depth at a world position
func (w *Water) DepthAt(pos component.PositionComponent) float32 {
	x, z := w.terrain.cellOf(pos)
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.depth[z*w.terrain.width+x]
}

// TotalVolume returns the summed depth over all cells
func (w *Water) TotalVolume() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var sum float32
	for _, d := range w.depth {
		sum += d
	}
	return sum
}

// Step integrates sources, spreads water between neighbors and applies evaporation
// damping in [0,1] slows the spread
func (w *Water) Step(emitters []Emitter, evaporation, damping float32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.terrain
	for _, em := range emitters {
		src := em.Source
		if src.Amount <= 0 && (src.DepthMode == component.DepthCreek || src.DepthMode == component.DepthRiver) {
			continue
		}
		w.each(em.Position, src.Radius, func(i int, ground float32) {
			switch src.DepthMode {
			case component.DepthCreek, component.DepthRiver:
				w.depth[i] += src.Amount * src.Multiplier * flowScale
			case component.DepthLake:
				if src.Amount > ground+w.depth[i] {
					w.depth[i] = src.Amount - ground
				}
			case component.DepthSea:
				if src.Amount > w.depth[i] {
					w.depth[i] = src.Amount
				}
			}
		})
	}

	// Spread toward the lower neighbor surface
	rate := (1 - clampf(damping, 0, 1)) * 0.5
	copy(w.scratch, w.depth)
	for z := 0; z < t.depth; z++ {
		for x := 0; x < t.width; x++ {
			i := z*t.width + x
			if w.depth[i] <= 0 {
				continue
			}
			surface := t.heights[i] + w.depth[i]
			for _, n := range [4][2]int{{x - 1, z}, {x + 1, z}, {x, z - 1}, {x, z + 1}} {
				if n[0] < 0 || n[1] < 0 || n[0] >= t.width || n[1] >= t.depth {
					continue
				}
				j := n[1]*t.width + n[0]
				diff := surface - (t.heights[j] + w.depth[j])
				if diff <= 0 {
					continue
				}
				move := min(diff*rate*0.25, w.scratch[i])
				w.scratch[i] -= move
				w.scratch[j] += move
			}
		}
	}

	for i := range w.scratch {
		w.depth[i] = max(0, w.scratch[i]-evaporation)
	}
}

// each visits every cell within radius of pos, at least the center cell
func (w *Water) each(pos component.PositionComponent, radius float32, fn func(i int, ground float32)) {
	t := w.terrain
	cx, cz := t.cellOf(pos)
	r := int(radius / t.cell)
	for z := max(0, cz-r); z <= min(t.depth-1, cz+r); z++ {
		for x := max(0, cx-r); x <= min(t.width-1, cx+r); x++ {
			if dx, dz := x-cx, z-cz; dx*dx+dz*dz > r*r {
				continue
			}
			i := z*t.width + x
			fn(i, t.heights[i])
		}
	}
}
