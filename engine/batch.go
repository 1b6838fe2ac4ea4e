package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/parameter"
)

// HeightSample is one record's oracle reads for the current pass
type HeightSample struct {
	Terrain float32
	Water   float32
}

// SnapshotHeights samples terrain and water heights for every entity before any computation
// Entities without a position sample the origin
func SnapshotHeights(oracle HeightOracle, positions *Store[component.PositionComponent], entities []core.Entity) []HeightSample {
	samples := make([]HeightSample, len(entities))
	for i, e := range entities {
		pos, _ := positions.Get(e)
		samples[i] = HeightSample{
			Terrain: oracle.SampleTerrainHeight(pos),
			Water:   oracle.SampleWaterSurfaceHeight(pos),
		}
	}
	return samples
}

// ParallelFor splits [0,n) into chunks and runs fn on up to workers goroutines
// fn must only write to its own index range; the first error is returned after all chunks finish
func ParallelFor(n, workers int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers
	if chunk < parameter.BatchChunkSize {
		chunk = parameter.BatchChunkSize
	}
	if chunk >= n {
		return fn(0, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
