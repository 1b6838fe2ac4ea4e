package system

import (
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
)

// record is one matched source with its pass-local inputs
type record struct {
	entity  core.Entity
	source  component.WaterSourceComponent
	heights engine.HeightSample
}

// gather snapshots source records and, when sample is set, oracle heights for every entity
// Runs before any computation so workers never observe a moving height field
func gather(w *engine.World, entities []core.Entity, sample bool) []record {
	recs := make([]record, len(entities))
	var heights []engine.HeightSample
	if sample {
		heights = engine.SnapshotHeights(w.Resource.Host.Oracle, w.Components.Position, entities)
	}
	for i, e := range entities {
		src, _ := w.Components.Source.Get(e)
		recs[i] = record{entity: e, source: src}
		if sample {
			recs[i].heights = heights[i]
		}
	}
	return recs
}
