package system

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
)

// NameGuard is the registry name of the serialize guard
const NameGuard = "serialize_guard"

// SerializeGuardSystem restores host-reproducible values before a save
// It is never scheduled; the caller runs it and plays back the command buffer before encoding
type SerializeGuardSystem struct {
	engine.SystemBase

	statRuns *atomic.Int64
}

// NewSerializeGuardSystem creates the guard
func NewSerializeGuardSystem(world *engine.World) *SerializeGuardSystem {
	return &SerializeGuardSystem{
		SystemBase: engine.NewSystemBase(world),
		statRuns:   world.Resource.Status.Ints.Get("guard.runs"),
	}
}

func (s *SerializeGuardSystem) Name() string { return NameGuard }

// Canonicalize enqueues the restoration of every simulated record
// Returns the number of records touched
func (s *SerializeGuardSystem) Canonicalize() int {
	n := restoreAnchored(s.World, s.Component.Seasonal, func(e core.Entity) (float32, bool) {
		st, ok := s.Component.Seasonal.Get(e)
		return st.OriginalAmount, ok
	}, false)
	n += restoreAnchored(s.World, s.Component.Tides, func(e core.Entity) (float32, bool) {
		tw, ok := s.Component.Tides.Get(e)
		return tw.OriginalAmount, ok
	}, false)
	n += restoreLakes(s.World)
	n += destroyReferences(s.World)

	s.statRuns.Add(1)
	log.Printf("guard: canonicalized %d records", n)
	return n
}

// restoreAnchored sets Amount back to the anchor; detach also removes the behavior
func restoreAnchored(w *engine.World, store engine.QueryableStore, anchor func(core.Entity) (float32, bool), detach bool) int {
	entities := w.Query().With(w.Components.Source).With(store).Execute()
	for _, e := range entities {
		original, ok := anchor(e)
		src, exists := w.Components.Source.Get(e)
		if !ok || !exists {
			continue
		}
		if src.Amount != original {
			src.Amount = original
			w.Commands.SetSource(e, src)
		}
		if detach {
			w.Commands.Detach(e, w.Components.BehaviorOf(e))
		}
	}
	return len(entities)
}

// restoreLakes forces absolute-depth mode on every lake-like behavior
func restoreLakes(w *engine.World) int {
	c := &w.Components
	n := 0
	for _, store := range []engine.QueryableStore{c.Autofill, c.Detention, c.Retention} {
		for _, e := range w.Query().With(c.Source).With(store).Execute() {
			src, _ := c.Source.Get(e)
			if src.DepthMode != component.DepthLake {
				src.DepthMode = component.DepthLake
				w.Commands.SetSource(e, src)
			}
			n++
		}
	}
	return n
}

// destroyReferences removes every synthetic tide reference
func destroyReferences(w *engine.World) int {
	refs := w.Query().With(w.Components.TideReference).Execute()
	for _, e := range refs {
		w.Commands.Destroy(e)
	}
	return len(refs)
}
