package engine

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
)

func TestParallelFor_CoversEveryIndex(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 1000} {
		hits := make([]int32, n)
		err := ParallelFor(n, 4, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestParallelFor_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := ParallelFor(1000, 4, func(lo, hi int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestSnapshotHeights(t *testing.T) {
	w, oracle, _ := NewTestWorld()
	oracle.Terrain, oracle.Water = 1, 2

	special := component.PositionComponent{X: 5}
	oracle.SetAt(special, 7, 9)

	w.Components.Position.Set(1, component.PositionComponent{})
	w.Components.Position.Set(2, special)

	got := SnapshotHeights(oracle, w.Components.Position, []core.Entity{1, 2})
	if got[0] != (HeightSample{Terrain: 1, Water: 2}) || got[1] != (HeightSample{Terrain: 7, Water: 9}) {
		t.Errorf("Unexpected samples %+v", got)
	}
}
