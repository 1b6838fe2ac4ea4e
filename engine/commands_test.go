package engine

import (
	"sync"
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
)

func TestCommandBuffer_DeferredUntilPlayback(t *testing.T) {
	w, _, _ := NewTestWorld()

	e := w.Commands.Spawn(component.PositionComponent{X: 1}, component.WaterSourceComponent{Amount: 3}, nil)
	if w.Exists(e) {
		t.Fatal("Spawn must not be visible before playback")
	}
	if w.Commands.Len() != 1 {
		t.Fatalf("Expected 1 pending command, got %d", w.Commands.Len())
	}

	res := w.Commands.Playback()
	if res.Applied != 1 || res.Rejected != 0 {
		t.Errorf("Unexpected result %+v", res)
	}
	src, ok := w.Components.Source.Get(e)
	if !ok || src.Amount != 3 {
		t.Errorf("Expected committed source, got %+v ok=%v", src, ok)
	}
	if w.Commands.Len() != 0 {
		t.Error("Playback must drain the buffer")
	}
}

func TestCommandBuffer_FIFO(t *testing.T) {
	w, _, _ := NewTestWorld()
	e := w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1}, nil)
	w.Commands.SetSource(e, component.WaterSourceComponent{Amount: 2})
	w.Commands.SetSource(e, component.WaterSourceComponent{Amount: 5})
	w.Commands.Playback()

	src, _ := w.Components.Source.Get(e)
	if src.Amount != 5 {
		t.Errorf("Last write must win, got %v", src.Amount)
	}
}

func TestCommandBuffer_OneBehaviorInvariant(t *testing.T) {
	w, _, _ := NewTestWorld()
	e := w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1},
		component.SeasonalStreamComponent{OriginalAmount: 1})
	w.Commands.Playback()

	w.Commands.Attach(e, component.DetentionBasinComponent{MaxHeight: 10})
	res := w.Commands.Playback()

	if res.Rejected != 1 {
		t.Errorf("Expected second behavior rejected, got %+v", res)
	}
	if w.Components.Detention.Has(e) {
		t.Error("Detention must not be attached next to SeasonalStream")
	}
	if w.Commands.Rejected() != 1 {
		t.Errorf("Expected rejected counter 1, got %d", w.Commands.Rejected())
	}
}

func TestCommandBuffer_OriginalAmountWriteOnce(t *testing.T) {
	w, _, _ := NewTestWorld()
	e := w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 4},
		component.TidesAndWavesComponent{OriginalAmount: 4})
	w.Commands.Playback()

	w.Commands.Attach(e, component.TidesAndWavesComponent{OriginalAmount: 99})
	w.Commands.Playback()

	tw, _ := w.Components.Tides.Get(e)
	if tw.OriginalAmount != 4 {
		t.Errorf("OriginalAmount overwritten: %v", tw.OriginalAmount)
	}
}

func TestCommandBuffer_RetiredAutofillRejected(t *testing.T) {
	w, _, _ := NewTestWorld()
	e := w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{}, nil)
	w.Commands.Playback()

	w.Retire(e)
	w.Commands.Attach(e, component.AutofillingLakeComponent{MaxHeight: 3})
	if res := w.Commands.Playback(); res.Rejected != 1 {
		t.Errorf("Expected retired autofill rejected, got %+v", res)
	}
	if w.Components.Autofill.Has(e) {
		t.Error("Retired record received an autofilling lake")
	}
}

func TestCommandBuffer_DetachAndDestroy(t *testing.T) {
	w, _, _ := NewTestWorld()
	e := w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{},
		component.RetentionBasinComponent{MaxHeight: 8, MinHeight: 2})
	w.Commands.Playback()

	w.Commands.Detach(e, component.BehaviorRetentionBasin)
	w.Commands.Detach(e, component.BehaviorRetentionBasin)
	res := w.Commands.Playback()
	if res.Applied != 1 || res.Rejected != 1 {
		t.Errorf("Expected one detach applied, one rejected, got %+v", res)
	}

	w.Commands.Destroy(e)
	w.Commands.Playback()
	if w.Exists(e) {
		t.Error("Destroy did not remove the record")
	}

	w.Commands.SetSource(e, component.WaterSourceComponent{Amount: 1})
	if res := w.Commands.Playback(); res.Rejected != 1 {
		t.Error("SetSource on a destroyed record must be rejected")
	}
}

func TestCommandBuffer_ConcurrentProducers(t *testing.T) {
	w, _, _ := NewTestWorld()

	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	ids := make([][]core.Entity, producers)
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ids[p] = append(ids[p], w.Commands.Spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1}, nil))
			}
		}(p)
	}
	wg.Wait()

	res := w.Commands.Playback()
	if res.Applied != producers*perProducer {
		t.Fatalf("Expected %d applied, got %+v", producers*perProducer, res)
	}

	seen := make(map[core.Entity]bool)
	for _, list := range ids {
		for _, e := range list {
			if seen[e] {
				t.Fatalf("Duplicate entity id %d", e)
			}
			seen[e] = true
		}
	}
	if w.Components.Source.Count() != producers*perProducer {
		t.Errorf("Expected %d sources, got %d", producers*perProducer, w.Components.Source.Count())
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(component.TideReferenceComponent{}) != component.BehaviorNone {
		t.Error("TideReference must map to BehaviorNone")
	}
	if KindOf(component.RetentionBasinComponent{}) != component.BehaviorRetentionBasin {
		t.Error("Retention kind mismatch")
	}
	if KindOf(nil) != component.BehaviorNone {
		t.Error("nil must map to BehaviorNone")
	}
}
