package system

import (
	"math"
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
)

func (h *harness) references() []core.Entity {
	return h.w.Query().With(h.w.Components.TideReference).Execute()
}

func TestTides_WavesOnlyQuarterDay(t *testing.T) {
	h := newHarness(t, settingsAllOn())
	h.climate.Set(engine.ClimateState{Season: "spring", NormalizedTime: 0.25})

	high := h.spawn(component.PositionComponent{X: 1}, component.WaterSourceComponent{Amount: 25, DepthMode: component.DepthSea, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 25})
	low := h.spawn(component.PositionComponent{X: 2}, component.WaterSourceComponent{Amount: 18, DepthMode: component.DepthSea, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 18})

	h.tick()

	offset := float32(2*math.Sin(2*math.Pi*130*0.25) + 2)
	if got := h.source(high).Amount; math.Abs(float64(got-(25-offset))) > 1e-3 {
		t.Errorf("Amount = %v, want %v", got, 25-offset)
	}
	if got := h.source(low).Amount; math.Abs(float64(got-(18-offset))) > 1e-3 {
		t.Errorf("Amount = %v, want %v", got, 18-offset)
	}

	refs := h.references()
	if len(refs) != 1 {
		t.Fatalf("Expected one reference, got %d", len(refs))
	}
	ref := h.source(refs[0])
	if ref.Amount != 14 || ref.DepthMode != component.DepthSea || ref.Radius != 0 {
		t.Errorf("reference = %+v, want Sea at 18-4 with radius 0", ref)
	}
	if h.w.Components.Tides.Has(refs[0]) {
		t.Error("reference must not be tidal itself")
	}
}

func TestTides_ReferenceResetOnHeightChange(t *testing.T) {
	cfg := settingsAllOn()
	h := newHarness(t, cfg)
	h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 25, DepthMode: component.DepthSea, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 25})

	h.tick()
	h.tick()
	if n := len(h.references()); n != 1 {
		t.Fatalf("Expected a stable single reference, got %d", n)
	}

	cfg.TideHeight = 2
	h.w.Resource.Settings.Set(cfg)
	h.tick()
	if n := len(h.references()); n != 0 {
		t.Fatalf("Stale reference must be destroyed, got %d", n)
	}

	h.tick()
	refs := h.references()
	if len(refs) != 1 {
		t.Fatalf("Reference must be recreated next tick, got %d", len(refs))
	}
	if got := h.source(refs[0]).Amount; got != 19 {
		t.Errorf("reference Amount = %v, want 25-6", got)
	}
}

func TestTides_GatedOff(t *testing.T) {
	cfg := settingsAllOn()
	cfg.WaveHeight, cfg.TideHeight = 0, 0
	h := newHarness(t, cfg)

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 25, DepthMode: component.DepthSea, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 25})
	h.tick()

	if h.source(e).Amount != 25 || len(h.references()) != 0 {
		t.Error("zero amplitude must be a no-op")
	}
	if h.metric("tides.skipped") == 0 {
		t.Error("skip not counted")
	}
}

func TestTides_SkipsDryAndNonSea(t *testing.T) {
	h := newHarness(t, settingsAllOn())
	h.climate.Set(engine.ClimateState{Season: "spring", NormalizedTime: 0.1})

	dry := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 0, DepthMode: component.DepthSea, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 25})
	lake := h.spawn(component.PositionComponent{X: 1}, component.WaterSourceComponent{Amount: 9, DepthMode: component.DepthLake, Radius: 5},
		component.TidesAndWavesComponent{OriginalAmount: 9})
	h.tick()

	if h.source(dry).Amount != 0 || h.source(lake).Amount != 9 {
		t.Error("only positive sea records oscillate")
	}
}
