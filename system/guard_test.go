package system

import (
	"reflect"
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
)

// populated builds a world where every behavior has drifted from its anchor
func populated(t *testing.T) (*harness, map[string]core.Entity) {
	h := newHarness(t, settingsAllOn())
	h.oracle.Terrain, h.oracle.Water = 1, 2
	h.climate.Set(engine.ClimateState{Season: "spring", Precipitation: 0.2, Temperature: 8, NormalizedTime: 0.1})
	h.climate.Means["spring"] = 0.3
	h.climate.Means["summer"] = 0.6

	ids := map[string]core.Entity{
		"seasonal": h.spawn(component.PositionComponent{X: 1}, component.WaterSourceComponent{Amount: 5, Multiplier: 0.5},
			component.SeasonalStreamComponent{OriginalAmount: 5}),
		"tides": h.spawn(component.PositionComponent{X: 2}, component.WaterSourceComponent{Amount: 30, DepthMode: component.DepthSea, Radius: 9},
			component.TidesAndWavesComponent{OriginalAmount: 30}),
		"detention": h.spawn(component.PositionComponent{X: 3}, component.WaterSourceComponent{Multiplier: 0.5},
			component.DetentionBasinComponent{MaxHeight: 10}),
		"retention": h.spawn(component.PositionComponent{X: 4}, component.WaterSourceComponent{Multiplier: 0.5},
			component.RetentionBasinComponent{MaxHeight: 10, MinHeight: 4}),
		"autofill": h.spawn(component.PositionComponent{X: 5}, component.WaterSourceComponent{Multiplier: 0.5},
			component.AutofillingLakeComponent{MaxHeight: 10}),
	}
	for i := 0; i < 3; i++ {
		h.tick()
	}

	if h.source(ids["seasonal"]).Amount == 5 || h.source(ids["tides"]).Amount == 30 {
		t.Fatal("fixture did not drift; guard test would be vacuous")
	}
	return h, ids
}

func (h *harness) canonicalize() {
	h.w.RunSafe(func() {
		h.set.Guard.Canonicalize()
		h.w.Commands.Playback()
	})
}

type worldState struct {
	Sources   map[core.Entity]component.WaterSourceComponent
	Seasonal  map[core.Entity]component.SeasonalStreamComponent
	Tides     map[core.Entity]component.TidesAndWavesComponent
	Reference int
}

func capture(w *engine.World) worldState {
	s := worldState{
		Sources:  make(map[core.Entity]component.WaterSourceComponent),
		Seasonal: make(map[core.Entity]component.SeasonalStreamComponent),
		Tides:    make(map[core.Entity]component.TidesAndWavesComponent),
	}
	for _, e := range w.Components.Source.All() {
		s.Sources[e], _ = w.Components.Source.Get(e)
	}
	for _, e := range w.Components.Seasonal.All() {
		s.Seasonal[e], _ = w.Components.Seasonal.Get(e)
	}
	for _, e := range w.Components.Tides.All() {
		s.Tides[e], _ = w.Components.Tides.Get(e)
	}
	s.Reference = w.Components.TideReference.Count()
	return s
}

func TestGuard_RoundTripLaw(t *testing.T) {
	h, ids := populated(t)
	h.canonicalize()

	if got := h.source(ids["seasonal"]).Amount; got != 5 {
		t.Errorf("seasonal Amount = %v, want exactly 5", got)
	}
	if got := h.source(ids["tides"]).Amount; got != 30 {
		t.Errorf("tides Amount = %v, want exactly 30", got)
	}
	if h.w.Components.TideReference.Count() != 0 {
		t.Error("reference must be destroyed before save")
	}
}

func TestGuard_DepthModeLaw(t *testing.T) {
	h, ids := populated(t)
	h.canonicalize()

	for _, name := range []string{"detention", "retention", "autofill"} {
		if mode := h.source(ids[name]).DepthMode; mode != component.DepthLake {
			t.Errorf("%s DepthMode = %s, want Lake", name, mode)
		}
	}
}

func TestGuard_Idempotent(t *testing.T) {
	h, _ := populated(t)

	h.canonicalize()
	once := capture(h.w)
	h.canonicalize()
	twice := capture(h.w)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second run changed state:\n once=%+v\ntwice=%+v", once, twice)
	}
}

func TestGuard_SimulationResumes(t *testing.T) {
	h, ids := populated(t)
	h.canonicalize()
	h.tick()

	if h.source(ids["detention"]).DepthMode != component.DepthCreek {
		t.Error("basin must return to creek mode after the save")
	}
	if len(h.references()) != 1 {
		t.Error("reference must be recreated lazily after the save")
	}
}
