package system

import (
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/engine"
)

func weightedSettings() config.Settings {
	s := config.Default()
	s.SeasonalityWeight = 0.75
	s.RainWeight = 0.75
	s.SpringWaterWeight = 0
	s.MinMultiplier = 0
	s.MaxMultiplier = 1
	s.SimulateSnowmelt = false
	return s
}

func TestSeasonalStream_DryHalfSeason(t *testing.T) {
	h := newHarness(t, weightedSettings())
	h.climate.Means["spring"] = 0.2
	h.climate.Means["autumn"] = 0.4
	h.climate.Set(engine.ClimateState{Season: "spring", Precipitation: 0, Temperature: 10})

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 8, Multiplier: 0.5},
		component.SeasonalStreamComponent{OriginalAmount: 8})

	h.tick()

	if got := h.source(e).Amount; !near(got, 3) {
		t.Errorf("Amount = %v, want 8*0.375", got)
	}
	st, _ := h.w.Components.Seasonal.Get(e)
	if st.OriginalAmount != 8 {
		t.Errorf("OriginalAmount changed to %v", st.OriginalAmount)
	}
}

func TestSeasonalStream_SnowBanksAndMelts(t *testing.T) {
	cfg := weightedSettings()
	cfg.SimulateSnowmelt = true
	h := newHarness(t, cfg)
	h.climate.Means["spring"] = 0.4

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 10, Multiplier: 0.5},
		component.SeasonalStreamComponent{OriginalAmount: 10})

	// Snowing: ratio 1 -> multiplier 0.75, snow banks 10*0.4*0.75 = 3
	h.climate.Set(engine.ClimateState{Season: "spring", Precipitation: 0.4, IsSnowing: true, Temperature: -5})
	h.tick()

	st, _ := h.w.Components.Seasonal.Get(e)
	if !near(st.SnowAccumulation, 3) {
		t.Fatalf("SnowAccumulation = %v, want 3", st.SnowAccumulation)
	}
	if got := h.source(e).Amount; !near(got, 7.5) {
		t.Errorf("Amount while snowing = %v, want 7.5", got)
	}

	// Thaw: multiplier 0.75, headroom 0.25, melt = min(2.5, 3, 3/30*10 = 1) = 1
	h.climate.Set(engine.ClimateState{Season: "spring", Temperature: 3})
	h.tick()

	st, _ = h.w.Components.Seasonal.Get(e)
	if !near(st.SnowAccumulation, 2) {
		t.Errorf("SnowAccumulation after melt = %v, want 2", st.SnowAccumulation)
	}
	if got := h.source(e).Amount; !near(got, 8.5) {
		t.Errorf("Amount with melt = %v, want 7.5+1", got)
	}
}

func TestSeasonalStream_SkipsWithoutOracle(t *testing.T) {
	h := newHarness(t, weightedSettings())
	h.oracle.NotReady = true

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 8, Multiplier: 0.5},
		component.SeasonalStreamComponent{OriginalAmount: 8})
	h.tick()

	if h.source(e).Amount != 8 {
		t.Error("pass must not run without oracle data")
	}
	if h.metric("seasonal.skipped") == 0 {
		t.Error("skip not counted")
	}
}

func TestSeasonalStream_ManyRecordsParallel(t *testing.T) {
	cfg := weightedSettings()
	cfg.Workers = 8
	h := newHarness(t, cfg)
	h.climate.Means["spring"] = 0.2
	h.climate.Means["autumn"] = 0.4

	entities := make([]uint64, 0, 500)
	for i := 0; i < 500; i++ {
		amount := float32(i%7 + 1)
		e := h.w.Commands.Spawn(component.PositionComponent{X: float32(i)}, component.WaterSourceComponent{Amount: amount, Multiplier: 0.5},
			component.SeasonalStreamComponent{OriginalAmount: amount})
		entities = append(entities, uint64(e))
	}
	h.w.Commands.Playback()
	h.tick()

	for i, id := range entities {
		src, _ := h.w.Components.Source.Get(engineEntity(id))
		want := float32(i%7+1) * 0.375
		if !near(src.Amount, want) {
			t.Fatalf("record %d: Amount = %v, want %v", i, src.Amount, want)
		}
	}
}

func TestSeasonalStream_LoadResamplesSeasonMeans(t *testing.T) {
	h := newHarness(t, weightedSettings())
	h.climate.Means["spring"] = 0.2
	h.climate.Means["autumn"] = 0.4
	h.climate.Set(engine.ClimateState{Season: "spring", Temperature: 10})

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 8, Multiplier: 0.5},
		component.SeasonalStreamComponent{OriginalAmount: 8})
	h.tick()
	if got := h.source(e).Amount; !near(got, 3) {
		t.Fatalf("Amount = %v, want 8*0.375", got)
	}

	// Spring becomes the wettest season of the next map; the cache holds until a load
	h.climate.Means["spring"] = 0.8
	h.tick()
	if got := h.source(e).Amount; !near(got, 3) {
		t.Errorf("Amount before load = %v, want cached 3", got)
	}

	h.loadComplete()
	h.tick()
	if got := h.source(e).Amount; !near(got, 6) {
		t.Errorf("Amount after load = %v, want 8*0.75", got)
	}
}
