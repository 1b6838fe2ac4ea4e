package simulation

import (
	"bytes"
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/hostsim"
	"github.com/lixenwraith/hydrosim/parameter"
)

func emitters(views []SourceView) []hostsim.Emitter {
	out := make([]hostsim.Emitter, 0, len(views))
	for _, v := range views {
		out = append(out, hostsim.Emitter{Position: v.Position, Source: v.Source})
	}
	return out
}

func seed(sim *Simulation, h *hostsim.Host) {
	placements := h.DemoMap()
	srcs := make([]NewSource, len(placements))
	for i, p := range placements {
		srcs[i] = NewSource{Position: p.Position, Source: p.Source, Behavior: p.Behavior}
	}
	sim.CreateSources(srcs)
}

func run(sim *Simulation, h *hostsim.Host, days int) {
	for i := 0; i < days*parameter.UpdatesPerDaySeasonal; i++ {
		h.Advance(step, emitters(sim.Sources()))
		sim.Tick(step)
	}
}

func TestIntegration_DemoMapWithSyntheticHost(t *testing.T) {
	h := hostsim.New(hostsim.DefaultConfig(7))
	cfg := config.Default()
	cfg.TidesAndWaves = true
	cfg.WaveHeight = 2
	cfg.TideHeight = 1

	sim := New(h.Engine(), cfg, DefaultOptions())
	seed(sim, h)
	run(sim, h, 2)

	var refs int
	for _, v := range sim.Sources() {
		if v.Reference {
			refs++
			continue
		}
		if !v.Source.DepthMode.IsBorder() && !v.Source.IsCalibrated() {
			t.Errorf("entity %d still uncalibrated", v.Entity)
		}
		if v.Source.Amount < 0 && v.Source.DepthMode == component.DepthCreek {
			t.Errorf("entity %d negative creek amount %v", v.Entity, v.Source.Amount)
		}
	}
	if refs != 1 {
		t.Errorf("tide references = %d, want 1", refs)
	}

	reg := sim.Registry()
	if reg.Ints.Get("classifier.seasonal").Load() != 4 {
		t.Errorf("seasonal classified = %d, want 4", reg.Ints.Get("classifier.seasonal").Load())
	}
	if reg.Ints.Get("classifier.tides").Load() != 3 {
		t.Errorf("tides classified = %d, want 3", reg.Ints.Get("classifier.tides").Load())
	}
	if reg.Ints.Get("calibration.failed").Load() != 0 {
		t.Error("calibration failures on the demo map")
	}
	if reg.Ints.Get("engine.commands.rejected").Load() != 0 {
		t.Errorf("rejected commands: %d", reg.Ints.Get("engine.commands.rejected").Load())
	}

	// Snapshot survives a reload byte for byte, and the reloaded run continues
	first, err := sim.SaveBytes()
	if err != nil {
		t.Fatal(err)
	}

	h2 := hostsim.New(hostsim.DefaultConfig(7))
	sim2 := New(h2.Engine(), cfg, DefaultOptions())
	if err := sim2.Load(bytes.NewReader(first)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	h2.SyncFrame(sim2.Frame())

	second, err := sim2.SaveBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("reload changed the snapshot")
	}

	run(sim2, h2, 1)
	if sim2.Frame() != sim.Frame()+parameter.FramesPerDay {
		t.Errorf("frame after resume = %d", sim2.Frame())
	}
}
