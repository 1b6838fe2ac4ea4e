package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"

	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/hostsim"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/persist"
	"github.com/lixenwraith/hydrosim/simulation"
)

const (
	logDir      = "logs"
	logFileName = "hydrosim.log"
	maxLogSize  = core.MaxLogSize
)

var (
	configFlag        = flag.String("config", "", "Settings TOML file (defaults when empty or missing)")
	daysFlag          = flag.Int("days", 30, "In-game days to simulate")
	framesPerTickFlag = flag.Int64("frames-per-tick", parameter.DefaultFramesPerTick, "Host frames advanced per scheduler tick")
	saveFlag          = flag.String("save", "", "Write a snapshot to this path when done")
	loadFlag          = flag.String("load", "", "Resume from a snapshot instead of generating a map")
	debugFlag         = flag.Bool("debug", false, "Write logs to "+filepath.Join(logDir, logFileName))
	seedFlag          = flag.Uint64("seed", 1, "Synthetic host seed")
)

// setupLogging routes the standard logger to the log file, or discards it
func setupLogging(debug bool) *os.File {
	return core.SetupLogging(logDir, logFileName, debug)
}

func main() {
	flag.Parse()

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}

	core.SetCrashHandler(func(r any) {
		fmt.Fprintf(os.Stderr, "hydrosim crashed: %v\n%s\n", r, debug.Stack())
		os.Exit(1)
	})

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hydrosim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := loadSettings(*configFlag)
	if err != nil {
		return err
	}
	if *framesPerTickFlag <= 0 {
		return fmt.Errorf("frames-per-tick must be positive, got %d", *framesPerTickFlag)
	}

	host := hostsim.New(hostsim.DefaultConfig(*seedFlag))
	sim := simulation.New(host.Engine(), settings, simulation.DefaultOptions())

	if *loadFlag != "" {
		m := persist.NewManager(filepath.Dir(*loadFlag))
		if err := sim.LoadFrom(m, *loadFlag); err != nil {
			return err
		}
		host.SyncFrame(sim.Frame())
		fmt.Printf("resumed %s at day %d\n", *loadFlag, sim.Frame()/parameter.FramesPerDay)
	} else {
		seedMap(sim, host)
	}

	simulate(sim, host, int64(*daysFlag)*parameter.FramesPerDay, *framesPerTickFlag)
	report(sim)

	if *saveFlag != "" {
		m := persist.NewManager(filepath.Dir(*saveFlag))
		if err := sim.SaveTo(m, *saveFlag); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", m.FilePath(*saveFlag))
	}
	return nil
}

// loadSettings reads path over the defaults; a missing file is not an error
func loadSettings(path string) (config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	s, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config %s not found, using defaults", path)
		return config.Default(), nil
	}
	if err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (out-of-range values sanitized)\n", err)
	}
	return s.Sanitize(), nil
}

func seedMap(sim *simulation.Simulation, host *hostsim.Host) {
	placements := host.DemoMap()
	srcs := make([]simulation.NewSource, len(placements))
	for i, p := range placements {
		srcs[i] = simulation.NewSource{Position: p.Position, Source: p.Source, Behavior: p.Behavior}
	}
	sim.CreateSources(srcs)
	log.Printf("seeded %d sources", len(srcs))
}

// simulate advances host and engine in lockstep
func simulate(sim *simulation.Simulation, host *hostsim.Host, frames, perTick int64) {
	for done := int64(0); done < frames; done += perTick {
		step := min(perTick, frames-done)
		host.Advance(step, emitters(sim))
		sim.Tick(step)
	}
}

func emitters(sim *simulation.Simulation) []hostsim.Emitter {
	views := sim.Sources()
	out := make([]hostsim.Emitter, len(views))
	for i, v := range views {
		out[i] = hostsim.Emitter{Position: v.Position, Source: v.Source}
	}
	return out
}

func report(sim *simulation.Simulation) {
	counts := make(map[string]int)
	for _, v := range sim.Sources() {
		kind := v.Behavior.String()
		if v.Reference {
			kind = "TideReference"
		}
		counts[kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Printf("day %d, frame %d\n", sim.Frame()/parameter.FramesPerDay, sim.Frame())
	for _, k := range kinds {
		fmt.Printf("  %-16s %d\n", k, counts[k])
	}
	for _, e := range sim.Status() {
		fmt.Printf("  %-32s %s\n", e.Key, e.Value)
	}
}
