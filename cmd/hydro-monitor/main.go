package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hydrosim/audio"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/hostsim"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/persist"
	"github.com/lixenwraith/hydrosim/render"
	"github.com/lixenwraith/hydrosim/simulation"
)

const (
	messageDuration = 3 * time.Second
	alertBuffer     = 32
)

var (
	configFlag = flag.String("config", "", "Settings TOML file")
	seedFlag   = flag.Uint64("seed", 1, "Synthetic host seed")
	saveFlag   = flag.String("save", "hydro-monitor.hydr", "Snapshot path written by the s key")
	speedFlag  = flag.Int64("frames-per-tick", parameter.DefaultFramesPerTick*4, "Host frames advanced per tick")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/hydro-monitor.log")
	muteFlag   = flag.Bool("mute", false, "Disable alert sounds")
)

// alert is a simulation event worth surfacing to the user
type alert struct {
	warning bool
	text    string
}

// alertHandler forwards selected events without blocking the tick
type alertHandler struct {
	out chan alert
}

func (h *alertHandler) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventCalibrationWarning,
		event.EventAutofillComplete,
	}
}

func (h *alertHandler) HandleEvent(_ *engine.World, ev event.SimEvent) {
	var a alert
	switch p := ev.Payload.(type) {
	case *event.CalibrationWarningPayload:
		a = alert{warning: true, text: fmt.Sprintf("source %d uncalibrated after %d attempts", p.Entity, p.Attempts)}
	case *event.AutofillCompletePayload:
		a = alert{text: fmt.Sprintf("lake %d filled to %.1f", p.Entity, p.MaxHeight)}
	default:
		return
	}
	select {
	case h.out <- a:
	default:
	}
}

// Monitor owns the screen and drives host and engine in lockstep
type Monitor struct {
	screen   tcell.Screen
	renderer *render.TableRenderer
	sim      *simulation.Simulation
	host     *hostsim.Host
	sound    *audio.SoundManager
	alerts   chan alert
	saves    *persist.Manager
	saveName string
	perTick  int64

	paused      bool
	message     string
	messageTime time.Time
}

func NewMonitor(screen tcell.Screen, settings config.Settings) *Monitor {
	host := hostsim.New(hostsim.DefaultConfig(*seedFlag))
	sim := simulation.New(host.Engine(), settings, simulation.DefaultOptions())

	m := &Monitor{
		screen:   screen,
		renderer: render.NewTableRenderer(screen),
		sim:      sim,
		host:     host,
		sound:    audio.NewSoundManager(),
		alerts:   make(chan alert, alertBuffer),
		saves:    persist.NewManager(filepath.Dir(*saveFlag)),
		saveName: *saveFlag,
		perTick:  *speedFlag,
	}
	sim.RegisterEventHandler(&alertHandler{out: m.alerts})

	placements := host.DemoMap()
	srcs := make([]simulation.NewSource, len(placements))
	for i, p := range placements {
		srcs[i] = simulation.NewSource{Position: p.Position, Source: p.Source, Behavior: p.Behavior}
	}
	sim.CreateSources(srcs)

	// Non-fatal, the monitor runs without sound
	if !*muteFlag {
		if err := m.sound.Initialize(); err != nil {
			m.notify(fmt.Sprintf("audio unavailable: %v", err))
		}
	}
	return m
}

func (m *Monitor) notify(text string) {
	m.message = text
	m.messageTime = time.Now()
}

func (m *Monitor) step() {
	if m.paused {
		return
	}
	views := m.sim.Sources()
	emitters := make([]hostsim.Emitter, len(views))
	for i, v := range views {
		emitters[i] = hostsim.Emitter{Position: v.Position, Source: v.Source}
	}
	m.host.Advance(m.perTick, emitters)
	m.sim.Tick(m.perTick)

	for {
		select {
		case a := <-m.alerts:
			if a.warning {
				m.sound.PlayWarning()
			} else {
				m.sound.PlayChime()
			}
			m.notify(a.text)
		default:
			return
		}
	}
}

func (m *Monitor) draw() {
	if m.message != "" && time.Since(m.messageTime) > messageDuration {
		m.message = ""
	}
	m.renderer.Draw(render.View{
		Frame:   m.sim.Frame(),
		Day:     m.sim.Frame() / parameter.FramesPerDay,
		Paused:  m.paused,
		Sources: m.sim.Sources(),
		Metrics: m.sim.Status(),
		Message: m.message,
	})
}

// handleInput returns false when the monitor should exit
func (m *Monitor) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			return m.handleKey(ev.Rune())
		}

	case *tcell.EventResize:
		m.screen.Sync()
	}
	return true
}

func (m *Monitor) handleKey(key rune) bool {
	switch key {
	case 'q':
		return false
	case 's':
		if err := m.sim.SaveTo(m.saves, m.saveName); err != nil {
			m.notify(fmt.Sprintf("save failed: %v", err))
		} else {
			m.notify("saved " + m.saves.FilePath(m.saveName))
		}
	case 'e':
		m.sim.RequestEvaporationSpike(0)
		m.notify("evaporation spike requested")
	case 'p':
		m.paused = !m.paused
		if m.paused {
			m.sim.Pause()
		} else {
			m.sim.Resume()
		}
	case 'm':
		m.sound.SetMuted(!m.sound.IsMuted())
	}
	return true
}

func (m *Monitor) run() {
	ticker := time.NewTicker(parameter.ClockTickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := m.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	m.draw()
	for {
		select {
		case ev := <-eventChan:
			if !m.handleInput(ev) {
				return
			}
			m.draw()

		case <-ticker.C:
			m.step()
			m.draw()
		}
	}
}

func (m *Monitor) cleanup() {
	m.sound.Cleanup()
	m.screen.Fini()
}

func main() {
	flag.Parse()

	if f := core.SetupLogging("logs", "hydro-monitor.log", *debugFlag); f != nil {
		defer f.Close()
	}

	settings := config.Default()
	if *configFlag != "" {
		s, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		settings = s.Sanitize()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "hydro-monitor crashed: %v\n%s\n", r, debug.Stack())
		os.Exit(1)
	})

	m := NewMonitor(screen, settings)
	defer m.cleanup()
	m.run()
}
