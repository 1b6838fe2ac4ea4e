package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
	"github.com/lixenwraith/hydrosim/status"
)

// enabler is implemented by systems embedding SystemBase
type enabler interface {
	Enabled() bool
}

// slot tracks the next frame boundary of one system
type slot struct {
	sys      System
	interval int64
	next     int64
}

// ClockScheduler advances the simulation timeline and runs systems on their own day-relative intervals
// Host-driven through Tick, or self-driven on a wall clock through Start/Stop
type ClockScheduler struct {
	world  *World
	router *event.Router[*World]

	slots []slot
	frame int64

	pausableClock *PausableClock
	tickInterval  time.Duration
	framesPerTick int64

	// Control
	mu       sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statTicks    *atomic.Int64
	statFrame    *atomic.Int64
	statDay      *atomic.Int64
	statEvents   *atomic.Int64
	statApplied  *atomic.Int64
	statRejected *atomic.Int64
	statPasses   *atomic.Int64
	statPaused   *atomic.Bool
	statSeason   *status.AtomicString
}

// NewClockScheduler creates a scheduler over world
// tickInterval and framesPerTick only affect the Start loop
func NewClockScheduler(world *World, pausableClock *PausableClock, tickInterval time.Duration, framesPerTick int64) *ClockScheduler {
	if framesPerTick <= 0 {
		framesPerTick = parameter.DefaultFramesPerTick
	}
	reg := world.Resource.Status
	return &ClockScheduler{
		world:         world,
		router:        event.NewRouter[*World](world.Resource.Event.Queue),
		pausableClock: pausableClock,
		tickInterval:  tickInterval,
		framesPerTick: framesPerTick,
		stopChan:      make(chan struct{}),
		statTicks:     reg.Ints.Get("engine.ticks"),
		statFrame:     reg.Ints.Get("engine.frame"),
		statDay:       reg.Ints.Get("engine.day"),
		statEvents:    reg.Ints.Get("engine.events"),
		statApplied:   reg.Ints.Get("engine.commands.applied"),
		statRejected:  reg.Ints.Get("engine.commands.rejected"),
		statPasses:    reg.Ints.Get("engine.passes"),
		statPaused:    reg.Bools.Get("engine.paused"),
		statSeason:    reg.Strings.Get("climate.season"),
	}
}

// Register adds a system to the world and the schedule
// Systems implementing EventHandler are also registered on the router
// Must be called before the first tick
func (cs *ClockScheduler) Register(sys System) {
	cs.world.AddSystem(sys)

	var interval int64
	if n := sys.UpdatesPerDay(); n > 0 {
		interval = parameter.FramesPerDay / int64(n)
		if interval < 1 {
			interval = 1
		}
	}
	s := slot{sys: sys, interval: interval}
	if interval > 0 {
		s.next = (cs.frame/interval + 1) * interval
	}

	cs.slots = append(cs.slots, s)
	for i := len(cs.slots) - 1; i > 0 && cs.slots[i-1].sys.Priority() > cs.slots[i].sys.Priority(); i-- {
		cs.slots[i-1], cs.slots[i] = cs.slots[i], cs.slots[i-1]
	}

	if h, ok := sys.(EventHandler); ok {
		cs.router.Register(h)
	}
}

// RegisterEventHandler adds a non-system event handler to the router
func (cs *ClockScheduler) RegisterEventHandler(h EventHandler) {
	cs.router.Register(h)
}

// Frame returns the current timeline frame
func (cs *ClockScheduler) Frame() int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.frame
}

// SetFrame moves the timeline without running systems and re-anchors every interval
// Used after a snapshot load
func (cs *ClockScheduler) SetFrame(frame int64) {
	cs.world.RunSafe(func() {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		cs.frame = frame
		for i := range cs.slots {
			if iv := cs.slots[i].interval; iv > 0 {
				cs.slots[i].next = (frame/iv + 1) * iv
			}
		}
		cs.world.Resource.Time.Update(frame, cs.world.Resource.Time.TickCount)
		cs.statFrame.Store(frame)
	})
}

// Tick advances the timeline by frames and runs one scheduler cycle
// Order: events, systems by priority (each followed by command playback), telemetry
func (cs *ClockScheduler) Tick(frames int64) {
	if frames < 0 {
		frames = 0
	}
	cs.world.RunSafe(func() {
		cs.mu.Lock()
		cs.frame += frames
		frame := cs.frame
		cs.mu.Unlock()

		timeRes := cs.world.Resource.Time
		timeRes.Update(frame, timeRes.TickCount+1)

		cs.dispatchEvents()

		for i := range cs.slots {
			s := &cs.slots[i]
			if !cs.due(s, frame) {
				continue
			}
			if en, ok := s.sys.(enabler); ok && !en.Enabled() {
				continue
			}
			ctx := cs.snapshot(frame)
			s.sys.Update(&ctx)
			cs.statPasses.Add(1)
			cs.playback()
		}

		cs.statTicks.Store(int64(timeRes.TickCount))
		cs.statFrame.Store(frame)
		cs.statDay.Store(timeRes.Day())
	})
}

// due reports whether the frame crossed the slot's next boundary and re-anchors it
// A far jump runs the system once, not once per skipped boundary
func (cs *ClockScheduler) due(s *slot, frame int64) bool {
	if s.interval == 0 {
		return true
	}
	if frame < s.next {
		return false
	}
	s.next = (frame/s.interval + 1) * s.interval
	return true
}

func (cs *ClockScheduler) snapshot(frame int64) TickContext {
	host := cs.world.Resource.Host
	ctx := TickContext{
		Frame:    frame,
		Settings: cs.world.Resource.Settings.Get(),
	}
	if host.Climate != nil {
		ctx.Climate = host.Climate.Current()
		cs.statSeason.Store(string(ctx.Climate.Season))
	}
	if host.Oracle != nil {
		ctx.OracleReady = host.Oracle.Ready()
	}
	return ctx
}

func (cs *ClockScheduler) dispatchEvents() {
	n := cs.router.DispatchAll(cs.world)
	cs.statEvents.Add(int64(n))
	cs.playback()
}

func (cs *ClockScheduler) playback() {
	res := cs.world.Commands.Playback()
	if res.Applied > 0 {
		cs.statApplied.Add(int64(res.Applied))
	}
	if res.Rejected > 0 {
		cs.statRejected.Add(int64(res.Rejected))
	}
}

// Start begins the wall-clock loop, one Tick(framesPerTick) every tickInterval
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the loop and waits for the in-flight tick
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Pause suspends the loop without stopping it
func (cs *ClockScheduler) Pause() {
	cs.pausableClock.Pause()
	cs.statPaused.Store(true)
}

// Resume continues a paused loop
func (cs *ClockScheduler) Resume() {
	cs.pausableClock.Resume()
	cs.statPaused.Store(false)
}

// IsPaused reports the loop pause state
func (cs *ClockScheduler) IsPaused() bool {
	return cs.pausableClock.IsPaused()
}

// schedulerLoop runs ticks on deadlines measured in unpaused time
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	nextDeadline := cs.pausableClock.Elapsed() + cs.tickInterval

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-timer.C:
		}

		var sleep time.Duration
		if cs.pausableClock.IsPaused() {
			// Poll slower while paused
			sleep = cs.tickInterval * 2
		} else {
			now := cs.pausableClock.Elapsed()
			if now >= nextDeadline {
				cs.Tick(cs.framesPerTick)
				nextDeadline += cs.tickInterval

				// Drop missed deadlines instead of bursting
				if now-nextDeadline > cs.tickInterval*2 {
					nextDeadline = now + cs.tickInterval
				}
			}
			sleep = nextDeadline - cs.pausableClock.Elapsed()
			if sleep < 0 {
				sleep = 0
			}
		}
		timer.Reset(sleep)
	}
}
