package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable wall time with pause duration tracking
// Drives the standalone scheduler loop; host-driven ticks ignore it
type PausableClock struct {
	mu sync.RWMutex

	realStartTime time.Time

	isPaused        atomic.Bool
	pauseStartTime  time.Time
	totalPausedTime time.Duration

	now func() time.Time
}

// NewPausableClock creates a new pausable clock on the system clock
func NewPausableClock() *PausableClock {
	return NewPausableClockWith(time.Now)
}

// NewPausableClockWith creates a clock reading time from now, used by tests
func NewPausableClockWith(now func() time.Time) *PausableClock {
	return &PausableClock{
		realStartTime: now(),
		now:           now,
	}
}

// Elapsed returns running time since creation, excluding pauses
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime
	}
	return pc.now().Sub(pc.realStartTime) - pc.totalPausedTime
}

// Pause stops time advancement
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.now()
	}
}

// Resume continues time advancement
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()

		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including the current pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.now().Sub(pc.pauseStartTime)
	}
	return total
}
