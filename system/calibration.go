package system

import (
	"log"
	"slices"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// NameCalibration is the registry name of the calibration system
const NameCalibration = "calibration"

type calibrationJob struct {
	radius   float32
	attempts int
}

// CalibrationSystem searches solver multipliers for newly created non-border sources
// Failed attempts grow the radius and retry next tick until the attempt budget runs out
type CalibrationSystem struct {
	engine.SystemBase

	jobs map[core.Entity]*calibrationJob

	statPending *atomic.Int64
	statOK      *atomic.Int64
	statFailed  *atomic.Int64
}

// NewCalibrationSystem creates an idle calibration system
func NewCalibrationSystem(world *engine.World) *CalibrationSystem {
	reg := world.Resource.Status
	return &CalibrationSystem{
		SystemBase:  engine.NewSystemBase(world),
		jobs:        make(map[core.Entity]*calibrationJob),
		statPending: reg.Ints.Get("calibration.pending"),
		statOK:      reg.Ints.Get("calibration.ok"),
		statFailed:  reg.Ints.Get("calibration.failed"),
	}
}

func (s *CalibrationSystem) Name() string       { return NameCalibration }
func (s *CalibrationSystem) Priority() int      { return parameter.PriorityCalibration }
func (s *CalibrationSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayEveryTick }

// Pending returns the number of sources still being calibrated
func (s *CalibrationSystem) Pending() int {
	return len(s.jobs)
}

// EventTypes returns the event types CalibrationSystem handles
func (s *CalibrationSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLoadComplete,
		event.EventSourceCreated,
		event.EventSourcesCreated,
		event.EventSystemCommand,
	}
}

// HandleEvent queues created sources and forgets them on load; eligibility is checked at update time
func (s *CalibrationSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	if s.HandleSystemCommand(s.Name(), ev) {
		return
	}

	switch ev.Type {
	case event.EventLoadComplete:
		// Entity ids restart after a load; pre-load jobs would hit unrelated records
		if len(s.jobs) > 0 {
			log.Printf("calibration: dropped %d pending jobs on load", len(s.jobs))
		}
		clear(s.jobs)
		s.statPending.Store(0)

	case event.EventSourceCreated:
		if payload, ok := ev.Payload.(*event.SourceCreatedPayload); ok {
			s.enqueue(payload.Entity)
		}
	case event.EventSourcesCreated:
		if batch, ok := ev.Payload.(*event.BatchPayload[core.Entity]); ok {
			for _, e := range batch.Entries {
				s.enqueue(e)
			}
		}
	}
}

func (s *CalibrationSystem) enqueue(e core.Entity) {
	if _, ok := s.jobs[e]; !ok {
		s.jobs[e] = &calibrationJob{radius: -1}
	}
}

// Update makes one calibration attempt per pending source
func (s *CalibrationSystem) Update(ctx *engine.TickContext) {
	if len(s.jobs) == 0 {
		return
	}
	calibrator := s.Resource.Host.Calibrator

	entities := make([]core.Entity, 0, len(s.jobs))
	for e := range s.jobs {
		entities = append(entities, e)
	}
	slices.Sort(entities)

	for _, e := range entities {
		job := s.jobs[e]
		src, ok := s.Component.Source.Get(e)
		if !ok || src.DepthMode.IsBorder() || src.IsCalibrated() || calibrator == nil {
			delete(s.jobs, e)
			continue
		}
		if job.radius < 0 {
			job.radius = src.Radius
		}

		pos, _ := s.Component.Position.Get(e)
		job.attempts++

		if m := calibrator.CalibrateMultiplier(pos, job.radius, src.DepthMode); m != component.UncalibratedMultiplier {
			src.Multiplier = m
			src.Radius = job.radius
			s.Commands.SetSource(e, src)
			delete(s.jobs, e)
			s.statOK.Add(1)
			continue
		}

		if job.attempts >= ctx.Settings.CalibrationAttempts {
			log.Printf("calibration: entity %d uncalibrated after %d attempts, radius %.2f", e, job.attempts, job.radius)
			s.World.PushEvent(event.EventCalibrationWarning, &event.CalibrationWarningPayload{
				Entity:   e,
				Attempts: job.attempts,
				Radius:   job.radius,
			})
			delete(s.jobs, e)
			s.statFailed.Add(1)
			continue
		}

		job.radius = GrowRadius(job.radius)
	}

	s.statPending.Store(int64(len(s.jobs)))
}

// GrowRadius returns the next search radius, strictly larger than r
func GrowRadius(r float32) float32 {
	return max(r*parameter.CalibrationRadiusGrowth, r+parameter.CalibrationMinRadiusStep)
}
