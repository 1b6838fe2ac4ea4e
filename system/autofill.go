package system

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/hydrosim/climate"
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
	"github.com/lixenwraith/hydrosim/parameter"
)

// NameAutofill is the registry name of the autofilling lake system
const NameAutofill = "autofill_lakes"

// AutofillLakeSystem fills lakes as creeks and converts them to static lakes at their cap
// Completion is terminal: the component is removed and the record retired for the session
type AutofillLakeSystem struct {
	engine.SystemBase

	statCount    *atomic.Int64
	statSkipped  *atomic.Int64
	statComplete *atomic.Int64
}

// NewAutofillLakeSystem creates the autofill system
func NewAutofillLakeSystem(world *engine.World) *AutofillLakeSystem {
	reg := world.Resource.Status
	return &AutofillLakeSystem{
		SystemBase:   engine.NewSystemBase(world),
		statCount:    reg.Ints.Get("autofill.count"),
		statSkipped:  reg.Ints.Get("autofill.skipped"),
		statComplete: reg.Ints.Get("autofill.complete"),
	}
}

func (s *AutofillLakeSystem) Name() string       { return NameAutofill }
func (s *AutofillLakeSystem) Priority() int      { return parameter.PriorityAutofill }
func (s *AutofillLakeSystem) UpdatesPerDay() int { return parameter.UpdatesPerDayAutofill }

// EventTypes returns the event types AutofillLakeSystem handles
func (s *AutofillLakeSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventSystemCommand}
}

// HandleEvent processes system commands
func (s *AutofillLakeSystem) HandleEvent(_ *engine.World, ev event.SimEvent) {
	s.HandleSystemCommand(s.Name(), ev)
}

// Update advances every filling lake
func (s *AutofillLakeSystem) Update(ctx *engine.TickContext) {
	entities := s.World.Query().
		With(s.Component.Source).
		With(s.Component.Autofill).
		Execute()
	s.statCount.Store(int64(len(entities)))

	if len(entities) == 0 || !ctx.OracleReady {
		s.statSkipped.Add(1)
		return
	}

	recs := gather(s.World, entities, true)
	for _, r := range recs {
		lake, _ := s.Component.Autofill.Get(r.entity)
		stage, amount := climate.AutofillStep(lake.MaxHeight, r.heights.Terrain, r.heights.Water)

		src := r.source
		switch stage {
		case climate.AutofillComplete:
			src.Amount = amount
			src.DepthMode = component.DepthLake
			s.Commands.SetSource(r.entity, src)
			s.Commands.Detach(r.entity, component.BehaviorAutofillingLake)
			s.World.Retire(r.entity)
			s.World.PushEvent(event.EventAutofillComplete, &event.AutofillCompletePayload{
				Entity:    r.entity,
				MaxHeight: lake.MaxHeight,
			})
			s.statComplete.Add(1)
			log.Printf("autofill: entity %d reached %.2f, now a lake", r.entity, lake.MaxHeight)

		case climate.AutofillNearCap:
			src.Amount = amount
			src.DepthMode = component.DepthCreek
			s.Commands.SetSource(r.entity, src)

		default:
			if src.DepthMode != component.DepthCreek {
				src.DepthMode = component.DepthCreek
				s.Commands.SetSource(r.entity, src)
			}
		}
	}
}
