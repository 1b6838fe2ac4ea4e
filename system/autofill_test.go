package system

import (
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/event"
)

func TestAutofill_Stages(t *testing.T) {
	h := newHarness(t, config.Default())
	h.oracle.Terrain, h.oracle.Water = 4, 10

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 7, DepthMode: component.DepthLake, Multiplier: 0.5},
		component.AutofillingLakeComponent{MaxHeight: 20})

	h.tick()
	src := h.source(e)
	if src.DepthMode != component.DepthCreek || src.Amount != 7 {
		t.Errorf("filling: got %+v, want Creek with untouched amount", src)
	}

	h.oracle.SetWater(19.5)
	h.tick()
	if got := h.source(e).Amount; !near(got, 1.6) {
		t.Errorf("near cap Amount = %v, want 1.6", got)
	}
}

func TestAutofill_TerminalOneWay(t *testing.T) {
	h := newHarness(t, config.Default())
	h.oracle.Terrain, h.oracle.Water = 4, 21

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1, Multiplier: 0.5},
		component.AutofillingLakeComponent{MaxHeight: 20})
	h.tick()

	src := h.source(e)
	if src.DepthMode != component.DepthLake || src.Amount != 20 {
		t.Errorf("terminal: got %+v, want Lake at 20", src)
	}
	if h.w.Components.Autofill.Has(e) {
		t.Fatal("component must be removed")
	}
	if !h.w.IsRetired(e) {
		t.Error("record must be retired")
	}

	// Re-attach is rejected for the rest of the session
	h.w.Commands.Attach(e, component.AutofillingLakeComponent{MaxHeight: 30})
	h.w.Commands.Playback()
	if h.w.Components.Autofill.Has(e) {
		t.Error("retired record received a new autofilling lake")
	}

	// Completion event reaches handlers on the next dispatch
	evs := h.w.Resource.Event.Queue.Consume()
	found := false
	for _, ev := range evs {
		if p, ok := ev.Payload.(*event.AutofillCompletePayload); ok && ev.Type == event.EventAutofillComplete && p.Entity == e {
			found = true
		}
	}
	if !found {
		t.Error("EventAutofillComplete not emitted")
	}
}
