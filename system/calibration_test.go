package system

import (
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/event"
)

func TestGrowRadius(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 1},
		{2, 3},
		{4, 5},
		{8, 10},
		{100, 125},
	}
	for _, tt := range tests {
		if got := GrowRadius(tt.in); got != tt.want {
			t.Errorf("GrowRadius(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCalibration_GrowsUntilSuccess(t *testing.T) {
	h := newHarness(t, config.Default())
	h.cal.MinRadius = 6
	h.cal.Result = 0.4

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1, DepthMode: component.DepthLake, Radius: 3, Multiplier: 1}, nil)
	h.w.PushEvent(event.EventSourceCreated, &event.SourceCreatedPayload{Entity: e})

	// 3 -> 4 -> 5 -> 6.25
	for i := 0; i < 4; i++ {
		h.tick()
	}

	src := h.source(e)
	if src.Multiplier != 0.4 || src.Radius != 6.25 {
		t.Errorf("got %+v, want multiplier 0.4 at radius 6.25", src)
	}
	if h.cal.Calls != 4 {
		t.Errorf("calibrator called %d times, want 4", h.cal.Calls)
	}
	if h.set.Calibration.Pending() != 0 {
		t.Error("job must be cleared on success")
	}
	if h.metric("calibration.ok") != 1 {
		t.Error("success not counted")
	}
}

func TestCalibration_BudgetExhausted(t *testing.T) {
	cfg := config.Default()
	cfg.CalibrationAttempts = 3
	h := newHarness(t, cfg)
	h.cal.MinRadius = 1000

	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1, Radius: 2, Multiplier: 1}, nil)
	h.w.PushEvent(event.EventSourceCreated, &event.SourceCreatedPayload{Entity: e})

	var warning *event.CalibrationWarningPayload
	for i := 0; i < 5; i++ {
		h.tick()
		for _, ev := range h.w.Resource.Event.Queue.Consume() {
			if p, ok := ev.Payload.(*event.CalibrationWarningPayload); ok {
				warning = p
			}
		}
	}

	if h.cal.Calls != 3 {
		t.Errorf("calibrator called %d times, want budget 3", h.cal.Calls)
	}
	if warning == nil || warning.Entity != e || warning.Attempts != 3 {
		t.Fatalf("unexpected warning %+v", warning)
	}
	if !h.w.Exists(e) {
		t.Error("source must be kept")
	}
	if h.metric("calibration.failed") != 1 {
		t.Error("failure not counted")
	}
}

func TestCalibration_SkipsBorderAndCalibrated(t *testing.T) {
	h := newHarness(t, config.Default())

	sea := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1, DepthMode: component.DepthSea, Radius: 2, Multiplier: 1}, nil)
	done := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1, Radius: 2, Multiplier: 0.7}, nil)
	h.w.PushEvent(event.EventSourceCreated, &event.SourceCreatedPayload{Entity: sea})
	h.w.PushEvent(event.EventSourceCreated, &event.SourceCreatedPayload{Entity: done})
	h.tick()

	if h.cal.Calls != 0 {
		t.Errorf("calibrator called %d times, want 0", h.cal.Calls)
	}
}
