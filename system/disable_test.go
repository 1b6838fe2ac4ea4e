package system

import (
	"testing"

	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/event"
)

func TestDisable_SettingsChange(t *testing.T) {
	h, ids := populated(t)

	cfg := h.w.Resource.Settings.Get()
	cfg.SeasonalStreams = false
	cfg.TidesAndWaves = false
	h.w.Resource.Settings.Set(cfg)
	h.w.PushEvent(event.EventSettingsChanged, &event.SettingsChangedPayload{
		Disabled: map[event.Feature]bool{
			event.FeatureSeasonalStreams: true,
			event.FeatureTidesAndWaves:   true,
		},
	})
	h.tick()

	c := &h.w.Components
	if c.Seasonal.Has(ids["seasonal"]) || c.Tides.Has(ids["tides"]) {
		t.Fatal("behaviors must be detached")
	}
	if h.source(ids["seasonal"]).Amount != 5 || h.source(ids["tides"]).Amount != 30 {
		t.Error("anchors must be restored on disable")
	}
	if c.TideReference.Count() != 0 {
		t.Error("reference must be destroyed")
	}
	if h.set.DisableSeasonal.Armed() || h.set.DisableTides.Armed() {
		t.Error("disable passes are single-shot")
	}

	// Other behaviors are untouched
	if !c.Detention.Has(ids["detention"]) || !c.Autofill.Has(ids["autofill"]) {
		t.Error("unrelated behaviors removed")
	}

	// Records stay plain on later ticks
	h.tick()
	if c.Seasonal.Has(ids["seasonal"]) {
		t.Error("record re-tagged while feature is off")
	}
}

func TestDisable_ArmedAtLoadWhenOff(t *testing.T) {
	cfg := settingsAllOn()
	cfg.SeasonalStreams = false
	h := newHarness(t, cfg)

	// Record persisted by an earlier session with the feature on
	e := h.spawn(component.PositionComponent{}, component.WaterSourceComponent{Amount: 1.5, Multiplier: 0.5},
		component.SeasonalStreamComponent{OriginalAmount: 4})

	h.loadComplete()
	h.tick()

	if h.w.Components.Seasonal.Has(e) {
		t.Error("load with the feature off must remove seasonal streams")
	}
	if h.source(e).Amount != 4 {
		t.Errorf("Amount = %v, want anchor 4", h.source(e).Amount)
	}
	if h.metric("disable.seasonal_streams.removed") != 1 {
		t.Error("removal not counted")
	}
	if h.set.DisableTides.Armed() {
		t.Error("tides feature is on; its disable pass must stay idle")
	}
}
