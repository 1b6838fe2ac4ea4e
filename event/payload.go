package event

import "github.com/lixenwraith/hydrosim/core"

// Feature names an optional behavior that can be toggled at runtime
type Feature string

const (
	FeatureSeasonalStreams Feature = "seasonal_streams"
	FeatureTidesAndWaves   Feature = "tides_and_waves"
)

// SourceCreatedPayload names a newly committed source
type SourceCreatedPayload struct {
	Entity core.Entity `toml:"entity"`
}

// SettingsChangedPayload carries the previous and next feature flags
// Settings themselves are read from the settings resource at the next tick
type SettingsChangedPayload struct {
	Enabled  map[Feature]bool `toml:"enabled"`
	Disabled map[Feature]bool `toml:"disabled"`
}

// EvaporationSpikePayload requests a temporary evaporation rate
// Zero Rate uses the configured temporary rate
type EvaporationSpikePayload struct {
	Rate float32 `toml:"rate"`
}

// SystemCommandPayload contains parameters for system activation control
type SystemCommandPayload struct {
	SystemName string `toml:"system"`
	Enabled    bool   `toml:"enabled"`
}

// CalibrationWarningPayload reports an exhausted calibration budget
type CalibrationWarningPayload struct {
	Entity   core.Entity `toml:"entity"`
	Attempts int         `toml:"attempts"`
	Radius   float32     `toml:"radius"`
}

// AutofillCompletePayload reports a lake that reached its target height
type AutofillCompletePayload struct {
	Entity    core.Entity `toml:"entity"`
	MaxHeight float32     `toml:"max_height"`
}
