// Package climate holds the pure hydrology models driven by host climate state
// Functions here never touch the world; systems snapshot inputs and commit outputs
package climate

import (
	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/parameter"
)

// Flow is the per-pass creek multiplier shared by every seasonal record
type Flow struct {
	Multiplier float32

	// SnowAccumMultiplier is the fraction of the anchor amount banked as snow this pass
	SnowAccumMultiplier float32

	// MeltHeadroom is the unused multiplier range available to snowmelt, 0 when melting is off
	MeltHeadroom float32

	// TempDiff is the climate temperature above freezing, before elevation derating
	TempDiff float32
}

// FlowModel tracks season transitions and the precipitation means they need
type FlowModel struct {
	season      engine.SeasonID
	hasSeason   bool
	currentMean float32

	maxMean   float32
	maxCached bool
}

// NewFlowModel creates a model with empty caches
func NewFlowModel() *FlowModel {
	return &FlowModel{}
}

// Observe refreshes the season cache on a season edge
// The maximum mean is sampled once across all seasons on first use
func (m *FlowModel) Observe(provider engine.ClimateProvider, state engine.ClimateState) {
	if provider == nil {
		return
	}
	seasons := provider.Seasons()

	if !m.maxCached {
		for i := range seasons {
			if mean := provider.MeanPrecipitationAt(engine.SeasonMidpoint(seasons, i)); mean > m.maxMean {
				m.maxMean = mean
			}
		}
		m.maxCached = true
	}

	if m.hasSeason && state.Season == m.season {
		return
	}
	m.season = state.Season
	m.hasSeason = true

	date := state.NormalizedDate
	for i, s := range seasons {
		if s.ID == state.Season {
			date = engine.SeasonMidpoint(seasons, i)
			break
		}
	}
	m.currentMean = provider.MeanPrecipitationAt(date)
}

// SeasonRatio returns current over maximum season mean, 0 when the maximum is 0
func (m *FlowModel) SeasonRatio() float32 {
	if m.maxMean <= 0 {
		return 0
	}
	return m.currentMean / m.maxMean
}

// Season returns the cached season id
func (m *FlowModel) Season() engine.SeasonID {
	return m.season
}

// Reset forgets the season and maximum mean so the next Observe samples the loaded map
func (m *FlowModel) Reset() {
	*m = FlowModel{}
}

// Compute derives the pass multiplier from settings and the climate snapshot
func (m *FlowModel) Compute(s config.Settings, c engine.ClimateState) Flow {
	return ComputeFlow(m.SeasonRatio(), s, c)
}

// ComputeFlow is the stateless multiplier rule for a known season ratio
func ComputeFlow(seasonRatio float32, s config.Settings, c engine.ClimateState) Flow {
	seasonality := seasonRatio * s.SeasonalityWeight
	spring := s.SpringWaterWeight

	if c.IsSnowing && s.SimulateSnowmelt {
		return Flow{
			Multiplier:          clamp(seasonality+spring, s.MinMultiplier, s.MaxMultiplier),
			SnowAccumMultiplier: c.Precipitation * s.RainWeight,
		}
	}

	f := Flow{
		Multiplier: clamp(seasonality+c.Precipitation*s.RainWeight+spring, s.MinMultiplier, s.MaxMultiplier),
	}
	if tempDiff := c.TemperatureDifferential(); s.SimulateSnowmelt && tempDiff > 0 && f.Multiplier < s.MaxMultiplier {
		f.MeltHeadroom = s.MaxMultiplier - f.Multiplier
		f.TempDiff = tempDiff
	}
	return f
}

// StreamState is one seasonal record's snow bookkeeping for a pass
type StreamState struct {
	Amount      float32
	Snow        float32
	Accumulated float32
	Melted      float32
}

// StreamStep applies accumulate, melt, set in that order for one record
func StreamStep(original, snow, terrain float32, f Flow) StreamState {
	st := StreamState{Snow: snow}

	if f.SnowAccumMultiplier > 0 {
		st.Accumulated = original * f.SnowAccumMultiplier
		st.Snow += st.Accumulated
	}

	if f.MeltHeadroom > 0 && st.Snow > 0 {
		if local := f.TempDiff - terrain/parameter.ElevationDerating; local > 0 {
			melt := min(original*f.MeltHeadroom, st.Snow, local*parameter.SnowmeltRate*original)
			if melt > 0 {
				st.Melted = melt
				st.Snow -= melt
			}
		}
	}

	st.Amount = original*f.Multiplier + st.Melted
	return st
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
