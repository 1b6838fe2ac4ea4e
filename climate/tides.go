package climate

import (
	"math"

	"github.com/lixenwraith/hydrosim/config"
	"github.com/lixenwraith/hydrosim/engine"
)

// TideOffset returns the sea-level drop applied to every tagged sea record
// The offset ranges over [0, wave+tide] so records never rise above their still-water depth
func TideOffset(s config.Settings, c engine.ClimateState) float32 {
	wave := float64(s.WaveHeight)
	tide := float64(s.TideHeight)

	waveTerm := wave / 2 * math.Sin(2*math.Pi*float64(s.WaveFrequency)*float64(c.NormalizedTime))
	tideTerm := tide / 2 * math.Cos(2*math.Pi*float64(s.TideClassification.Period())*float64(c.NormalizedDate))

	return float32(waveTerm + tideTerm + wave/2 + tide/2)
}

// ReferenceHeight is the combined amplitude cached on the tide reference
func ReferenceHeight(s config.Settings) float32 {
	return s.WaveHeight + s.TideHeight
}
