package hostsim

import (
	"math"
	"sync"

	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/parameter"
)

// Season table of the synthetic climate
var seasons = []engine.Season{
	{ID: "spring", Start: 0},
	{ID: "summer", Start: 0.25},
	{ID: "autumn", Start: 0.5},
	{ID: "winter", Start: 0.75},
}

// Climate is a deterministic four-season climate driven by the host frame
type Climate struct {
	mu sync.RWMutex

	seed       uint64
	daysPerYr  int64
	frame      int64
	freezing   float32
	meanTemp   float32
	tempSwing  float32
	meanPrecip float32
}

// NewClimate creates a climate with the given year length in days
func NewClimate(seed uint64, daysPerYear int64) *Climate {
	if daysPerYear <= 0 {
		daysPerYear = 16
	}
	return &Climate{
		seed:       seed,
		daysPerYr:  daysPerYear,
		freezing:   0,
		meanTemp:   8,
		tempSwing:  14,
		meanPrecip: 0.35,
	}
}

// SetFrame moves the climate clock
func (c *Climate) SetFrame(frame int64) {
	c.mu.Lock()
	c.frame = frame
	c.mu.Unlock()
}

// Seasons returns the season table
func (c *Climate) Seasons() []engine.Season {
	return seasons
}

// MeanPrecipitationAt is the long-run precipitation curve, wettest in spring
func (c *Climate) MeanPrecipitationAt(date float32) float32 {
	return c.meanPrecip + 0.25*float32(math.Cos(2*math.Pi*float64(date-0.125)))
}

// Current reads the climate at the current frame
func (c *Climate) Current() engine.ClimateState {
	c.mu.RLock()
	frame := c.frame
	c.mu.RUnlock()

	day := frame / parameter.FramesPerDay
	dayInYear := day % c.daysPerYr
	timeOfDay := float32(frame%parameter.FramesPerDay) / parameter.FramesPerDay
	date := (float32(dayInYear) + timeOfDay) / float32(c.daysPerYr)

	// Warmest mid-summer, coldest mid-winter
	temp := c.meanTemp + c.tempSwing*float32(math.Cos(2*math.Pi*float64(date-0.375)))
	temp += 3 * float32(math.Sin(2*math.Pi*float64(timeOfDay-0.25)))

	// Weather changes every quarter day
	quarter := uint64(frame / (parameter.FramesPerDay / 4))
	var precip float32
	if roll := unitHash(c.seed, quarter); roll < c.MeanPrecipitationAt(date) {
		precip = 0.2 + 0.8*unitHash(c.seed^0xa5a5a5a5, quarter)
	}

	state := engine.ClimateState{
		NormalizedDate:      date,
		NormalizedTime:      timeOfDay,
		Precipitation:       precip,
		Temperature:         temp,
		FreezingTemperature: c.freezing,
	}
	state.IsSnowing = precip > 0 && temp < c.freezing
	for _, s := range seasons {
		if date >= s.Start {
			state.Season = s.ID
		}
	}
	return state
}

// unitHash maps (seed, n) to [0,1) with a splitmix64 finalizer
func unitHash(seed, n uint64) float32 {
	x := seed + n*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return float32(x>>40) / float32(1<<24)
}
