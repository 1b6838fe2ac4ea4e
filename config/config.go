// Package config holds the user-facing simulation settings
// Settings are an explicit value passed to every pass at tick time
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TideClassification is the tidal period in hours
type TideClassification int

const (
	TideSemidiurnal TideClassification = 12
	TideDiurnal     TideClassification = 24
)

// Period returns the period value used by the tide term
func (c TideClassification) Period() float32 {
	return float32(c)
}

// Settings is the configuration surface consumed by the engine
type Settings struct {
	// Global water knobs
	EvaporationRate          float32 `toml:"evaporation_rate"`
	TemporaryEvaporationRate float32 `toml:"temporary_evaporation_rate"`
	Damping                  float32 `toml:"damping"`
	ResetTimeLimit           float32 `toml:"reset_time_limit"`

	// Seasonal streams
	SeasonalStreams   bool    `toml:"seasonal_streams"`
	SeasonalityWeight float32 `toml:"seasonality_weight"`
	RainWeight        float32 `toml:"rain_weight"`
	SpringWaterWeight float32 `toml:"spring_water_weight"`
	MinMultiplier     float32 `toml:"min_multiplier"`
	MaxMultiplier     float32 `toml:"max_multiplier"`
	SimulateSnowmelt  bool    `toml:"simulate_snowmelt"`

	// Tides and waves
	TidesAndWaves      bool               `toml:"tides_and_waves"`
	WaveHeight         float32            `toml:"wave_height"`
	WaveFrequency      float32            `toml:"wave_frequency"`
	TideHeight         float32            `toml:"tide_height"`
	TideClassification TideClassification `toml:"tide_classification"`

	// Engine
	CalibrationAttempts int `toml:"calibration_attempts"`
	Workers             int `toml:"workers"`
}

// Default returns the standard configuration
func Default() Settings {
	return Settings{
		EvaporationRate:          0.0001,
		TemporaryEvaporationRate: 0.1,
		Damping:                  0.995,
		ResetTimeLimit:           0.005,

		SeasonalStreams:   true,
		SeasonalityWeight: 0.75,
		RainWeight:        0.75,
		SpringWaterWeight: 0.25,
		MinMultiplier:     0,
		MaxMultiplier:     1,
		SimulateSnowmelt:  true,

		TidesAndWaves:      false,
		WaveHeight:         10,
		WaveFrequency:      100,
		TideHeight:         0,
		TideClassification: TideSemidiurnal,

		CalibrationAttempts: 10,
		Workers:             4,
	}
}

// Validation errors
var (
	ErrNegativeRate       = errors.New("rate must be non-negative")
	ErrMultiplierRange    = errors.New("min multiplier exceeds max multiplier")
	ErrDampingRange       = errors.New("damping must be within [0, 1]")
	ErrTideClassification = errors.New("tide classification must be 12 or 24")
	ErrNegativeHeight     = errors.New("wave and tide heights must be non-negative")
	ErrAttemptBudget      = errors.New("calibration attempts must be positive")
)

// Validate reports every out-of-range setting
func (s Settings) Validate() error {
	var errs []error
	if s.EvaporationRate < 0 || s.TemporaryEvaporationRate < 0 || s.ResetTimeLimit < 0 {
		errs = append(errs, ErrNegativeRate)
	}
	if s.MinMultiplier > s.MaxMultiplier {
		errs = append(errs, fmt.Errorf("%w: %g > %g", ErrMultiplierRange, s.MinMultiplier, s.MaxMultiplier))
	}
	if s.Damping < 0 || s.Damping > 1 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrDampingRange, s.Damping))
	}
	if s.TideClassification != TideSemidiurnal && s.TideClassification != TideDiurnal {
		errs = append(errs, fmt.Errorf("%w: %d", ErrTideClassification, s.TideClassification))
	}
	if s.WaveHeight < 0 || s.TideHeight < 0 {
		errs = append(errs, ErrNegativeHeight)
	}
	if s.CalibrationAttempts <= 0 {
		errs = append(errs, ErrAttemptBudget)
	}
	return errors.Join(errs...)
}

// Sanitize returns a copy with out-of-range values replaced so the engine can run
func (s Settings) Sanitize() Settings {
	d := Default()
	if s.EvaporationRate < 0 {
		s.EvaporationRate = d.EvaporationRate
	}
	if s.TemporaryEvaporationRate < 0 {
		s.TemporaryEvaporationRate = d.TemporaryEvaporationRate
	}
	if s.ResetTimeLimit < 0 {
		s.ResetTimeLimit = d.ResetTimeLimit
	}
	if s.MinMultiplier > s.MaxMultiplier {
		s.MaxMultiplier = s.MinMultiplier
	}
	if s.Damping < 0 {
		s.Damping = 0
	}
	if s.Damping > 1 {
		s.Damping = 1
	}
	if s.TideClassification != TideSemidiurnal && s.TideClassification != TideDiurnal {
		s.TideClassification = d.TideClassification
	}
	if s.WaveHeight < 0 {
		s.WaveHeight = 0
	}
	if s.TideHeight < 0 {
		s.TideHeight = 0
	}
	if s.CalibrationAttempts <= 0 {
		s.CalibrationAttempts = d.CalibrationAttempts
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
	return s
}

// WavesActive reports whether the tide pass has anything to do
func (s Settings) WavesActive() bool {
	return s.WaveHeight != 0 || s.TideHeight != 0
}

// Load reads settings from a TOML file on top of the defaults
// Keys absent from the file keep their default value
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to a TOML file, creating parent directories
func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}
