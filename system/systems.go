// Package system implements the hydrology passes run by the engine scheduler
package system

import (
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/event"
)

// Set is the full pass ensemble bound to one world
type Set struct {
	Classifier      *ClassifierSystem
	Calibration     *CalibrationSystem
	DisableSeasonal *DisableSystem
	DisableTides    *DisableSystem
	Seasonal        *SeasonalStreamSystem
	Detention       *BasinSystem
	Retention       *BasinSystem
	Autofill        *AutofillLakeSystem
	Tides           *TidesSystem
	Tuner           *TunerSystem

	// Guard is run on demand before saves and never scheduled
	Guard *SerializeGuardSystem
}

// NewSet creates every pass for world
func NewSet(world *engine.World) *Set {
	return &Set{
		Classifier:      NewClassifierSystem(world),
		Calibration:     NewCalibrationSystem(world),
		DisableSeasonal: NewDisableSystem(world, event.FeatureSeasonalStreams),
		DisableTides:    NewDisableSystem(world, event.FeatureTidesAndWaves),
		Seasonal:        NewSeasonalStreamSystem(world),
		Detention:       NewDetentionBasinSystem(world),
		Retention:       NewRetentionBasinSystem(world),
		Autofill:        NewAutofillLakeSystem(world),
		Tides:           NewTidesSystem(world),
		Tuner:           NewTunerSystem(world),
		Guard:           NewSerializeGuardSystem(world),
	}
}

// Scheduled returns the passes driven by the scheduler
func (s *Set) Scheduled() []engine.System {
	return []engine.System{
		s.Classifier,
		s.Calibration,
		s.DisableSeasonal,
		s.DisableTides,
		s.Seasonal,
		s.Detention,
		s.Retention,
		s.Autofill,
		s.Tides,
		s.Tuner,
	}
}

// Register adds every scheduled pass to the scheduler
func (s *Set) Register(cs *engine.ClockScheduler) {
	for _, sys := range s.Scheduled() {
		cs.Register(sys)
	}
}
