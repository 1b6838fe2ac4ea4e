package parameter

// System Execution Priorities (lower runs first)
// Classification precedes every behavior pass; the tuner runs after all height-consuming passes
const (
	PriorityClassifier  = 10
	PriorityCalibration = 20
	PriorityDisable     = 30
	PrioritySeasonal    = 100
	PriorityDetention   = 110
	PriorityRetention   = 120
	PriorityAutofill    = 130
	PriorityTides       = 150
	PriorityTuner       = 900
)

// Update frequencies in passes per in-game day (0 = every tick)
const (
	UpdatesPerDayEveryTick = 0
	UpdatesPerDaySeasonal  = 128
	UpdatesPerDayBasin     = 128
	UpdatesPerDayAutofill  = 256
)
