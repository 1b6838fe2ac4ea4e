package parameter

// Flow model constants
const (
	// ElevationDerating is the height units per degree of temperature loss
	ElevationDerating = 500.0

	// SnowmeltRate is the melt per degree of temperature differential, as a fraction of the anchor amount
	SnowmeltRate = 1.0 / 30.0

	// FillRateFactor converts remaining depth into a creek-mode fill rate
	FillRateFactor = 0.1

	// NearCapRatio is the fraction of the cap above which fill is throttled
	NearCapRatio = 0.95
)

// Calibration recovery
const (
	// CalibrationRadiusGrowth is the multiplicative radius growth per failed attempt
	CalibrationRadiusGrowth = 1.25

	// CalibrationMinRadiusStep is the minimum absolute radius growth per failed attempt
	CalibrationMinRadiusStep = 1.0
)

// Tuner
const (
	// KnobEpsilon is the tolerance for treating host knobs as equal to configuration
	KnobEpsilon = 1e-6
)
