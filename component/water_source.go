package component

// DepthMode selects how the external solver interprets a source's Amount
type DepthMode int32

const (
	// DepthCreek treats Amount as a flow rate
	DepthCreek DepthMode = iota
	// DepthLake treats Amount as an absolute surface height
	DepthLake
	// DepthRiver is border-fed flow
	DepthRiver
	// DepthSea is border-fed absolute depth
	DepthSea
)

// UncalibratedMultiplier is the solver sentinel for a source whose multiplier has not been found
const UncalibratedMultiplier float32 = 1.0

func (m DepthMode) String() string {
	switch m {
	case DepthCreek:
		return "Creek"
	case DepthLake:
		return "Lake"
	case DepthRiver:
		return "River"
	case DepthSea:
		return "Sea"
	default:
		return "Unknown"
	}
}

// IsBorder reports whether sources in this mode are fed from the map border
// Border sources are not calibrated
func (m DepthMode) IsBorder() bool {
	return m == DepthRiver || m == DepthSea
}

// Valid reports whether the mode is one of the known values
func (m DepthMode) Valid() bool {
	return m >= DepthCreek && m <= DepthSea
}

// WaterSourceComponent is the canonical state shared by every source kind
// Consumed by the host solver every tick
type WaterSourceComponent struct {
	Amount     float32
	DepthMode  DepthMode
	Radius     float32 // 0 = non-interactive source
	Multiplier float32 // UncalibratedMultiplier until calibrated
	Polluted   float32
}

// IsCalibrated reports whether the multiplier holds a usable value
func (w WaterSourceComponent) IsCalibrated() bool {
	return w.DepthMode.IsBorder() || w.Multiplier != UncalibratedMultiplier
}
