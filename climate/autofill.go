package climate

import "github.com/lixenwraith/hydrosim/parameter"

// AutofillStage is the state of a filling lake after one evaluation
type AutofillStage uint8

const (
	// AutofillFilling leaves the amount to the host solver
	AutofillFilling AutofillStage = iota
	// AutofillNearCap throttles inflow to the remaining depth
	AutofillNearCap
	// AutofillComplete converts the record to a static lake
	AutofillComplete
)

func (s AutofillStage) String() string {
	switch s {
	case AutofillNearCap:
		return "near-cap"
	case AutofillComplete:
		return "complete"
	default:
		return "filling"
	}
}

// AutofillStep classifies a lake by its water height
// The returned amount is meaningful for NearCap and Complete only
func AutofillStep(maxHeight, terrain, water float32) (AutofillStage, float32) {
	switch {
	case water > maxHeight:
		return AutofillComplete, maxHeight
	case water >= parameter.NearCapRatio*maxHeight:
		return AutofillNearCap, (maxHeight - terrain) * parameter.FillRateFactor
	default:
		return AutofillFilling, 0
	}
}
