package climate

import (
	"github.com/lixenwraith/hydrosim/engine"
	"github.com/lixenwraith/hydrosim/parameter"
)

// BasinInput is one basin record with its sampled heights
// Floor is set only for retention basins; an inverted floor is ignored
type BasinInput struct {
	MaxHeight float32
	MinHeight float32
	Floor     bool

	Amount  float32
	Snow    float32
	Terrain float32
	Water   float32
}

// BasinRule names the decision branch that produced an amount
type BasinRule uint8

const (
	BasinOverflow BasinRule = iota
	BasinFloor
	BasinRain
	BasinDry
)

func (r BasinRule) String() string {
	switch r {
	case BasinOverflow:
		return "overflow"
	case BasinFloor:
		return "floor"
	case BasinRain:
		return "rain"
	default:
		return "dry"
	}
}

// BasinResult is the basin decision output
type BasinResult struct {
	Amount float32
	Snow   float32
	Banked float32
	Melted float32
	Rule   BasinRule
}

// BasinStep is the shared detention/retention decision
// First matching rule sets the amount; snow banking is independent of the rule
func BasinStep(in BasinInput, c engine.ClimateState) BasinResult {
	maxDepth := in.MaxHeight - in.Terrain
	tempDiff := c.TemperatureDifferential() - in.Terrain/parameter.ElevationDerating
	raining := c.IsRaining()
	inflow := c.Precipitation * maxDepth * parameter.FillRateFactor

	res := BasinResult{Snow: in.Snow}

	switch {
	case in.Water > in.MaxHeight && in.Amount > 0:
		res.Rule = BasinOverflow
		res.Amount = 0

	case in.Floor && in.MinHeight < in.MaxHeight && in.Water < parameter.NearCapRatio*in.MinHeight:
		res.Rule = BasinFloor
		res.Amount = (in.MinHeight - in.Terrain) * parameter.FillRateFactor

	case raining && !c.IsSnowing:
		res.Rule = BasinRain
		res.Amount = inflow
		if res.Snow > 0 && tempDiff > 0 {
			melt := min(res.Snow, tempDiff*parameter.SnowmeltRate*in.MaxHeight)
			res.Melted = melt
			res.Snow -= melt
			res.Amount += melt
		}
		if in.Water > parameter.NearCapRatio*in.MaxHeight {
			res.Amount = min(res.Amount, in.MaxHeight*parameter.FillRateFactor)
		}

	default:
		res.Rule = BasinDry
		res.Amount = 0
	}

	if raining && c.IsSnowing {
		res.Banked = inflow
		res.Snow += inflow
	}
	return res
}
