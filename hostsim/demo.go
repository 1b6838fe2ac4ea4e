package hostsim

import "github.com/lixenwraith/hydrosim/component"

// Placement is one source of a generated map
type Placement struct {
	Position component.PositionComponent
	Source   component.WaterSourceComponent
	Behavior any
}

// DemoMap lays out a coast, a river mouth, creeks and one of each basin and lake kind
// Creeks are placed uncalibrated so calibration recovery runs on them
func (h *Host) DemoMap() []Placement {
	sizeX, sizeZ := h.Terrain.Size()
	at := func(fx, fz float32) component.PositionComponent {
		pos := component.PositionComponent{X: fx * sizeX, Z: fz * sizeZ}
		pos.Y = h.Terrain.HeightAt(pos)
		return pos
	}

	var out []Placement

	// Coast along the low edge
	for _, fz := range []float32{0.2, 0.5, 0.8} {
		pos := at(0, fz)
		out = append(out, Placement{
			Position: pos,
			Source:   component.WaterSourceComponent{Amount: pos.Y + 6, DepthMode: component.DepthSea, Radius: 12, Multiplier: 1},
		})
	}
	out = append(out, Placement{
		Position: at(0, 0.65),
		Source:   component.WaterSourceComponent{Amount: 2, DepthMode: component.DepthRiver, Radius: 6, Multiplier: 1},
	})

	for i, fz := range []float32{0.15, 0.4, 0.7, 0.9} {
		out = append(out, Placement{
			Position: at(0.6+0.1*float32(i%3), fz),
			Source: component.WaterSourceComponent{
				Amount:     1 + float32(i)*0.5,
				DepthMode:  component.DepthCreek,
				Radius:     2,
				Multiplier: component.UncalibratedMultiplier,
			},
		})
	}

	det := at(0.45, 0.3)
	out = append(out, Placement{
		Position: det,
		Source:   component.WaterSourceComponent{Amount: det.Y, DepthMode: component.DepthLake, Radius: 8, Multiplier: 0.2},
		Behavior: component.DetentionBasinComponent{MaxHeight: det.Y + 6},
	})

	ret := at(0.45, 0.7)
	out = append(out, Placement{
		Position: ret,
		Source:   component.WaterSourceComponent{Amount: ret.Y, DepthMode: component.DepthLake, Radius: 8, Multiplier: 0.2},
		Behavior: component.RetentionBasinComponent{MaxHeight: ret.Y + 8, MinHeight: ret.Y + 2},
	})

	lake := at(0.8, 0.5)
	out = append(out, Placement{
		Position: lake,
		Source:   component.WaterSourceComponent{Amount: lake.Y, DepthMode: component.DepthLake, Radius: 10, Multiplier: 0.2},
		Behavior: component.AutofillingLakeComponent{MaxHeight: lake.Y + 4},
	})

	return out
}
