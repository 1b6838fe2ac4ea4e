package component

import "github.com/lixenwraith/hydrosim/core"

// PositionComponent is the world position used for height sampling
type PositionComponent struct {
	X, Y, Z float32
}

// OwnerComponent marks a record as owned by another entity (e.g. a building outlet)
// Owned records are never classified
type OwnerComponent struct {
	Owner core.Entity
}
