package engine

import (
	"github.com/lixenwraith/hydrosim/component"
	"github.com/lixenwraith/hydrosim/core"
)

// ComponentStore provides cached pointers to typed component stores
// Initialized once per world; pointers remain valid for its lifetime
type ComponentStore struct {
	// Record
	Source   *Store[component.WaterSourceComponent]
	Position *Store[component.PositionComponent]
	Owner    *Store[component.OwnerComponent]

	// Behavior (at most one per record)
	Autofill  *Store[component.AutofillingLakeComponent]
	Detention *Store[component.DetentionBasinComponent]
	Retention *Store[component.RetentionBasinComponent]
	Seasonal  *Store[component.SeasonalStreamComponent]
	Tides     *Store[component.TidesAndWavesComponent]

	// Derived
	TideReference *Store[component.TideReferenceComponent]
}

func newComponentStore() ComponentStore {
	return ComponentStore{
		Source:        NewStore[component.WaterSourceComponent](),
		Position:      NewStore[component.PositionComponent](),
		Owner:         NewStore[component.OwnerComponent](),
		Autofill:      NewStore[component.AutofillingLakeComponent](),
		Detention:     NewStore[component.DetentionBasinComponent](),
		Retention:     NewStore[component.RetentionBasinComponent](),
		Seasonal:      NewStore[component.SeasonalStreamComponent](),
		Tides:         NewStore[component.TidesAndWavesComponent](),
		TideReference: NewStore[component.TideReferenceComponent](),
	}
}

// all returns every store for lifecycle operations
func (c *ComponentStore) all() []AnyStore {
	return []AnyStore{
		c.Source, c.Position, c.Owner,
		c.Autofill, c.Detention, c.Retention, c.Seasonal, c.Tides,
		c.TideReference,
	}
}

// Behaviors returns the behavior stores, used to select records without any behavior
func (c *ComponentStore) Behaviors() []AnyStore {
	return []AnyStore{c.Autofill, c.Detention, c.Retention, c.Seasonal, c.Tides}
}

// BehaviorOf returns the kind of the behavior attached to an entity
func (c *ComponentStore) BehaviorOf(e core.Entity) component.BehaviorKind {
	switch {
	case c.Autofill.Has(e):
		return component.BehaviorAutofillingLake
	case c.Detention.Has(e):
		return component.BehaviorDetentionBasin
	case c.Retention.Has(e):
		return component.BehaviorRetentionBasin
	case c.Seasonal.Has(e):
		return component.BehaviorSeasonalStream
	case c.Tides.Has(e):
		return component.BehaviorTidesAndWaves
	default:
		return component.BehaviorNone
	}
}
