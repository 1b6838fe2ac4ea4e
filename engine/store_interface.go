package engine

import (
	"github.com/lixenwraith/hydrosim/core"
)

// AnyStore provides type-erased operations for lifecycle management
// World uses it to destroy entities and clear state without knowing concrete types
type AnyStore interface {
	Remove(e core.Entity)
	Has(e core.Entity) bool
	Count() int
	Clear()
}

// QueryableStore extends AnyStore with the iteration needed by QueryBuilder
type QueryableStore interface {
	AnyStore
	All() []core.Entity
}
