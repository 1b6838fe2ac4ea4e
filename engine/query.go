package engine

import (
	"sort"

	"github.com/lixenwraith/hydrosim/core"
)

// QueryBuilder provides a fluent interface for querying entities based on component intersection
// Starts with the smallest included store and filters through the rest
type QueryBuilder struct {
	world    *World
	with     []QueryableStore
	without  []AnyStore
	executed bool
	results  []core.Entity
}

// Query creates a new QueryBuilder
//
// Example:
//
//	plain := world.Query().
//	    With(world.Components.Source).
//	    Without(world.Components.Seasonal).
//	    Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{
		world: w,
		with:  make([]QueryableStore, 0, 4),
	}
}

// With adds a component store the results must be present in
// Panics if called after Execute()
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.with = append(qb.with, store)
	return qb
}

// Without adds a component store the results must be absent from
// Panics if called after Execute()
func (qb *QueryBuilder) Without(stores ...AnyStore) *QueryBuilder {
	if qb.executed {
		panic("query already executed - cannot modify after Execute()")
	}
	qb.without = append(qb.without, stores...)
	return qb
}

// Execute runs the query; repeated calls return the cached result
// Results are sorted by entity id so passes iterate deterministically
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true

	if len(qb.with) == 0 {
		qb.results = make([]core.Entity, 0)
		return qb.results
	}

	sort.Slice(qb.with, func(i, j int) bool {
		return qb.with[i].Count() < qb.with[j].Count()
	})

	candidates := qb.with[0].All()
	filtered := candidates[:0]
	for _, e := range candidates {
		if qb.matches(e) {
			filtered = append(filtered, e)
		}
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i] < filtered[j] })
	qb.results = filtered
	return qb.results
}

func (qb *QueryBuilder) matches(e core.Entity) bool {
	for _, store := range qb.with[1:] {
		if !store.Has(e) {
			return false
		}
	}
	for _, store := range qb.without {
		if store.Has(e) {
			return false
		}
	}
	return true
}
