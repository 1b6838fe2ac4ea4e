package status

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Registry is the central metrics facade
// Systems cache pointers during construction; passes write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Entry is one formatted metric
type Entry struct {
	Key   string
	Value string
}

// Snapshot returns every metric formatted as text, sorted by key
func (r *Registry) Snapshot() []Entry {
	entries := make([]Entry, 0, r.TotalCount())

	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		entries = append(entries, Entry{Key: key, Value: fmt.Sprintf("%t", ptr.Load())})
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		entries = append(entries, Entry{Key: key, Value: fmt.Sprintf("%d", ptr.Load())})
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		entries = append(entries, Entry{Key: key, Value: ptr.String()})
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		entries = append(entries, Entry{Key: key, Value: ptr.Load()})
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
