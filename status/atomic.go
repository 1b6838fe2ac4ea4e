package status

import (
	"math"
	"strconv"
	"sync/atomic"
)

// MaxStringLen caps string metrics so the monitor panel stays aligned
const MaxStringLen = 24

// AtomicFloat stores a float64 as its bit pattern; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add applies delta with a CAS loop and returns the result
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return math.Float64frombits(next)
		}
	}
}

// String formats the value with fixed precision for display
func (f *AtomicFloat) String() string {
	return strconv.FormatFloat(f.Get(), 'f', 4, 64)
}

// AtomicString holds a short label such as the current season
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store truncates to MaxStringLen bytes
func (s *AtomicString) Store(v string) {
	if len(v) > MaxStringLen {
		v = v[:MaxStringLen]
	}
	s.ptr.Store(&v)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
