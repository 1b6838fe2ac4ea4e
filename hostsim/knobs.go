package hostsim

import "sync"

// Knobs are the host's global water parameters
type Knobs struct {
	mu          sync.Mutex
	evaporation float32
	damping     float32
	writes      int
}

// NewKnobs creates knobs at the given values
func NewKnobs(evaporation, damping float32) *Knobs {
	return &Knobs{evaporation: evaporation, damping: damping}
}

func (k *Knobs) Evaporation() float32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.evaporation
}

func (k *Knobs) SetEvaporation(rate float32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.evaporation = rate
	k.writes++
}

func (k *Knobs) Damping() float32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.damping
}

func (k *Knobs) SetDamping(damping float32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.damping = damping
	k.writes++
}

// Writes returns the number of setter calls
func (k *Knobs) Writes() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.writes
}
