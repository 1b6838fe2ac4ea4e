package parameter

import "time"

// Host timeline
const (
	// FramesPerDay is the number of host simulation frames in one in-game day
	FramesPerDay = 262144

	// ClockTickInterval is the wall-clock tick interval of the standalone scheduler loop
	ClockTickInterval = 50 * time.Millisecond

	// DefaultFramesPerTick is how many host frames one standalone tick advances
	DefaultFramesPerTick = 512
)

// ECS & Resources Limits
const (
	// EventQueueCapacity is the initial capacity of each drained event batch
	EventQueueCapacity = 256

	// BatchChunkSize is the minimum number of records handed to one worker in a parallel pass
	BatchChunkSize = 64
)
