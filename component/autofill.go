package component

// AutofillingLakeComponent drives a creek-like source until the surface reaches MaxHeight
// Removed permanently on the terminal transition to a plain lake
type AutofillingLakeComponent struct {
	MaxHeight float32
}
