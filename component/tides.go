package component

// TidesAndWavesComponent oscillates a sea source around its still-water depth
type TidesAndWavesComponent struct {
	OriginalAmount float32
}

// TideReferenceComponent marks the synthetic sea source anchoring tide computation
// Derived state, destroyed before every save
type TideReferenceComponent struct {
	PreviousHeight float32
}
