package component

// SeasonalStreamComponent scales a creek by season, rain and snowmelt
// OriginalAmount is written once at attach time and is the round-trip anchor
type SeasonalStreamComponent struct {
	OriginalAmount   float32
	SnowAccumulation float32
}
