package component

// BehaviorKind discriminates the behavior component attached to a source
// At most one kind is attached at a time
type BehaviorKind uint8

const (
	BehaviorNone BehaviorKind = iota
	BehaviorAutofillingLake
	BehaviorDetentionBasin
	BehaviorRetentionBasin
	BehaviorSeasonalStream
	BehaviorTidesAndWaves
)

func (k BehaviorKind) String() string {
	switch k {
	case BehaviorNone:
		return "None"
	case BehaviorAutofillingLake:
		return "AutofillingLake"
	case BehaviorDetentionBasin:
		return "DetentionBasin"
	case BehaviorRetentionBasin:
		return "RetentionBasin"
	case BehaviorSeasonalStream:
		return "SeasonalStream"
	case BehaviorTidesAndWaves:
		return "TidesAndWaves"
	default:
		return "Unknown"
	}
}
