package component

// DetentionBasinComponent is a capped rainfall-runoff source without a floor
type DetentionBasinComponent struct {
	MaxHeight        float32
	SnowAccumulation float32
}

// RetentionBasinComponent is a capped rainfall-runoff source that refills toward MinHeight
// Floor logic only applies when MinHeight < MaxHeight
type RetentionBasinComponent struct {
	MaxHeight        float32
	MinHeight        float32
	SnowAccumulation float32
}

// HasValidFloor reports whether the minimum level can be enforced
func (r RetentionBasinComponent) HasValidFloor() bool {
	return r.MinHeight < r.MaxHeight
}
