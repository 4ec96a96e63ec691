package domain

// Default fallback values used when no statistics can be resolved.
const (
	DefaultWeightGrams     = 500.0
	DefaultVolumeCubicCm   = 3000.0
	cubicCmPerVolumeUnit   = 1000.0
	CategoryKeySeparator   = "|"
	CategoryPathSeparator  = " > "
	CategoryPathJoinString = " > "
)

// StatMean is a single aggregate value as stored in the statistics dataset
type StatMean struct {
	Mean *float64 `json:"mean,omitempty"`
}

// Value returns the mean and whether it is present and nonzero.
func (m *StatMean) Value() (float64, bool) {
	if m == nil || m.Mean == nil || *m.Mean == 0 {
		return 0, false
	}
	return *m.Mean, true
}

// StatDimensions holds per-axis mean dimensions in centimeters
type StatDimensions struct {
	Length *StatMean `json:"length,omitempty"`
	Width  *StatMean `json:"width,omitempty"`
	Height *StatMean `json:"height,omitempty"`
}

// CategoryStatEntry is one node of the category statistics table
type CategoryStatEntry struct {
	Weight     *StatMean       `json:"weight,omitempty"`     // grams
	Volume     *StatMean       `json:"volume,omitempty"`     // cm³, zero means "not measured"
	Dimensions *StatDimensions `json:"dimensions,omitempty"` // cm
}

// WeightMean returns the stored weight mean.
func (e CategoryStatEntry) WeightMean() (float64, bool) {
	return e.Weight.Value()
}

// VolumeMean returns the stored volume mean without deriving it from dimensions.
func (e CategoryStatEntry) VolumeMean() (float64, bool) {
	return e.Volume.Value()
}

// DerivedVolume returns the stored volume mean, or l*w*h/1000 when the stored
// value is absent or zero and all three dimension means are present.
func (e CategoryStatEntry) DerivedVolume() (float64, bool) {
	if v, ok := e.VolumeMean(); ok {
		return v, true
	}
	if e.Dimensions == nil {
		return 0, false
	}
	l, okL := e.Dimensions.Length.Value()
	w, okW := e.Dimensions.Width.Value()
	h, okH := e.Dimensions.Height.Value()
	if !okL || !okW || !okH {
		return 0, false
	}
	return l * w * h / cubicCmPerVolumeUnit, true
}
