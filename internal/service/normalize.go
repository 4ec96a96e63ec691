package service

import (
	"math"

	"shipping/estimator/internal/domain"
)

const (
	gramsPerKg     = 1000.0
	cubicCmPerM3   = 1_000_000.0
	weightDecimals = 4
	volumeDecimals = 6
)

// Normalize converts a grams/cm³ result into the published kg/m³ shape.
// The debug block keeps the unrounded source values.
func Normalize(result domain.EstimationResult) domain.NormalizedEstimate {
	return domain.NormalizedEstimate{
		WeightKg:     roundTo(result.WeightGrams/gramsPerKg, weightDecimals),
		VolumeCubicM: roundTo(result.VolumeCubicCm/cubicCmPerM3, volumeDecimals),
		Debug: domain.DebugInfo{
			WeightGrams:       result.WeightGrams,
			VolumeCubicCm:     result.VolumeCubicCm,
			Confidence:        result.Provenance.Confidence,
			Source:            result.Provenance.Source,
			ProductRecognized: result.Provenance.ProductRecognized,
			Reasoning:         result.Provenance.Reasoning,
		},
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
