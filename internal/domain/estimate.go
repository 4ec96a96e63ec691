package domain

import "encoding/base64"

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type KnowledgeSource string

const (
	SourcePriorKnowledge  KnowledgeSource = "prior_knowledge"
	SourceSimilarProduct  KnowledgeSource = "similar_product_estimate"
	SourceCategoryAverage KnowledgeSource = "category_average"
	SourceUnknown         KnowledgeSource = "unknown"
)

// Markers written to RecognizedProduct when the predictor reply is unusable.
const (
	RecognizedError       = "error"
	RecognizedParseFailed = "parse_failed"
	RecognizedUnknown     = "unknown"
)

// FallbackEstimate is the category-statistics answer, always populated
type FallbackEstimate struct {
	WeightGrams   float64 `json:"weight_g"`
	VolumeCubicCm float64 `json:"volume_cm3"`
}

// DefaultFallback is returned when nothing in the statistics table matches.
func DefaultFallback() FallbackEstimate {
	return FallbackEstimate{WeightGrams: DefaultWeightGrams, VolumeCubicCm: DefaultVolumeCubicCm}
}

// PredictorReply is the structured shape the predictor is asked to return.
// Every field is optional on the wire.
type PredictorReply struct {
	RecognizedProduct  *string     `json:"recognized_product"`
	Confidence         *string     `json:"confidence"`
	KnowledgeSource    *string     `json:"knowledge_source"`
	PredictedWeightG   *FlexNumber `json:"predicted_weight_g"`
	PredictedVolumeCm3 *FlexNumber `json:"predicted_volume_cm3"`
	Reasoning          *string     `json:"reasoning"`
}

// Provenance describes where an estimate came from
type Provenance struct {
	Confidence        Confidence      `json:"confidence"`
	Source            KnowledgeSource `json:"source"`
	ProductRecognized string          `json:"product_recognized"`
	Reasoning         string          `json:"reasoning"`
}

// EstimationResult is the fused estimate in grams and cubic centimeters
type EstimationResult struct {
	WeightGrams   float64
	VolumeCubicCm float64
	Provenance    Provenance
}

// DebugInfo is the provenance block published alongside the estimate
type DebugInfo struct {
	WeightGrams       float64         `json:"weight_g"`
	VolumeCubicCm     float64         `json:"volume_cm3"`
	Confidence        Confidence      `json:"confidence"`
	Source            KnowledgeSource `json:"source"`
	ProductRecognized string          `json:"product_recognized"`
	Reasoning         string          `json:"reasoning"`
}

// NormalizedEstimate is the externally published shape
type NormalizedEstimate struct {
	WeightKg     float64   `json:"weight"`
	VolumeCubicM float64   `json:"volume"`
	Debug        DebugInfo `json:"_debug"`
}

// Image is a retrieved listing image ready to be attached to a query
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL encodes the image as a base64 data URL.
func (i *Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// PredictorQuery is everything sent to the predictor for one estimate
type PredictorQuery struct {
	System string
	Prompt string
	Image  *Image
}
