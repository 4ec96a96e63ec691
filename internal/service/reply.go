package service

import (
	"encoding/json"
	"strings"

	"shipping/estimator/internal/domain"
)

// extractJSONObject returns the span from the first '{' to the last '}' of
// raw, which drops Markdown code fences and any prose around the object.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// parseReply decodes the predictor's raw text into a PredictorReply.
func parseReply(raw string) (*domain.PredictorReply, error) {
	object, ok := extractJSONObject(raw)
	if !ok {
		return nil, domain.PredictorParseFailure("predictor reply contains no JSON object", nil)
	}

	var reply domain.PredictorReply
	if err := json.Unmarshal([]byte(object), &reply); err != nil {
		return nil, domain.PredictorParseFailure("failed to parse predictor reply", err)
	}

	return &reply, nil
}

// reconcile merges a parsed reply with the fallback component by component.
func reconcile(reply *domain.PredictorReply, fallback domain.FallbackEstimate) domain.EstimationResult {
	result := domain.EstimationResult{
		WeightGrams:   fallback.WeightGrams,
		VolumeCubicCm: fallback.VolumeCubicCm,
		Provenance: domain.Provenance{
			Confidence:        domain.ConfidenceMedium,
			Source:            domain.SourceUnknown,
			ProductRecognized: domain.RecognizedUnknown,
		},
	}

	if reply.PredictedWeightG != nil {
		result.WeightGrams = reply.PredictedWeightG.Float()
	}
	if reply.PredictedVolumeCm3 != nil {
		result.VolumeCubicCm = reply.PredictedVolumeCm3.Float()
	}
	if reply.Confidence != nil {
		result.Provenance.Confidence = domain.Confidence(*reply.Confidence)
	}
	if reply.KnowledgeSource != nil {
		result.Provenance.Source = domain.KnowledgeSource(*reply.KnowledgeSource)
	}
	if reply.RecognizedProduct != nil {
		result.Provenance.ProductRecognized = *reply.RecognizedProduct
	}
	if reply.Reasoning != nil {
		result.Provenance.Reasoning = *reply.Reasoning
	}

	return result
}

// fallbackResult is the category-average answer annotated with why the
// predictor could not be used.
func fallbackResult(fallback domain.FallbackEstimate, recognized, reasoning string) domain.EstimationResult {
	return domain.EstimationResult{
		WeightGrams:   fallback.WeightGrams,
		VolumeCubicCm: fallback.VolumeCubicCm,
		Provenance: domain.Provenance{
			Confidence:        domain.ConfidenceLow,
			Source:            domain.SourceCategoryAverage,
			ProductRecognized: recognized,
			Reasoning:         reasoning,
		},
	}
}
