package service

import (
	"testing"

	"shipping/estimator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"markdown fence", "```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`, true},
		{"prose around", `Sure! {"a":1} Hope this helps.`, `{"a":1}`, true},
		{"no braces", `weight is 300g`, ``, false},
		{"reversed braces", `} nothing {`, ``, false},
		{"empty", ``, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReply_MarkdownFenced(t *testing.T) {
	raw := "```json\n" + `{
  "recognized_product": "One Piece vol. 1",
  "confidence": "high",
  "knowledge_source": "prior_knowledge",
  "predicted_weight_g": 180.5,
  "predicted_volume_cm3": "302",
  "reasoning": "standard tankobon"
}` + "\n```"

	reply, err := parseReply(raw)
	require.NoError(t, err)

	require.NotNil(t, reply.PredictedWeightG)
	assert.Equal(t, 180.5, reply.PredictedWeightG.Float())
	require.NotNil(t, reply.PredictedVolumeCm3)
	assert.Equal(t, 302.0, reply.PredictedVolumeCm3.Float())
	assert.Equal(t, "One Piece vol. 1", *reply.RecognizedProduct)
}

func TestParseReply_Failures(t *testing.T) {
	for _, raw := range []string{"", "no json here", `{"predicted_weight_g": }`, `{"reasoning": 12}`, `{"a":1} and {"b":2}`,
		`{"predicted_weight_g": "NaN"}`, `{"predicted_volume_cm3": "Infinity"}`, `{"predicted_weight_g": "-Inf"}`} {
		_, err := parseReply(raw)
		require.Error(t, err, raw)
		assert.True(t, domain.IsKind(err, domain.KindPredictorParse), raw)
	}
}

func TestParseReply_NullFieldsAreAbsent(t *testing.T) {
	reply, err := parseReply(`{"predicted_weight_g": null, "confidence": null}`)
	require.NoError(t, err)

	result := reconcile(reply, testFallback)
	assert.Equal(t, testFallback.WeightGrams, result.WeightGrams)
	assert.Equal(t, domain.ConfidenceMedium, result.Provenance.Confidence)
}

func TestReconcile_ComponentWise(t *testing.T) {
	volume := domain.FlexNumber(999)
	reply := &domain.PredictorReply{PredictedVolumeCm3: &volume}

	result := reconcile(reply, testFallback)
	assert.Equal(t, testFallback.WeightGrams, result.WeightGrams)
	assert.Equal(t, 999.0, result.VolumeCubicCm)
}
