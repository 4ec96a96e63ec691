package service

import (
	"fmt"
	"strconv"
	"strings"

	"shipping/estimator/internal/domain"
)

const systemPrompt = `You are a product weight/volume estimation expert.
Your priority:
1. Use your prior knowledge about products if you recognize them
2. Estimate based on similar products you know
3. Fall back to category averages only when uncertain
Respond in JSON only.`

// buildPrompt renders the user message for one listing. The fallback values
// are given to the predictor as reference only.
func buildPrompt(req domain.EstimateRequest, fallback domain.FallbackEstimate) string {
	description := plainDescription(req.Description)
	if description == "" {
		description = "none"
	}
	category := req.CategoryPath
	if strings.TrimSpace(category) == "" {
		category = "unknown"
	}

	var b strings.Builder
	b.WriteString("Estimate the weight (g) and volume (cm³) of this marketplace listing.\n\n")

	b.WriteString("## Product\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.ProductName)
	fmt.Fprintf(&b, "- Description: %s\n", description)
	fmt.Fprintf(&b, "- Category: %s\n", category)
	fmt.Fprintf(&b, "- Price: %s KRW\n\n", strconv.FormatFloat(req.DeclaredPrice, 'f', -1, 64))

	b.WriteString("## Category average (reference only)\n")
	fmt.Fprintf(&b, "- Average weight: %.1fg\n", fallback.WeightGrams)
	fmt.Fprintf(&b, "- Average volume: %.1fcm³\n\n", fallback.VolumeCubicCm)

	b.WriteString("## How to estimate (in priority order)\n")
	b.WriteString("1. Prior knowledge first: if you know this product or its exact model, use its real specifications.\n")
	b.WriteString("2. Similar product estimate: if you do not know it exactly but know similar products, estimate from those.\n")
	b.WriteString("3. Category average: only if you have no idea, use the category average above.\n\n")

	b.WriteString("## Response format (JSON only)\n")
	b.WriteString(`{
    "recognized_product": "recognized product name or unknown",
    "confidence": "high/medium/low",
    "knowledge_source": "prior_knowledge/similar_product_estimate/category_average",
    "predicted_weight_g": weight in grams,
    "predicted_volume_cm3": volume in cubic centimeters,
    "reasoning": "short justification"
}`)

	return b.String()
}
