package service

import (
	"strings"
	"testing"

	"shipping/estimator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(domain.EstimateRequest{
		ProductName:   "Chainsaw Man vol. 1",
		Description:   "<p>Good condition</p>",
		CategoryPath:  "Home > Books > Manga > Shonen Manga",
		DeclaredPrice: 4500,
	}, domain.FallbackEstimate{WeightGrams: 300, VolumeCubicCm: 0.28})

	assert.Contains(t, prompt, "- Name: Chainsaw Man vol. 1")
	assert.Contains(t, prompt, "- Description: Good condition")
	assert.Contains(t, prompt, "- Category: Home > Books > Manga > Shonen Manga")
	assert.Contains(t, prompt, "- Price: 4500 KRW")
	assert.Contains(t, prompt, "- Average weight: 300.0g")
	assert.Contains(t, prompt, "- Average volume: 0.3cm³")
	assert.Contains(t, prompt, "predicted_weight_g")
	assert.Contains(t, prompt, "predicted_volume_cm3")

	prior := strings.Index(prompt, "Prior knowledge first")
	similar := strings.Index(prompt, "Similar product estimate")
	average := strings.Index(prompt, "Category average: only")
	assert.True(t, prior < similar && similar < average, "priority order is stated")
}

func TestBuildPrompt_EmptyFields(t *testing.T) {
	prompt := buildPrompt(domain.EstimateRequest{ProductName: "Thing"}, domain.DefaultFallback())

	assert.Contains(t, prompt, "- Description: none")
	assert.Contains(t, prompt, "- Category: unknown")
	assert.Contains(t, prompt, "- Price: 0 KRW")
}

func TestPlainDescription(t *testing.T) {
	assert.Equal(t, "", plainDescription(""))
	assert.Equal(t, "plain text stays", plainDescription("  plain   text\n stays "))
	assert.Equal(t, "Tom & Jerry", plainDescription("Tom &amp; Jerry"))
	assert.Equal(t, "line one line two", plainDescription("<div>line one<br>line two</div><script>x()</script>"))
}

func TestPlainDescription_TruncatesRunes(t *testing.T) {
	long := strings.Repeat("漫", 600)
	got := plainDescription(long)

	assert.Equal(t, 500, len([]rune(got)))
	assert.Equal(t, strings.Repeat("漫", 500), got)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "", truncateRunes("abc", 0))
}
