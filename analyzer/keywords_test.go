package analyzer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordMetricsDensity(t *testing.T) {
	words := TokenizeWords("seo seo seo")
	kw, flags := keywordMetrics(words, "seo", "")

	assert.Equal(t, "seo", kw.TargetKeyword)
	assert.Equal(t, 3, kw.TargetCount)
	assert.Equal(t, 100.0, kw.TargetDensityPercent)
	assert.True(t, flags.hasTarget)
	assert.False(t, flags.densityLow)
	assert.True(t, flags.densityHigh)
}

func TestKeywordMetricsEmptyTarget(t *testing.T) {
	words := TokenizeWords("some content here")
	kw, flags := keywordMetrics(words, "   ", "")

	assert.Equal(t, "", kw.TargetKeyword)
	assert.Equal(t, 0, kw.TargetCount)
	assert.Equal(t, 0.0, kw.TargetDensityPercent)
	assert.False(t, flags.hasTarget)
	assert.False(t, flags.densityLow)
	assert.False(t, flags.densityHigh)
}

func TestKeywordMetricsEmptyContent(t *testing.T) {
	kw, flags := keywordMetrics(nil, "seo", "tips")

	assert.Equal(t, 0, kw.TargetCount)
	assert.Equal(t, 0.0, kw.TargetDensityPercent)
	assert.Equal(t, map[string]int{"tips": 0}, kw.RelatedCounts)
	assert.False(t, flags.hasTarget)
	assert.True(t, flags.densityLow)
}

func TestKeywordMetricsPhraseMatch(t *testing.T) {
	words := TokenizeWords("A content strategy beats no strategy. Content strategy wins.")
	kw, _ := keywordMetrics(words, "Content Strategy", "")

	assert.Equal(t, "content strategy", kw.TargetKeyword)
	assert.Equal(t, 2, kw.TargetCount)
}

func TestKeywordMetricsBoundaryAnchored(t *testing.T) {
	// "cat" must not match inside "category".
	words := TokenizeWords("category catalog cat")
	kw, _ := keywordMetrics(words, "cat", "")

	assert.Equal(t, 1, kw.TargetCount)
}

func TestRelatedCountsSingleTokenOnly(t *testing.T) {
	// Related terms are looked up as single tokens, so "category" does not
	// count toward "cat" and "sentences" does not count toward "sentence".
	words := TokenizeWords("category cat cat")
	kw, _ := keywordMetrics(words, "", "cat, dog")

	assert.Equal(t, []string{"cat", "dog"}, kw.RelatedKeywords)
	assert.Equal(t, map[string]int{"cat": 2, "dog": 0}, kw.RelatedCounts)
}

func TestRelatedListParsing(t *testing.T) {
	kw, _ := keywordMetrics(nil, "", "  Alpha ,, beta,  ,GAMMA ")
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, kw.RelatedKeywords)
}

func TestTopTermsFilteringAndOrder(t *testing.T) {
	// "go" is too short and "2024" is purely numeric; both drop out of the
	// ranking. Ties are broken by first-encountered order.
	words := TokenizeWords("go 2024 zebra apple zebra apple banana")
	kw, _ := keywordMetrics(words, "", "")

	require.Len(t, kw.TopTerms, 3)
	assert.Equal(t, TermCount{Term: "zebra", Count: 2}, kw.TopTerms[0])
	assert.Equal(t, TermCount{Term: "apple", Count: 2}, kw.TopTerms[1])
	assert.Equal(t, TermCount{Term: "banana", Count: 1}, kw.TopTerms[2])
}

func TestTopTermsLimit(t *testing.T) {
	var words []string
	for _, w := range TokenizeWords("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november oscar papa quebec romeo sierra tango") {
		words = append(words, w, w) // two occurrences each
	}
	kw, _ := keywordMetrics(words, "", "")

	assert.Len(t, kw.TopTerms, 15)
	assert.Equal(t, "alpha", kw.TopTerms[0].Term)
}

func TestTermCountJSON(t *testing.T) {
	data, err := json.Marshal([]TermCount{{Term: "seo", Count: 3}, {Term: "content", Count: 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["seo",3],["content",1]]`, string(data))

	var decoded []TermCount
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []TermCount{{Term: "seo", Count: 3}, {Term: "content", Count: 1}}, decoded)
}
