package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFleschReadingEaseEmpty(t *testing.T) {
	assert.Equal(t, 0.0, FleschReadingEase(nil, nil))
	assert.Equal(t, 0.0, FleschReadingEase([]string{"word"}, nil))
	assert.Equal(t, 0.0, FleschReadingEase(nil, []string{"a sentence"}))
}

func TestFleschReadingEase(t *testing.T) {
	// 3 words, 1 sentence, 3 syllables:
	// 206.835 - 1.015*3 - 84.6*1 = 119.19 -> 119.2
	words := []string{"the", "cat", "sat"}
	sentences := []string{"the cat sat"}
	assert.Equal(t, 119.2, FleschReadingEase(words, sentences))

	// The score is deliberately unclamped, so it can exceed 100.
	assert.Greater(t, FleschReadingEase(words, sentences), 100.0)
}

func TestReadingLevel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{119.2, "Very easy"},
		{90, "Very easy"},
		{85, "Easy"},
		{75, "Fairly easy"},
		{60, "Standard"},
		{59.9, "Fairly difficult"},
		{35, "Difficult"},
		{29.9, "Very difficult"},
		{-10, "Very difficult"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ReadingLevel(tc.score), "score %v", tc.score)
	}
}
