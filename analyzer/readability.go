package analyzer

import "math"

// FleschReadingEase computes the Flesch Reading Ease score for the given
// token and sentence sequences, rounded to one decimal place. The score is
// not clamped: very short or vowel-heavy inputs can legitimately fall
// outside [0, 100]. Empty input scores exactly 0.
func FleschReadingEase(words, sentences []string) float64 {
	if len(words) == 0 || len(sentences) == 0 {
		return 0.0
	}

	syllableCount := 0
	for _, w := range words {
		syllableCount += CountSyllables(w)
	}

	wps := float64(len(words)) / float64(max(1, len(sentences)))
	spw := float64(syllableCount) / float64(max(1, len(words)))

	score := 206.835 - (1.015 * wps) - (84.6 * spw)
	return math.Round(score*10) / 10
}

// ReadingLevel maps a Flesch score to its qualitative band.
func ReadingLevel(score float64) string {
	switch {
	case score >= 90:
		return "Very easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very difficult"
	}
}
