package analyzer

import (
	"regexp"
	"strings"
)

var nonLetterRe = regexp.MustCompile(`[^a-z]`)

// CountSyllables estimates the syllable count of a single English word by
// counting transitions into vowel groups, with a silent-e adjustment. It is
// an approximation, not a dictionary lookup, but it is accurate enough for
// readability scoring.
func CountSyllables(word string) int {
	w := nonLetterRe.ReplaceAllString(strings.ToLower(word), "")
	if w == "" {
		return 0
	}

	syllables := 0
	prevVowel := false
	for _, ch := range w {
		isVowel := strings.ContainsRune("aeiouy", ch)
		if isVowel && !prevVowel {
			syllables++
		}
		prevVowel = isVowel
	}

	// Silent 'e'
	if strings.HasSuffix(w, "e") && syllables > 1 &&
		!strings.HasSuffix(w, "le") && !strings.HasSuffix(w, "ye") {
		syllables--
	}

	return max(1, syllables)
}
