package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	topTermCandidates = 25
	topTermLimit      = 15

	densityLowThreshold  = 0.5
	densityHighThreshold = 3.0
)

// keywordMetrics computes target-keyword occurrence and density, related
// single-token counts, and the top-terms ranking for the given token
// sequence. An empty target yields zero counts rather than an error.
//
// The target is matched as a boundary-anchored phrase against the rejoined
// token stream, so multi-word targets work; related terms are looked up only
// as single tokens against the frequency table. The asymmetry is deliberate.
func keywordMetrics(words []string, target, related string) (KeywordMetrics, keywordFlags) {
	totalWords := len(words)

	// Go maps do not preserve insertion order, so the top-terms tie-break
	// (first-encountered wins) needs the first-seen sequence kept aside.
	freq := make(map[string]int, totalWords)
	seen := make([]string, 0, totalWords)
	for _, w := range words {
		if _, ok := freq[w]; !ok {
			seen = append(seen, w)
		}
		freq[w]++
	}

	targetClean := strings.ToLower(strings.TrimSpace(target))

	relatedList := make([]string, 0)
	for _, r := range strings.Split(related, ",") {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			relatedList = append(relatedList, r)
		}
	}

	targetCount := 0
	if targetClean != "" {
		joined := strings.Join(words, " ")
		phraseRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(targetClean) + `\b`)
		targetCount = len(phraseRe.FindAllStringIndex(joined, -1))
	}

	density := 0.0
	if totalWords > 0 {
		density = (float64(targetCount) / float64(totalWords)) * 100
	}

	relatedCounts := make(map[string]int, len(relatedList))
	for _, r := range relatedList {
		relatedCounts[r] = freq[r]
	}

	ranked := make([]string, len(seen))
	copy(ranked, seen)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq[ranked[i]] > freq[ranked[j]]
	})
	if len(ranked) > topTermCandidates {
		ranked = ranked[:topTermCandidates]
	}

	topTerms := make([]TermCount, 0, topTermLimit)
	for _, t := range ranked {
		if len(t) > 2 && !isNumeric(t) {
			topTerms = append(topTerms, TermCount{Term: t, Count: freq[t]})
			if len(topTerms) == topTermLimit {
				break
			}
		}
	}

	kw := KeywordMetrics{
		TargetKeyword:        targetClean,
		TargetCount:          targetCount,
		TargetDensityPercent: math.Round(density*100) / 100,
		RelatedKeywords:      relatedList,
		RelatedCounts:        relatedCounts,
		TopTerms:             topTerms,
	}

	flags := keywordFlags{
		hasTarget:   targetClean != "" && targetCount > 0,
		densityLow:  targetClean != "" && density < densityLowThreshold,
		densityHigh: targetClean != "" && density > densityHighThreshold,
	}

	return kw, flags
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
