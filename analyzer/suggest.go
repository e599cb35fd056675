package analyzer

import (
	"strings"
	"unicode/utf8"
)

// suggestionInput aggregates everything the rules inspect.
type suggestionInput struct {
	raw       string
	words     []string
	sentences []string
	headings  map[string]int
	keywords  KeywordMetrics
	flags     keywordFlags
	metaTitle string
	metaDesc  string
}

// A suggestionRule inspects the aggregate input and returns one advisory
// string, or "" when it has nothing to say.
type suggestionRule func(in *suggestionInput) string

// suggestionRules is evaluated top to bottom; the order of the resulting
// suggestions is part of the output contract. Each rule is pure and
// independent of the others.
var suggestionRules = []suggestionRule{
	// Overall length.
	func(in *suggestionInput) string {
		switch wc := len(in.words); {
		case wc < 300:
			return "Add more depth. Aim for at least 300 to 800 words for most posts."
		case wc > 2000:
			return "Consider trimming or adding subheadings. Very long posts need strong structure."
		default:
			return ""
		}
	},

	// Sentence length.
	func(in *suggestionInput) string {
		if len(in.sentences) > 0 && float64(len(in.words))/float64(len(in.sentences)) > 22 {
			return "Shorten sentences. Average sentence length is a bit high."
		}
		return ""
	},

	// Heading structure.
	func(in *suggestionInput) string {
		switch {
		case in.headings["h1"] == 0:
			return "Add one clear H1 title (or a top-level heading) to define the page topic."
		case in.headings["h1"] > 1:
			return "Use only one H1. Convert extra H1s into H2s."
		default:
			return ""
		}
	},
	func(in *suggestionInput) string {
		if in.headings["h2"] == 0 {
			return "Add H2 subheadings to break up sections and improve scan-ability."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.headings["h3"] == 0 && len(in.words) >= 700 {
			return "Add some H3 subheadings for details inside each section."
		}
		return ""
	},

	// Keyword guidance.
	func(in *suggestionInput) string {
		if in.keywords.TargetKeyword == "" {
			return "Add a target keyword to get keyword density and placement feedback."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.keywords.TargetKeyword != "" && !in.flags.hasTarget {
			return "Include your target keyword at least once, ideally in the first 100 words."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.flags.densityLow {
			return "Target keyword density looks low. Add it naturally 1 to 3 times."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.flags.densityHigh {
			return "Target keyword density looks high. Reduce repetition and use synonyms."
		}
		return ""
	},

	// Meta title.
	func(in *suggestionInput) string {
		if in.metaTitle == "" {
			return "Add a meta title. Keep it clear and specific."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaTitle != "" && utf8.RuneCountInString(in.metaTitle) < 35 {
			return "Meta title may be short. Many titles perform well around 45 to 60 characters."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaTitle != "" && utf8.RuneCountInString(in.metaTitle) > 65 {
			return "Meta title may be long. Consider shortening to about 60 characters."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaTitle != "" && in.keywords.TargetKeyword != "" &&
			!strings.Contains(strings.ToLower(in.metaTitle), in.keywords.TargetKeyword) {
			return "Try including the target keyword in the meta title, if it fits naturally."
		}
		return ""
	},

	// Meta description.
	func(in *suggestionInput) string {
		if in.metaDesc == "" {
			return "Add a meta description. Summarize the value in 1 to 2 sentences."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaDesc != "" && utf8.RuneCountInString(in.metaDesc) < 90 {
			return "Meta description may be short. Many descriptions perform well around 120 to 160 characters."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaDesc != "" && utf8.RuneCountInString(in.metaDesc) > 170 {
			return "Meta description may be long. Consider trimming to about 160 characters."
		}
		return ""
	},
	func(in *suggestionInput) string {
		if in.metaDesc != "" && in.keywords.TargetKeyword != "" &&
			!strings.Contains(strings.ToLower(in.metaDesc), in.keywords.TargetKeyword) {
			return "Try including the target keyword in the meta description, if it fits naturally."
		}
		return ""
	},

	// Paragraph length. Fires once no matter how many paragraphs run long.
	func(in *suggestionInput) string {
		for _, p := range SplitParagraphs(in.raw) {
			if len(strings.Fields(p)) > 110 {
				return "Break up long paragraphs. Aim for tighter blocks so it’s easier to read."
			}
		}
		return ""
	},
}

// makeSuggestions runs the rule table in order and collects the advisories.
// It never fails; a document with no issues yields an empty list.
func makeSuggestions(in *suggestionInput) []string {
	in.metaTitle = strings.TrimSpace(in.metaTitle)
	in.metaDesc = strings.TrimSpace(in.metaDesc)

	suggestions := make([]string, 0, len(suggestionRules))
	for _, rule := range suggestionRules {
		if msg := rule(in); msg != "" {
			suggestions = append(suggestions, msg)
		}
	}
	return suggestions
}
