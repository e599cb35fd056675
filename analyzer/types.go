package analyzer

import (
	"encoding/json"
	"fmt"
)

// Request is one document submitted for analysis. Every field is optional;
// fields missing from the JSON body bind to empty strings.
type Request struct {
	Content         string `json:"content"`
	TargetKeyword   string `json:"target_keyword"`
	RelatedKeywords string `json:"related_keywords"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// PageRequest asks for analysis of an already-published page by URL.
type PageRequest struct {
	URL             string `json:"url" binding:"required,url"`
	TargetKeyword   string `json:"target_keyword"`
	RelatedKeywords string `json:"related_keywords"`
}

// Result is the complete analysis of one document.
type Result struct {
	Stats       ContentStats   `json:"stats"`
	Keywords    KeywordMetrics `json:"keywords"`
	Headings    map[string]int `json:"headings"`
	Readability Readability    `json:"readability"`
	Suggestions []string       `json:"suggestions"`
}

type ContentStats struct {
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
	SentenceCount  int `json:"sentence_count"`
	ParagraphCount int `json:"paragraph_count"`
}

type KeywordMetrics struct {
	TargetKeyword        string         `json:"target_keyword"`
	TargetCount          int            `json:"target_count"`
	TargetDensityPercent float64        `json:"target_density_percent"`
	RelatedKeywords      []string       `json:"related_keywords"`
	RelatedCounts        map[string]int `json:"related_counts"`
	TopTerms             []TermCount    `json:"top_terms"`
}

type Readability struct {
	FleschReadingEase   float64 `json:"flesch_reading_ease"`
	Level               string  `json:"level"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

// TermCount is one entry of the top-terms ranking. It marshals as a
// [term, count] pair so the ranking stays ordered on the wire.
type TermCount struct {
	Term  string
	Count int
}

func (t TermCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.Term, t.Count})
}

func (t *TermCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("term pair: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Term); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &t.Count)
}

// keywordFlags drive the keyword suggestion rules. They are derived
// alongside KeywordMetrics and never leave the package.
type keywordFlags struct {
	hasTarget   bool
	densityLow  bool
	densityHigh bool
}
