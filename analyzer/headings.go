package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

var markdownHeadingRe = regexp.MustCompile(`^\s*(#{1,6})\s+\S`)

var headingTagRes = func() [6]*regexp.Regexp {
	var res [6]*regexp.Regexp
	for i := range res {
		res[i] = regexp.MustCompile(fmt.Sprintf(`(?i)<h%d\b`, i+1))
	}
	return res
}()

// ExtractHeadings counts headings per level in the raw, unnormalized text.
// Markdown '#' headings and opening <hN> tags are detected independently
// and summed per level; a closing tag is not required. All six levels are
// present in the result even when zero.
func ExtractHeadings(raw string) map[string]int {
	counts := make(map[string]int, 6)
	for i := 1; i <= 6; i++ {
		counts[fmt.Sprintf("h%d", i)] = 0
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := markdownHeadingRe.FindStringSubmatch(line); m != nil {
			counts[fmt.Sprintf("h%d", len(m[1]))]++
		}
	}

	for i, re := range headingTagRes {
		counts[fmt.Sprintf("h%d", i+1)] += len(re.FindAllStringIndex(raw, -1))
	}

	return counts
}
