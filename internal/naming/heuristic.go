package naming

import (
	"regexp"
	"strings"

	"docshelf/internal/textutil"
)

// stopWords are common short words excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"from": {}, "have": {}, "will": {}, "your": {}, "are": {}, "not": {},
	"but": {}, "can": {}, "was": {}, "were": {}, "been": {}, "has": {},
	"had": {}, "does": {}, "did": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "into": {}, "through": {}, "during": {}, "before": {},
	"after": {}, "above": {}, "below": {}, "between": {}, "under": {},
	"again": {}, "further": {}, "then": {}, "once": {},
}

var wordRun = regexp.MustCompile(`[a-zA-Z]{4,}`)

const (
	maxKeywords     = 5
	nameTokenCount  = 3
	firstWordsCount = 3
)

// heuristicName derives a candidate filename from content using local keyword
// extraction. An empty result means the content yielded nothing usable and
// the caller should fall back.
func heuristicName(contentSample string) string {
	content := strings.TrimSpace(contentSample)

	// Runs of 4+ alphabetic characters, minus stop words, first-seen order.
	words := wordRun.FindAllString(strings.ToLower(content), -1)
	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{}, maxKeywords)
	for _, word := range words {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) >= maxKeywords {
			break
		}
	}
	if len(keywords) > 0 {
		if len(keywords) > nameTokenCount {
			keywords = keywords[:nameTokenCount]
		}
		for i, word := range keywords {
			keywords[i] = textutil.Capitalize(word)
		}
		return strings.Join(keywords, "_")
	}

	// No keywords: fall back to the first few raw words.
	firstWords := strings.Fields(content)
	if len(firstWords) > firstWordsCount {
		firstWords = firstWords[:firstWordsCount]
	}
	if len(firstWords) > 0 {
		for i, word := range firstWords {
			firstWords[i] = textutil.Capitalize(word)
		}
		candidate := stripNonWord(strings.Join(firstWords, "_"))
		if strings.Trim(candidate, "_") != "" {
			return candidate
		}
	}

	return ""
}

func stripNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
