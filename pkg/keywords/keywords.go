package keywords

import (
	"net/url"
	"strings"
	"unicode"
)

// stopWords is the fixed filter set for keyword extraction. Presence here
// means the term carries no search value on its own.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "with": {}, "this": {}, "that": {},
	"they": {}, "them": {}, "then": {}, "there": {}, "their": {}, "these": {},
	"about": {}, "would": {}, "could": {}, "should": {}, "does": {}, "do": {},
	"did": {}, "how": {}, "why": {}, "who": {}, "will": {}, "been": {},
	"being": {}, "were": {}, "from": {}, "into": {}, "over": {}, "under": {},
	"people": {}, "saying": {}, "said": {}, "says": {}, "tell": {}, "show": {},
	"give": {}, "most": {}, "some": {}, "many": {}, "much": {}, "very": {},
	"just": {}, "like": {}, "than": {}, "more": {}, "also": {}, "any": {},
	"please": {}, "want": {}, "need": {}, "think": {}, "know": {}, "make": {},
}

// maxTerms caps how many extracted keywords feed the snippet search.
const maxTerms = 5

// Extract pulls up to five search terms out of free text: lowercase, strip
// punctuation, drop stop words, keep terms longer than three characters.
// This is a presence heuristic, not a ranker.
func Extract(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, maxTerms)
	for _, f := range fields {
		if len(f) <= 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
		if len(terms) == maxTerms {
			break
		}
	}
	return terms
}

// NormalizeURL reduces a URL to scheme+host+path for cross-search-term
// deduplication within an ingestion run. Query string and fragment are
// stripped; host is lowercased; a trailing slash on the path is dropped.
// Returns "" for unparseable input.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}
