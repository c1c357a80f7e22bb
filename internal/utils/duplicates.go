package utils

import (
	"strings"
)

// SuggestionFilter drops duplicate suggestion texts and the query itself.
// The first occurrence of a text wins; comparison is case-insensitive.
type SuggestionFilter struct {
	seenTexts map[string]bool
	queryText string
}

// NewSuggestionFilter creates a new filter instance that will exclude the given query
func NewSuggestionFilter(query string) *SuggestionFilter {
	seenTexts := make(map[string]bool)
	lowerQuery := strings.ToLower(query)
	seenTexts[lowerQuery] = true

	return &SuggestionFilter{
		seenTexts: seenTexts,
		queryText: lowerQuery,
	}
}

// ShouldInclude checks if a text should be included in results (not a duplicate)
// Returns true if the text should be included, false if it's a duplicate
func (f *SuggestionFilter) ShouldInclude(text string) bool {
	lowerText := strings.ToLower(text)
	if f.seenTexts[lowerText] {
		return false
	}
	f.seenTexts[lowerText] = true
	return true
}
