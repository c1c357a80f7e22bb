package match

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SimilarCode pairs a candidate code with its edit distance from the input.
type SimilarCode struct {
	Code     string
	Distance int
}

// EditDistance returns the Levenshtein distance between a and b. Comparison
// is case-sensitive; callers pre-uppercase both sides for code lookups.
func EditDistance(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}

// FindSimilar filters candidates to those within maxDistance edits of input
// and returns them sorted ascending by distance. Ties keep the candidate
// input order. Both sides are uppercased before comparison.
func FindSimilar(input string, candidates []string, maxDistance int) []SimilarCode {
	upperInput := strings.ToUpper(input)

	var results []SimilarCode
	for _, candidate := range candidates {
		distance := EditDistance(upperInput, strings.ToUpper(candidate))
		if distance <= maxDistance {
			results = append(results, SimilarCode{Code: candidate, Distance: distance})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}
