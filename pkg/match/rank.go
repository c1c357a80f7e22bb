package match

import (
	"sort"
	"strings"

	"github.com/logparts/partserve/pkg/catalog"
)

// Stats aggregates confidence levels over one ranking pass.
type Stats struct {
	Total  int
	High   int
	Medium int
	Low    int
}

// Ranking is the full scored and ordered result set for one query.
// Pagination always slices this global ordering, never a subset.
type Ranking struct {
	Results []Result
	Stats   Stats
}

// Rank scores every candidate, drops non-matches, and sorts the remainder
// strictly descending by score. Equal scores keep the candidate input order.
func Rank(parts []catalog.Part, query string) Ranking {
	if strings.TrimSpace(query) == "" {
		return Ranking{}
	}

	var results []Result
	for i := range parts {
		scored := Score(&parts[i], query)
		if scored.Score <= 0 {
			continue
		}
		results = append(results, scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	stats := Stats{Total: len(results)}
	for _, r := range results {
		switch r.Level {
		case LevelHigh:
			stats.High++
		case LevelMedium:
			stats.Medium++
		default:
			stats.Low++
		}
	}

	return Ranking{Results: results, Stats: stats}
}

// Page returns the [offset, offset+limit) slice of the ranking. Offsets past
// the end yield an empty page; a non-positive limit means no cap.
func (r Ranking) Page(offset, limit int) []Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.Results) {
		return nil
	}
	end := len(r.Results)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return r.Results[offset:end]
}
