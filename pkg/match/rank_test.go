package match

import (
	"testing"

	"github.com/logparts/partserve/pkg/catalog"
)

func testParts() []catalog.Part {
	return []catalog.Part{
		{ID: "1", SKU: "RV0402.0020", Title: "Filtro de oleo"},
		{ID: "2", SKU: "RV0401.0031", Title: "Filtro de ar"},
		{ID: "3", SKU: "ZZ9999.0001", Title: "Bomba de agua"},
		{ID: "4", SKU: "RV0402.0021", Title: "Filtro de combustivel"},
		{ID: "5", SKU: "ZZ1111.0001", Title: "Filtro"},
	}
}

func TestRankOrdering(t *testing.T) {
	ranking := Rank(testParts(), "filtro")

	if len(ranking.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(ranking.Results))
	}
	// the exact title beats every substring hit
	if ranking.Results[0].Part.ID != "5" {
		t.Errorf("Expected the exact title first, got %s", ranking.Results[0].Part.ID)
	}
	for i := 1; i < len(ranking.Results); i++ {
		if ranking.Results[i].Score > ranking.Results[i-1].Score {
			t.Errorf("Results not sorted descending at position %d", i)
		}
	}
}

func TestRankDropsNonMatches(t *testing.T) {
	ranking := Rank(testParts(), "bomba")

	if len(ranking.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(ranking.Results))
	}
	if ranking.Results[0].Part.ID != "3" {
		t.Errorf("Expected part 3, got %s", ranking.Results[0].Part.ID)
	}
}

// equal scores must keep the catalog input order
func TestRankStableTies(t *testing.T) {
	parts := []catalog.Part{
		{ID: "a", Title: "filtro de oleo grande"},
		{ID: "b", Title: "filtro de oleo pequeno"},
	}
	ranking := Rank(parts, "filtro")

	if len(ranking.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(ranking.Results))
	}
	if ranking.Results[0].Part.ID != "a" || ranking.Results[1].Part.ID != "b" {
		t.Errorf("Tie order broken: %s, %s", ranking.Results[0].Part.ID, ranking.Results[1].Part.ID)
	}
	if ranking.Results[0].Score != ranking.Results[1].Score {
		t.Fatalf("Expected a tie, got %d and %d", ranking.Results[0].Score, ranking.Results[1].Score)
	}
}

func TestRankEmptyQuery(t *testing.T) {
	ranking := Rank(testParts(), "   ")
	if len(ranking.Results) != 0 || ranking.Stats.Total != 0 {
		t.Errorf("Blank query should rank nothing, got %+v", ranking)
	}
}

func TestRankStats(t *testing.T) {
	ranking := Rank(testParts(), "RV0402.0020")

	stats := ranking.Stats
	if stats.Total != len(ranking.Results) {
		t.Errorf("Stats total %d does not match %d results", stats.Total, len(ranking.Results))
	}
	if stats.High+stats.Medium+stats.Low != stats.Total {
		t.Errorf("Level counts %d+%d+%d do not add to total %d",
			stats.High, stats.Medium, stats.Low, stats.Total)
	}
	if stats.High < 1 {
		t.Errorf("Exact SKU match should count as high, stats: %+v", stats)
	}
}

func TestRankingPage(t *testing.T) {
	parts := []catalog.Part{
		{ID: "a", Title: "filtro um"},
		{ID: "b", Title: "filtro dois"},
		{ID: "c", Title: "filtro tres"},
		{ID: "d", Title: "filtro quatro"},
	}
	ranking := Rank(parts, "filtro")
	if len(ranking.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(ranking.Results))
	}

	testCases := []struct {
		offset      int
		limit       int
		expectedIDs []string
		description string
	}{
		{0, 2, []string{"a", "b"}, "First page"},
		{2, 2, []string{"c", "d"}, "Second page"},
		{3, 2, []string{"d"}, "Short last page"},
		{4, 2, nil, "Offset past the end"},
		{-1, 2, []string{"a", "b"}, "Negative offset clamped"},
		{0, 0, []string{"a", "b", "c", "d"}, "Zero limit means no cap"},
		{1, -5, []string{"b", "c", "d"}, "Negative limit means no cap"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			page := ranking.Page(tc.offset, tc.limit)
			if len(page) != len(tc.expectedIDs) {
				t.Fatalf("Page(%d, %d) returned %d results, expected %d",
					tc.offset, tc.limit, len(page), len(tc.expectedIDs))
			}
			for i, id := range tc.expectedIDs {
				if page[i].Part.ID != id {
					t.Errorf("Page(%d, %d)[%d] = %s, expected %s",
						tc.offset, tc.limit, i, page[i].Part.ID, id)
				}
			}
		})
	}
}
