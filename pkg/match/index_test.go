package match

import (
	"testing"

	"github.com/logparts/partserve/pkg/catalog"
)

func TestBuildCodeIndex(t *testing.T) {
	parts := []catalog.Part{
		{ID: "1", SKU: "RV0401.0031", OriginalCodes: "04010031 / W950-4"},
		{ID: "2", SKU: "RV0402.0020"},
		{ID: "3", SKU: ""},
	}

	index := BuildCodeIndex(parts)
	if index.Len() != 4 {
		t.Errorf("Expected 4 indexed codes, got %d", index.Len())
	}
}

// canonical duplicates keep the first spelling
func TestCodeIndexFirstSpellingWins(t *testing.T) {
	index := NewCodeIndex()
	index.Add("RV0401.0031")
	index.Add("RV0401-0031")
	index.Add("rv04010031")

	if index.Len() != 1 {
		t.Fatalf("Expected 1 indexed code, got %d", index.Len())
	}
	codes := index.PrefixCodes("RV0401", 0)
	if len(codes) != 1 || codes[0] != "RV0401.0031" {
		t.Errorf("Expected the first spelling back, got %v", codes)
	}
}

func TestCodeIndexPrefixCodes(t *testing.T) {
	index := NewCodeIndex()
	for _, code := range []string{"RV0401.0031", "RV0401.0032", "RV0402.0020", "W950-4"} {
		index.Add(code)
	}

	testCases := []struct {
		query       string
		limit       int
		expected    int
		description string
	}{
		{"RV0401", 0, 2, "Shared prefix, no cap"},
		{"rv0401.", 0, 2, "Separators ignored in the query"},
		{"RV04", 1, 1, "Limit cuts the visit short"},
		{"W950", 0, 1, "Single hit"},
		{"XX", 0, 0, "Unknown prefix"},
		{"...", 0, 0, "Query canonicalizes to empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			codes := index.PrefixCodes(tc.query, tc.limit)
			if len(codes) != tc.expected {
				t.Errorf("PrefixCodes(%q, %d) = %v, expected %d codes", tc.query, tc.limit, codes, tc.expected)
			}
		})
	}
}

func TestCodeIndexSimilarCodes(t *testing.T) {
	index := NewCodeIndex()
	for _, code := range []string{"RV0401.0031", "RV0401.0032", "RV0402.0020"} {
		index.Add(code)
	}

	similar := index.SimilarCodes("RV0401.0030", 1, 0)
	if len(similar) != 2 {
		t.Fatalf("Expected 2 codes within distance 1, got %v", similar)
	}
	for _, s := range similar {
		if s.Distance != 1 {
			t.Errorf("Expected distance 1, got %+v", s)
		}
	}

	capped := index.SimilarCodes("RV0401.0030", 1, 1)
	if len(capped) != 1 {
		t.Errorf("Expected the limit to cap results, got %v", capped)
	}
}
