package suggest

import (
	"errors"
	"testing"
	"time"

	"github.com/logparts/partserve/pkg/match"
)

// failingStore simulates an unavailable history backend.
type failingStore struct{}

func (failingStore) Load() ([]SearchRecord, error) { return nil, errors.New("db locked") }
func (failingStore) Save([]SearchRecord) error     { return errors.New("db locked") }

func newTestAggregator(store HistoryStore, index *match.CodeIndex) *Aggregator {
	return NewAggregator(store, match.NewNormalizer("RV"), index, DefaultOptions())
}

func TestSuggestMinQueryLength(t *testing.T) {
	a := newTestAggregator(nil, nil)
	if got := a.Suggest("R", nil); got != nil {
		t.Errorf("One-char query should yield nothing, got %v", got)
	}
	if got := a.Suggest("  r  ", nil); got != nil {
		t.Errorf("Trimmed one-char query should yield nothing, got %v", got)
	}
}

// a short stub with no history, no eligible variants and no corrections
// must produce an empty list, not the uppercased echo of itself
func TestSuggestShortStubEmpty(t *testing.T) {
	a := newTestAggregator(nil, nil)
	if got := a.Suggest("RV04", nil); len(got) != 0 {
		t.Errorf("Expected no suggestions for RV04, got %v", got)
	}
}

func TestSuggestVariants(t *testing.T) {
	a := newTestAggregator(nil, nil)

	got := a.Suggest("RV4010031", nil)
	if len(got) == 0 {
		t.Fatal("Expected variant suggestions")
	}
	for _, entry := range got {
		if entry.Text == "RV4010031" {
			t.Errorf("The query itself must be excluded, got %v", got)
		}
	}
	// dotted variants at 0.85 sort before corrections at 0.75
	if got[0].Confidence != 0.85 {
		t.Errorf("Expected a variant first at 0.85, got %+v", got[0])
	}
	seen := map[string]bool{}
	for _, entry := range got {
		seen[entry.Text] = true
	}
	if !seen["RV4010.031"] || !seen["RV0401.0031"] {
		t.Errorf("Expected both dotted splits, got %v", got)
	}
}

func TestSuggestHistoryConfidence(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.Save([]SearchRecord{
		{Query: "filtro de oleo", Count: 10, Timestamp: now},
		{Query: "filtro de ar", Count: 4, Timestamp: now},
		{Query: "filtro de combustivel", Count: 1, Timestamp: now},
		{Query: "bomba de agua", Count: 9, Timestamp: now},
	})
	a := newTestAggregator(store, nil)

	got := a.Suggest("filtro", nil)
	if len(got) != 3 {
		t.Fatalf("Expected 3 history hits, got %v", got)
	}

	// min(0.9, 0.5 + 0.1*count)
	expected := []struct {
		text       string
		confidence float64
	}{
		{"filtro de oleo", 0.9},
		{"filtro de ar", 0.9},
		{"filtro de combustivel", 0.6},
	}
	for i, want := range expected {
		if got[i].Text != want.text {
			t.Errorf("Position %d: expected %q, got %q", i, want.text, got[i].Text)
		}
		if got[i].Confidence != want.confidence {
			t.Errorf("%q: confidence = %v, expected %v", got[i].Text, got[i].Confidence, want.confidence)
		}
		if got[i].Type != TypeHistory {
			t.Errorf("%q: type = %q, expected history", got[i].Text, got[i].Type)
		}
	}
}

func TestSuggestFailingStoreDegrades(t *testing.T) {
	a := newTestAggregator(failingStore{}, nil)

	// variants still come through, only the history source is skipped
	got := a.Suggest("RV4010031", nil)
	if len(got) == 0 {
		t.Error("Expected variant suggestions despite the failing store")
	}
	for _, entry := range got {
		if entry.Type == TypeHistory {
			t.Errorf("Failing store must contribute nothing, got %+v", entry)
		}
	}
}

func TestSuggestSimilarCodes(t *testing.T) {
	index := match.NewCodeIndex()
	index.Add("RV0401.0031")
	index.Add("RV0401.0032")
	a := newTestAggregator(nil, index)

	got := a.Suggest("RV0401.0033", nil)

	var similar []Entry
	for _, entry := range got {
		if entry.Type == TypeSimilar {
			similar = append(similar, entry)
		}
	}
	if len(similar) != 2 {
		t.Fatalf("Expected 2 similar codes, got %v", got)
	}
	for _, entry := range similar {
		if entry.Distance != 1 {
			t.Errorf("Expected distance 1, got %+v", entry)
		}
		want := 1.0 - 1.0/float64(len("RV0401.0033"))
		if entry.Confidence != want {
			t.Errorf("Confidence = %v, expected %v", entry.Confidence, want)
		}
	}
}

// duplicates keep the first occurrence and its confidence
func TestSuggestDedupFirstWins(t *testing.T) {
	store := NewMemoryStore()
	store.Save([]SearchRecord{{Query: "filtro de oleo", Count: 4, Timestamp: time.Now()}})
	a := newTestAggregator(store, nil)

	// the external candidate collides case-insensitively with the
	// history entry; the history entry came first and wins
	external := []Entry{{Text: "FILTRO DE OLEO", Type: TypePopular, Confidence: 0.3}}
	got := a.Suggest("filtro", external)

	if len(got) != 1 {
		t.Fatalf("Expected exactly one deduplicated entry, got %v", got)
	}
	if got[0].Text != "filtro de oleo" || got[0].Type != TypeHistory {
		t.Errorf("First occurrence should win, got %+v", got[0])
	}
	if got[0].Confidence != 0.9 {
		t.Errorf("Confidence = %v, expected 0.9", got[0].Confidence)
	}
}

func TestSuggestExternalAndCap(t *testing.T) {
	a := newTestAggregator(nil, nil)

	external := make([]Entry, 12)
	for i := range external {
		external[i] = Entry{
			Text:       string(rune('a'+i)) + "xternal",
			Type:       TypePopular,
			Confidence: 0.5,
		}
	}

	got := a.Suggest("RV4010031", external)
	if len(got) != DefaultOptions().MaxTotal {
		t.Fatalf("Expected output capped at %d, got %d", DefaultOptions().MaxTotal, len(got))
	}
	// descending by confidence throughout
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("Not sorted descending at position %d: %v", i, got)
		}
	}
}

func TestRecordSearch(t *testing.T) {
	store := NewMemoryStore()
	a := newTestAggregator(store, nil)

	for i := 0; i < 3; i++ {
		if err := a.RecordSearch("RV0401.0031"); err != nil {
			t.Fatalf("RecordSearch failed: %v", err)
		}
	}
	if err := a.RecordSearch("filtro"); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}
	// case-insensitive bump, not a new entry
	if err := a.RecordSearch("rv0401.0031"); err != nil {
		t.Fatalf("RecordSearch failed: %v", err)
	}

	records, err := a.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 history records, got %v", records)
	}
	if records[0].Query != "RV0401.0031" || records[0].Count != 4 {
		t.Errorf("Expected the frequent query first with count 4, got %+v", records[0])
	}
	if records[1].Query != "filtro" || records[1].Count != 1 {
		t.Errorf("Expected filtro with count 1, got %+v", records[1])
	}
}

func TestRecordSearchIgnoresBlank(t *testing.T) {
	store := NewMemoryStore()
	a := newTestAggregator(store, nil)

	if err := a.RecordSearch("   "); err != nil {
		t.Fatalf("Blank query should be a no-op, got %v", err)
	}
	records, _ := a.History()
	if len(records) != 0 {
		t.Errorf("Expected no records, got %v", records)
	}
}

// the history list keeps only the most frequent entries
func TestRecordSearchTruncates(t *testing.T) {
	store := NewMemoryStore()
	a := newTestAggregator(store, nil)

	for i := 0; i < HistoryCap+10; i++ {
		query := "query" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		if err := a.RecordSearch(query); err != nil {
			t.Fatalf("RecordSearch failed: %v", err)
		}
	}

	records, _ := a.History()
	if len(records) != HistoryCap {
		t.Errorf("Expected history capped at %d, got %d", HistoryCap, len(records))
	}
}
