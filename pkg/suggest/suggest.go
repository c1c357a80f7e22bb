// Package suggest composes history entries, code-normalization variants,
// typo corrections, catalog-similar codes and externally supplied candidates
// into one deduplicated, confidence-ranked suggestion list.
package suggest

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/logparts/partserve/internal/utils"
	"github.com/logparts/partserve/pkg/match"
)

// EntryType says where a suggestion came from.
type EntryType string

const (
	TypeHistory    EntryType = "history"
	TypePopular    EntryType = "popular"
	TypeSimilar    EntryType = "similar"
	TypeCorrection EntryType = "correction"
)

// Entry is one ranked suggestion. Confidence is 0..1.
type Entry struct {
	Text       string
	Type       EntryType
	Confidence float64
	Count      int
	Distance   int
	LastUsed   time.Time
}

// Options are the per-source caps of the pipeline. They exist as explicit
// tunables for experimentation; DefaultOptions matches the shipped contract.
type Options struct {
	MinQueryLen   int
	MaxTotal      int
	HistoryCap    int
	VariantCap    int
	CorrectionCap int
	SimilarCap    int
	MaxDistance   int
}

// DefaultOptions returns the standard pipeline caps.
func DefaultOptions() Options {
	return Options{
		MinQueryLen:   2,
		MaxTotal:      8,
		HistoryCap:    5,
		VariantCap:    3,
		CorrectionCap: 2,
		SimilarCap:    3,
		MaxDistance:   3,
	}
}

// Aggregator produces suggestion lists and records search history. It holds
// no state of its own beyond the injected store, so overlapping superseded
// calls are safe; RecordSearch serializes its read-modify-write.
type Aggregator struct {
	store HistoryStore
	norm  *match.Normalizer
	index *match.CodeIndex
	opts  Options

	mu  sync.Mutex
	now func() time.Time
}

// NewAggregator wires a suggestion pipeline. A nil store falls back to an
// in-memory one; a nil index just disables the similar-code source.
func NewAggregator(store HistoryStore, norm *match.Normalizer, index *match.CodeIndex, opts Options) *Aggregator {
	if store == nil {
		store = NewMemoryStore()
	}
	if norm == nil {
		norm = match.NewNormalizer("")
	}
	if opts.MinQueryLen < 1 {
		opts.MinQueryLen = DefaultOptions().MinQueryLen
	}
	if opts.MaxTotal < 1 {
		opts.MaxTotal = DefaultOptions().MaxTotal
	}
	return &Aggregator{
		store: store,
		norm:  norm,
		index: index,
		opts:  opts,
		now:   time.Now,
	}
}

// Suggest runs the pipeline for a partial query. Queries shorter than the
// minimum yield nothing. A failing history store degrades to an empty
// history source instead of propagating.
func (a *Aggregator) Suggest(query string, external []Entry) []Entry {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < a.opts.MinQueryLen {
		return nil
	}
	lower := strings.ToLower(trimmed)
	upper := strings.ToUpper(trimmed)

	var entries []Entry

	// 1. History entries containing the query, most frequent first.
	records, err := a.store.Load()
	if err != nil {
		log.Warnf("History store unavailable, skipping history suggestions: %v", err)
		records = nil
	}
	taken := 0
	for _, rec := range records {
		if taken >= a.opts.HistoryCap {
			break
		}
		if !strings.Contains(strings.ToLower(rec.Query), lower) {
			continue
		}
		entries = append(entries, Entry{
			Text:       rec.Query,
			Type:       TypeHistory,
			Confidence: math.Min(0.9, 0.5+0.1*float64(rec.Count)),
			Count:      rec.Count,
			LastUsed:   rec.Timestamp,
		})
		taken++
	}

	// 2. Canonical variants, minus the trivial uppercase form.
	taken = 0
	for _, variant := range a.norm.Normalize(trimmed) {
		if taken >= a.opts.VariantCap {
			break
		}
		if variant == upper {
			continue
		}
		entries = append(entries, Entry{
			Text:       variant,
			Type:       TypeCorrection,
			Confidence: 0.85,
			Distance:   1,
		})
		taken++
	}

	// 3. Typo corrections.
	taken = 0
	for _, correction := range a.norm.Corrections(trimmed) {
		if taken >= a.opts.CorrectionCap {
			break
		}
		entries = append(entries, Entry{
			Text:       correction,
			Type:       TypeCorrection,
			Confidence: 0.75,
			Distance:   2,
		})
		taken++
	}

	// 4. Similar catalog codes by edit distance.
	entries = append(entries, a.similarEntries(trimmed)...)

	// 5. Externally supplied candidates (popular queries and the like).
	entries = append(entries, external...)

	// Dedup (first wins, case-insensitive), drop the query itself, rank.
	filter := utils.NewSuggestionFilter(trimmed)
	var unique []Entry
	for _, entry := range entries {
		if filter.ShouldInclude(entry.Text) {
			unique = append(unique, entry)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})
	if len(unique) > a.opts.MaxTotal {
		unique = unique[:a.opts.MaxTotal]
	}
	return unique
}

// similarEntries asks the code index for near spellings. The distance cap
// scales with query length so short queries do not fan out.
func (a *Aggregator) similarEntries(query string) []Entry {
	if a.index == nil {
		return nil
	}
	maxDistance := len(query) / 3
	if maxDistance > a.opts.MaxDistance {
		maxDistance = a.opts.MaxDistance
	}
	if maxDistance < 1 {
		return nil
	}

	var entries []Entry
	for _, similar := range a.index.SimilarCodes(query, maxDistance, a.opts.SimilarCap) {
		if similar.Distance < 1 {
			continue
		}
		confidence := 1.0 - float64(similar.Distance)/float64(len(query))
		if confidence < 0.1 {
			confidence = 0.1
		}
		entries = append(entries, Entry{
			Text:       similar.Code,
			Type:       TypeSimilar,
			Confidence: confidence,
			Distance:   similar.Distance,
		})
	}
	return entries
}

// RecordSearch bumps the query's history entry (or prepends a fresh one),
// re-sorts by frequency and truncates to HistoryCap. The whole
// read-modify-write runs as one logical transaction.
func (a *Aggregator) RecordSearch(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	records, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("load search history: %w", err)
	}

	found := false
	for i := range records {
		if strings.EqualFold(records[i].Query, trimmed) {
			records[i].Count++
			records[i].Timestamp = a.now()
			found = true
			break
		}
	}
	if !found {
		records = append([]SearchRecord{{
			Query:     trimmed,
			Timestamp: a.now(),
			Count:     1,
		}}, records...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Count > records[j].Count
	})
	if len(records) > HistoryCap {
		records = records[:HistoryCap]
	}

	if err := a.store.Save(records); err != nil {
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

// History returns the current persisted history, most frequent first.
func (a *Aggregator) History() ([]SearchRecord, error) {
	return a.store.Load()
}
