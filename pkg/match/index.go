package match

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/logparts/partserve/pkg/catalog"
)

// errVisitDone aborts a trie visit once enough matches were collected.
var errVisitDone = errors.New("visit done")

// CodeIndex maps canonical code forms to their original spellings. It backs
// prefix lookups and edit-distance similarity over the catalog's code space.
// Build it once per snapshot; reads need no locking afterwards.
type CodeIndex struct {
	trie  *patricia.Trie
	codes []string
}

// NewCodeIndex returns an empty index.
func NewCodeIndex() *CodeIndex {
	return &CodeIndex{trie: patricia.NewTrie()}
}

// BuildCodeIndex indexes every SKU and alternate code of the snapshot.
func BuildCodeIndex(parts []catalog.Part) *CodeIndex {
	index := NewCodeIndex()
	for i := range parts {
		index.Add(parts[i].SKU)
		for _, code := range parts[i].Codes() {
			index.Add(code)
		}
	}
	return index
}

// Add indexes one code under its canonical form. Blanks and canonical
// duplicates are ignored; the first spelling of a canonical form wins.
func (ix *CodeIndex) Add(code string) {
	canonical := CanonicalCode(code)
	if canonical == "" {
		return
	}
	prefix := patricia.Prefix(canonical)
	if ix.trie.Get(prefix) != nil {
		return
	}
	ix.trie.Insert(prefix, code)
	ix.codes = append(ix.codes, code)
}

// Len returns the number of indexed canonical codes.
func (ix *CodeIndex) Len() int {
	return len(ix.codes)
}

// PrefixCodes returns up to limit original-form codes whose canonical form
// starts with the canonicalized query.
func (ix *CodeIndex) PrefixCodes(query string, limit int) []string {
	canonical := CanonicalCode(query)
	if canonical == "" {
		return nil
	}

	var codes []string
	err := ix.trie.VisitSubtree(patricia.Prefix(canonical), func(p patricia.Prefix, item patricia.Item) error {
		code, ok := item.(string)
		if !ok {
			return nil
		}
		codes = append(codes, code)
		if limit > 0 && len(codes) >= limit {
			return errVisitDone
		}
		return nil
	})
	if err != nil && err != errVisitDone {
		log.Errorf("Error visiting code index subtree: %v", err)
	}
	return codes
}

// SimilarCodes returns up to limit indexed codes within maxDistance edits of
// the query, nearest first.
func (ix *CodeIndex) SimilarCodes(query string, maxDistance, limit int) []SimilarCode {
	similar := FindSimilar(query, ix.codes, maxDistance)
	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	return similar
}
