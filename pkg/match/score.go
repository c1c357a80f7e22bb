package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/logparts/partserve/pkg/catalog"
)

// Level is the discrete confidence bucket shown to users. The labels are
// part of the frontend wire contract.
type Level string

const (
	LevelHigh   Level = "alto"
	LevelMedium Level = "medio"
	LevelLow    Level = "baixo"
)

// MatchType explains why a record matched. It is derived from the raw field
// comparisons and the accumulated reasons, never set on its own.
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchNormalized MatchType = "normalized"
	MatchPartial    MatchType = "partial"
	MatchFuzzy      MatchType = "fuzzy"
)

// Additive field weights. These are contract constants, not tunables.
const (
	weightSKUExact    = 100
	weightSKUHigh     = 70
	weightSKUMedium   = 40
	weightSKULow      = 20
	weightCodeExact   = 95
	weightCodeNorm    = 90
	weightCodeContain = 50
	weightNormContain = 45
	weightTitleExact  = 85
	weightTitleStrong = 60
	weightTitleTerm   = 35
	weightTitleShort  = 15
	weightBrandExact  = 40
	weightBrandPart   = 20
	weightDescription = 10
)

// Level thresholds.
const (
	levelHighCutoff   = 85
	levelMediumCutoff = 50
)

// Result is one scored (query, record) pair.
type Result struct {
	Part    *catalog.Part
	Score   int
	Level   Level
	Type    MatchType
	Reasons []string
}

// LevelFor maps a score onto its confidence level. Monotonic in score.
func LevelFor(score int) Level {
	switch {
	case score >= levelHighCutoff:
		return LevelHigh
	case score >= levelMediumCutoff:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Score evaluates one record against a query. Fields contribute in a fixed
// order (SKU, alternate codes, title, brand, description) and their weights
// add up; a zero total means the record does not match at all.
func Score(part *catalog.Part, query string) Result {
	result := Result{Part: part, Level: LevelLow, Type: MatchFuzzy}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return result
	}

	score := 0
	var reasons []string

	// SKU
	sku := strings.ToLower(part.SKU)
	if sku != "" && sku == term {
		score += weightSKUExact
		reasons = append(reasons, fmt.Sprintf("SKU exato: %q", part.SKU))
	} else if sku != "" && strings.Contains(sku, term) {
		ratio := float64(len(term)) / float64(len(sku))
		switch {
		case ratio >= 0.7:
			score += weightSKUHigh
			reasons = append(reasons, fmt.Sprintf("SKU altamente relacionado: %q", term))
		case ratio >= 0.4:
			score += weightSKUMedium
			reasons = append(reasons, fmt.Sprintf("SKU relacionado: %q", term))
		default:
			score += weightSKULow
			reasons = append(reasons, fmt.Sprintf("SKU contém: %q", term))
		}
	}

	// Alternate codes: only the single best-scoring code contributes.
	codeScore, codeReasons := scoreAlternateCodes(part.Codes(), term)
	score += codeScore
	reasons = append(reasons, codeReasons...)

	// Title
	title := strings.ToLower(part.Title)
	if title != "" {
		if title == term {
			score += weightTitleExact
			reasons = append(reasons, fmt.Sprintf("Título exato: %q", part.Title))
		} else if strings.Contains(title, term) {
			titleWords := len(strings.Fields(title))
			termWords := len(strings.Fields(term))
			switch {
			case float64(termWords) >= float64(titleWords)*0.5:
				score += weightTitleStrong
				reasons = append(reasons, fmt.Sprintf("Título muito relevante: %q", term))
			case len(term) >= 4:
				score += weightTitleTerm
				reasons = append(reasons, fmt.Sprintf("Título contém: %q", term))
			default:
				score += weightTitleShort
				reasons = append(reasons, fmt.Sprintf("Termo encontrado no título: %q", term))
			}
		}
	}

	// Brand: accept both the plain and the entity form via BrandName.
	brand := strings.ToLower(part.BrandName())
	if brand != "" {
		if brand == term {
			score += weightBrandExact
			reasons = append(reasons, fmt.Sprintf("Marca exata: %q", brand))
		} else if strings.Contains(brand, term) {
			score += weightBrandPart
			reasons = append(reasons, fmt.Sprintf("Marca contém: %q", term))
		}
	}

	// Description
	if description := strings.ToLower(part.Description); description != "" &&
		strings.Contains(description, term) {
		score += weightDescription
		reasons = append(reasons, fmt.Sprintf("Descrição contém: %q", term))
	}

	result.Score = score
	result.Level = LevelFor(score)
	result.Reasons = reasons
	result.Type = classify(part, query, reasons)
	return result
}

// scoreAlternateCodes evaluates every alternate code and keeps the single
// best contribution. Near-exact matches (>= 90) record their own reason;
// weaker positive contributions get the generic OEM reason instead.
func scoreAlternateCodes(codes []string, term string) (int, []string) {
	if len(codes) == 0 {
		return 0, nil
	}

	canonicalTerm := CanonicalCode(term)
	best := 0
	matchedCode := ""
	var reasons []string

	for _, code := range codes {
		lowerCode := strings.ToLower(code)
		if lowerCode == term {
			if weightCodeExact > best {
				best = weightCodeExact
				matchedCode = code
			}
			reasons = append(reasons, fmt.Sprintf("Código OEM exato: %q", code))
			continue
		}
		if strings.Contains(lowerCode, term) {
			partial := int(math.Round(weightCodeContain * float64(len(term)) / float64(len(lowerCode))))
			if partial > best {
				best = partial
				matchedCode = code
			}
			continue
		}

		canonicalCode := CanonicalCode(code)
		if canonicalCode == "" || canonicalTerm == "" {
			continue
		}
		if canonicalCode == canonicalTerm {
			if weightCodeNorm > best {
				best = weightCodeNorm
				matchedCode = code
			}
			reasons = append(reasons, fmt.Sprintf("Código OEM normalizado exato: %q", code))
		} else if strings.Contains(canonicalCode, canonicalTerm) {
			partial := int(math.Round(weightNormContain * float64(len(canonicalTerm)) / float64(len(canonicalCode))))
			if partial > best {
				best = partial
				matchedCode = code
			}
		}
	}

	if best == 0 {
		return 0, nil
	}
	if best < weightCodeExact {
		reasons = append(reasons, fmt.Sprintf("Código OEM: %q", matchedCode))
	}
	return best, reasons
}

// classify derives the match type from the literal comparisons first and the
// accumulated reasons after. Edit distance never participates here; fuzzy is
// the residual bucket for positive scores without literal or normalized
// evidence.
func classify(part *catalog.Part, query string, reasons []string) MatchType {
	term := strings.ToLower(strings.TrimSpace(query))
	canonicalTerm := CanonicalCode(query)

	if part.SKU != "" && strings.ToLower(part.SKU) == term {
		return MatchExact
	}
	for _, code := range part.Codes() {
		if strings.ToLower(code) == term {
			return MatchExact
		}
		canonicalCode := CanonicalCode(code)
		if canonicalCode != "" && canonicalCode == canonicalTerm &&
			canonicalCode != strings.ToUpper(query) {
			return MatchNormalized
		}
	}

	for _, reason := range reasons {
		if strings.Contains(reason, "contém") || strings.Contains(reason, "parcial") ||
			strings.Contains(reason, "Título") || strings.Contains(reason, "Descrição") {
			return MatchPartial
		}
	}
	return MatchFuzzy
}
