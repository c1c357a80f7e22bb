package match

import (
	"regexp"
	"strings"

	"github.com/logparts/partserve/internal/utils"
)

// QueryType hints which search strategy a caller should pick. Scoring itself
// runs identically for both types.
type QueryType string

const (
	QueryCode QueryType = "codigo"
	QueryText QueryType = "texto"
)

var (
	// codeShapeRe: short alphabetic prefix, optional single separator, digits.
	codeShapeRe = regexp.MustCompile(`^[A-Za-z]{1,5}[\s\-\._]?\d+`)
	// codeCharsRe: nothing outside the code alphabet.
	codeCharsRe = regexp.MustCompile(`^[A-Za-z0-9\s\-\._]+$`)
)

// DetectQueryType classifies a raw query as code-like or free text.
// A query mixing digits and letters that either starts like a prefixed code
// or stays inside the code alphabet is treated as a code.
func DetectQueryType(query string) QueryType {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return QueryText
	}

	if utils.ContainsNumbers(trimmed) && utils.ContainsLetters(trimmed) &&
		(codeShapeRe.MatchString(trimmed) || codeCharsRe.MatchString(trimmed)) {
		return QueryCode
	}
	return QueryText
}
