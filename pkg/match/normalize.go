// Package match implements the part lookup core: code normalization and
// correction, edit distance similarity, query type detection, confidence
// scoring and candidate ranking. Everything here is a pure computation over
// caller-supplied values; malformed input falls through the pattern rules
// and degrades to the trimmed, uppercased identity form.
package match

import (
	"regexp"
	"strings"
)

// DefaultCodePrefix is the catalog's house prefix, used when a correction
// rule has to reattach a missing prefix.
const DefaultCodePrefix = "RV"

var (
	nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]`)

	// prefixBodyRe matches a short alphabetic prefix followed by an
	// unseparated digit body (the historically inconsistent flat forms).
	prefixBodyRe = regexp.MustCompile(`^([A-Z]{1,4})(\d{6,8})$`)

	// leadZerosRe matches redundant zeros straight after the prefix.
	// At least two digits must remain so short stubs like "RV04" are
	// left alone.
	leadZerosRe = regexp.MustCompile(`^([A-Z]{1,4})0+(\d{2})`)

	// shortDottedRe matches under-padded dotted forms like RV401.31.
	shortDottedRe = regexp.MustCompile(`^([A-Z]{1,4})(\d{3})\.(\d{2,3})$`)

	digitsOnlyRe = regexp.MustCompile(`^\d{7,8}$`)
)

// correctionRules rewrite common typing errors: digit misplacement around
// the separator and a dropped separator. Applied in order; every rule that
// matches contributes a candidate.
var correctionRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`^([A-Z]{1,4})(\d)(\d{3})(\d{4})$`), "${1}0${2}${3}.${4}"},
	{regexp.MustCompile(`^([A-Z]{1,4})(\d{3})(\d{4})$`), "${1}0${2}.${3}"},
	{regexp.MustCompile(`^([A-Z]{1,4})(\d{4})(\d{3})$`), "${1}${2}.0${3}"},
}

// CanonicalCode reduces a code to its canonical comparison form: uppercase
// with every separator and other non-alphanumeric stripped.
func CanonicalCode(code string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToUpper(code), "")
}

// Normalizer produces canonical variants and corrections for part codes.
// The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	prefix string
}

// NewNormalizer returns a Normalizer that reattaches the given prefix when
// correcting bare digit codes. An empty prefix selects DefaultCodePrefix.
func NewNormalizer(prefix string) *Normalizer {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultCodePrefix
	}
	return &Normalizer{prefix: prefix}
}

// Normalize returns the plausible canonical variants of code, deduplicated,
// insertion order preserved. The first variant is always the trimmed,
// uppercased input; an unparseable code yields only that identity variant.
func (n *Normalizer) Normalize(code string) []string {
	clean := strings.ToUpper(strings.TrimSpace(code))
	if clean == "" {
		return nil
	}

	variants := []string{clean}
	add := func(v string) {
		for _, existing := range variants {
			if existing == v {
				return
			}
		}
		variants = append(variants, v)
	}

	if m := prefixBodyRe.FindStringSubmatch(clean); m != nil {
		prefix, digits := m[1], m[2]
		switch len(digits) {
		case 6:
			// Two 3-digit groups, zero-padded to the 4.4 layout.
			add(prefix + "0" + digits[:3] + ".0" + digits[3:])
		case 7:
			add(prefix + digits[:4] + "." + digits[4:])
			add(prefix + "0" + digits[:3] + "." + digits[3:])
		case 8:
			add(prefix + digits[:4] + "." + digits[4:])
		}
	}

	if strings.Contains(clean, ".") {
		add(strings.ReplaceAll(clean, ".", ""))
	}

	if stripped := leadZerosRe.ReplaceAllString(clean, "${1}${2}"); stripped != clean {
		add(stripped)
	}

	if m := shortDottedRe.FindStringSubmatch(clean); m != nil {
		prefix, head, tail := m[1], m[2], m[3]
		add(prefix + "0" + head + "." + strings.Repeat("0", 4-len(tail)) + tail)
	}

	return variants
}

// Corrections applies the fixed rewrite rules for common typing errors and
// returns the deduplicated candidates. It never validates candidates against
// the catalog; that is the caller's job.
func (n *Normalizer) Corrections(code string) []string {
	clean := strings.ToUpper(strings.TrimSpace(code))
	if clean == "" {
		return nil
	}

	var corrections []string
	add := func(c string) {
		if c == clean {
			return
		}
		for _, existing := range corrections {
			if existing == c {
				return
			}
		}
		corrections = append(corrections, c)
	}

	for _, rule := range correctionRules {
		if rule.pattern.MatchString(clean) {
			add(rule.pattern.ReplaceAllString(clean, rule.replace))
		}
	}
	if digitsOnlyRe.MatchString(clean) {
		add(n.prefix + clean)
	}

	return corrections
}
