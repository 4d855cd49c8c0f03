package cvtailor

import "strings"

// fuzzyPrefixLen and fuzzySubstringMinLen are the two thresholds named
// explicitly in SPEC_FULL.md §9: "equality -> prefix-40 -> substring with
// minimum length 10." This is intentionally simple and deterministic —
// not a general edit-distance library — because the tests assert exactly
// these three cases (ported from original_source/agents/cv_tailor.py's
// _fuzzy_match).
const (
	fuzzyPrefixLen        = 40
	fuzzySubstringMinLen = 10
)

// fuzzyMatch implements the three-case match: identical, equal-on-40-char
// prefix, or substring with min(len(a),len(b)) >= 10.
func fuzzyMatch(a, b string) bool {
	al := strings.ToLower(strings.TrimSpace(a))
	bl := strings.ToLower(strings.TrimSpace(b))

	if al == bl {
		return true
	}

	if len(al) >= fuzzyPrefixLen && len(bl) >= fuzzyPrefixLen && al[:fuzzyPrefixLen] == bl[:fuzzyPrefixLen] {
		return true
	}

	shorter, longer := al, bl
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= fuzzySubstringMinLen && strings.Contains(longer, shorter) {
		return true
	}

	return false
}
