package quiz

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchOption resolves free-text input to one of the options.
// It accepts a 1-based option number, a case-insensitive exact match, a
// unique prefix, or the closest option within a small edit distance.
func MatchOption(input string, options []string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || len(options) == 0 {
		return "", false
	}

	if n, err := strconv.Atoi(in); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}

	return matchText(in, options)
}

// MatchText resolves free text to one of the options like MatchOption, but
// never reads the input as an option number. Filters use it, where "2" is a
// value rather than a menu choice.
func MatchText(input string, options []string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || len(options) == 0 {
		return "", false
	}
	return matchText(in, options)
}

// matchText expects lowercased, trimmed input
func matchText(in string, options []string) (string, bool) {
	for _, o := range options {
		if strings.ToLower(o) == in {
			return o, true
		}
	}

	var prefixed []string
	for _, o := range options {
		if len(in) >= 2 && strings.HasPrefix(strings.ToLower(o), in) {
			prefixed = append(prefixed, o)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}

	best, bestDist, tie := "", -1, false
	for _, o := range options {
		cand := strings.ToLower(o)
		dist := levenshtein.ComputeDistance(in, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist, tie = o, dist, false
		case dist == bestDist:
			tie = true
		}
	}
	if bestDist < 0 || tie {
		return "", false
	}
	return best, true
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
