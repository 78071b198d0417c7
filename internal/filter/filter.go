package filter

import (
	"strings"

	"github.com/ppiankov/chronicle/internal/era"
	"github.com/ppiankov/chronicle/internal/model"
)

// Apply returns the records matching all criteria, in their original order.
// It never modifies its input.
func Apply(records []model.Record, criteria model.FilterCriteria) []model.Record {
	if criteria.IsEmpty() {
		out := make([]model.Record, len(records))
		copy(out, records)
		return out
	}

	term := strings.ToLower(criteria.SearchTerm)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, criteria, term) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record satisfies the criteria.
// lowerTerm is the search term already lowercased.
func Matches(r model.Record, criteria model.FilterCriteria, lowerTerm string) bool {
	return matchesSearch(r, lowerTerm) &&
		matchesDynasty(r, criteria.Dynasty) &&
		matchesCause(r, criteria.Cause) &&
		matchesYears(r, criteria.YearStart, criteria.YearEnd)
}

func matchesSearch(r model.Record, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return containsFold(r.Name, lowerTerm) || containsFold(r.Dynasty, lowerTerm)
}

// containsFold reports a case-insensitive substring match.
// Empty fields never match a non-empty term.
func containsFold(field, lowerTerm string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerTerm)
}

func matchesDynasty(r model.Record, dynasty *string) bool {
	return dynasty == nil || r.Dynasty == *dynasty
}

func matchesCause(r model.Record, cause *string) bool {
	return cause == nil || r.Cause == *cause
}

// matchesYears checks the birth year against the bounds. A record without a
// parseable birth year fails as soon as either bound is set.
func matchesYears(r model.Record, start, end *int) bool {
	if start == nil && end == nil {
		return true
	}

	year, ok := era.Year(r.Birth)
	if !ok {
		return false
	}
	if start != nil && year < *start {
		return false
	}
	if end != nil && year > *end {
		return false
	}
	return true
}
