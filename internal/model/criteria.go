package model

// FilterCriteria describes the visible subset of the record set.
// Nil pointers mean "no constraint".
type FilterCriteria struct {
	SearchTerm string  `json:"search_term,omitempty"`
	Dynasty    *string `json:"dynasty,omitempty"`
	Cause      *string `json:"cause,omitempty"`
	YearStart  *int    `json:"year_start,omitempty"`
	YearEnd    *int    `json:"year_end,omitempty"`
}

// IsEmpty reports whether the criteria impose no constraint at all
func (c FilterCriteria) IsEmpty() bool {
	return c.SearchTerm == "" && c.Dynasty == nil && c.Cause == nil && !c.HasYearRange()
}

// HasYearRange reports whether either year bound is set
func (c FilterCriteria) HasYearRange() bool {
	return c.YearStart != nil || c.YearEnd != nil
}

// WithSearch returns a copy with the search term set
func (c FilterCriteria) WithSearch(term string) FilterCriteria {
	c.SearchTerm = term
	return c
}

// WithDynasty returns a copy constrained to one dynasty
func (c FilterCriteria) WithDynasty(dynasty string) FilterCriteria {
	c.Dynasty = &dynasty
	return c
}

// WithCause returns a copy constrained to one cause of death
func (c FilterCriteria) WithCause(cause string) FilterCriteria {
	c.Cause = &cause
	return c
}

// WithYearStart returns a copy with a lower birth-year bound
func (c FilterCriteria) WithYearStart(year int) FilterCriteria {
	c.YearStart = &year
	return c
}

// WithYearEnd returns a copy with an upper birth-year bound
func (c FilterCriteria) WithYearEnd(year int) FilterCriteria {
	c.YearEnd = &year
	return c
}
