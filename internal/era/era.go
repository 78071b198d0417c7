// Package era turns raw date strings from the dataset into era-qualified years.
//
// Historical dates are frequently before year 1, which time.Parse cannot
// represent from a leading minus sign, so years are read by hand and only the
// month/day remainder is checked with time.Parse.
package era

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unknown is returned for empty or unparseable dates
const Unknown = "Unknown"

// Format renders a raw date string as "<year> BCE" or "<year> CE".
// It never fails: anything it cannot read becomes Unknown.
func Format(dateStr string) string {
	year, ok := Year(dateStr)
	if !ok {
		return Unknown
	}
	if year < 0 {
		return fmt.Sprintf("%d BCE", -year)
	}
	return fmt.Sprintf("%d CE", year)
}

// Year extracts the signed year from a raw date string.
// Negative years are BCE. The second result is false when nothing parseable
// was found.
func Year(dateStr string) (int, bool) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return 0, false
	}

	if year, ok := suffixedYear(s); ok {
		return year, true
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	digits := leadingDigits(s)
	if digits == 0 || digits > 6 {
		return 0, false
	}

	year, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0, false
	}

	if rest := s[digits:]; rest != "" && !validRemainder(rest) {
		return 0, false
	}

	return sign * year, true
}

// suffixedYear reads forms like "37 BC", "37 BCE", "14 AD" and "14 CE"
func suffixedYear(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, false
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil || year < 0 {
		return 0, false
	}

	switch strings.ToUpper(strings.TrimSuffix(fields[1], ".")) {
	case "BC", "BCE", "B.C":
		return -year, true
	case "AD", "CE", "A.D":
		return year, true
	}
	return 0, false
}

// validRemainder accepts the month/day (and optional time) part that follows
// the year in ISO-style dates such as "-0037-12-15" or "0014-08-19T00:00:00Z".
func validRemainder(rest string) bool {
	// Leap years are irrelevant for validation of the remainder, so check it
	// against a fixed leap year.
	candidate := "2000" + rest
	for _, layout := range remainderLayouts {
		if _, err := time.Parse(layout, candidate); err == nil {
			return true
		}
	}
	return false
}

var remainderLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
