package stats

import (
	"math"
	"sort"

	"github.com/ppiankov/chronicle/internal/model"
)

// Aggregate computes dynasty counts and summary statistics for a record set
func Aggregate(records []model.Record) model.Summary {
	return model.Summary{
		DynastyStats:   DynastyStats(records),
		Total:          len(records),
		ViolentPercent: ViolentPercent(records),
		Dynasties:      Dynasties(records),
	}
}

// DynastyStats counts records per non-empty dynasty, largest first.
// Dynasties with equal counts keep the order in which they first appear.
func DynastyStats(records []model.Record) []model.DynastyStat {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, r := range records {
		if r.Dynasty == "" {
			continue
		}
		if _, exists := counts[r.Dynasty]; !exists {
			order = append(order, r.Dynasty)
		}
		counts[r.Dynasty]++
	}

	out := make([]model.DynastyStat, 0, len(order))
	for _, name := range order {
		out = append(out, model.DynastyStat{Name: name, Count: counts[name]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out
}

// ViolentPercent is the rounded share of records with a violent cause of
// death, 0-100. An empty record set yields 0.
func ViolentPercent(records []model.Record) int {
	if len(records) == 0 {
		return 0
	}

	violent := 0
	for _, r := range records {
		if model.IsViolent(r.Cause) {
			violent++
		}
	}

	return int(math.Round(float64(violent) / float64(len(records)) * 100))
}

// Dynasties returns the sorted distinct non-empty dynasty values
func Dynasties(records []model.Record) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)

	for _, r := range records {
		if r.Dynasty != "" && !seen[r.Dynasty] {
			seen[r.Dynasty] = true
			out = append(out, r.Dynasty)
		}
	}

	sort.Strings(out)
	return out
}

// CauseCounts counts records per cause in enumeration order.
// Empty or unrecognized causes are counted as Unknown.
func CauseCounts(records []model.Record) []model.CauseStat {
	counts := make(map[string]int, len(model.Causes))
	for _, r := range records {
		cause := r.Cause
		if !model.IsKnownCause(cause) {
			cause = model.CauseUnknown
		}
		counts[cause]++
	}

	out := make([]model.CauseStat, 0, len(model.Causes))
	for _, cause := range model.Causes {
		out = append(out, model.CauseStat{Cause: cause, Count: counts[cause]})
	}
	return out
}
