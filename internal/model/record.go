package model

// Record represents one historical figure parsed from the dataset
type Record struct {
	Name    string `json:"name"`              // Display identifier
	Birth   string `json:"birth,omitempty"`   // Raw date string, may be unparseable
	Death   string `json:"death,omitempty"`   // Raw date string, may be unparseable
	Cause   string `json:"cause,omitempty"`   // Cause of death (see Causes)
	Dynasty string `json:"dynasty,omitempty"` // Free-form category label
}

// Column names recognized in the dataset header
const (
	ColumnName    = "Name"
	ColumnBirth   = "Birth"
	ColumnDeath   = "Death"
	ColumnCause   = "Cause"
	ColumnDynasty = "Dynasty"
)

// Set assigns a value to the field named by a header column.
// Unrecognized columns are ignored.
func (r *Record) Set(column, value string) {
	switch column {
	case ColumnName:
		r.Name = value
	case ColumnBirth:
		r.Birth = value
	case ColumnDeath:
		r.Death = value
	case ColumnCause:
		r.Cause = value
	case ColumnDynasty:
		r.Dynasty = value
	}
}

// Causes of death recognized by the explorer
const (
	CauseNatural       = "Natural Causes"
	CauseAssassination = "Assassination"
	CauseExecution     = "Execution"
	CauseBattle        = "Died in Battle"
	CauseSuicide       = "Suicide"
	CauseUnknown       = "Unknown"
)

// Causes is the fixed cause-of-death enumeration, in display order
var Causes = []string{
	CauseNatural,
	CauseAssassination,
	CauseExecution,
	CauseBattle,
	CauseSuicide,
	CauseUnknown,
}

// CauseList returns a copy of the cause enumeration that callers may reorder
func CauseList() []string {
	out := make([]string, len(Causes))
	copy(out, Causes)
	return out
}

// IsViolent reports whether a cause counts as a violent death
func IsViolent(cause string) bool {
	switch cause {
	case CauseAssassination, CauseExecution, CauseBattle:
		return true
	default:
		return false
	}
}

// IsKnownCause reports whether the cause belongs to the enumeration
func IsKnownCause(cause string) bool {
	for _, c := range Causes {
		if c == cause {
			return true
		}
	}
	return false
}

// DynastyStat is the number of records belonging to one dynasty
type DynastyStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CauseStat is the number of records for one cause of death
type CauseStat struct {
	Cause string `json:"cause"`
	Count int    `json:"count"`
}

// Summary holds the aggregate statistics derived from a record set
type Summary struct {
	DynastyStats   []DynastyStat `json:"dynasty_stats"`
	Total          int           `json:"total"`
	ViolentPercent int           `json:"violent_percent"` // 0-100, rounded
	Dynasties      []string      `json:"dynasties"`       // Sorted distinct non-empty dynasties
}
