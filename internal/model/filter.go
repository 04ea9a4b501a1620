package model

// Filter is a single column-equality predicate selected by the user.
type Filter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CombineMode selects how a multi-filter set is combined.
type CombineMode string

const (
	// CombineFirst evaluates only the first filter of a non-empty set.
	// This reproduces the behavior of the console this tool replaced,
	// which short-circuited after the first predicate; it is kept as the
	// default so filtered views and metrics stay comparable with it.
	CombineFirst CombineMode = "first"

	// CombineAll requires every filter in the set to match (conjunction).
	CombineAll CombineMode = "all"
)

// String returns the string representation of the mode.
func (m CombineMode) String() string {
	return string(m)
}

// IsValid checks whether the mode is a known value.
func (m CombineMode) IsValid() bool {
	switch m {
	case CombineFirst, CombineAll:
		return true
	}
	return false
}

// Matches reports whether a row passes the given filter set. An empty set
// matches everything. A filter referencing a column the row does not carry
// never matches. Comparison is string equality on the display value.
func Matches(row *ViewRow, filters []Filter, mode CombineMode) bool {
	if len(filters) == 0 {
		return true
	}
	if mode == CombineAll {
		for _, f := range filters {
			if !matchOne(row, f) {
				return false
			}
		}
		return true
	}
	return matchOne(row, filters[0])
}

func matchOne(row *ViewRow, f Filter) bool {
	cell, ok := row.Columns[f.Key]
	return ok && cell.DisplayValue == f.Value
}
