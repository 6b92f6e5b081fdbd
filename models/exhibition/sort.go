package exhibition

import (
	"slices"
	"strings"
)

// Sort orders exhibitions that are running or upcoming on today (YYYY-MM-DD)
// before ended ones, then by start date and title. Missing dates sort last.
func Sort(list []Exhibition, today string) []Exhibition {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b Exhibition) int {
		aCurrent, bCurrent := isCurrentOrUpcoming(a, today), isCurrentOrUpcoming(b, today)
		if aCurrent != bCurrent {
			if aCurrent {
				return -1
			}
			return 1
		}
		if c := compareDates(a.StartDate, b.StartDate); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out
}

func isCurrentOrUpcoming(e Exhibition, today string) bool {
	return e.EndDate == "" || e.EndDate >= today
}

// compareDates compares ISO dates with empty meaning "no date", sorted last.
func compareDates(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}
