package hours

import "fmt"

// Weekday indices used throughout the package. Sunday is 0, matching time.Weekday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const minutesPerDay = 24 * 60

// Slot is a single open interval in minutes since midnight. Close may exceed
// 1440 to express closing after midnight (29:59 at most).
type Slot struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// IsOpen reports whether the slot describes a non-empty opening window.
func (s *Slot) IsOpen() bool {
	return s != nil && s.Close > s.Open
}

func (s Slot) String() string {
	return fmt.Sprintf("%s-%s", formatMinutes(s.Open), formatMinutes(s.Close))
}

// WeeklySchedule holds one optional slot per weekday, Sunday first.
// A nil slot means the venue is closed that day.
type WeeklySchedule [7]*Slot

// Day returns the slot for a weekday index, or nil when closed or out of range.
func (w *WeeklySchedule) Day(index int) *Slot {
	if w == nil || index < 0 || index >= len(w) {
		return nil
	}
	return w[index]
}

// merge widens the slot for the given day so that it covers [open, close).
func (w *WeeklySchedule) merge(day, open, close int) {
	existing := w[day]
	if existing == nil {
		w[day] = &Slot{Open: open, Close: close}
		return
	}
	w[day] = &Slot{
		Open:  min(existing.Open, open),
		Close: max(existing.Close, close),
	}
}

// Text is the per-language opening hours source for one museum.
type Text struct {
	EN string `json:"en" yaml:"en"`
	NL string `json:"nl" yaml:"nl"`
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
