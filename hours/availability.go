package hours

import "regexp"

// DatePreference selects which availability flag a visitor cares about.
type DatePreference string

const (
	PreferToday   DatePreference = "today"
	PreferWeekend DatePreference = "weekend"
)

// Availability is derived per evaluation instant and never stored.
// A nil flag means "unknown" (no readable schedule), which is not the same
// as closed.
type Availability struct {
	OpenNow         *bool `json:"open_now"`
	OpenToday       *bool `json:"open_today"`
	OpenThisWeekend *bool `json:"open_this_weekend"`
}

// Known reports whether the availability was derived from a schedule.
func (a Availability) Known() bool {
	return a.OpenNow != nil || a.OpenToday != nil || a.OpenThisWeekend != nil
}

// Moment is a venue-local instant reduced to what schedules care about.
type Moment struct {
	Weekday int
	Minutes int
}

// Resolve derives availability from a schedule at the given venue-local moment.
func Resolve(schedule *WeeklySchedule, now Moment) Availability {
	if schedule == nil {
		return Availability{}
	}

	today := schedule.Day(now.Weekday)
	openNow := today != nil && now.Minutes >= today.Open && now.Minutes < today.Close
	openToday := today.IsOpen()
	weekend := schedule.Day(Saturday).IsOpen() || schedule.Day(Sunday).IsOpen()

	return Availability{
		OpenNow:         &openNow,
		OpenToday:       &openToday,
		OpenThisWeekend: &weekend,
	}
}

// IsOpenForDatePreference applies a date preference to an availability.
// Unknown availability never satisfies a specific preference.
func IsOpenForDatePreference(a Availability, pref DatePreference) bool {
	switch pref {
	case PreferWeekend:
		return a.OpenThisWeekend != nil && *a.OpenThisWeekend
	case PreferToday:
		return a.OpenToday != nil && *a.OpenToday
	default:
		return true
	}
}

var singleRangePattern = regexp.MustCompile(`(\d{1,2}[:.]\d{2})\s*[–-]\s*(\d{1,2}[:.]\d{2})`)

// IsOpenNow checks the first "HH:MM-HH:MM" range found in text, ignoring
// weekdays. A close time at or before the open time closes the next day.
// It returns nil when no usable range is present.
func IsOpenNow(text string, now Moment) *bool {
	m := singleRangePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	start, ok := parseClock(m[1])
	if !ok {
		return nil
	}
	end, ok := parseClock(m[2])
	if !ok {
		return nil
	}

	crossesMidnight := end <= start
	if crossesMidnight {
		end += minutesPerDay
	}
	current := now.Minutes
	if crossesMidnight && current < start {
		current += minutesPerDay
	}

	open := current >= start && current < end
	return &open
}
