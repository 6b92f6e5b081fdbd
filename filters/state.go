package filters

import (
	"strings"

	"museum-buddy/hours"
	"museum-buddy/search"
)

// DatePreference is the visit-date facet, "today" unless the visitor asks
// for the weekend.
type DatePreference = hours.DatePreference

const (
	DateToday   = hours.PreferToday
	DateWeekend = hours.PreferWeekend
)

// State is the canonical search and filter state shared by the URL, the HTTP
// API and the CLI.
type State struct {
	Query       string         `json:"q"`
	Free        bool           `json:"free"`
	Exhibitions bool           `json:"exhibitions"`
	KidFriendly bool           `json:"kid_friendly"`
	Nearby      bool           `json:"nearby"`
	Date        DatePreference `json:"date"`
	OpenNow     bool           `json:"open_now"`
}

// Default is the state of a visitor who has not searched or filtered anything.
func Default() State {
	return State{Date: DateToday}
}

// Normalize trims the query and replaces an unknown date preference with today.
func (s State) Normalize() State {
	s.Query = strings.TrimSpace(s.Query)
	if s.Date != DateWeekend {
		s.Date = DateToday
	}
	return s
}

// IsDefault reports whether s selects nothing beyond the default listing.
func (s State) IsDefault() bool {
	return s.Normalize() == Default()
}

// Parsed splits the query into free text and category filters.
func (s State) Parsed() search.ParsedQuery {
	return search.ParseQuery(s.Query)
}
