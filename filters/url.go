package filters

import (
	"net/url"
	"strings"
)

// URL parameter names. Aliases are accepted when reading, never written.
const (
	ParamQuery       = "q"
	ParamFree        = "gratis"
	ParamExhibitions = "exposities"
	ParamKidFriendly = "kindvriendelijk"
	ParamNearby      = "nearby"
	ParamDate        = "date"
	ParamOpenNow     = "open"
)

var (
	kidFriendlyParams = []string{ParamKidFriendly, "kidFriendly", "kidfriendly"}
	nearbyParams      = []string{"dichtbij", ParamNearby, "distance"}
	openNowParams     = []string{ParamOpenNow, "openNow"}

	exhibitionOpenNowParams = []string{"open_now", "openNow", ParamOpenNow}
)

// ToValues writes the state as URL parameters. Booleans are only written
// when set and the date only when it is not today.
func ToValues(s State) url.Values {
	s = s.Normalize()
	q := url.Values{}

	if s.Query != "" {
		q.Set(ParamQuery, s.Query)
	}
	if s.Exhibitions {
		q.Set(ParamExhibitions, "1")
	}
	if s.Free {
		q.Set(ParamFree, "1")
	}
	if s.KidFriendly {
		q.Set(ParamKidFriendly, "1")
	}
	if s.Nearby {
		q.Set(ParamNearby, "1")
	}
	if s.Date == DateWeekend {
		q.Set(ParamDate, string(DateWeekend))
	}
	if s.OpenNow {
		q.Set(ParamOpenNow, "1")
	}
	return q
}

// Encode returns the canonical query string for s, without a leading "?".
func Encode(s State) string {
	return ToValues(s).Encode()
}

// FromValues reads a state from URL parameters. Unknown parameters are ignored.
func FromValues(q url.Values) State {
	s := Default()
	s.Query = strings.TrimSpace(q.Get(ParamQuery))
	s.Free = lookupBool(q, ParamFree)
	s.Exhibitions = lookupBool(q, ParamExhibitions)
	s.KidFriendly = lookupBool(q, kidFriendlyParams...)
	s.Nearby = lookupBool(q, nearbyParams...)
	s.OpenNow = lookupBool(q, openNowParams...)
	if q.Get(ParamDate) == string(DateWeekend) {
		s.Date = DateWeekend
	}
	return s
}

// Decode parses a raw query string, with or without the leading "?".
// Malformed pairs are skipped.
func Decode(raw string) State {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return FromValues(q)
}

// ExhibitionOpenNow reads the open-now toggle of the exhibitions listing,
// which also accepts "open_now".
func ExhibitionOpenNow(q url.Values) bool {
	return lookupBool(q, exhibitionOpenNowParams...)
}

// lookupBool reads the first of names present in q.
func lookupBool(q url.Values, names ...string) bool {
	for _, name := range names {
		if q.Has(name) {
			return ParseLooseBool(q[name])
		}
	}
	return false
}
