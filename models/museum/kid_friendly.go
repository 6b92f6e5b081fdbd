package museum

import (
	"strings"

	"museum-buddy/filters"
	"museum-buddy/models/row"
)

// KidFriendlyList is a curated set of museum slugs known to suit children.
type KidFriendlyList interface {
	IsKidFriendly(slug string) bool
}

// KidFriendlyProbe inspects a raw row for one kind of kid-friendly signal.
type KidFriendlyProbe func(r row.Row) bool

var kidFriendlyFields = [][]string{
	{"kidFriendly"},
	{ColumnKidFriendly},
	{"childFriendly"},
	{"familievriendelijk"},
	{"familyFriendly"},
	{"tags", "kidFriendly"},
	{"tags", "childFriendly"},
	{"raw", "kidFriendly"},
	{"raw", ColumnKidFriendly},
	{"raw", "childFriendly"},
	{"raw", "familievriendelijk"},
	{"raw", "familyFriendly"},
}

var slugFields = [][]string{
	{ColumnSlug},
	{"slugId"},
	{"slug_id"},
	{"raw", ColumnSlug},
}

// KidFriendlyProbes returns the probes in evaluation order: the curated
// slug list first, then every known kid-friendly field.
func KidFriendlyProbes(list KidFriendlyList) []KidFriendlyProbe {
	probes := make([]KidFriendlyProbe, 0, len(kidFriendlyFields)+1)
	if list != nil {
		probes = append(probes, SlugListProbe(list))
	}
	for _, path := range kidFriendlyFields {
		probes = append(probes, FieldProbe(path...))
	}
	return probes
}

// SlugListProbe matches rows whose slug is on the curated list.
func SlugListProbe(list KidFriendlyList) KidFriendlyProbe {
	return func(r row.Row) bool {
		for _, path := range slugFields {
			value, ok := row.Lookup(r, path...)
			if !ok {
				continue
			}
			slug, _ := value.(string)
			if slug = strings.ToLower(strings.TrimSpace(slug)); slug != "" {
				return list.IsKidFriendly(slug)
			}
		}
		return false
	}
}

// FieldProbe matches rows whose field at path is a loose true.
func FieldProbe(path ...string) KidFriendlyProbe {
	return func(r row.Row) bool {
		value, ok := row.Lookup(r, path...)
		return ok && filters.ParseLooseBool(value)
	}
}

// IsKidFriendly reports whether any probe matches.
func IsKidFriendly(r row.Row, probes []KidFriendlyProbe) bool {
	for _, probe := range probes {
		if probe(r) {
			return true
		}
	}
	return false
}
