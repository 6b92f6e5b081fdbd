package museum

import (
	"fmt"

	"museum-buddy/filters"
	"museum-buddy/hours"
	"museum-buddy/models/row"
)

// Entity is a museum as shown in search results. Entities are built once per
// fetch and then only copied, never changed in place.
type Entity struct {
	ID                   string             `json:"id"`
	Slug                 string             `json:"slug"`
	Name                 string             `json:"name"`
	City                 string             `json:"city"`
	Province             string             `json:"province"`
	Free                 bool               `json:"free"`
	KidFriendly          bool               `json:"kid_friendly"`
	HasActiveExhibitions *bool              `json:"has_active_exhibitions,omitempty"`
	TicketURL            string             `json:"ticket_url,omitempty"`
	WebsiteURL           string             `json:"website_url,omitempty"`
	HoursText            string             `json:"opening_hours,omitempty"`
	Categories           []string           `json:"categories"`
	Availability         hours.Availability `json:"availability"`
	DistanceMeters       *float64           `json:"distance_meters,omitempty"`
	Latitude             *float64           `json:"latitude,omitempty"`
	Longitude            *float64           `json:"longitude,omitempty"`
}

func (e Entity) ToString() string {
	return fmt.Sprintf("Museum(slug=%s, name=%s, city=%s)", e.Slug, e.Name, e.City)
}

// WithCategories returns a copy of e carrying categories.
func (e Entity) WithCategories(categories []string) Entity {
	e.Categories = append([]string(nil), categories...)
	return e
}

// WithAvailability returns a copy of e carrying availability.
func (e Entity) WithAvailability(a hours.Availability) Entity {
	e.Availability = a
	return e
}

// FromRow normalizes one musea row. Loose boolean columns are coerced here,
// once, and kid-friendliness is decided by the given probes.
func FromRow(r row.Row, probes []KidFriendlyProbe) Entity {
	e := Entity{
		ID:             row.ID(r, ColumnID),
		Slug:           row.String(r, ColumnSlug),
		Name:           row.String(r, ColumnName, "name"),
		City:           row.String(r, ColumnCity, "city"),
		Province:       row.String(r, ColumnProvince, "province"),
		Free:           filters.ParseLooseBool(r[ColumnFree]),
		TicketURL:      row.String(r, ColumnTicketURL),
		WebsiteURL:     row.String(r, ColumnWebsiteURL),
		HoursText:      row.String(r, ColumnHoursEN, ColumnHoursNL),
		DistanceMeters: row.Float(r, ColumnDistance),
		Latitude:       row.Float(r, ColumnLatitude, "lat"),
		Longitude:      row.Float(r, ColumnLongitude, "lng"),
		KidFriendly:    IsKidFriendly(r, probes),
	}
	if v, ok := r[ColumnHasActiveExhibitions]; ok && v != nil {
		active := filters.ParseLooseBool(v)
		e.HasActiveExhibitions = &active
	}
	return e
}
