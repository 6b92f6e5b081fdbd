package exhibition

import (
	"regexp"
	"strings"

	"museum-buddy/filters"
	"museum-buddy/models/row"
)

// MuseumSummary is the museum an exhibition belongs to.
type MuseumSummary struct {
	ID       string `json:"id,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Name     string `json:"name,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`

	// OpeningHours is the museum row's own opening hours text.
	OpeningHours string `json:"opening_hours,omitempty"`
}

type Tags struct {
	Free          bool `json:"free"`
	ChildFriendly bool `json:"child_friendly"`
	Temporary     bool `json:"temporary"`
}

// Exhibition is one row of the exposities table, normalized.
type Exhibition struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	StartDate          string        `json:"start_date,omitempty"`
	EndDate            string        `json:"end_date,omitempty"`
	Description        string        `json:"description,omitempty"`
	Summary            string        `json:"summary,omitempty"`
	SourceURL          string        `json:"source_url,omitempty"`
	MoreInfoURL        string        `json:"more_info_url,omitempty"`
	TicketAffiliateURL string        `json:"ticket_affiliate_url,omitempty"`
	TicketURL          string        `json:"ticket_url,omitempty"`
	Museum             MuseumSummary `json:"museum"`
	Tags               Tags          `json:"tags"`

	// OpenNow is nil when the museum's hours are unknown.
	OpenNow *bool `json:"open_now"`
}

// RelationKey is the column holding the joined museum row.
const RelationKey = "musea"

var (
	apostrophePattern = regexp.MustCompile(`['’]`)
	nonSlugPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// FromRow normalizes an exposities row. museum is the joined or separately
// fetched musea row and may be nil.
func FromRow(r row.Row, museum row.Row) Exhibition {
	if museum == nil {
		museum = row.Map(r, RelationKey)
	}
	if museum == nil {
		museum = row.Map(r, "museum")
	}
	if museum == nil {
		museum = row.Row{}
	}

	slug := strings.ToLower(row.String(museum, "slug"))
	if slug == "" {
		slug = strings.ToLower(row.String(r, "museum_slug", "museumSlug", "slug"))
	}
	name := row.String(museum, "naam", "name")
	if name == "" {
		name = row.String(r, "museum_naam", "museumName")
	}
	if slug == "" {
		slug = Slugify(name)
	}

	sourceURL := row.String(r, "bron_url", "source_url", "url")
	moreInfo := row.String(r, "meer_info_url", "meer_informatie_url", "detail_url", "detailUrl", "link", "website_url")
	if moreInfo == "" {
		moreInfo = sourceURL
	}

	museumID := row.ID(museum, "id")
	if museumID == "" {
		museumID = row.ID(r, "museum_id")
	}

	startDate := dateOnly(row.String(r, "start_datum"))
	endDate := dateOnly(row.String(r, "eind_datum"))

	temporary, ok := firstFlag(r, "tijdelijk", "temporary", "tijdelijkeTentoonstelling", "temporaryExhibition")
	if !ok || !temporary {
		temporary = startDate != "" && endDate != ""
	}

	return Exhibition{
		ID:                 row.ID(r, "id"),
		Title:              row.String(r, "titel", "title"),
		StartDate:          startDate,
		EndDate:            endDate,
		Description:        row.String(r, "beschrijving", "omschrijving", "beschrijving_kort", "samenvatting", "description"),
		SourceURL:          sourceURL,
		MoreInfoURL:        moreInfo,
		TicketAffiliateURL: firstNonEmpty(row.String(r, "ticket_affiliate_url"), row.String(museum, "ticket_affiliate_url")),
		TicketURL:          firstNonEmpty(row.String(r, "ticket_url"), row.String(museum, "ticket_url", "website_url")),
		Museum: MuseumSummary{
			ID:           museumID,
			Slug:         slug,
			Name:         name,
			City:         firstNonEmpty(row.String(museum, "stad", "city"), row.String(r, "museum_stad", "museumCity")),
			Province:     firstNonEmpty(row.String(museum, "provincie", "province"), row.String(r, "museum_provincie", "museumProvince")),
			OpeningHours: row.String(museum, "openingstijden", "opening_hours", "openingHours", "openinghours", "hours"),
		},
		Tags: Tags{
			Free:          flagIsTrue(r, "gratis", "free", "kosteloos", "freeEntry"),
			ChildFriendly: flagIsTrue(r, "kindvriendelijk", "childFriendly", "familievriendelijk", "familyFriendly"),
			Temporary:     temporary,
		},
	}
}

// HasMuseum reports whether the row carries a joined museum with an id.
func HasMuseum(r row.Row) bool {
	museum := row.Map(r, RelationKey)
	return museum != nil && row.ID(museum, "id") != ""
}

// Slugify turns a museum name into a URL slug.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = apostrophePattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&", "en")
	s = nonSlugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// firstFlag returns the first non-blank flag among keys.
func firstFlag(r row.Row, keys ...string) (bool, bool) {
	for _, key := range keys {
		value, ok := r[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return filters.ParseLooseBool(value), true
	}
	return false, false
}

func flagIsTrue(r row.Row, keys ...string) bool {
	value, ok := firstFlag(r, keys...)
	return ok && value
}

// dateOnly trims timestamps such as "2024-05-01T00:00:00Z" to the date.
func dateOnly(value string) string {
	if len(value) > 10 && value[4] == '-' && value[7] == '-' {
		return value[:10]
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
