package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"museum-buddy/hours"
	"museum-buddy/search"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

const (
	DefaultCity     = "Amsterdam"
	DefaultProvince = "Noord-Holland"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// Museum is one curated catalog entry.
type Museum struct {
	Slug                 string         `yaml:"slug"`
	Name                 string         `yaml:"name"`
	City                 string         `yaml:"city"`
	Province             string         `yaml:"province"`
	Free                 bool           `yaml:"free"`
	WebsiteURL           string         `yaml:"website_url"`
	TicketURL            string         `yaml:"ticket_url"`
	Location             *Location      `yaml:"location"`
	Hours                hours.Text     `yaml:"hours"`
	Summary              search.Summary `yaml:"summary"`
	Categories           []string       `yaml:"categories"`
	HasActiveExhibitions *bool          `yaml:"has_active_exhibitions"`
}

// Catalog is the static museum list plus the curated lists that drive
// ordering, exclusion and kid-friendliness.
type Catalog struct {
	Featured    []string `yaml:"featured"`
	Excluded    []string `yaml:"excluded"`
	KidFriendly []string `yaml:"kid_friendly"`
	Museums     []Museum `yaml:"museums"`

	bySlug       map[string]int
	featuredRank map[string]int
	excluded     map[string]struct{}
	kidFriendly  map[string]struct{}
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// MustLoad is Load for program start-up and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog document and indexes it by slug.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c.bySlug = make(map[string]int, len(c.Museums))
	for i := range c.Museums {
		m := &c.Museums[i]
		m.Slug = normalizeSlug(m.Slug)
		if m.Slug == "" {
			return nil, fmt.Errorf("catalog museum %d has no slug", i)
		}
		if _, dup := c.bySlug[m.Slug]; dup {
			return nil, fmt.Errorf("catalog museum %q is listed twice", m.Slug)
		}
		if m.City == "" {
			m.City = DefaultCity
		}
		if m.Province == "" {
			m.Province = DefaultProvince
		}
		c.bySlug[m.Slug] = i
	}

	c.featuredRank = make(map[string]int, len(c.Featured))
	for i, slug := range c.Featured {
		c.featuredRank[normalizeSlug(slug)] = i
	}
	c.excluded = toSet(c.Excluded)
	c.kidFriendly = toSet(c.KidFriendly)
	return &c, nil
}

// Museum looks up a catalog entry by slug, case-insensitively.
func (c *Catalog) Museum(slug string) (Museum, bool) {
	i, ok := c.bySlug[normalizeSlug(slug)]
	if !ok {
		return Museum{}, false
	}
	return c.Museums[i], true
}

// OpeningHours returns the curated opening hours text for slug.
func (c *Catalog) OpeningHours(slug string) (hours.Text, bool) {
	m, ok := c.Museum(slug)
	if !ok || (m.Hours.EN == "" && m.Hours.NL == "") {
		return hours.Text{}, false
	}
	return m.Hours, true
}

// Summary returns the curated summary for slug.
func (c *Catalog) Summary(slug string) (search.Summary, bool) {
	m, ok := c.Museum(slug)
	if !ok || (m.Summary.EN == "" && m.Summary.NL == "") {
		return search.Summary{}, false
	}
	return m.Summary, true
}

// CategoryOverrides returns the manually assigned categories per slug.
func (c *Catalog) CategoryOverrides() map[string][]string {
	out := make(map[string][]string)
	for _, m := range c.Museums {
		if len(m.Categories) > 0 {
			out[m.Slug] = append([]string(nil), m.Categories...)
		}
	}
	return out
}

// FeaturedRank returns the position of slug in the featured list.
func (c *Catalog) FeaturedRank(slug string) (int, bool) {
	rank, ok := c.featuredRank[normalizeSlug(slug)]
	return rank, ok
}

func (c *Catalog) IsExcluded(slug string) bool {
	_, ok := c.excluded[normalizeSlug(slug)]
	return ok
}

// IsKidFriendly reports whether slug is on the curated kid-friendly list.
func (c *Catalog) IsKidFriendly(slug string) bool {
	_, ok := c.kidFriendly[normalizeSlug(slug)]
	return ok
}

// TicketURL returns the curated ticket link for slug.
func (c *Catalog) TicketURL(slug string) (string, bool) {
	m, ok := c.Museum(slug)
	if !ok || m.TicketURL == "" {
		return "", false
	}
	return m.TicketURL, true
}

// Rows renders the catalog in the column layout of the musea table, so it
// can stand in for the remote data source.
func (c *Catalog) Rows() []map[string]any {
	rows := make([]map[string]any, 0, len(c.Museums))
	for i, m := range c.Museums {
		rows = append(rows, c.row(i+1, m))
	}
	return rows
}

func (c *Catalog) row(id int, m Museum) map[string]any {
	hasExhibitions := true
	if m.HasActiveExhibitions != nil {
		hasExhibitions = *m.HasActiveExhibitions
	}

	row := map[string]any{
		"id":                     id,
		"slug":                   m.Slug,
		"naam":                   m.Name,
		"stad":                   m.City,
		"provincie":              m.Province,
		"gratis_toegankelijk":    m.Free,
		"ticket_affiliate_url":   nullable(m.TicketURL),
		"website_url":            nullable(m.WebsiteURL),
		"openingstijden":         nullable(firstNonEmpty(m.Hours.NL, m.Hours.EN)),
		"opening_hours":          nullable(firstNonEmpty(m.Hours.EN, m.Hours.NL)),
		"has_active_exhibitions": hasExhibitions,
	}
	if m.Location != nil {
		row["latitude"] = m.Location.Lat
		row["longitude"] = m.Location.Lng
	}
	return row
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if s := normalizeSlug(v); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
