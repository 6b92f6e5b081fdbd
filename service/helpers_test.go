package services

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"museum-buddy/datasource"
	"museum-buddy/geo"
	"museum-buddy/hours"
	"museum-buddy/models/museum"
	"museum-buddy/models/row"
	"museum-buddy/search"
)

// Sunday 2024-05-05 11:30 in Amsterdam.
var sundayLateMorning = time.Date(2024, 5, 5, 9, 30, 0, 0, time.UTC)

type fakeCuration struct {
	featured []string
	excluded []string
	kids     []string
}

func (c fakeCuration) FeaturedRank(slug string) (int, bool) {
	i := slices.Index(c.featured, slug)
	return i, i >= 0
}

func (c fakeCuration) IsExcluded(slug string) bool {
	return slices.Contains(c.excluded, slug)
}

func (c fakeCuration) IsKidFriendly(slug string) bool {
	return slices.Contains(c.kids, slug)
}

type fakeLocator struct {
	point geo.Point
	err   error
	calls int
}

func (l *fakeLocator) Locate(ctx context.Context, clientIP string) (geo.Point, error) {
	l.calls++
	return l.point, l.err
}

type fakeFallback []row.Row

func (f fakeFallback) Rows() []map[string]any {
	return f
}

func testCuration() fakeCuration {
	return fakeCuration{
		featured: []string{"rijksmuseum-amsterdam", "van-gogh-museum-amsterdam"},
		excluded: []string{"amsterdam-tulip-museum-amsterdam"},
		kids:     []string{"nemo-science-museum-amsterdam"},
	}
}

func testRows() []row.Row {
	return []row.Row{
		{"id": 1, "naam": "Rijksmuseum", "slug": "rijksmuseum-amsterdam", "gratis_toegankelijk": false, "openingstijden": "Ma-Zo 09:00-17:00", "latitude": 52.3600, "longitude": 4.8852},
		{"id": 2, "naam": "Van Gogh Museum", "slug": "van-gogh-museum-amsterdam", "gratis_toegankelijk": false, "openingstijden": "Ma-Vr 10:00-17:00", "latitude": 52.3584, "longitude": 4.8811},
		{"id": 3, "naam": "Amsterdam Museum", "slug": "amsterdam-museum-amsterdam", "gratis_toegankelijk": true, "openingstijden": "Za-Zo 11:00-17:00", "latitude": 52.3700, "longitude": 4.8900},
		{"id": 4, "naam": "NEMO Science Museum", "slug": "nemo-science-museum-amsterdam", "gratis_toegankelijk": false, "openingstijden": "Di-Zo 10:00-17:30", "latitude": 52.3738, "longitude": 4.9123},
		{"id": 5, "naam": "Amsterdam Tulip Museum", "slug": "amsterdam-tulip-museum-amsterdam", "gratis_toegankelijk": true, "openingstijden": "Dagelijks 10:00-18:00", "latitude": 52.3752, "longitude": 4.8838},
		{"id": 6, "naam": "Museum Boijmans", "slug": "boijmans-rotterdam", "gratis_toegankelijk": true, "latitude": 51.9143, "longitude": 4.4731},
	}
}

func testExhibitionRows() []row.Row {
	return []row.Row{
		{"id": 10, "titel": "Late Rembrandt", "museum_id": 1, "start_datum": "2024-02-01", "eind_datum": "2024-06-01"},
		{"id": 11, "titel": "Sunflowers", "museum_id": 2, "start_datum": "2023-10-01", "eind_datum": "2024-01-01"},
	}
}

func newTestClock(t *testing.T) *hours.Clock {
	t.Helper()
	clock, err := hours.NewFixedClock(hours.DefaultTimezone, sundayLateMorning)
	require.NoError(t, err)
	return clock
}

func newTestBuilder(t *testing.T) *MuseumBuilder {
	t.Helper()
	classifier := search.NewClassifier(map[string][]string{
		"rijksmuseum-amsterdam":         {search.CategoryArt, search.CategoryHistory},
		"van-gogh-museum-amsterdam":     {search.CategoryArt},
		"amsterdam-museum-amsterdam":    {search.CategoryHistory},
		"nemo-science-museum-amsterdam": {search.CategoryScience},
		"boijmans-rotterdam":            {search.CategoryArt},
	}, nil)
	resolver, err := hours.NewResolver(nil, 0)
	require.NoError(t, err)
	return NewMuseumBuilder(testCuration(), classifier, resolver)
}

func newBaseline(builder *MuseumBuilder, rows []row.Row) *BaselineStore {
	store := NewBaselineStore()
	store.Replace(builder.Entities(rows), sundayLateMorning)
	return store
}

// newTestDiscovery returns a pipeline over rows. A nil source runs locally.
func newTestDiscovery(t *testing.T, source datasource.Source, locator geo.Locator) *DiscoveryService {
	t.Helper()
	builder := newTestBuilder(t)
	return NewDiscoveryService(source, newBaseline(builder, testRows()), builder, locator, newTestClock(t), 0)
}

func slugs(list []museum.Entity) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Slug)
	}
	return out
}
