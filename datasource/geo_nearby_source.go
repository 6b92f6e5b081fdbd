package datasource

import (
	"context"
	"fmt"
	"log"
	"slices"

	"museum-buddy/models/museum"
	"museum-buddy/models/row"
)

// GeoHit is one museum found by a geo index, keyed by slug.
type GeoHit struct {
	Slug           string
	DistanceMeters float64
}

// GeoIndex answers radius queries over museum coordinates.
type GeoIndex interface {
	NearbyMuseums(ctx context.Context, lat, lng, radiusMeters float64) ([]GeoHit, error)
}

// GeoNearbySource answers nearby queries from a geo index instead of the
// radius function of the wrapped source, for schemas without it. All other
// calls pass through.
type GeoNearbySource struct {
	Source
	index GeoIndex
}

func NewGeoNearbySource(source Source, index GeoIndex) *GeoNearbySource {
	return &GeoNearbySource{Source: source, index: index}
}

func (g *GeoNearbySource) MuseumsWithinRadius(ctx context.Context, q NearbyQuery) ([]row.Row, error) {
	hits, err := g.index.NearbyMuseums(ctx, q.Lat, q.Lng, q.RadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("geo index lookup failed: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	distances := make(map[string]float64, len(hits))
	for _, h := range hits {
		distances[h.Slug] = h.DistanceMeters
	}

	rows, err := g.Source.SelectMuseums(ctx, MuseumQuery{Columns: museum.BaseColumns, MuseumFilter: q.MuseumFilter})
	if err != nil {
		return nil, err
	}

	var out []row.Row
	for _, r := range rows {
		distance, ok := distances[row.String(r, museum.ColumnSlug)]
		if !ok {
			continue
		}
		r[museum.ColumnDistance] = distance
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b row.Row) int {
		return compareFloat(*row.Float(a, museum.ColumnDistance), *row.Float(b, museum.ColumnDistance))
	})

	log.Printf("[GeoNearbySource] %d of %d indexed museums matched within %.0fm", len(out), len(hits), q.RadiusMeters)
	return out, nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
