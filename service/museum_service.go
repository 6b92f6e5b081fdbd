package services

import (
	"context"
	"fmt"
	"time"

	"museum-buddy/datasource"
	"museum-buddy/hours"
	"museum-buddy/models/museum"
)

// MuseumAvailability is the availability of one museum at one instant.
type MuseumAvailability struct {
	Slug         string             `json:"slug"`
	Name         string             `json:"name"`
	OpeningHours string             `json:"opening_hours,omitempty"`
	Schedule     []string           `json:"schedule,omitempty"`
	Availability hours.Availability `json:"availability"`
	EvaluatedAt  time.Time          `json:"evaluated_at"`
}

type MuseumService struct {
	baseline *BaselineStore
	builder  *MuseumBuilder
	geoIndex datasource.GeoIndex
	clock    *hours.Clock
}

// NewMuseumService constructs a MuseumService. geoIndex may be nil.
func NewMuseumService(
	baseline *BaselineStore,
	builder *MuseumBuilder,
	geoIndex datasource.GeoIndex,
	clock *hours.Clock) *MuseumService {

	return &MuseumService{
		baseline: baseline,
		builder:  builder,
		geoIndex: geoIndex,
		clock:    clock,
	}
}

func (ms *MuseumService) GetMuseum(slug string) (museum.Entity, error) {
	m, ok := ms.baseline.Museum(slug)
	if !ok {
		return museum.Entity{}, fmt.Errorf("%w: %s", ErrMuseumNotFound, slug)
	}
	return m.WithAvailability(ms.builder.Availability(m, ms.clock.Moment())), nil
}

// GetAvailability reports when a museum is open, per weekday, and whether
// it is open now, today and this weekend.
func (ms *MuseumService) GetAvailability(slug string) (MuseumAvailability, error) {
	m, ok := ms.baseline.Museum(slug)
	if !ok {
		return MuseumAvailability{}, fmt.Errorf("%w: %s", ErrMuseumNotFound, slug)
	}
	now := ms.clock.Now()
	out := MuseumAvailability{
		Slug:         m.Slug,
		Name:         m.Name,
		OpeningHours: m.HoursText,
		Availability: ms.builder.Availability(m, hours.MomentOf(now)),
		EvaluatedAt:  now,
	}
	if schedule := ms.builder.resolver.Schedule(m.Slug, m.HoursText); schedule != nil {
		out.Schedule = make([]string, len(schedule))
		for day := range schedule {
			if slot := schedule.Day(day); slot.IsOpen() {
				out.Schedule[day] = slot.String()
			}
		}
	}
	return out, nil
}

// GetMuseumsNearby answers from the geo index, nearest first.
func (ms *MuseumService) GetMuseumsNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]museum.Entity, error) {
	if ms.geoIndex == nil {
		return nil, fmt.Errorf("nearby lookups unavailable: %w", ErrMissingSource)
	}
	hits, err := ms.geoIndex.NearbyMuseums(ctx, lat, lng, radiusMeters)
	if err != nil {
		return nil, err
	}
	now := ms.clock.Moment()
	out := make([]museum.Entity, 0, len(hits))
	for _, hit := range hits {
		m, ok := ms.baseline.Museum(hit.Slug)
		if !ok {
			continue
		}
		distance := hit.DistanceMeters
		m.DistanceMeters = &distance
		out = append(out, m.WithAvailability(ms.builder.Availability(m, now)))
	}
	return out, nil
}
