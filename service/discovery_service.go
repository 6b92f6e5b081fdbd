package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"museum-buddy/datasource"
	"museum-buddy/filters"
	"museum-buddy/geo"
	"museum-buddy/hours"
	"museum-buddy/models/museum"
	"museum-buddy/models/row"
)

// Where a result came from.
const (
	SourceBaseline = "baseline"
	SourceLocal    = "local"
	SourceRemote   = "remote"
)

// Request is one discovery run. Location, when set, wins over an IP lookup.
type Request struct {
	State    filters.State
	Location *geo.Point
	ClientIP string
}

// Result is the outcome of one discovery run. Error carries the client
// error code; Museums is then empty.
type Result struct {
	Museums        []museum.Entity `json:"museums"`
	UsedNearby     bool            `json:"used_nearby"`
	NearbyDisabled bool            `json:"nearby_disabled"`
	Source         string          `json:"source"`
	Error          string          `json:"error,omitempty"`
}

// DiscoveryService filters, enriches and sorts museums for a filter state.
// Without a data source it works on the baseline alone.
type DiscoveryService struct {
	source       datasource.Source
	baseline     BaselineProvider
	builder      *MuseumBuilder
	locator      geo.Locator
	clock        *hours.Clock
	radiusMeters float64
}

// NewDiscoveryService wires the pipeline. source and locator may be nil.
func NewDiscoveryService(
	source datasource.Source,
	baseline BaselineProvider,
	builder *MuseumBuilder,
	locator geo.Locator,
	clock *hours.Clock,
	radiusMeters float64,
) *DiscoveryService {
	if radiusMeters <= 0 {
		radiusMeters = datasource.DefaultNearbyRadiusMeters
	}
	return &DiscoveryService{
		source:       source,
		baseline:     baseline,
		builder:      builder,
		locator:      locator,
		clock:        clock,
		radiusMeters: radiusMeters,
	}
}

// HasSource reports whether remote queries are possible.
func (s *DiscoveryService) HasSource() bool {
	return s.source != nil
}

// Run executes the pipeline for req. Query failures are reported both in
// Result.Error and as an error wrapping ErrQueryFailed.
func (s *DiscoveryService) Run(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DiscoveryService] Recovered from panic: %v", r)
			res = Result{Museums: []museum.Entity{}, Error: ErrorUnknown}
			err = fmt.Errorf("%w: %v", ErrUnknown, r)
		}
	}()

	state := req.State.Normalize()
	now := s.clock.Moment()

	if state.IsDefault() {
		if base := s.baseline.Museums(); len(base) > 0 {
			list := s.builder.WithAvailability(base, now)
			return Result{Museums: s.builder.SortFeatured(list), Source: SourceBaseline}, nil
		}
	}

	if s.source == nil {
		res = s.runLocal(state, now)
		res.NearbyDisabled = state.Nearby
		return res, nil
	}
	return s.runRemote(ctx, req, state, now)
}

func (s *DiscoveryService) runLocal(state filters.State, now hours.Moment) Result {
	parsed := state.Parsed()
	text := strings.ToLower(strings.TrimSpace(parsed.TextQuery))

	matched := []museum.Entity{}
	for _, e := range s.builder.WithAvailability(s.baseline.Museums(), now) {
		if s.builder.IsExcluded(e.Slug) {
			continue
		}
		if state.KidFriendly && !e.KidFriendly {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(e.Name), text) && !strings.Contains(strings.ToLower(e.Slug), text) {
			continue
		}
		if state.Free && !e.Free {
			continue
		}
		if state.Exhibitions && e.HasActiveExhibitions != nil && !*e.HasActiveExhibitions {
			continue
		}
		if !matchesFacets(e, state, parsed.CategoryFilters) {
			continue
		}
		matched = append(matched, e)
	}
	return Result{Museums: s.builder.SortFeatured(matched), Source: SourceLocal}
}

func (s *DiscoveryService) runRemote(ctx context.Context, req Request, state filters.State, now hours.Moment) (Result, error) {
	parsed := state.Parsed()
	res := Result{Museums: []museum.Entity{}, Source: SourceRemote}

	var location *geo.Point
	if state.Nearby {
		location = s.locate(ctx, req)
		res.NearbyDisabled = location == nil
	}

	filter := datasource.MuseumFilter{TextQuery: parsed.TextQuery, FreeOnly: state.Free}
	if state.Exhibitions {
		ids, err := s.source.ActiveExhibitionMuseumIDs(ctx, s.clock.Today())
		if err != nil {
			return s.failed(ctx, res, "active exhibitions lookup", err)
		}
		ids = uniqueIDs(ids)
		if len(ids) == 0 {
			return res, nil
		}
		filter.IDs = ids
	}

	rows, usedNearby, err := s.queryWithColumnFallback(ctx, filter, location)
	if err != nil {
		return s.failed(ctx, res, "museum query", err)
	}
	res.UsedNearby = usedNearby

	matched := res.Museums
	for _, e := range s.builder.WithAvailability(s.builder.Entities(rows), now) {
		if state.KidFriendly && !e.KidFriendly {
			continue
		}
		if !matchesFacets(e, state, parsed.CategoryFilters) {
			continue
		}
		matched = append(matched, e)
	}

	if usedNearby {
		res.Museums = SortByDistance(matched)
	} else {
		res.Museums = s.builder.SortFeatured(matched)
	}
	return res, nil
}

// locate returns the explicit request location or asks the locator once.
func (s *DiscoveryService) locate(ctx context.Context, req Request) *geo.Point {
	if req.Location != nil && req.Location.Valid() {
		return req.Location
	}
	if s.locator == nil {
		return nil
	}
	p, err := s.locator.Locate(ctx, req.ClientIP)
	if err != nil || !p.Valid() {
		log.Printf("[DiscoveryService] Location unavailable, nearby disabled: %v", err)
		return nil
	}
	return &p
}

type queryAttempt struct {
	rows       []row.Row
	usedNearby bool
	err        error
	nearbyErr  error
}

// queryWithColumnFallback runs the query with every known column and, when
// the schema rejects one, retries once with the base columns.
func (s *DiscoveryService) queryWithColumnFallback(ctx context.Context, filter datasource.MuseumFilter, location *geo.Point) ([]row.Row, bool, error) {
	attempt := s.runQuery(ctx, museum.SelectColumns(), filter, location)
	if datasource.IsSchemaDrift(attempt.err) || datasource.IsSchemaDrift(attempt.nearbyErr) {
		log.Println("[DiscoveryService] Schema drift detected, retrying with base columns")
		attempt = s.runQuery(ctx, museum.BaseColumns, filter, location)
	}
	return attempt.rows, attempt.usedNearby, attempt.err
}

// runQuery tries the radius function first when a location is known and
// falls back to the plain select when it fails.
func (s *DiscoveryService) runQuery(ctx context.Context, columns []string, filter datasource.MuseumFilter, location *geo.Point) queryAttempt {
	var nearbyErr error
	if location != nil {
		rows, err := s.source.MuseumsWithinRadius(ctx, datasource.NearbyQuery{
			Lat:          location.Lat,
			Lng:          location.Lng,
			RadiusMeters: s.radiusMeters,
			MuseumFilter: filter,
		})
		if err == nil {
			return queryAttempt{rows: rows, usedNearby: true}
		}
		log.Printf("[DiscoveryService] Nearby query failed, using base query: %v", err)
		nearbyErr = err
	}

	rows, err := s.source.SelectMuseums(ctx, datasource.MuseumQuery{Columns: columns, MuseumFilter: filter})
	return queryAttempt{rows: rows, err: err, nearbyErr: nearbyErr}
}

func (s *DiscoveryService) failed(ctx context.Context, res Result, op string, err error) (Result, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	log.Printf("[DiscoveryService] %s failed: %v", op, err)
	res.Error = ErrorQueryFailed
	return res, fmt.Errorf("%w: %s: %w", ErrQueryFailed, op, err)
}

// matchesFacets applies the category, date and open-now facets. Unknown
// availability never satisfies a date preference or open-now.
func matchesFacets(e museum.Entity, state filters.State, categories []string) bool {
	for _, c := range categories {
		if !slices.Contains(e.Categories, c) {
			return false
		}
	}
	if !hours.IsOpenForDatePreference(e.Availability, state.Date) {
		return false
	}
	if state.OpenNow && (e.Availability.OpenNow == nil || !*e.Availability.OpenNow) {
		return false
	}
	return true
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
