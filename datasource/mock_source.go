package datasource

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"museum-buddy/filters"
	"museum-buddy/geo"
	"museum-buddy/models/museum"
	"museum-buddy/models/row"
)

// Operation names for MockSource call counting and error injection.
const (
	OpSelectMuseums       = "select_museums"
	OpMuseumsWithinRadius = "museums_within_radius"
	OpActiveExhibitionIDs = "active_exhibition_ids"
	OpExhibitions         = "exhibitions"
	OpExhibitionsRelation = "exhibitions_relation"
	OpMuseumsByIDs        = "museums_by_ids"
)

// MockSource is an in-memory Source used in development and tests. It can
// simulate missing columns and fail selected operations.
type MockSource struct {
	mu             sync.Mutex
	museums        []row.Row
	exhibitions    []row.Row
	missingColumns map[string]struct{}
	failures       map[string]error
	calls          map[string]int
}

func NewMockSource(museums, exhibitions []row.Row) *MockSource {
	return &MockSource{
		museums:        museums,
		exhibitions:    exhibitions,
		missingColumns: make(map[string]struct{}),
		failures:       make(map[string]error),
		calls:          make(map[string]int),
	}
}

// WithoutColumns makes selects naming any of columns fail as a missing column.
func (m *MockSource) WithoutColumns(columns ...string) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range columns {
		m.missingColumns[c] = struct{}{}
	}
	return m
}

// FailOn makes every call of op return err. A nil err clears the failure.
func (m *MockSource) FailOn(op string, err error) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
	} else {
		m.failures[op] = err
	}
	return m
}

// Calls returns how many times op was invoked.
func (m *MockSource) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockSource) begin(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.failures[op]
}

func (m *MockSource) SelectMuseums(ctx context.Context, q MuseumQuery) ([]row.Row, error) {
	if err := m.begin(OpSelectMuseums); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range q.Columns {
		if _, missing := m.missingColumns[c]; missing {
			return nil, fmt.Errorf("column %s.%s does not exist", MuseumsTable, c)
		}
	}

	var out []row.Row
	for _, r := range m.museums {
		if matchesFilter(r, q.MuseumFilter) {
			out = append(out, project(r, q.Columns))
		}
	}
	slices.SortStableFunc(out, func(a, b row.Row) int {
		return strings.Compare(strings.ToLower(row.String(a, museum.ColumnName)), strings.ToLower(row.String(b, museum.ColumnName)))
	})
	return out, nil
}

func (m *MockSource) MuseumsWithinRadius(ctx context.Context, q NearbyQuery) ([]row.Row, error) {
	if err := m.begin(OpMuseumsWithinRadius); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	origin := geo.Point{Lat: q.Lat, Lng: q.Lng}
	var out []row.Row
	for _, r := range m.museums {
		lat, lng := row.Float(r, museum.ColumnLatitude), row.Float(r, museum.ColumnLongitude)
		if lat == nil || lng == nil || !matchesFilter(r, q.MuseumFilter) {
			continue
		}
		distance := geo.DistanceMeters(origin, geo.Point{Lat: *lat, Lng: *lng})
		if distance > q.RadiusMeters {
			continue
		}
		copied := maps.Clone(r)
		copied[museum.ColumnDistance] = distance
		out = append(out, copied)
	}
	slices.SortStableFunc(out, func(a, b row.Row) int {
		return compareFloat(*row.Float(a, museum.ColumnDistance), *row.Float(b, museum.ColumnDistance))
	})
	return out, nil
}

func (m *MockSource) ActiveExhibitionMuseumIDs(ctx context.Context, today string) ([]string, error) {
	if err := m.begin(OpActiveExhibitionIDs); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range m.exhibitions {
		end := row.String(e, "eind_datum")
		if end != "" && end < today {
			continue
		}
		id := row.ID(e, "museum_id")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockSource) Exhibitions(ctx context.Context, withRelation bool) ([]row.Row, error) {
	if err := m.begin(OpExhibitions); err != nil {
		return nil, err
	}
	if withRelation {
		if err := m.begin(OpExhibitionsRelation); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]row.Row, 0, len(m.exhibitions))
	for _, e := range m.exhibitions {
		copied := maps.Clone(e)
		if withRelation {
			if related := m.museumByID(row.ID(e, "museum_id")); related != nil {
				copied["musea"] = maps.Clone(related)
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (m *MockSource) MuseumsByIDs(ctx context.Context, ids []string) ([]row.Row, error) {
	if err := m.begin(OpMuseumsByIDs); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []row.Row
	for _, id := range ids {
		if r := m.museumByID(id); r != nil {
			out = append(out, maps.Clone(r))
		}
	}
	return out, nil
}

func (m *MockSource) museumByID(id string) row.Row {
	if id == "" {
		return nil
	}
	for _, r := range m.museums {
		if row.ID(r, museum.ColumnID) == id {
			return r
		}
	}
	return nil
}

func matchesFilter(r row.Row, f MuseumFilter) bool {
	if f.TextQuery != "" {
		name := strings.ToLower(row.String(r, museum.ColumnName))
		if !strings.Contains(name, strings.ToLower(f.TextQuery)) {
			return false
		}
	}
	if f.FreeOnly && !filters.ParseLooseBool(r[museum.ColumnFree]) {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, row.ID(r, museum.ColumnID)) {
		return false
	}
	return true
}

func project(r row.Row, columns []string) row.Row {
	if len(columns) == 0 {
		return maps.Clone(r)
	}
	out := make(row.Row, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}
