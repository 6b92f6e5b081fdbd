package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"museum-buddy/datasource"
	"museum-buddy/models/row"
)

// MuseumStore reads musea and exposities from PostgreSQL.
type MuseumStore struct {
	pool *pgxpool.Pool
}

func NewMuseumStore(pool *pgxpool.Pool) *MuseumStore {
	return &MuseumStore{pool: pool}
}

func (s *MuseumStore) SelectMuseums(ctx context.Context, q datasource.MuseumQuery) ([]row.Row, error) {
	built, err := buildSelectMuseums(q)
	if err != nil {
		return nil, err
	}
	return s.collectMaps(ctx, "select museums", built)
}

func (s *MuseumStore) MuseumsWithinRadius(ctx context.Context, q datasource.NearbyQuery) ([]row.Row, error) {
	return s.collectMaps(ctx, "nearby museums", buildNearby(q))
}

func (s *MuseumStore) ActiveExhibitionMuseumIDs(ctx context.Context, today string) ([]string, error) {
	built := buildActiveExhibitionIDs(today)
	rows, err := s.pool.Query(ctx, built.sql, built.args...)
	if err != nil {
		return nil, classify("active exhibition ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, classify("active exhibition ids", err)
	}
	return ids, nil
}

func (s *MuseumStore) Exhibitions(ctx context.Context, withRelation bool) ([]row.Row, error) {
	return s.collectJSON(ctx, "exhibitions", buildExhibitions(withRelation))
}

func (s *MuseumStore) MuseumsByIDs(ctx context.Context, ids []string) ([]row.Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.collectJSON(ctx, "museums by ids", buildMuseumsByIDs(ids))
}

func (s *MuseumStore) collectMaps(ctx context.Context, op string, q query) ([]row.Row, error) {
	rows, err := s.pool.Query(ctx, q.sql, q.args...)
	if err != nil {
		return nil, classify(op, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]row.Row, 0, len(maps))
	for _, m := range maps {
		r := make(row.Row, len(m))
		for k, v := range m {
			r[k] = normalizeValue(v)
		}
		out = append(out, r)
	}
	log.Printf("[MuseumStore] %s returned %d rows", op, len(out))
	return out, nil
}

// collectJSON reads single-column jsonb results.
func (s *MuseumStore) collectJSON(ctx context.Context, op string, q query) ([]row.Row, error) {
	rows, err := s.pool.Query(ctx, q.sql, q.args...)
	if err != nil {
		return nil, classify(op, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[map[string]any])
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]row.Row, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		normalized, ok := normalizeValue(d).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected document type %T", op, d)
		}
		out = append(out, row.Row(normalized))
	}
	log.Printf("[MuseumStore] %s returned %d rows", op, len(out))
	return out, nil
}

var _ datasource.Source = (*MuseumStore)(nil)
