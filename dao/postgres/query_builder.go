package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"museum-buddy/datasource"
	"museum-buddy/models/museum"
)

var identifierPattern = regexp.MustCompile(`^[a-z_]+$`)

type query struct {
	sql  string
	args []any
}

// filterBuilder appends numbered placeholders the way the store's queries
// are assembled.
type filterBuilder struct {
	where  string
	args   []any
	argIdx int
	prefix string
}

func newFilterBuilder(prefix string, args ...any) *filterBuilder {
	return &filterBuilder{
		where:  "WHERE 1=1",
		args:   args,
		argIdx: len(args) + 1,
		prefix: prefix,
	}
}

func (b *filterBuilder) apply(f datasource.MuseumFilter) {
	if text := strings.TrimSpace(f.TextQuery); text != "" {
		b.where += fmt.Sprintf(" AND %s%s ILIKE '%%' || $%d || '%%'", b.prefix, museum.ColumnName, b.argIdx)
		b.args = append(b.args, text)
		b.argIdx++
	}
	if f.FreeOnly {
		b.where += fmt.Sprintf(" AND %s%s = true", b.prefix, museum.ColumnFree)
	}
	if len(f.IDs) > 0 {
		b.where += fmt.Sprintf(" AND %sid::text = ANY($%d)", b.prefix, b.argIdx)
		b.args = append(b.args, f.IDs)
		b.argIdx++
	}
}

func columnList(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	for _, c := range columns {
		if !identifierPattern.MatchString(c) {
			return "", fmt.Errorf("invalid column name %q", c)
		}
	}
	return strings.Join(columns, ", "), nil
}

func buildSelectMuseums(q datasource.MuseumQuery) (query, error) {
	cols, err := columnList(q.Columns)
	if err != nil {
		return query{}, err
	}
	b := newFilterBuilder("")
	b.apply(q.MuseumFilter)
	sql := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s", cols, datasource.MuseumsTable, b.where, museum.ColumnName)
	return query{sql: sql, args: b.args}, nil
}

func buildNearby(q datasource.NearbyQuery) query {
	radius := q.RadiusMeters
	if radius <= 0 {
		radius = datasource.DefaultNearbyRadiusMeters
	}
	b := newFilterBuilder("m.", q.Lat, q.Lng, radius)
	b.apply(q.MuseumFilter)
	sql := fmt.Sprintf(
		"SELECT m.* FROM %s(lat => $1, lng => $2, radius_meters => $3) AS m %s ORDER BY m.%s",
		datasource.NearbyFunction, b.where, museum.ColumnDistance,
	)
	return query{sql: sql, args: b.args}
}

func buildActiveExhibitionIDs(today string) query {
	sql := fmt.Sprintf(
		"SELECT DISTINCT museum_id::text FROM %s WHERE museum_id IS NOT NULL AND (eind_datum IS NULL OR eind_datum >= $1)",
		datasource.ExhibitionsTable,
	)
	return query{sql: sql, args: []any{today}}
}

func buildExhibitions(withRelation bool) query {
	if !withRelation {
		return query{sql: fmt.Sprintf("SELECT to_jsonb(e) FROM %s e", datasource.ExhibitionsTable)}
	}
	sql := fmt.Sprintf(
		"SELECT to_jsonb(e) || jsonb_build_object('%s', to_jsonb(m)) FROM %s e LEFT JOIN %s m ON m.id = e.museum_id",
		datasource.MuseumsTable, datasource.ExhibitionsTable, datasource.MuseumsTable,
	)
	return query{sql: sql}
}

func buildMuseumsByIDs(ids []string) query {
	sql := fmt.Sprintf("SELECT to_jsonb(m) FROM %s m WHERE m.id::text = ANY($1)", datasource.MuseumsTable)
	return query{sql: sql, args: []any{ids}}
}
