package datasource

import (
	"context"
	"errors"
	"regexp"

	"museum-buddy/models/row"
)

// Names used by the remote schema.
const (
	MuseumsTable     = "musea"
	ExhibitionsTable = "exposities"
	NearbyFunction   = "musea_within_radius"

	DefaultNearbyRadiusMeters = 5000
)

var (
	// ErrSchemaDrift marks errors caused by a column, table or function
	// that the deployed schema does not have.
	ErrSchemaDrift = errors.New("schema drift")

	driftPattern        = regexp.MustCompile(`(?i)column|identifier|relationship`)
	relationshipPattern = regexp.MustCompile(`(?i)relationship|join|foreign`)
)

// MuseumFilter narrows a museum query.
type MuseumFilter struct {
	// TextQuery is matched case-insensitively as a substring of the name.
	TextQuery string
	FreeOnly  bool
	// IDs restricts results to these museum ids when non-empty.
	IDs []string
}

// MuseumQuery selects museums ordered by name.
type MuseumQuery struct {
	Columns []string
	MuseumFilter
}

// NearbyQuery selects museums within a radius. Rows carry afstand_meter.
type NearbyQuery struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
	MuseumFilter
}

// Source is the remote museum data store.
type Source interface {
	SelectMuseums(ctx context.Context, q MuseumQuery) ([]row.Row, error)
	MuseumsWithinRadius(ctx context.Context, q NearbyQuery) ([]row.Row, error)
	// ActiveExhibitionMuseumIDs returns ids of museums with an exhibition
	// whose end date is absent or not before today (YYYY-MM-DD).
	ActiveExhibitionMuseumIDs(ctx context.Context, today string) ([]string, error)
	// Exhibitions returns exhibition rows; withRelation embeds the museum
	// row under the "musea" key.
	Exhibitions(ctx context.Context, withRelation bool) ([]row.Row, error)
	MuseumsByIDs(ctx context.Context, ids []string) ([]row.Row, error)
}

// IsSchemaDrift reports whether err looks like a missing column, identifier
// or relationship, the kind of failure a narrower select can recover from.
func IsSchemaDrift(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSchemaDrift) || driftPattern.MatchString(err.Error())
}

// IsRelationshipError reports whether err came from an embedded relation
// that the schema cannot resolve.
func IsRelationshipError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSchemaDrift) || relationshipPattern.MatchString(err.Error())
}
