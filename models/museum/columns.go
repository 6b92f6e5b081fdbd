package museum

// Columns of the musea table and of the nearby RPC result.
const (
	ColumnID                   = "id"
	ColumnName                 = "naam"
	ColumnCity                 = "stad"
	ColumnProvince             = "provincie"
	ColumnSlug                 = "slug"
	ColumnFree                 = "gratis_toegankelijk"
	ColumnTicketURL            = "ticket_affiliate_url"
	ColumnWebsiteURL           = "website_url"
	ColumnHoursNL              = "openingstijden"
	ColumnHoursEN              = "opening_hours"
	ColumnKidFriendly          = "kindvriendelijk"
	ColumnDistance             = "afstand_meter"
	ColumnHasActiveExhibitions = "has_active_exhibitions"
	ColumnLatitude             = "latitude"
	ColumnLongitude            = "longitude"
)

// BaseColumns are present in every deployment of the schema.
var BaseColumns = []string{
	ColumnID,
	ColumnName,
	ColumnCity,
	ColumnProvince,
	ColumnSlug,
	ColumnFree,
	ColumnTicketURL,
	ColumnWebsiteURL,
	ColumnHoursNL,
	ColumnHoursEN,
}

// OptionalColumns may be missing in older schemas.
var OptionalColumns = []string{
	ColumnKidFriendly,
	ColumnDistance,
}

// SelectColumns is the preferred select list: base plus optional columns.
func SelectColumns() []string {
	out := make([]string, 0, len(BaseColumns)+len(OptionalColumns))
	out = append(out, BaseColumns...)
	return append(out, OptionalColumns...)
}
