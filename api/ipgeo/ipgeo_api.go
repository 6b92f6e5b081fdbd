package ipgeo

import (
	"context"

	"museum-buddy/geo"
)

// DefaultEndpoint is the ip-api.com JSON endpoint. The free tier is HTTP only.
const DefaultEndpoint = "http://ip-api.com"

// IPGeoAPI resolves the approximate location of an IP address.
type IPGeoAPI interface {
	geo.Locator
	Lookup(ctx context.Context, ip string) (*LookupResponse, error)
}

// LookupResponse is the subset of the ip-api.com payload we request.
type LookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"countryCode,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Query   string  `json:"query,omitempty"`
}

func (r *LookupResponse) Point() geo.Point {
	return geo.Point{Lat: r.Lat, Lng: r.Lon}
}
