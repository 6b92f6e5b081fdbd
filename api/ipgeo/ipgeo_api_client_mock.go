package ipgeo

import (
	"context"
	"fmt"

	"museum-buddy/geo"
)

// DamSquare is where the mock places every visitor it does not know.
var DamSquare = geo.Point{Lat: 52.3731, Lng: 4.8926}

// IPGeoApiClientMock answers lookups from a fixed table
type IPGeoApiClientMock struct {
	known    map[string]geo.Point
	fallback *geo.Point
}

// NewIPGeoApiClientMock creates a mock that places unknown addresses at
// DamSquare.
func NewIPGeoApiClientMock() *IPGeoApiClientMock {
	fallback := DamSquare
	return &IPGeoApiClientMock{known: map[string]geo.Point{}, fallback: &fallback}
}

// WithLocation registers a fixed answer for ip.
func (c *IPGeoApiClientMock) WithLocation(ip string, p geo.Point) *IPGeoApiClientMock {
	c.known[ip] = p
	return c
}

// WithoutFallback makes lookups of unknown addresses fail.
func (c *IPGeoApiClientMock) WithoutFallback() *IPGeoApiClientMock {
	c.fallback = nil
	return c
}

func (c *IPGeoApiClientMock) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	p, ok := c.known[ip]
	if !ok {
		if c.fallback == nil {
			return nil, fmt.Errorf("no mocked location for %q: %w", ip, geo.ErrLocationUnavailable)
		}
		p = *c.fallback
	}
	return &LookupResponse{Status: "success", Lat: p.Lat, Lon: p.Lng, Query: ip}, nil
}

func (c *IPGeoApiClientMock) Locate(ctx context.Context, clientIP string) (geo.Point, error) {
	response, err := c.Lookup(ctx, clientIP)
	if err != nil {
		return geo.Point{}, err
	}
	return response.Point(), nil
}
