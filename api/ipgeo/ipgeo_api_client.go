package ipgeo

import (
	"context"
	"fmt"
	"log"
	"net/netip"
	"net/url"

	"museum-buddy/api"
	"museum-buddy/geo"
)

const lookupFields = "status,message,city,countryCode,lat,lon,query"

// IPGeoApiClient embeds the common HTTPClient
type IPGeoApiClient struct {
	*api.HTTPClient
}

// NewIPGeoApiClient creates a new instance of IPGeoApiClient
func NewIPGeoApiClient(httpClient *api.HTTPClient) *IPGeoApiClient {
	return &IPGeoApiClient{
		HTTPClient: httpClient,
	}
}

// Lookup asks the provider for the location of ip. An empty ip resolves the
// caller's own public address.
func (c *IPGeoApiClient) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	if ip != "" {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return nil, fmt.Errorf("invalid client ip %q: %w", ip, geo.ErrLocationUnavailable)
		}
		if addr.IsPrivate() || addr.IsLoopback() || addr.IsUnspecified() {
			return nil, fmt.Errorf("client ip %s is not routable: %w", ip, geo.ErrLocationUnavailable)
		}
	}

	var response LookupResponse
	query := url.Values{"fields": {lookupFields}}
	if err := c.Request(ctx, "GET", "/json/"+ip, query, nil, nil, &response); err != nil {
		return nil, fmt.Errorf("ip lookup failed: %w", err)
	}
	if response.Status != "success" {
		return nil, fmt.Errorf("ip lookup for %q rejected: %s: %w", ip, response.Message, geo.ErrLocationUnavailable)
	}
	return &response, nil
}

// Locate implements geo.Locator. Every failure wraps geo.ErrLocationUnavailable.
func (c *IPGeoApiClient) Locate(ctx context.Context, clientIP string) (geo.Point, error) {
	response, err := c.Lookup(ctx, clientIP)
	if err != nil {
		log.Printf("[IPGeoApiClient] Could not locate %q: %v", clientIP, err)
		return geo.Point{}, fmt.Errorf("%w: %v", geo.ErrLocationUnavailable, err)
	}
	point := response.Point()
	if !point.Valid() {
		return geo.Point{}, fmt.Errorf("provider returned invalid point %+v: %w", point, geo.ErrLocationUnavailable)
	}
	return point, nil
}
