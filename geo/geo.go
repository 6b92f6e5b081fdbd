// Package geo holds coordinates, distances and the visitor location contract.
package geo

import (
	"context"
	"errors"
	"math"
)

const earthRadiusMeters = 6371008.8

// ErrLocationUnavailable is returned when a visitor location cannot be determined.
var ErrLocationUnavailable = errors.New("location unavailable")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p lies within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Locator resolves the location of the visitor behind a request. A
// one-shot lookup; failures wrap ErrLocationUnavailable.
type Locator interface {
	Locate(ctx context.Context, clientIP string) (Point, error)
}

// StaticLocator always answers with the same point, or fails when nil.
type StaticLocator struct {
	Point *Point
}

func (s StaticLocator) Locate(ctx context.Context, clientIP string) (Point, error) {
	if s.Point == nil {
		return Point{}, ErrLocationUnavailable
	}
	return *s.Point, nil
}
