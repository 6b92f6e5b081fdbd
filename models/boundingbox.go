package models

import (
	"math"

	"museum-buddy/geo"
)

// BoundingBox is the smallest lat/lng rectangle around a set of points,
// with its center.
type BoundingBox struct {
	Lat    float64 `json:"lat"`
	LatMax float64 `json:"lat_max"`
	LatMin float64 `json:"lat_min"`
	Lng    float64 `json:"lng"`
	LngMax float64 `json:"lng_max"`
	LngMin float64 `json:"lng_min"`
}

// BoundingBoxOf returns the box around points, or false when there are none.
func BoundingBoxOf(points []geo.Point) (BoundingBox, bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	box := BoundingBox{
		LatMin: math.Inf(1), LatMax: math.Inf(-1),
		LngMin: math.Inf(1), LngMax: math.Inf(-1),
	}
	for _, p := range points {
		box.LatMin = math.Min(box.LatMin, p.Lat)
		box.LatMax = math.Max(box.LatMax, p.Lat)
		box.LngMin = math.Min(box.LngMin, p.Lng)
		box.LngMax = math.Max(box.LngMax, p.Lng)
	}
	box.Lat = (box.LatMin + box.LatMax) / 2
	box.Lng = (box.LngMin + box.LngMax) / 2
	return box, true
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p geo.Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax && p.Lng >= b.LngMin && p.Lng <= b.LngMax
}

// Corners lists SW, NW, NE, SE and SW again, closing the outline.
func (b BoundingBox) Corners() []geo.Point {
	return []geo.Point{
		{Lat: b.LatMin, Lng: b.LngMin},
		{Lat: b.LatMax, Lng: b.LngMin},
		{Lat: b.LatMax, Lng: b.LngMax},
		{Lat: b.LatMin, Lng: b.LngMax},
		{Lat: b.LatMin, Lng: b.LngMin},
	}
}
