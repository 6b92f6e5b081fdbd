package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"museum-buddy/geo"
	"museum-buddy/models"
	"museum-buddy/models/museum"
)

// PlotMuseums renders the museums that have coordinates on a geo chart
// with the outline of their bounding box, plus the visitor location when
// known. It returns how many museums were plotted.
func PlotMuseums(list []museum.Entity, visitor *geo.Point, w io.Writer) (int, error) {
	points := make([]opts.GeoData, 0, len(list))
	located := make([]geo.Point, 0, len(list))
	for _, m := range list {
		if m.Latitude == nil || m.Longitude == nil {
			continue
		}
		points = append(points, opts.GeoData{
			Name:  m.Name,
			Value: []float64{*m.Longitude, *m.Latitude},
		})
		located = append(located, geo.Point{Lat: *m.Latitude, Lng: *m.Longitude})
	}

	chart := charts.NewGeo()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Museum Map",
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Museums",
			Subtitle: fmt.Sprintf("%d plotted", len(points)),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	chart.AddSeries("Museums", types.ChartScatter, points,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)
	if box, ok := models.BoundingBoxOf(located); ok {
		names := []string{"SW", "NW", "NE", "SE", "SW"}
		outline := make([]opts.GeoData, 0, len(names))
		for i, corner := range box.Corners() {
			outline = append(outline, opts.GeoData{Name: names[i], Value: []float64{corner.Lng, corner.Lat}})
		}
		chart.AddSeries("BoundingBox", types.ChartScatter, outline)
	}
	if visitor != nil {
		chart.AddSeries("You", types.ChartEffectScatter, []opts.GeoData{
			{Name: "You", Value: []float64{visitor.Lng, visitor.Lat}},
		})
	}

	if err := chart.Render(w); err != nil {
		return 0, fmt.Errorf("failed to render chart: %w", err)
	}
	return len(points), nil
}
