package spatial

import (
	"fmt"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// RouteFeatureCollection converts a route into GeoJSON: one Point per stop plus a
// LineString for the path from the base location through every stop.
func RouteFeatureCollection(route models.Route) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	base, err := pointFeature(route.BaseLocation.Coordinates, map[string]interface{}{
		"kind": "base",
		"name": route.BaseLocation.Name,
	})
	if err != nil {
		return nil, err
	}
	fc.Features = append(fc.Features, base)

	path := []models.Coordinates{route.BaseLocation.Coordinates}
	for _, stop := range route.Stops {
		f, err := pointFeature(stop.Coordinates, map[string]interface{}{
			"kind":                   "stop",
			"stop_number":            stop.StopNumber,
			"name":                   stop.Location.Name,
			"distance_from_previous": stop.DistanceFromPrevious,
			"species_compatibility":  stop.SpeciesCompatibility,
			"success_probability":    stop.SuccessProbability,
		})
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
		path = append(path, stop.Coordinates)
	}

	if len(path) > 1 {
		line, err := lineFeature(path, map[string]interface{}{
			"kind":           "path",
			"mode":           string(route.Mode),
			"total_distance": route.TotalDistance,
			"leg_midpoints":  legMidpoints(path),
		})
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, line)
	}

	return fc, nil
}

// ItineraryFeatureCollection converts a multi-day itinerary into GeoJSON with one
// LineString per non-empty day.
func ItineraryFeatureCollection(it models.MultiDayItinerary) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	base, err := pointFeature(it.BaseLocation.Coordinates, map[string]interface{}{
		"kind": "base",
		"name": it.BaseLocation.Name,
	})
	if err != nil {
		return nil, err
	}
	fc.Features = append(fc.Features, base)

	for _, day := range it.Days {
		if day.IsEmpty() {
			continue
		}
		path := []models.Coordinates{it.BaseLocation.Coordinates}
		for _, visit := range day.Visits {
			f, err := pointFeature(visit.Hotspot.Coordinates, map[string]interface{}{
				"kind":          "visit",
				"day":           day.Day,
				"visit_number":  visit.VisitNumber,
				"name":          visit.Hotspot.Name,
				"species_score": visit.SpeciesScore,
			})
			if err != nil {
				return nil, err
			}
			fc.Features = append(fc.Features, f)
			path = append(path, visit.Hotspot.Coordinates)
		}
		line, err := lineFeature(path, map[string]interface{}{
			"kind":           "day_path",
			"day":            day.Day,
			"total_distance": day.TotalDistance,
			"leg_midpoints":  legMidpoints(path),
		})
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, line)
	}

	return fc, nil
}

func pointFeature(c models.Coordinates, props map[string]interface{}) (*geojson.Feature, error) {
	point, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{c.Lon, c.Lat})
	if err != nil {
		return nil, fmt.Errorf("failed to build point: %w", err)
	}
	return &geojson.Feature{Geometry: point, Properties: props}, nil
}

func lineFeature(path []models.Coordinates, props map[string]interface{}) (*geojson.Feature, error) {
	coords := make([]geom.Coord, 0, len(path))
	for _, c := range path {
		coords = append(coords, geom.Coord{c.Lon, c.Lat})
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to build line string: %w", err)
	}
	return &geojson.Feature{Geometry: line, Properties: props}, nil
}

// legMidpoints returns the great-circle midpoint of each leg as [lon, lat], for
// placing leg labels on a map
func legMidpoints(path []models.Coordinates) [][]float64 {
	out := make([][]float64, 0, len(path))
	for i := 1; i < len(path); i++ {
		m := Midpoint(path[i-1], path[i])
		out = append(out, []float64{m.Lon, m.Lat})
	}
	return out
}
