package spatial

import (
	"encoding/json"
	"testing"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYork   = models.Coordinates{Lat: 40.7128, Lon: -74.0060}
	boston    = models.Coordinates{Lat: 42.3601, Lon: -71.0589}
	chicago   = models.Coordinates{Lat: 41.8781, Lon: -87.6298}
	miami     = models.Coordinates{Lat: 25.7617, Lon: -80.1918}
	sfBayArea = models.Coordinates{Lat: 37.7749, Lon: -122.4194}
)

// ============================================================================
// DISTANCE
// ============================================================================

func TestDistance_KnownCityPairs(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.Coordinates
		expected float64
	}{
		{"New York to Boston", newYork, boston, 306},
		{"New York to Chicago", newYork, chicago, 1145},
		{"New York to Miami", newYork, miami, 1757},
		{"New York to San Francisco", newYork, sfBayArea, 4129},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), 5)
		})
	}
}

func TestDistance_ZeroForIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Distance(newYork, newYork))
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]models.Coordinates{{newYork, boston}, {chicago, miami}, {sfBayArea, newYork}}
	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-9)
	}
}

func TestHaversineDistance_MatchesDistance(t *testing.T) {
	assert.InDelta(t,
		Distance(newYork, chicago),
		HaversineDistance(newYork.Lat, newYork.Lon, chicago.Lat, chicago.Lon),
		1e-9)
}

// ============================================================================
// BEARING AND HEADING
// ============================================================================

func TestHeading(t *testing.T) {
	assert.Equal(t, "NE", Heading(newYork, boston))
	assert.Equal(t, "W", Heading(newYork, chicago))
	assert.Equal(t, "S", Heading(newYork, models.Coordinates{Lat: 30, Lon: -74.0060}))
	assert.Equal(t, "", Heading(newYork, newYork))
}

func TestBearing_Range(t *testing.T) {
	b := Bearing(newYork.Lat, newYork.Lon, sfBayArea.Lat, sfBayArea.Lon)
	assert.GreaterOrEqual(t, b, 0.0)
	assert.Less(t, b, 360.0)
}

func TestMidpoint_Equidistant(t *testing.T) {
	mid := Midpoint(newYork, chicago)
	assert.InDelta(t, Distance(newYork, mid), Distance(mid, chicago), 0.5)
}

// ============================================================================
// GEOJSON
// ============================================================================

func TestRouteFeatureCollection(t *testing.T) {
	route := models.Route{
		Mode:         models.TripModeLongDistance,
		BaseLocation: models.Location{Name: "New York", Coordinates: newYork},
		Stops: []models.RouteStop{
			{StopNumber: 1, Location: models.Location{Name: "Boston"}, Coordinates: boston, DistanceFromPrevious: 306},
			{StopNumber: 2, Location: models.Location{Name: "Chicago"}, Coordinates: chicago, DistanceFromPrevious: 1366},
		},
		TotalDistance: 1672,
	}

	fc, err := RouteFeatureCollection(route)
	require.NoError(t, err)
	// base + 2 stops + path
	require.Len(t, fc.Features, 4)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	assert.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	assert.Equal(t, "base", decoded.Features[0].Properties["kind"])
	assert.Equal(t, "LineString", decoded.Features[3].Geometry.Type)

	var line [][]float64
	require.NoError(t, json.Unmarshal(decoded.Features[3].Geometry.Coordinates, &line))
	require.Len(t, line, 3)
	// GeoJSON order is lon, lat
	assert.InDelta(t, newYork.Lon, line[0][0], 1e-9)
	assert.InDelta(t, newYork.Lat, line[0][1], 1e-9)

	legs, ok := decoded.Features[3].Properties["leg_midpoints"].([]interface{})
	require.True(t, ok)
	require.Len(t, legs, 2)
	first, ok := legs[0].([]interface{})
	require.True(t, ok)
	want := Midpoint(route.BaseLocation.Coordinates, route.Stops[0].Coordinates)
	assert.InDelta(t, want.Lon, first[0].(float64), 1e-9)
	assert.InDelta(t, want.Lat, first[1].(float64), 1e-9)
}

func TestRouteFeatureCollection_NoStops(t *testing.T) {
	fc, err := RouteFeatureCollection(models.Route{BaseLocation: models.Location{Name: "New York", Coordinates: newYork}})
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestItineraryFeatureCollection_SkipsEmptyDays(t *testing.T) {
	it := models.MultiDayItinerary{
		BaseLocation: models.Location{Name: "New York", Coordinates: newYork},
		TotalDays:    2,
		Days: []models.DailyPlan{
			{Day: 1, Visits: []models.HotspotVisit{
				{VisitNumber: 1, Hotspot: models.Hotspot{Name: "Central Park", Coordinates: models.Coordinates{Lat: 40.7829, Lon: -73.9654}}},
			}},
			{Day: 2, Visits: []models.HotspotVisit{}},
		},
	}

	fc, err := ItineraryFeatureCollection(it)
	require.NoError(t, err)
	// base + one visit + one day path
	assert.Len(t, fc.Features, 3)
}
