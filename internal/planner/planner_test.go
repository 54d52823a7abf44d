package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTestPlanner() *Planner {
	return New(reference.DefaultCatalog(), nil, DefaultSettings())
}

func intPtr(v int) *int {
	return &v
}

func routeRequest(location string, species ...string) models.TripRequest {
	return models.TripRequest{
		Species:      species,
		BaseLocation: location,
		DateRange:    "Spring 2024",
	}
}

func stopNames(route *models.Route) []string {
	names := make([]string, 0, len(route.Stops))
	for _, s := range route.Stops {
		names = append(names, s.Location.Name)
	}
	return names
}

// ============================================================================
// MODE DECISION
// ============================================================================

func TestDecideMode(t *testing.T) {
	assert.Equal(t, models.TripModeLocal, DecideMode(0.71, 0.7))
	assert.Equal(t, models.TripModeLongDistance, DecideMode(0.7, 0.7))
	assert.Equal(t, models.TripModeLongDistance, DecideMode(0.2, 0.7))
}

// ============================================================================
// LOCAL ROUTES
// ============================================================================

func TestPlanRoute_LocalCommonSpecies(t *testing.T) {
	p := newTestPlanner()

	route, analysis, err := p.PlanRoute(context.Background(), routeRequest("New York", "American Robin", "Northern Cardinal"))
	require.NoError(t, err)

	assert.InDelta(t, 0.851, analysis.Summary.LocalCompatibility, 0.001)
	assert.Equal(t, models.TripModeLocal, route.Mode)
	require.Len(t, route.Stops, 3)

	assert.Equal(t, 0.0, route.Stops[0].DistanceFromPrevious)
	assert.Equal(t, 10.0, route.Stops[1].DistanceFromPrevious)
	assert.Equal(t, 15.0, route.Stops[2].DistanceFromPrevious)
	assert.Equal(t, 25.0, route.TotalDistance)
	assert.Equal(t, "25 minutes", route.Stops[2].TravelTime)

	for i, stop := range route.Stops {
		assert.Equal(t, i+1, stop.StopNumber)
		assert.Equal(t, "New York", stop.Location.Name)
		assert.Equal(t, route.BaseLocation.Coordinates, stop.Coordinates)
		require.Len(t, stop.Hotspots, 1)
	}
	// richest hotspot first
	assert.Equal(t, "Jamaica Bay Wildlife Refuge", route.Stops[0].Hotspots[0].Hotspot.Name)
	assert.Greater(t, route.SuccessProbability, 0.0)
	assert.LessOrEqual(t, route.SuccessProbability, 1.0)
}

func TestPlanRoute_LocalSingleSpeciesUsesTwoStops(t *testing.T) {
	route, _, err := newTestPlanner().PlanRoute(context.Background(), routeRequest("New York", "American Robin"))
	require.NoError(t, err)

	assert.Equal(t, models.TripModeLocal, route.Mode)
	assert.Len(t, route.Stops, 2)
	assert.Equal(t, 10.0, route.TotalDistance)
}

func TestPlanRoute_LocalRespectsMaxStops(t *testing.T) {
	req := routeRequest("New York", "American Robin", "Northern Cardinal")
	req.MaxStops = intPtr(1)

	route, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, route.Stops, 1)
	assert.Equal(t, 0.0, route.TotalDistance)
}

func TestPlanRoute_TargetSuccessRatePicksStopCount(t *testing.T) {
	req := routeRequest("New York", "American Robin", "Northern Cardinal")
	req.TargetSuccessRate = 0.8

	route, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, route.Stops, 2)
}

// ============================================================================
// LONG-DISTANCE ROUTES
// ============================================================================

func TestPlanRoute_LongDistanceForestSpecies(t *testing.T) {
	p := newTestPlanner()

	route, analysis, err := p.PlanRoute(context.Background(), routeRequest("New York", "Cerulean Warbler", "Scarlet Tanager"))
	require.NoError(t, err)

	assert.InDelta(t, 0.52, analysis.Summary.LocalCompatibility, 0.001)
	assert.Equal(t, models.TripModeLongDistance, route.Mode)
	assert.Equal(t, []string{"Boston", "Chicago", "Miami"}, stopNames(route))

	// distances chain from the base through each previous stop
	prev := route.BaseLocation.Coordinates
	total := 0.0
	for _, stop := range route.Stops {
		assert.NotEqual(t, "New York", stop.Location.Name)
		assert.InDelta(t, spatial.Distance(prev, stop.Coordinates), stop.DistanceFromPrevious, 0.05)
		assert.NotEmpty(t, stop.Hotspots)
		assert.LessOrEqual(t, len(stop.Hotspots), 3)
		total += stop.DistanceFromPrevious
		prev = stop.Coordinates
	}
	assert.InDelta(t, total, route.TotalDistance, 1e-6)
	assert.InDelta(t, 3590, route.TotalDistance, 30)
	assert.Equal(t, "NE", route.Stops[0].Heading)
}

func TestPlanRoute_LongDistanceStopsAtGainCutoff(t *testing.T) {
	req := routeRequest("New York", "Cerulean Warbler", "Scarlet Tanager")
	req.MaxStops = intPtr(5)

	route, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)
	// a fourth stop would add less than the minimum detection gain
	assert.Len(t, route.Stops, 3)
}

func TestPlanRoute_ModeDecidedOnce(t *testing.T) {
	route, _, err := newTestPlanner().PlanRoute(context.Background(), routeRequest("New York", "Cerulean Warbler", "Scarlet Tanager"))
	require.NoError(t, err)
	for _, stop := range route.Stops {
		assert.NotEmpty(t, stop.Heading, "long-distance stops carry a heading")
	}
}

// ============================================================================
// EDGE CASES
// ============================================================================

func TestPlanRoute_ZeroMaxStops(t *testing.T) {
	req := routeRequest("New York", "American Robin")
	req.MaxStops = intPtr(0)

	route, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, route.Stops)
	assert.Equal(t, 0.0, route.TotalDistance)
	assert.Equal(t, 0.0, route.SuccessProbability)
}

func TestPlanRoute_InvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		req    models.TripRequest
		field  string
		reason string
	}{
		{"empty species", routeRequest("New York"), "species", ReasonEmptySpecies},
		{"blank species", routeRequest("New York", " ", ""), "species", ReasonEmptySpecies},
		{"unknown location", routeRequest("Atlantis", "American Robin"), "base_location", ReasonUnknownLocation},
		{"negative stops", func() models.TripRequest {
			r := routeRequest("New York", "American Robin")
			r.MaxStops = intPtr(-1)
			return r
		}(), "max_stops", ReasonInvalidStopCount},
		{"too many stops", func() models.TripRequest {
			r := routeRequest("New York", "American Robin")
			r.MaxStops = intPtr(6)
			return r
		}(), "max_stops", ReasonInvalidStopCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, _, err := newTestPlanner().PlanRoute(context.Background(), tt.req)
			assert.Nil(t, route)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.field, reqErr.Field)
			assert.Equal(t, tt.reason, reqErr.Reason)
		})
	}
}

func TestPlanRoute_UnknownSpeciesStillPlans(t *testing.T) {
	route, analysis, err := newTestPlanner().PlanRoute(context.Background(), routeRequest("Chicago", "American Robin", "Snow Bunting"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Snow Bunting"}, analysis.Summary.UnknownSpecies)
	assert.NotNil(t, route)
}

func TestPlanRoute_DuplicateSpeciesCollapsed(t *testing.T) {
	_, analysis, err := newTestPlanner().PlanRoute(context.Background(), routeRequest("New York", "American Robin", "american robin"))
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.Summary.TotalSpecies)
}

func TestPlanRoute_DegradedLiveDataStillPlans(t *testing.T) {
	p := New(reference.DefaultCatalog(), observation.Unavailable{}, DefaultSettings())
	req := routeRequest("New York", "American Robin", "Northern Cardinal")
	req.UseLiveData = true

	route, analysis, err := p.PlanRoute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, analysis.Summary.Degraded)
	assert.Len(t, route.Stops, 3)
}

func TestAnalyze_StalledSourceBoundedOnce(t *testing.T) {
	settings := DefaultSettings()
	settings.ObservationTimeout = 100 * time.Millisecond
	p := New(reference.DefaultCatalog(), slowSource{}, settings)

	species := []string{}
	for _, s := range reference.DefaultSpecies() {
		species = append(species, s.Name)
	}

	start := time.Now()
	analysis := p.Analyze(context.Background(), species, mustLocation(t, "New York"), time.April, true)
	elapsed := time.Since(start)

	// ten sequential lookups would take at least a second
	assert.Less(t, elapsed, 600*time.Millisecond)
	require.Len(t, analysis.Species, len(species))
	for i, s := range analysis.Species {
		assert.Equal(t, species[i], s.Name)
		assert.True(t, s.Degraded, s.Name)
	}
	assert.True(t, analysis.Summary.Degraded)
}

func TestPlanRoute_DeterministicAndConcurrent(t *testing.T) {
	p := newTestPlanner()
	req := routeRequest("New York", "Cerulean Warbler", "Scarlet Tanager")

	want, _, err := p.PlanRoute(context.Background(), req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*models.Route, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _, err := p.PlanRoute(context.Background(), req)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestPlanRoute_OptimizedSchedule(t *testing.T) {
	req := routeRequest("New York", "American Robin", "Northern Cardinal")
	plain, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)

	req.OptimizeSchedule = true
	optimized, _, err := newTestPlanner().PlanRoute(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, optimized.Stops)
	assert.NotEmpty(t, optimized.Stops[0].Schedule.Window)
	assert.Equal(t, len(plain.Stops), len(optimized.Stops))
}

// ============================================================================
// ANALYSIS AND AVAILABILITY
// ============================================================================

func TestAnalyze_Summary(t *testing.T) {
	p := newTestPlanner()
	analysis, err := p.AnalyzeRequest(context.Background(), models.ClassifyRequest{
		Species:   []string{"American Robin", "Cerulean Warbler", "Ivory-billed Woodpecker"},
		Location:  "New York",
		DateRange: "April",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, analysis.Summary.TotalSpecies)
	assert.Equal(t, 1, analysis.Summary.TierDistribution["T1"])
	assert.Equal(t, 1, analysis.Summary.TierDistribution["T4"])
	assert.Equal(t, 1, analysis.Summary.TierDistribution["T5"])
	assert.Equal(t, 0, analysis.Summary.TierDistribution["T2"])
	assert.Len(t, analysis.Availability, 3)
}

func TestScoreAvailability(t *testing.T) {
	p := newTestPlanner()

	robin, err := p.ScoreAvailability("American Robin", "New York", "Spring")
	require.NoError(t, err)
	assert.InDelta(t, 89.0, robin.Confidence, 0.05)
	assert.True(t, robin.Factors.SeasonalTiming)
	assert.True(t, robin.Factors.RegionalPresence)
	assert.Contains(t, robin.Recommendation, "Good chance")

	ivory, err := p.ScoreAvailability("Ivory-billed Woodpecker", "San Francisco", "July")
	require.NoError(t, err)
	assert.False(t, ivory.Factors.RegionalPresence)
	assert.Equal(t, "poor", ivory.Factors.HabitatSuitability)
	assert.Contains(t, ivory.Recommendation, "Low probability")

	unknown, err := p.ScoreAvailability("Snow Bunting", "Boston", "")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, unknown.Confidence, 0.05)

	_, err = p.ScoreAvailability("American Robin", "Atlantis", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestScoreAvailability_Bounded(t *testing.T) {
	p := newTestPlanner()
	catalog := reference.DefaultCatalog()
	for _, s := range catalog.AllSpecies() {
		for _, loc := range catalog.Locations() {
			a := p.Scorer().Score(s.Name, loc, 5)
			assert.GreaterOrEqual(t, a.Confidence, 0.0)
			assert.LessOrEqual(t, a.Confidence, 100.0)
		}
	}
}

// ============================================================================
// SUCCESS ESTIMATES
// ============================================================================

func TestEstimateSuccess(t *testing.T) {
	p := newTestPlanner()
	est, err := p.EstimateSuccess(context.Background(), []string{"American Robin", "Northern Cardinal"}, "New York", "April", 3)
	require.NoError(t, err)

	assert.InDelta(t, 0.945, est.PerSpecies["American Robin"], 0.001)
	assert.InDelta(t, 0.906, est.PerSpecies["Northern Cardinal"], 0.001)
	assert.InDelta(t, 0.856, est.Overall, 0.001)
	assert.Equal(t, 2, est.RecommendedMinStops)
	assert.NotEmpty(t, est.Reasoning)
}

func TestRecommendedStops(t *testing.T) {
	assert.Equal(t, 0, RecommendedStops(nil))
	assert.Equal(t, 1, RecommendedStops([]float64{0.9}))
	assert.Equal(t, 2, RecommendedStops([]float64{0.9, 0.85}))
	assert.Equal(t, 3, RecommendedStops([]float64{0.3, 0.4}))
	assert.Equal(t, 4, RecommendedStops([]float64{0.3, 0.4, 0.2}))
}

func TestStopsForTarget(t *testing.T) {
	p := newTestPlanner()
	assert.Equal(t, 2, p.StopsForTarget([]float64{0.89, 0.812}, 0.8))
	// unreachable targets stop at the limit
	assert.Equal(t, 5, p.StopsForTarget([]float64{0.5, 0.54}, 0.8))
}
