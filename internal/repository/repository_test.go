package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jengzang/birding-planner-go/internal/database"
	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func routePlan(location string, mode models.TripMode, stops int, distance float64) *models.TripPlan {
	route := &models.Route{
		Mode:          mode,
		BaseLocation:  models.Location{Name: location},
		TargetSpecies: []string{"American Robin"},
		Stops:         make([]models.RouteStop, stops),
		TotalDistance: distance,
	}
	return &models.TripPlan{
		Kind:    models.PlanKindRoute,
		Request: models.TripRequest{Species: []string{"American Robin"}, BaseLocation: location},
		Route:   route,
	}
}

// ============================================================================
// MIGRATIONS
// ============================================================================

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.Migrate(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

// ============================================================================
// REFERENCE REPOSITORY
// ============================================================================

func TestReferenceRepository_SeedAndLoad(t *testing.T) {
	repo := NewReferenceRepository(newTestDB(t))

	empty, err := repo.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, repo.Seed(reference.DefaultSpecies(), reference.DefaultLocations()))

	empty, err = repo.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	species, err := repo.GetSpecies()
	require.NoError(t, err)
	require.Len(t, species, 10)

	want := reference.DefaultSpecies()[0]
	got := species[0]
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.SpeciesCode, got.SpeciesCode)
	assert.Equal(t, want.BaselineTier, got.BaselineTier)
	assert.Equal(t, want.ActiveMonths, got.ActiveMonths)
	assert.Equal(t, want.Regions, got.Regions)
	assert.Equal(t, want.Habitats, got.Habitats)
	assert.InDelta(t, want.OccurrenceRate, got.OccurrenceRate, 1e-12)
	assert.True(t, got.Known)

	locations, err := repo.GetLocations()
	require.NoError(t, err)
	require.Len(t, locations, 5)
	assert.Equal(t, "New York", locations[0].Name)
	require.NotNil(t, locations[0].Elevation)
	require.Len(t, locations[0].Hotspots, 3)
	assert.Equal(t, reference.DefaultLocations()[0].Hotspots[0].Name, locations[0].Hotspots[0].Name)
	assert.Equal(t, "New York", locations[0].Hotspots[0].LocationName)
	assert.Equal(t, reference.DefaultLocations()[0].Hotspots[0].Facilities, locations[0].Hotspots[0].Facilities)
}

func TestReferenceRepository_ReseedReplaces(t *testing.T) {
	repo := NewReferenceRepository(newTestDB(t))
	require.NoError(t, repo.Seed(reference.DefaultSpecies(), reference.DefaultLocations()))

	locations := reference.DefaultLocations()
	locations[0].Hotspots = locations[0].Hotspots[:1]
	species := reference.DefaultSpecies()
	species[0].OccurrenceRate = 0.5
	require.NoError(t, repo.Seed(species, locations))

	loaded, err := repo.GetLocations()
	require.NoError(t, err)
	require.Len(t, loaded, 5)
	assert.Len(t, loaded[0].Hotspots, 1)

	loadedSpecies, err := repo.GetSpecies()
	require.NoError(t, err)
	require.Len(t, loadedSpecies, 10)
	assert.InDelta(t, 0.5, loadedSpecies[0].OccurrenceRate, 1e-12)
}

func TestReferenceRepository_CatalogRoundTrip(t *testing.T) {
	repo := NewReferenceRepository(newTestDB(t))
	require.NoError(t, repo.Seed(reference.DefaultSpecies(), reference.DefaultLocations()))

	species, err := repo.GetSpecies()
	require.NoError(t, err)
	locations, err := repo.GetLocations()
	require.NoError(t, err)

	catalog := reference.NewCatalog(species, locations)
	loc, ok := catalog.Location("chicago")
	require.True(t, ok)
	assert.Len(t, loc.Hotspots, 3)
	_, ok = catalog.Species("Kirtland's Warbler")
	assert.True(t, ok)
}

// ============================================================================
// PLAN REPOSITORY
// ============================================================================

func TestPlanRepository_SaveAndGet(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))

	plan := routePlan("New York", models.TripModeLocal, 3, 25)
	require.NoError(t, repo.Save(plan))
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())

	got, err := repo.GetByID(plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, models.PlanKindRoute, got.Kind)
	require.NotNil(t, got.Route)
	assert.Len(t, got.Route.Stops, 3)
	assert.True(t, plan.CreatedAt.Equal(got.CreatedAt))

	missing, err := repo.GetByID("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlanRepository_ListFiltersAndPaginates(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}

	require.NoError(t, repo.Save(routePlan("New York", models.TripModeLocal, 3, 25)))
	require.NoError(t, repo.Save(routePlan("New York", models.TripModeLongDistance, 3, 3590)))
	require.NoError(t, repo.Save(routePlan("Chicago", models.TripModeLocal, 2, 10)))
	require.NoError(t, repo.Save(&models.TripPlan{
		Kind:    models.PlanKindMultiDay,
		Request: models.TripRequest{Species: []string{"Blue Jay"}, BaseLocation: "Boston"},
		Itinerary: &models.MultiDayItinerary{
			BaseLocation:  models.Location{Name: "Boston"},
			TargetSpecies: []string{"Blue Jay"},
			Days: []models.DailyPlan{
				{Day: 1, Visits: make([]models.HotspotVisit, 2)},
				{Day: 2, Visits: []models.HotspotVisit{}},
			},
			Stats: models.ItineraryStats{TotalDistance: 12.5},
		},
	}))

	all, total, err := repo.List(models.TripPlanFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	// newest first
	assert.Equal(t, models.PlanKindMultiDay, all[0].Kind)
	assert.Equal(t, 2, all[0].StopCount)
	assert.Equal(t, 12.5, all[0].TotalDistance)

	ny, total, err := repo.List(models.TripPlanFilter{BaseLocation: "new york"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, ny, 2)

	local, total, err := repo.List(models.TripPlanFilter{Mode: string(models.TripModeLocal)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, local, 2)

	multi, _, err := repo.List(models.TripPlanFilter{Kind: string(models.PlanKindMultiDay)})
	require.NoError(t, err)
	require.Len(t, multi, 1)
	assert.Equal(t, []string{"Blue Jay"}, multi[0].Species)

	page2, total, err := repo.List(models.TripPlanFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page2, 1)
	assert.Equal(t, "New York", page2[0].BaseLocation)
	assert.Equal(t, 25.0, page2[0].TotalDistance)
}

func TestPlanRepository_Delete(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))
	plan := routePlan("Miami", models.TripModeLocal, 1, 0)
	require.NoError(t, repo.Save(plan))

	ok, err := repo.Delete(plan.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(plan.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(plan.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, size)
}
