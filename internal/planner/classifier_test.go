package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// fixedSource returns the same sightings for every query
type fixedSource struct {
	sightings []models.Sighting
}

func (s fixedSource) RecentSightings(ctx context.Context, q observation.Query) ([]models.Sighting, error) {
	return s.sightings, nil
}

// slowSource blocks until the context ends
type slowSource struct{}

func (slowSource) RecentSightings(ctx context.Context, q observation.Query) ([]models.Sighting, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, errors.New("slow source was not cancelled")
	}
}

func dailySightings(days int) []models.Sighting {
	base := time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC)
	out := make([]models.Sighting, days)
	for i := range out {
		out[i] = models.Sighting{ObservedAt: base.AddDate(0, 0, i), Count: 1}
	}
	return out
}

func newTestClassifier(source observation.Source) *Classifier {
	return NewClassifier(reference.DefaultCatalog(), source, DefaultSettings())
}

func mustLocation(t *testing.T, name string) models.Location {
	t.Helper()
	loc, ok := reference.DefaultCatalog().Location(name)
	require.True(t, ok, "location %s missing from seed data", name)
	return loc
}

// ============================================================================
// TIER MAPPING
// ============================================================================

func TestTierForRarity_Boundaries(t *testing.T) {
	cuts := DefaultSettings().TierCutPoints
	tests := []struct {
		rarity   float64
		expected models.Tier
	}{
		{0, models.TierCommonCompanion},
		{0.199, models.TierCommonCompanion},
		{0.2, models.TierRegionalCompanion},
		{0.4, models.TierSeasonalVisitor},
		{0.6, models.TierElusiveExplorer},
		{0.8, models.TierLegendaryQuest},
		{1, models.TierLegendaryQuest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TierForRarity(tt.rarity, cuts), "rarity %v", tt.rarity)
	}
}

func TestTierForRarity_Monotone(t *testing.T) {
	cuts := DefaultSettings().TierCutPoints
	prev := TierForRarity(0, cuts)
	for r := 0.0; r <= 1.0; r += 0.01 {
		tier := TierForRarity(r, cuts)
		assert.GreaterOrEqual(t, tier, prev)
		prev = tier
	}
}

func TestBaseRarity_RarerProfilesScoreHigher(t *testing.T) {
	common := models.ReferenceSpecies{OccurrenceRate: 0.9, RegionCount: 50, Visibility: models.VisibilityHigh}
	rare := models.ReferenceSpecies{OccurrenceRate: 0.1, RegionCount: 5, Visibility: models.VisibilityLow}
	assert.Less(t, BaseRarity(common), BaseRarity(rare))
}

// ============================================================================
// CLASSIFICATION
// ============================================================================

func TestClassify_SeedSpeciesInNewYorkSpring(t *testing.T) {
	c := newTestClassifier(nil)
	ny := mustLocation(t, "New York")

	tests := []struct {
		species  string
		expected models.Tier
	}{
		{"American Robin", models.TierCommonCompanion},
		{"Scarlet Tanager", models.TierSeasonalVisitor},
		{"Cerulean Warbler", models.TierElusiveExplorer},
		{"Kirtland's Warbler", models.TierLegendaryQuest},
		{"Ivory-billed Woodpecker", models.TierLegendaryQuest},
	}
	for _, tt := range tests {
		t.Run(tt.species, func(t *testing.T) {
			s := c.Classify(context.Background(), tt.species, ny, time.April, false)
			assert.Equal(t, tt.expected, s.Tier)
			assert.True(t, s.Known)
			assert.False(t, s.Degraded)
			assert.GreaterOrEqual(t, s.Confidence, 0.0)
			assert.LessOrEqual(t, s.Confidence, 1.0)
		})
	}
}

func TestClassify_Confidence(t *testing.T) {
	c := newTestClassifier(nil)
	ny := mustLocation(t, "New York")

	// in range and in season: 0.5 + 0.2 + 0.15
	robin := c.Classify(context.Background(), "American Robin", ny, time.April, false)
	assert.InDelta(t, 0.85, robin.Confidence, 1e-9)

	// out of season in July
	robinSummer := c.Classify(context.Background(), "American Robin", ny, time.July, false)
	assert.InDelta(t, 0.7, robinSummer.Confidence, 1e-9)
	assert.Greater(t, robinSummer.Rarity, robin.Rarity)
}

func TestClassify_CaseInsensitiveName(t *testing.T) {
	c := newTestClassifier(nil)
	ny := mustLocation(t, "New York")

	s := c.Classify(context.Background(), "  american ROBIN ", ny, time.April, false)
	assert.Equal(t, "American Robin", s.Name)
	assert.True(t, s.Known)
}

func TestClassify_UnknownSpecies(t *testing.T) {
	c := newTestClassifier(nil)
	ny := mustLocation(t, "New York")

	s := c.Classify(context.Background(), "Snow Bunting", ny, time.April, false)
	assert.False(t, s.Known)
	assert.Equal(t, models.TierSeasonalVisitor, s.Tier)
	assert.InDelta(t, 0.3, s.Confidence, 1e-9)
	assert.Contains(t, s.Insights[len(s.Insights)-1], "No reference data")
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(nil)
	chicago := mustLocation(t, "Chicago")

	first := c.Classify(context.Background(), "Baltimore Oriole", chicago, time.May, false)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), "Baltimore Oriole", chicago, time.May, false))
	}
}

func TestClassify_InsightsLeadWithTierTitle(t *testing.T) {
	c := newTestClassifier(nil)
	s := c.Classify(context.Background(), "Blue Jay", mustLocation(t, "Boston"), time.October, false)
	require.NotEmpty(t, s.Insights)
	assert.Contains(t, s.Insights[0], s.Tier.Title())
	assert.Equal(t, s.Tier.Title(), s.TierTitle)
}

// ============================================================================
// LIVE DATA
// ============================================================================

func TestClassify_LiveDataUnavailableDegrades(t *testing.T) {
	c := newTestClassifier(observation.Unavailable{})
	ny := mustLocation(t, "New York")

	offline := newTestClassifier(nil).Classify(context.Background(), "American Robin", ny, time.April, false)
	s := c.Classify(context.Background(), "American Robin", ny, time.April, true)

	assert.True(t, s.Degraded)
	assert.Equal(t, offline.Tier, s.Tier)
	assert.Equal(t, offline.Confidence, s.Confidence)
	assert.Equal(t, offline.Rarity, s.Rarity)
}

func TestClassify_LiveDataIgnoredWhenNotRequested(t *testing.T) {
	c := newTestClassifier(observation.Unavailable{})
	s := c.Classify(context.Background(), "American Robin", mustLocation(t, "New York"), time.April, false)
	assert.False(t, s.Degraded)
}

func TestClassify_LiveDataShiftsRarity(t *testing.T) {
	ny := mustLocation(t, "New York")
	offline := newTestClassifier(nil).Classify(context.Background(), "Scarlet Tanager", ny, time.April, false)

	// a single sighting day is a weak signal and makes the species harder
	sparse := newTestClassifier(fixedSource{sightings: dailySightings(1)}).Classify(context.Background(), "Scarlet Tanager", ny, time.April, true)
	assert.Greater(t, sparse.Rarity, offline.Rarity)
	assert.InDelta(t, offline.Confidence+0.1, sparse.Confidence, 1e-9)
	assert.False(t, sparse.Degraded)

	// daily sightings make it easier, never harder
	busy := newTestClassifier(fixedSource{sightings: dailySightings(30)}).Classify(context.Background(), "Scarlet Tanager", ny, time.April, true)
	assert.Equal(t, models.TierSeasonalVisitor, busy.Tier)
	assert.Less(t, busy.Rarity, offline.Rarity)
	assert.Less(t, busy.Rarity, sparse.Rarity)
}

func TestClassify_NoRecentSightingsLeavesReferenceResult(t *testing.T) {
	ny := mustLocation(t, "New York")
	offline := newTestClassifier(nil).Classify(context.Background(), "Scarlet Tanager", ny, time.April, false)

	quiet := newTestClassifier(fixedSource{}).Classify(context.Background(), "Scarlet Tanager", ny, time.April, true)
	assert.Equal(t, offline.Tier, quiet.Tier)
	assert.Equal(t, offline.Rarity, quiet.Rarity)
	assert.Equal(t, offline.Confidence, quiet.Confidence)
	assert.False(t, quiet.Degraded)
	assert.Contains(t, quiet.Insights, "No recent sightings reported near New York; classified from reference data")
}

func TestClassify_LiveDataTimeout(t *testing.T) {
	settings := DefaultSettings()
	settings.ObservationTimeout = 20 * time.Millisecond
	c := NewClassifier(reference.DefaultCatalog(), slowSource{}, settings)

	start := time.Now()
	s := c.Classify(context.Background(), "Northern Cardinal", mustLocation(t, "New York"), time.April, true)

	assert.True(t, s.Degraded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
