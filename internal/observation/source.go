package observation

import (
	"context"
	"errors"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
)

// ErrUnavailable is returned when live observation data cannot be obtained
var ErrUnavailable = errors.New("live observation data unavailable")

// Query identifies a recent-sightings lookup
type Query struct {
	Species     string
	SpeciesCode string // eBird species code, e.g. "amerob"
	Region      string
	RegionCode  string // eBird region code, e.g. "US-NY"
	Days        int
}

// Source provides recent sightings from a live data feed
type Source interface {
	RecentSightings(ctx context.Context, q Query) ([]models.Sighting, error)
}

// Unavailable is a Source that never has data
type Unavailable struct{}

// RecentSightings always returns ErrUnavailable
func (Unavailable) RecentSightings(ctx context.Context, q Query) ([]models.Sighting, error) {
	return nil, ErrUnavailable
}

var seasonalFactors = map[time.Month]float64{
	time.March:     1.2,
	time.April:     1.2,
	time.May:       1.2,
	time.September: 1.1,
	time.October:   1.1,
	time.November:  1.1,
	time.December:  0.8,
	time.January:   0.8,
	time.February:  0.8,
}

// SeasonalFactor weights observed frequency by how active birders and birds are in month
func SeasonalFactor(month time.Month) float64 {
	if f, ok := seasonalFactors[month]; ok {
		return f
	}
	return 1.0
}

// SuccessRate estimates the chance of a sighting from recent records: the share of
// days in the window with at least one observation, scaled by the seasonal factor
// and capped at 1.
func SuccessRate(sightings []models.Sighting, windowDays int, month time.Month) float64 {
	if windowDays <= 0 || len(sightings) == 0 {
		return 0
	}

	days := make(map[string]struct{})
	for _, s := range sightings {
		if s.ObservedAt.IsZero() {
			continue
		}
		days[s.ObservedAt.Format("2006-01-02")] = struct{}{}
	}

	rate := float64(len(days)) / float64(windowDays) * SeasonalFactor(month)
	if rate > 1 {
		return 1
	}
	return rate
}
