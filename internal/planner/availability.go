package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/stats"
)

// Scorer estimates how available a species is at a place and time
type Scorer struct {
	catalog  *reference.Catalog
	settings Settings
}

// NewScorer creates an availability scorer
func NewScorer(catalog *reference.Catalog, settings Settings) *Scorer {
	return &Scorer{catalog: catalog, settings: settings}
}

// Score returns the availability of name at location in month
func (s *Scorer) Score(name string, location models.Location, month time.Month) models.AvailabilityResult {
	return s.score(s.catalog.Profile(name), location.Name, location.Region, location.Habitats, month)
}

// ScoreHotspot scores name at a single hotspot of owner, using the hotspot's habitats
func (s *Scorer) ScoreHotspot(name string, owner models.Location, hotspot models.Hotspot, month time.Month) models.AvailabilityResult {
	return s.score(s.catalog.Profile(name), hotspot.Name, owner.Region, hotspot.HabitatTags(owner), month)
}

func (s *Scorer) score(profile models.ReferenceSpecies, place, region string, habitats []string, month time.Month) models.AvailabilityResult {
	cfg := s.settings

	seasonal := profile.Known && profile.ActiveIn(month)
	regional := profile.Known && profile.FoundIn(region)
	matched := habitatOverlap(profile.Habitats, habitats)

	score := cfg.BaselineWeight * profile.OccurrenceRate
	if seasonal {
		score += cfg.SeasonalBonus
	}
	if regional {
		score += cfg.RegionalBonus
	}
	ratio := 0.0
	if len(profile.Habitats) > 0 {
		ratio = float64(len(matched)) / float64(len(profile.Habitats))
	}
	score += cfg.HabitatWeight * ratio
	score = stats.Round(stats.Clamp(score, 0, 100), 1)

	return models.AvailabilityResult{
		Species:    profile.Name,
		Month:      month,
		Location:   place,
		Region:     region,
		Confidence: score,
		Factors: models.AvailabilityFactors{
			SeasonalTiming:     seasonal,
			RegionalPresence:   regional,
			HabitatSuitability: habitatLabel(ratio, matched),
		},
		Recommendation: recommendation(profile.Name, place, month, score, matched),
	}
}

func habitatOverlap(preferred, available []string) []string {
	have := make(map[string]bool, len(available))
	for _, h := range available {
		have[strings.ToLower(h)] = true
	}
	var out []string
	for _, h := range preferred {
		if have[strings.ToLower(h)] {
			out = append(out, h)
		}
	}
	return out
}

func habitatLabel(ratio float64, matched []string) string {
	var label string
	switch {
	case ratio >= 0.66:
		label = "excellent"
	case ratio >= 0.33:
		label = "good"
	case ratio > 0:
		label = "fair"
	default:
		return "poor"
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(matched, ", "))
}

// Recommendation bands on the 0-100 confidence scale
const (
	goodBand     = 70.0
	moderateBand = 40.0
)

func recommendation(species, place string, month time.Month, score float64, matched []string) string {
	switch {
	case score > goodBand:
		focus := "the best local habitat"
		if len(matched) > 0 {
			focus = strings.Join(matched, " and ")
		}
		return fmt.Sprintf("Good chance of finding %s at %s in %s. Focus on %s early in the morning.", species, place, month, focus)
	case score >= moderateBand:
		return fmt.Sprintf("Moderate chance of finding %s at %s in %s. Visit preferred habitat and allow extra search time.", species, place, month)
	default:
		return fmt.Sprintf("Low probability of finding %s at %s in %s. Consider a location within its range or a different season.", species, place, month)
	}
}
