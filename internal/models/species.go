package models

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the difficulty class of a species for a given trip context.
// Tiers are ordered: T1 < T2 < ... < T5.
type Tier int

const (
	TierCommonCompanion   Tier = 1
	TierRegionalCompanion Tier = 2
	TierSeasonalVisitor   Tier = 3
	TierElusiveExplorer   Tier = 4
	TierLegendaryQuest    Tier = 5
)

// AllTiers lists tiers from easiest to hardest
var AllTiers = []Tier{
	TierCommonCompanion,
	TierRegionalCompanion,
	TierSeasonalVisitor,
	TierElusiveExplorer,
	TierLegendaryQuest,
}

var tierTitles = map[Tier]string{
	TierCommonCompanion:   "Common Companion",
	TierRegionalCompanion: "Regional Companion",
	TierSeasonalVisitor:   "Seasonal Visitor",
	TierElusiveExplorer:   "Elusive Explorer",
	TierLegendaryQuest:    "Legendary Quest",
}

var tierChallenges = map[Tier]string{
	TierCommonCompanion:   "Easy to find in most suitable habitats",
	TierRegionalCompanion: "Common within its range, may require a short trip",
	TierSeasonalVisitor:   "Present only part of the year, timing matters",
	TierElusiveExplorer:   "Secretive or local, expect dedicated searching",
	TierLegendaryQuest:    "Exceptionally rare, success is never guaranteed",
}

// Valid reports whether t is one of T1..T5
func (t Tier) Valid() bool {
	return t >= TierCommonCompanion && t <= TierLegendaryQuest
}

func (t Tier) String() string {
	if !t.Valid() {
		return "T?"
	}
	return fmt.Sprintf("T%d", int(t))
}

// Title returns the display name of the tier
func (t Tier) Title() string {
	return tierTitles[t]
}

// Challenge returns a short description of how hard the tier is
func (t Tier) Challenge() string {
	return tierChallenges[t]
}

// Weight is the difficulty weight used when rarer species should count for more
func (t Tier) Weight() float64 {
	if !t.Valid() {
		return float64(TierSeasonalVisitor)
	}
	return float64(t)
}

// MarshalText encodes the tier as "T1".."T5"
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier: %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts "T1".."T5" (case-insensitive) or "1".."5"
func (t *Tier) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(string(text))), "T")
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fmt.Errorf("invalid tier %q: %w", string(text), err)
	}
	tier := Tier(n)
	if !tier.Valid() {
		return fmt.Errorf("invalid tier %q", string(text))
	}
	*t = tier
	return nil
}

// Visibility constants
const (
	VisibilityVeryLow = "very_low"
	VisibilityLow     = "low"
	VisibilityMedium  = "medium"
	VisibilityHigh    = "high"
)

// AllRegions is the wildcard region for species found everywhere
const AllRegions = "All Regions"

// ReferenceSpecies is the static reference profile of a species
type ReferenceSpecies struct {
	ID              int64        `json:"id,omitempty" db:"id"`
	Name            string       `json:"name" db:"name"`
	ScientificName  string       `json:"scientific_name" db:"scientific_name"`
	SpeciesCode     string       `json:"species_code,omitempty" db:"species_code"` // eBird code
	BaselineTier    Tier         `json:"baseline_tier" db:"baseline_tier"`
	OccurrenceRate  float64      `json:"occurrence_rate" db:"occurrence_rate"` // 0-1
	RegionCount     int          `json:"region_count" db:"region_count"`
	Visibility      string       `json:"visibility" db:"visibility"`
	ActiveMonths    []time.Month `json:"active_months"`
	Regions         []string     `json:"regions"`
	Habitats        []string     `json:"habitats"`
	PeakActivity    string       `json:"peak_activity,omitempty" db:"peak_activity"` // dawn, morning, midday, evening, night
	Migration       string       `json:"migration,omitempty" db:"migration"`
	Known           bool         `json:"known"`
}

// ActiveIn reports whether the species is present in month.
// An empty active window means the season is not known.
func (s ReferenceSpecies) ActiveIn(month time.Month) bool {
	for _, m := range s.ActiveMonths {
		if m == month {
			return true
		}
	}
	return false
}

// FoundIn reports whether region is part of the species range
func (s ReferenceSpecies) FoundIn(region string) bool {
	for _, r := range s.Regions {
		if r == AllRegions || strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// Species is a species classified for a specific trip context
type Species struct {
	Name       string   `json:"name"`
	Tier       Tier     `json:"tier"`
	TierTitle  string   `json:"tier_title"`
	Confidence float64  `json:"confidence"`   // 0-1
	Rarity     float64  `json:"rarity_score"` // 0-1, higher is harder
	Insights   []string `json:"insights"`
	Known      bool     `json:"known"`
	Degraded   bool     `json:"degraded"` // live observation data was requested but unavailable
}

// AvailabilityFactors are the qualitative inputs behind an availability score
type AvailabilityFactors struct {
	SeasonalTiming     bool   `json:"seasonal_timing"`
	RegionalPresence   bool   `json:"regional_presence"`
	HabitatSuitability string `json:"habitat_suitability"`
}

// AvailabilityResult is the availability of a species at a location in a month
type AvailabilityResult struct {
	Species          string              `json:"species"`
	Month            time.Month          `json:"month"`
	Location         string              `json:"location"`
	Region           string              `json:"region"`
	Confidence       float64             `json:"confidence"` // 0-100
	Factors          AvailabilityFactors `json:"factors"`
	Recommendation   string              `json:"ai_recommendation"`
}

// Probability returns the confidence normalized to 0-1
func (a AvailabilityResult) Probability() float64 {
	return a.Confidence / 100
}

// SpeciesAnalysis is the classifier and scorer output for a request
type SpeciesAnalysis struct {
	Species      []Species            `json:"species"`
	Availability []AvailabilityResult `json:"availability"`
	Summary      AnalysisSummary      `json:"summary"`
}

// AnalysisSummary aggregates a species analysis
type AnalysisSummary struct {
	TotalSpecies       int            `json:"total_species"`
	TierDistribution   map[string]int `json:"tier_distribution"`
	AverageConfidence  float64        `json:"average_confidence"`
	LocalCompatibility float64        `json:"local_compatibility"` // 0-1
	UnknownSpecies     []string       `json:"unknown_species"`
	Degraded           bool           `json:"degraded"`
}

// Sighting is one recent observation record from a live data source
type Sighting struct {
	SpeciesCode  string    `json:"species_code"`
	CommonName   string    `json:"common_name"`
	LocationName string    `json:"location_name"`
	Coordinates  Coordinates `json:"coordinates"`
	ObservedAt   time.Time `json:"observed_at"`
	Count        int       `json:"count"`
}
