package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/stats"
	"golang.org/x/sync/errgroup"
)

// maxLiveLookups caps concurrent live observation lookups per analysis
const maxLiveLookups = 4

// Planner builds species analyses, routes and multi-day itineraries.
// A Planner holds no per-request state and is safe for concurrent use.
type Planner struct {
	catalog    *reference.Catalog
	classifier *Classifier
	scorer     *Scorer
	settings   Settings
}

// New creates a planner over catalog. source may be nil to disable live data.
func New(catalog *reference.Catalog, source observation.Source, settings Settings) *Planner {
	return &Planner{
		catalog:    catalog,
		classifier: NewClassifier(catalog, source, settings),
		scorer:     NewScorer(catalog, settings),
		settings:   settings,
	}
}

// Settings returns the planner constants
func (p *Planner) Settings() Settings {
	return p.settings
}

// Classifier returns the species classifier
func (p *Planner) Classifier() *Classifier {
	return p.classifier
}

// Scorer returns the availability scorer
func (p *Planner) Scorer() *Scorer {
	return p.scorer
}

// DecideMode picks LOCAL when the aggregate local compatibility exceeds threshold
func DecideMode(localCompatibility, threshold float64) models.TripMode {
	if localCompatibility > threshold {
		return models.TripModeLocal
	}
	return models.TripModeLongDistance
}

type validated struct {
	location      models.Location
	species       []string
	month         time.Month
	maxStops      int
	explicitStops bool
}

func (p *Planner) validate(speciesNames []string, locationName, dateRange string, maxStops *int) (validated, error) {
	species := cleanSpecies(speciesNames)
	if len(species) == 0 {
		return validated{}, invalid("species", ReasonEmptySpecies, "")
	}

	location, ok := p.catalog.Location(locationName)
	if !ok {
		return validated{}, invalid("base_location", ReasonUnknownLocation, fmt.Sprintf("%q", strings.TrimSpace(locationName)))
	}

	v := validated{
		location: location,
		species:  species,
		month:    ParseMonth(dateRange),
		maxStops: p.settings.DefaultMaxStops,
	}

	if maxStops != nil {
		if *maxStops < 0 || *maxStops > p.settings.MaxStopsLimit {
			return validated{}, invalid("max_stops", ReasonInvalidStopCount,
				fmt.Sprintf("must be between 0 and %d, got %d", p.settings.MaxStopsLimit, *maxStops))
		}
		v.maxStops = *maxStops
		v.explicitStops = true
	}

	return v, nil
}

// cleanSpecies trims names, drops blanks and removes case-insensitive duplicates
func cleanSpecies(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(n), " ")
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// Analyze classifies every species and scores its availability at location
func (p *Planner) Analyze(ctx context.Context, species []string, location models.Location, month time.Month, useLive bool) models.SpeciesAnalysis {
	analysis := models.SpeciesAnalysis{
		Species:      make([]models.Species, 0, len(species)),
		Availability: make([]models.AvailabilityResult, 0, len(species)),
		Summary: models.AnalysisSummary{
			TotalSpecies:     len(species),
			TierDistribution: make(map[string]int, len(models.AllTiers)),
			UnknownSpecies:   []string{},
		},
	}
	for _, t := range models.AllTiers {
		analysis.Summary.TierDistribution[t.String()] = 0
	}

	classified := p.classifyAll(ctx, species, location, month, useLive)

	confidences := make([]float64, 0, len(species))
	probs := make([]float64, 0, len(species))
	for i, name := range species {
		s := classified[i]
		a := p.scorer.Score(name, location, month)

		analysis.Species = append(analysis.Species, s)
		analysis.Availability = append(analysis.Availability, a)
		analysis.Summary.TierDistribution[s.Tier.String()]++
		if !s.Known {
			analysis.Summary.UnknownSpecies = append(analysis.Summary.UnknownSpecies, s.Name)
		}
		if s.Degraded {
			analysis.Summary.Degraded = true
		}
		confidences = append(confidences, s.Confidence)
		probs = append(probs, a.Probability())
	}

	analysis.Summary.AverageConfidence = stats.Round(stats.Mean(confidences), 3)
	analysis.Summary.LocalCompatibility = stats.Round(stats.Clamp(stats.Mean(probs), 0, 1), 3)
	return analysis
}

// classifyAll classifies species in order. Live lookups run concurrently under one
// deadline of ObservationTimeout, so a stalled source delays the whole analysis by
// at most one timeout.
func (p *Planner) classifyAll(ctx context.Context, species []string, location models.Location, month time.Month, useLive bool) []models.Species {
	out := make([]models.Species, len(species))
	if !useLive || len(species) < 2 {
		for i, name := range species {
			out[i] = p.classifier.Classify(ctx, name, location, month, useLive)
		}
		return out
	}

	timeout := p.settings.ObservationTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(maxLiveLookups)
	for i, name := range species {
		i, name := i, name
		g.Go(func() error {
			out[i] = p.classifier.Classify(ctx, name, location, month, useLive)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// AnalyzeRequest validates and runs a species analysis without routing
func (p *Planner) AnalyzeRequest(ctx context.Context, req models.ClassifyRequest) (models.SpeciesAnalysis, error) {
	v, err := p.validate(req.Species, req.Location, req.DateRange, nil)
	if err != nil {
		return models.SpeciesAnalysis{}, err
	}
	return p.Analyze(ctx, v.species, v.location, v.month, req.UseLiveData), nil
}

// ScoreAvailability scores one species at a named location for a date descriptor
func (p *Planner) ScoreAvailability(species, locationName, dateRange string) (models.AvailabilityResult, error) {
	v, err := p.validate([]string{species}, locationName, dateRange, nil)
	if err != nil {
		return models.AvailabilityResult{}, err
	}
	return p.scorer.Score(v.species[0], v.location, v.month), nil
}

// canonicalNames maps each analysed species to its catalog spelling
func canonicalNames(analysis models.SpeciesAnalysis) []string {
	out := make([]string, len(analysis.Species))
	for i, s := range analysis.Species {
		out[i] = s.Name
	}
	return out
}

func tierIndex(analysis models.SpeciesAnalysis) map[string]models.Tier {
	tiers := make(map[string]models.Tier, len(analysis.Species))
	for _, s := range analysis.Species {
		tiers[s.Name] = s.Tier
	}
	return tiers
}

func localProbabilities(analysis models.SpeciesAnalysis) []float64 {
	out := make([]float64, len(analysis.Availability))
	for i, a := range analysis.Availability {
		out[i] = a.Probability()
	}
	return out
}

// weightedCompatibility is the tier-weighted mean availability; rarer species count more
func weightedCompatibility(probs map[string]float64, species []string, tiers map[string]models.Tier) float64 {
	values := make([]float64, 0, len(species))
	weights := make([]float64, 0, len(species))
	for _, name := range species {
		values = append(values, probs[name])
		weights = append(weights, tiers[name].Weight())
	}
	return stats.Clamp(stats.WeightedMean(values, weights), 0, 1)
}

func meanProbability(probs map[string]float64, species []string) float64 {
	values := make([]float64, 0, len(species))
	for _, name := range species {
		values = append(values, probs[name])
	}
	return stats.Mean(values)
}

func hostedSpecies(probs map[string]float64, species []string, threshold float64) []string {
	out := []string{}
	for _, name := range species {
		if probs[name] >= threshold {
			out = append(out, name)
		}
	}
	return out
}
