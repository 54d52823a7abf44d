package planner

import (
	"context"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/stats"
)

// OverallSuccess is the chance of seeing every species when each has local
// probability localProbs[i] and n stops are made.
func (p *Planner) OverallSuccess(localProbs []float64, n int) float64 {
	if len(localProbs) == 0 || n <= 0 {
		return 0
	}
	overall := 1.0
	for _, prob := range localProbs {
		overall *= stats.Diminishing(prob, n, p.settings.SuccessCeiling)
	}
	return overall
}

// RecommendedStops suggests a minimum stop count from local availability
func RecommendedStops(localProbs []float64) int {
	stops, _ := recommendStops(localProbs)
	return stops
}

func recommendStops(localProbs []float64) (int, string) {
	n := len(localProbs)
	if n == 0 {
		return 0, "No target species"
	}
	avg := stats.Mean(localProbs)
	lowest := localProbs[0]
	for _, v := range localProbs[1:] {
		lowest = min(lowest, v)
	}

	var stops int
	var reasoning string
	switch {
	case avg > 0.8 && lowest > 0.7:
		stops = 2
		reasoning = "High local availability - 2 stops for variety"
		if n == 1 {
			stops = 1
			reasoning = "High local availability - 1 stop should be sufficient"
		}
	case avg > 0.6 && lowest > 0.5:
		stops = 3
		reasoning = "Moderate local availability - 3 stops for better coverage"
		if n <= 2 {
			stops = 2
			reasoning = "Moderate local availability - 2 stops recommended"
		}
	default:
		stops = 3
		reasoning = "Low local availability - 3+ stops recommended for multiple species"
		if n <= 2 {
			reasoning = "Low local availability - 3 stops needed for success"
		}
	}

	if n == 1 {
		stops = max(1, stops-1)
	} else if n >= 3 {
		stops = min(5, stops+1)
	}
	return stops, reasoning
}

// StopsForTarget returns the smallest stop count, starting from the recommended
// minimum, whose overall success reaches target. It never exceeds MaxStopsLimit.
func (p *Planner) StopsForTarget(localProbs []float64, target float64) int {
	limit := p.settings.MaxStopsLimit
	start := max(1, RecommendedStops(localProbs))
	for n := start; n <= limit; n++ {
		if p.OverallSuccess(localProbs, n) >= target {
			return n
		}
	}
	return limit
}

// EstimateSuccess reports per-species and overall success for a stop count
func (p *Planner) EstimateSuccess(ctx context.Context, species []string, locationName, dateRange string, stops int) (models.SuccessEstimate, error) {
	v, err := p.validate(species, locationName, dateRange, &stops)
	if err != nil {
		return models.SuccessEstimate{}, err
	}

	est := models.SuccessEstimate{
		Location:   v.location.Name,
		Stops:      v.maxStops,
		PerSpecies: make(map[string]float64, len(v.species)),
	}

	probs := make([]float64, 0, len(v.species))
	for _, name := range v.species {
		a := p.scorer.Score(name, v.location, v.month)
		probs = append(probs, a.Probability())
		est.PerSpecies[a.Species] = stats.Round(stats.Diminishing(a.Probability(), v.maxStops, p.settings.SuccessCeiling), 3)
	}

	est.Overall = stats.Round(p.OverallSuccess(probs, v.maxStops), 3)
	est.RecommendedMinStops, est.Reasoning = recommendStops(probs)
	return est, nil
}
