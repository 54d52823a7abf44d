package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/spatial"
	"github.com/jengzang/birding-planner-go/internal/stats"
)

// poolHotspot is a hotspot candidate for the multi-day scheduler
type poolHotspot struct {
	hotspot models.Hotspot
	owner   models.Location
	probs   map[string]float64
	hosted  []string
}

// PlanMultiDay partitions hotspot visits across req.TotalDays days. Each hotspot
// is visited at most once; days after the pool runs dry are empty.
func (p *Planner) PlanMultiDay(ctx context.Context, req models.TripRequest) (*models.MultiDayItinerary, models.SpeciesAnalysis, error) {
	v, err := p.validate(req.Species, req.BaseLocation, req.DateRange, req.MaxStops)
	if err != nil {
		return nil, models.SpeciesAnalysis{}, err
	}
	if req.TotalDays < 1 || req.TotalDays > p.settings.MaxTripDays {
		return nil, models.SpeciesAnalysis{}, invalid("total_days", ReasonInvalidDayCount,
			fmt.Sprintf("must be between 1 and %d, got %d", p.settings.MaxTripDays, req.TotalDays))
	}
	dailyCap := p.settings.DailyStopCap
	if v.explicitStops {
		if v.maxStops == 0 {
			return nil, models.SpeciesAnalysis{}, invalid("max_stops", ReasonInvalidStopCount, "must be at least 1 for a multi-day plan")
		}
		dailyCap = v.maxStops
	}

	analysis := p.Analyze(ctx, v.species, v.location, v.month, req.UseLiveData)
	rc := routeContext{
		base:    v.location,
		species: canonicalNames(analysis),
		tiers:   tierIndex(analysis),
		month:   v.month,
	}


	pool := p.hotspotPool(rc)
	covered := make(map[string]bool, len(rc.species))

	it := &models.MultiDayItinerary{
		BaseLocation:  v.location,
		TargetSpecies: rc.species,
		DateRange:     req.DateRange,
		TotalDays:     req.TotalDays,
		Days:          make([]models.DailyPlan, 0, req.TotalDays),
	}

	for day := 1; day <= req.TotalDays; day++ {
		var plan models.DailyPlan
		plan, pool = p.planDay(rc, day, dailyCap, pool, covered)
		it.Days = append(it.Days, plan)
	}

	it.Stats = p.itineraryStats(rc, it.Days)
	return it, analysis, nil
}

// hotspotPool collects hotspots of the base location plus those of other
// locations within the multi-day radius, nearest first.
func (p *Planner) hotspotPool(rc routeContext) []poolHotspot {
	var pool []poolHotspot
	for _, loc := range p.catalog.Locations() {
		isBase := strings.EqualFold(loc.Name, rc.base.Name)
		for _, h := range loc.Hotspots {
			if !isBase && spatial.Distance(rc.base.Coordinates, h.Coordinates) > p.settings.MultiDayRadiusKm {
				continue
			}
			probs := p.hotspotProbabilities(rc, loc, h)
			pool = append(pool, poolHotspot{
				hotspot: h,
				owner:   loc,
				probs:   probs,
				hosted:  hostedSpecies(probs, rc.species, p.settings.HostThreshold),
			})
		}
	}

	base := rc.base.Coordinates
	sort.SliceStable(pool, func(i, j int) bool {
		di := spatial.Distance(base, pool[i].hotspot.Coordinates)
		dj := spatial.Distance(base, pool[j].hotspot.Coordinates)
		if di != dj {
			return di < dj
		}
		return pool[i].hotspot.Name < pool[j].hotspot.Name
	})
	return pool
}

// planDay runs the greedy species-per-distance selection for one day and returns
// the remaining pool. covered is updated with the species the day reaches.
func (p *Planner) planDay(rc routeContext, day, dailyCap int, pool []poolHotspot, covered map[string]bool) (models.DailyPlan, []poolHotspot) {
	cfg := p.settings
	plan := models.DailyPlan{
		Day:             day,
		Visits:          []models.HotspotVisit{},
		ExpectedSpecies: []string{},
	}

	current := rc.base.Coordinates
	dayExpected := make(map[string]bool)
	var scores []float64

	for len(plan.Visits) < dailyCap && len(pool) > 0 {
		bestIdx := -1
		bestScore := -1.0
		bestNew := 0
		bestDist := 0.0
		for i, h := range pool {
			d := spatial.Distance(current, h.hotspot.Coordinates)
			n := countUncovered(h.hosted, covered)
			score := float64(n) / max(d, cfg.GreedyDistanceFloorKm)
			if score > bestScore || (score == bestScore && d < bestDist) {
				bestIdx, bestScore, bestNew, bestDist = i, score, n, d
			}
		}

		if bestNew == 0 {
			if len(plan.Visits) > 0 {
				break
			}
			// Nothing new anywhere: open the day at the hotspot hosting the most
			// targets per kilometer so the remaining pool is still explored.
			bestIdx, bestDist = -1, 0
			bestScore = -1.0
			for i, h := range pool {
				d := spatial.Distance(current, h.hotspot.Coordinates)
				score := float64(len(h.hosted)) / max(d, cfg.GreedyDistanceFloorKm)
				if score > bestScore || (score == bestScore && d < bestDist) {
					bestIdx, bestScore, bestDist = i, score, d
				}
			}
		}

		chosen := pool[bestIdx]
		var fresh []string
		for _, name := range chosen.hosted {
			if !covered[name] {
				fresh = append(fresh, name)
				covered[name] = true
			}
			dayExpected[name] = true
		}
		if fresh == nil {
			fresh = []string{}
		}

		score := meanProbability(chosen.probs, rc.species)
		scores = append(scores, score)
		distance := stats.Round(bestDist, 2)
		visitIdx := len(plan.Visits)

		plan.Visits = append(plan.Visits, models.HotspotVisit{
			VisitNumber:          visitIdx + 1,
			Hotspot:              chosen.hotspot,
			DistanceFromPrevious: distance,
			TravelTime:           formatMinutes(travelMinutes(distance, cfg.LocalTravelSpeedKmh)),
			ExpectedSpecies:      chosen.hosted,
			NewSpecies:           fresh,
			SpeciesScore:         stats.Round(score, 3),
			ViewingWindow:        dayWindow(visitIdx).String(),
			Recommendations: append(
				hotspotAdvice(chosen.hotspot, chosen.hotspot.HabitatTags(chosen.owner)),
				speciesAdvice(chosen.hosted, rc.tiers)...,
			),
		})
		plan.TotalDistance += distance

		current = chosen.hotspot.Coordinates
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}

	for _, name := range rc.species {
		if dayExpected[name] {
			plan.ExpectedSpecies = append(plan.ExpectedSpecies, name)
		}
	}
	if len(plan.Visits) > 0 {
		plan.SuccessProbability = stats.Round(stats.Mean(scores), 3)
		plan.EfficiencyScore = stats.Round(float64(len(plan.ExpectedSpecies))/max(plan.TotalDistance, cfg.EfficiencyDistanceKm), 3)
	}

	return plan, pool
}

func countUncovered(hosted []string, covered map[string]bool) int {
	n := 0
	for _, name := range hosted {
		if !covered[name] {
			n++
		}
	}
	return n
}

func (p *Planner) itineraryStats(rc routeContext, days []models.DailyPlan) models.ItineraryStats {
	covered := make(map[string]bool)
	perSpecies := make(map[string][]float64, len(rc.species))
	st := models.ItineraryStats{CoveredSpecies: []string{}}

	for _, d := range days {
		st.TotalDistance += d.TotalDistance
		if !d.IsEmpty() {
			st.ActiveDays++
		}
		for _, name := range d.ExpectedSpecies {
			covered[name] = true
		}
		for _, v := range d.Visits {
			probs := p.hotspotProbabilities(rc, p.ownerOf(v.Hotspot, rc.base), v.Hotspot)
			for _, name := range rc.species {
				perSpecies[name] = append(perSpecies[name], probs[name])
			}
		}
	}

	for _, name := range rc.species {
		if covered[name] {
			st.CoveredSpecies = append(st.CoveredSpecies, name)
		}
	}
	if len(rc.species) > 0 {
		st.SpeciesCoverage = float64(len(st.CoveredSpecies)) / float64(len(rc.species))
	}
	if len(days) > 0 {
		st.AverageDistancePerDay = stats.Round(st.TotalDistance/float64(len(days)), 2)
	}
	if st.ActiveDays > 0 {
		probs := make([]float64, 0, len(rc.species))
		for _, name := range rc.species {
			probs = append(probs, min(stats.AtLeastOnce(perSpecies[name]), p.settings.SuccessCeiling))
		}
		st.SuccessProbability = stats.Round(stats.Mean(probs), 3)
		st.EfficiencyScore = stats.Round(float64(len(st.CoveredSpecies))/max(st.TotalDistance, p.settings.EfficiencyDistanceKm), 3)
	}
	return st
}

// ownerOf finds the location owning h, defaulting to the base location
func (p *Planner) ownerOf(h models.Hotspot, base models.Location) models.Location {
	if loc, ok := p.catalog.Location(h.LocationName); ok {
		return loc
	}
	return base
}
