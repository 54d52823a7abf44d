package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/spatial"
	"github.com/jengzang/birding-planner-go/internal/stats"
)

// plannedStop carries per-species availability alongside the public stop
type plannedStop struct {
	stop  models.RouteStop
	probs map[string]float64
}

// routeContext is the per-call state threaded through stop selection
type routeContext struct {
	mode     models.TripMode
	base     models.Location
	species  []string
	tiers    map[string]models.Tier
	month    time.Month
	maxStops int
	window   timeWindow
}

// PlanRoute classifies the requested species, decides the trip mode once and
// builds an ordered single-day route.
func (p *Planner) PlanRoute(ctx context.Context, req models.TripRequest) (*models.Route, models.SpeciesAnalysis, error) {
	v, err := p.validate(req.Species, req.BaseLocation, req.DateRange, req.MaxStops)
	if err != nil {
		return nil, models.SpeciesAnalysis{}, err
	}

	analysis := p.Analyze(ctx, v.species, v.location, v.month, req.UseLiveData)
	species := canonicalNames(analysis)
	localProbs := localProbabilities(analysis)

	maxStops := v.maxStops
	if !v.explicitStops && req.TargetSuccessRate > 0 {
		maxStops = p.StopsForTarget(localProbs, req.TargetSuccessRate)
	}

	rc := routeContext{
		mode:     DecideMode(analysis.Summary.LocalCompatibility, p.settings.LocalModeThreshold),
		base:     v.location,
		species:  species,
		tiers:    tierIndex(analysis),
		month:    v.month,
		maxStops: maxStops,
		window:   defaultWindow,
	}
	if req.OptimizeSchedule {
		rc.window = p.optimizedWindow(analysis)
	}

	var planned []plannedStop
	if rc.maxStops > 0 {
		switch rc.mode {
		case models.TripModeLocal:
			planned = p.localStops(rc)
		case models.TripModeLongDistance:
			planned = p.longDistanceStops(rc)
		}
	}

	route := &models.Route{
		Mode:                rc.mode,
		BaseLocation:        v.location,
		TargetSpecies:       species,
		DateRange:           req.DateRange,
		Stops:               make([]models.RouteStop, 0, len(planned)),
		LocalCompatibility:  analysis.Summary.LocalCompatibility,
		RecommendedMinStops: RecommendedStops(localProbs),
	}
	p.finishRoute(route, planned)

	return route, analysis, nil
}

// localStops picks stops from the base location's own hotspots, richest first.
// All stops share the base coordinates; legs are short synthetic in-city hops.
func (p *Planner) localStops(rc routeContext) []plannedStop {
	hotspots := append([]models.Hotspot{}, rc.base.Hotspots...)
	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].SpeciesCount > hotspots[j].SpeciesCount
	})

	want := 3
	if len(rc.species) == 1 {
		want = 2
	}
	count := min(rc.maxStops, want, len(hotspots))
	maxRichness := maxSpeciesCount(hotspots)

	stops := make([]plannedStop, 0, count)
	for i := 0; i < count; i++ {
		h := hotspots[i]
		probs := p.hotspotProbabilities(rc, rc.base, h)

		distance, minutes := 0.0, 0
		if i > 0 {
			distance = p.settings.LocalLegBaseKm + p.settings.LocalLegStepKm*float64(i-1)
			minutes = p.settings.LocalLegBaseMin + p.settings.LocalLegStepMin*(i-1)
		}

		stop := p.newStop(rc, rc.base, probs)
		stop.Coordinates = rc.base.Coordinates
		stop.DistanceFromPrevious = distance
		stop.TravelMinutes = minutes
		stop.TravelTime = formatMinutes(minutes)
		stop.Hotspots = []models.HotspotRecommendation{{
			Hotspot:   h,
			Relevance: hotspotRelevance(h, maxRichness, probs, rc.species),
		}}
		stop.Schedule = viewingSchedule(rc.window, p.settings.LocalViewingHours)
		stop.Recommendations = append(hotspotAdvice(h, h.HabitatTags(rc.base)), speciesAdvice(stop.HostedSpecies, rc.tiers)...)

		stops = append(stops, plannedStop{stop: stop, probs: probs})
	}
	return stops
}

type longCandidate struct {
	location models.Location
	probs    map[string]float64
	compat   float64
}

// longDistanceStops greedily adds reference locations, scoring each remaining
// candidate by compatibility and distance from the current position, until the
// stop limit is reached or the next stop adds too little detection probability.
func (p *Planner) longDistanceStops(rc routeContext) []plannedStop {
	cfg := p.settings

	var pool, fallback []longCandidate
	for _, loc := range p.catalog.Locations() {
		if strings.EqualFold(loc.Name, rc.base.Name) {
			continue
		}
		probs := p.locationProbabilities(rc, loc)
		c := longCandidate{
			location: loc,
			probs:    probs,
			compat:   weightedCompatibility(probs, rc.species, rc.tiers),
		}
		fallback = append(fallback, c)
		if len(hostedSpecies(probs, rc.species, cfg.HostThreshold)) > 0 {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = fallback
	}

	miss := make(map[string]float64, len(rc.species))
	var totalWeight float64
	for _, name := range rc.species {
		miss[name] = 1
		totalWeight += rc.tiers[name].Weight()
	}

	current := rc.base.Coordinates
	var stops []plannedStop

	for len(stops) < rc.maxStops && len(pool) > 0 {
		bestIdx := -1
		bestScore := -1.0
		bestDist := 0.0
		for i, c := range pool {
			d := spatial.Distance(current, c.location.Coordinates)
			score := cfg.CompatibilityWeight*c.compat + cfg.DistanceWeight*distanceScore(d, cfg.DistanceScaleKm)
			if score > bestScore || (score == bestScore && d < bestDist) {
				bestIdx, bestScore, bestDist = i, score, d
			}
		}

		chosen := pool[bestIdx]
		gain := 0.0
		for _, name := range rc.species {
			gain += rc.tiers[name].Weight() * miss[name] * chosen.probs[name]
		}
		if totalWeight > 0 {
			gain /= totalWeight
		}
		if len(stops) > 0 && gain < cfg.GainCutoff {
			break
		}

		for _, name := range rc.species {
			miss[name] *= 1 - chosen.probs[name]
		}

		minutes := travelMinutes(bestDist, cfg.TravelSpeedKmh)
		stop := p.newStop(rc, chosen.location, chosen.probs)
		stop.Coordinates = chosen.location.Coordinates
		stop.DistanceFromPrevious = stats.Round(bestDist, 1)
		stop.Heading = spatial.Heading(current, chosen.location.Coordinates)
		stop.TravelMinutes = minutes
		stop.TravelTime = formatMinutes(minutes)
		stop.Hotspots = p.rankHotspots(rc, chosen.location)
		stop.Schedule = viewingSchedule(rc.window, cfg.RemoteViewingHours)
		stop.Recommendations = p.stopAdvice(rc, chosen.location, stop)

		stops = append(stops, plannedStop{stop: stop, probs: chosen.probs})
		current = chosen.location.Coordinates
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}

	return stops
}

// distanceScore decays from 1 at zero distance towards 0 far away
func distanceScore(km, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return 1 / (1 + km/scale)
}

func (p *Planner) newStop(rc routeContext, loc models.Location, probs map[string]float64) models.RouteStop {
	stopLocation := loc
	stopLocation.Hotspots = []models.Hotspot{}
	return models.RouteStop{
		Location:             stopLocation,
		SpeciesCompatibility: stats.Round(weightedCompatibility(probs, rc.species, rc.tiers), 3),
		SuccessProbability:   stats.Round(meanProbability(probs, rc.species), 3),
		HostedSpecies:        hostedSpecies(probs, rc.species, p.settings.HostThreshold),
		Hotspots:             []models.HotspotRecommendation{},
		Recommendations:      []string{},
	}
}

func (p *Planner) locationProbabilities(rc routeContext, loc models.Location) map[string]float64 {
	probs := make(map[string]float64, len(rc.species))
	for _, name := range rc.species {
		probs[name] = p.scorer.Score(name, loc, rc.month).Probability()
	}
	return probs
}

func (p *Planner) hotspotProbabilities(rc routeContext, owner models.Location, h models.Hotspot) map[string]float64 {
	probs := make(map[string]float64, len(rc.species))
	for _, name := range rc.species {
		probs[name] = p.scorer.ScoreHotspot(name, owner, h, rc.month).Probability()
	}
	return probs
}

// rankHotspots returns the most relevant hotspots of loc for the target species
func (p *Planner) rankHotspots(rc routeContext, loc models.Location) []models.HotspotRecommendation {
	maxRichness := maxSpeciesCount(loc.Hotspots)
	recs := make([]models.HotspotRecommendation, 0, len(loc.Hotspots))
	for _, h := range loc.Hotspots {
		probs := p.hotspotProbabilities(rc, loc, h)
		recs = append(recs, models.HotspotRecommendation{
			Hotspot:   h,
			Relevance: hotspotRelevance(h, maxRichness, probs, rc.species),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Relevance > recs[j].Relevance
	})
	if n := p.settings.HotspotsPerStop; n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

func (p *Planner) stopAdvice(rc routeContext, loc models.Location, stop models.RouteStop) []string {
	var out []string
	if len(stop.Hotspots) > 0 {
		top := stop.Hotspots[0].Hotspot
		out = append(out, fmt.Sprintf("Start at %s", top.Name))
		out = append(out, hotspotAdvice(top, top.HabitatTags(loc))...)
	}
	out = append(out, speciesAdvice(stop.HostedSpecies, rc.tiers)...)
	if out == nil {
		out = []string{}
	}
	return out
}

// hotspotRelevance blends relative richness with mean target availability
func hotspotRelevance(h models.Hotspot, maxRichness int, probs map[string]float64, species []string) float64 {
	richness := 0.0
	if maxRichness > 0 {
		richness = float64(h.SpeciesCount) / float64(maxRichness)
	}
	return stats.Round(0.5*richness+0.5*meanProbability(probs, species), 3)
}

func maxSpeciesCount(hotspots []models.Hotspot) int {
	best := 0
	for _, h := range hotspots {
		if h.SpeciesCount > best {
			best = h.SpeciesCount
		}
	}
	return best
}

// optimizedWindow uses the peak activity of the hardest target species
func (p *Planner) optimizedWindow(analysis models.SpeciesAnalysis) timeWindow {
	var hardest *models.Species
	for i := range analysis.Species {
		s := &analysis.Species[i]
		if hardest == nil || s.Tier > hardest.Tier {
			hardest = s
		}
	}
	if hardest == nil {
		return defaultWindow
	}
	profile := p.catalog.Profile(hardest.Name)
	if w, ok := peakWindows[profile.PeakActivity]; ok {
		return w
	}
	return defaultWindow
}

// finishRoute numbers the stops and fills the aggregate fields
func (p *Planner) finishRoute(route *models.Route, planned []plannedStop) {
	var travelHours, viewingHours float64
	perSpecies := make(map[string][]float64, len(route.TargetSpecies))

	for i, ps := range planned {
		stop := ps.stop
		stop.StopNumber = i + 1
		route.Stops = append(route.Stops, stop)
		route.TotalDistance += stop.DistanceFromPrevious
		travelHours += float64(stop.TravelMinutes) / 60
		viewingHours += stop.Schedule.Hours
		for _, name := range route.TargetSpecies {
			perSpecies[name] = append(perSpecies[name], ps.probs[name])
		}
	}

	route.EstimatedTotalHours = stats.Round(travelHours+viewingHours, 2)
	route.EstimatedTotalTime = formatHours(route.EstimatedTotalHours)

	if len(route.Stops) > 0 {
		overall := 1.0
		for _, name := range route.TargetSpecies {
			overall *= min(stats.AtLeastOnce(perSpecies[name]), p.settings.SuccessCeiling)
		}
		route.SuccessProbability = stats.Round(overall, 3)
	}

	route.Summary = routeSummary(route)
}

func routeSummary(route *models.Route) string {
	target := strings.Join(route.TargetSpecies, ", ")
	if len(route.Stops) == 0 {
		return fmt.Sprintf("No stops planned from %s for %s.", route.BaseLocation.Name, target)
	}

	kind := "local"
	if route.Mode == models.TripModeLongDistance {
		kind = "long-distance"
	}
	names := make([]string, 0, len(route.Stops))
	for _, s := range route.Stops {
		if route.Mode == models.TripModeLocal && len(s.Hotspots) > 0 {
			names = append(names, s.Hotspots[0].Hotspot.Name)
		} else {
			names = append(names, s.Location.Name)
		}
	}

	return fmt.Sprintf("This %d-stop %s route from %s covers %.0f km and targets %s via %s. Estimated time: %s.",
		len(route.Stops), kind, route.BaseLocation.Name, route.TotalDistance, target,
		strings.Join(names, " -> "), route.EstimatedTotalTime)
}
