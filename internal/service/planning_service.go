package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jengzang/birding-planner-go/internal/config"
	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/planner"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/repository"
	"github.com/jengzang/birding-planner-go/internal/spatial"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ErrPlanNotFound is returned when a stored plan does not exist
var ErrPlanNotFound = errors.New("plan not found")

// PlanStore persists planning results
type PlanStore interface {
	Save(plan *models.TripPlan) error
	GetByID(id string) (*models.TripPlan, error)
	List(filter models.TripPlanFilter) ([]models.TripPlanSummary, int64, error)
	Delete(id string) (bool, error)
}

// PlanningService handles trip planning and the plan history
type PlanningService struct {
	catalogs *reference.Holder
	source   observation.Source
	settings planner.Settings
	plans    PlanStore
}

// NewPlanningService creates a new planning service. plans may be nil, in which
// case results are returned but not stored.
func NewPlanningService(catalogs *reference.Holder, source observation.Source, settings planner.Settings, plans PlanStore) *PlanningService {
	return &PlanningService{
		catalogs: catalogs,
		source:   source,
		settings: settings,
		plans:    plans,
	}
}

// PlannerSettings applies the configured request limits to the default settings
func PlannerSettings(cfg *config.Config) planner.Settings {
	s := planner.DefaultSettings()
	if cfg.MaxRouteStops > 0 {
		s.MaxStopsLimit = cfg.MaxRouteStops
	}
	if cfg.DefaultMaxStops >= 0 && cfg.DefaultMaxStops <= s.MaxStopsLimit {
		s.DefaultMaxStops = cfg.DefaultMaxStops
	}
	if cfg.MultiDayRadiusKm > 0 {
		s.MultiDayRadiusKm = cfg.MultiDayRadiusKm
	}
	if cfg.ObservationTimeout > 0 {
		s.ObservationTimeout = cfg.ObservationTimeout
	}
	return s
}

// planner binds a planner to the current reference catalog so a reload never
// changes the data underneath a running request
func (s *PlanningService) planner() *planner.Planner {
	return planner.New(s.catalogs.Current(), s.source, s.settings)
}

// PlanRoute plans a single-day route and stores the result
func (s *PlanningService) PlanRoute(ctx context.Context, req models.TripRequest) (*models.TripPlan, error) {
	route, analysis, err := s.planner().PlanRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &models.TripPlan{
		Kind:     models.PlanKindRoute,
		Request:  req,
		Analysis: analysis,
		Route:    route,
	}
	if err := s.store(plan); err != nil {
		return nil, err
	}

	log.Printf("[planner] route %s: %s mode, %d stops, %.1f km", plan.ID, route.Mode, len(route.Stops), route.TotalDistance)
	return plan, nil
}

// PlanMultiDay plans a multi-day itinerary and stores the result
func (s *PlanningService) PlanMultiDay(ctx context.Context, req models.TripRequest) (*models.TripPlan, error) {
	it, analysis, err := s.planner().PlanMultiDay(ctx, req)
	if err != nil {
		return nil, err
	}

	plan := &models.TripPlan{
		Kind:      models.PlanKindMultiDay,
		Request:   req,
		Analysis:  analysis,
		Itinerary: it,
	}
	if err := s.store(plan); err != nil {
		return nil, err
	}

	log.Printf("[planner] itinerary %s: %d days, %d active, coverage %.2f",
		plan.ID, it.TotalDays, it.Stats.ActiveDays, it.Stats.SpeciesCoverage)
	return plan, nil
}

func (s *PlanningService) store(plan *models.TripPlan) error {
	if s.plans == nil {
		return nil
	}
	if err := s.plans.Save(plan); err != nil {
		return fmt.Errorf("failed to store plan: %w", err)
	}
	return nil
}

// Classify runs a species analysis without routing
func (s *PlanningService) Classify(ctx context.Context, req models.ClassifyRequest) (models.SpeciesAnalysis, error) {
	return s.planner().AnalyzeRequest(ctx, req)
}

// Availability scores one species at a location
func (s *PlanningService) Availability(q models.AvailabilityQuery) (models.AvailabilityResult, error) {
	return s.planner().ScoreAvailability(q.Species, q.Location, q.Date)
}

// EstimateSuccess reports the success probability of a stop count at the base location
func (s *PlanningService) EstimateSuccess(ctx context.Context, req models.TripRequest) (models.SuccessEstimate, error) {
	p := s.planner()
	stops := p.Settings().DefaultMaxStops
	if req.MaxStops != nil {
		stops = *req.MaxStops
	}
	return p.EstimateSuccess(ctx, req.Species, req.BaseLocation, req.DateRange, stops)
}

// GetPlan retrieves a stored plan
func (s *PlanningService) GetPlan(id string) (*models.TripPlan, error) {
	if s.plans == nil {
		return nil, ErrPlanNotFound
	}
	plan, err := s.plans.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans retrieves stored plan summaries with pagination
func (s *PlanningService) ListPlans(filter models.TripPlanFilter) (models.TripPlansResponse, error) {
	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	filter.Page, filter.PageSize = page, pageSize

	resp := models.TripPlansResponse{
		Data:     []models.TripPlanSummary{},
		Page:     page,
		PageSize: pageSize,
	}
	if s.plans == nil {
		return resp, nil
	}

	plans, total, err := s.plans.List(filter)
	if err != nil {
		return resp, err
	}

	resp.Data = plans
	resp.Total = total
	resp.TotalPages = int(total) / pageSize
	if int(total)%pageSize > 0 {
		resp.TotalPages++
	}
	return resp, nil
}

// DeletePlan removes a stored plan
func (s *PlanningService) DeletePlan(id string) error {
	if s.plans == nil {
		return ErrPlanNotFound
	}
	ok, err := s.plans.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlanNotFound
	}
	log.Printf("[planner] deleted plan %s", id)
	return nil
}

// PlanGeoJSON exports a stored plan as a GeoJSON FeatureCollection
func (s *PlanningService) PlanGeoJSON(id string) (*geojson.FeatureCollection, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}
	switch {
	case plan.Route != nil:
		return spatial.RouteFeatureCollection(*plan.Route)
	case plan.Itinerary != nil:
		return spatial.ItineraryFeatureCollection(*plan.Itinerary)
	}
	return nil, fmt.Errorf("plan %s has no route or itinerary", id)
}
