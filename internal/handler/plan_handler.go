package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/planner"
	"github.com/jengzang/birding-planner-go/internal/service"
	"github.com/jengzang/birding-planner-go/pkg/response"
)

// PlanHandler handles HTTP requests for trip planning
type PlanHandler struct {
	service *service.PlanningService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service *service.PlanningService) *PlanHandler {
	return &PlanHandler{service: service}
}

// PlanRoute handles POST /api/v1/plans/route
func (h *PlanHandler) PlanRoute(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	plan, err := h.service.PlanRoute(c.Request.Context(), req)
	if err != nil {
		planningError(c, "Failed to plan route", err)
		return
	}

	response.Created(c, plan)
}

// PlanMultiDay handles POST /api/v1/plans/multi-day
func (h *PlanHandler) PlanMultiDay(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	plan, err := h.service.PlanMultiDay(c.Request.Context(), req)
	if err != nil {
		planningError(c, "Failed to plan itinerary", err)
		return
	}

	response.Created(c, plan)
}

// EstimateSuccess handles POST /api/v1/plans/success
func (h *PlanHandler) EstimateSuccess(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	est, err := h.service.EstimateSuccess(c.Request.Context(), req)
	if err != nil {
		planningError(c, "Failed to estimate success", err)
		return
	}

	response.Success(c, est)
}

// Classify handles POST /api/v1/species/classify
func (h *PlanHandler) Classify(c *gin.Context) {
	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	analysis, err := h.service.Classify(c.Request.Context(), req)
	if err != nil {
		planningError(c, "Failed to classify species", err)
		return
	}

	response.Success(c, analysis)
}

// Availability handles GET /api/v1/availability
func (h *PlanHandler) Availability(c *gin.Context) {
	var q models.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	result, err := h.service.Availability(q)
	if err != nil {
		planningError(c, "Failed to score availability", err)
		return
	}

	response.Success(c, result)
}

// ListPlans handles GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	var filter models.TripPlanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	plans, err := h.service.ListPlans(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get plans", err)
		return
	}

	response.Success(c, plans)
}

// GetPlan handles GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Param("id"))
	if err != nil {
		planningError(c, "Failed to get plan", err)
		return
	}

	response.Success(c, plan)
}

// GetPlanGeoJSON handles GET /api/v1/plans/:id/geojson
func (h *PlanHandler) GetPlanGeoJSON(c *gin.Context) {
	fc, err := h.service.PlanGeoJSON(c.Param("id"))
	if err != nil {
		planningError(c, "Failed to export plan", err)
		return
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to encode GeoJSON", err)
		return
	}

	c.Data(http.StatusOK, "application/geo+json", data)
}

// DeletePlan handles DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Param("id")); err != nil {
		planningError(c, "Failed to delete plan", err)
		return
	}

	response.Success(c, gin.H{"id": c.Param("id"), "deleted": true})
}

// planningError maps planner and service errors to HTTP status codes
func planningError(c *gin.Context, message string, err error) {
	var reqErr *planner.RequestError
	switch {
	case errors.As(err, &reqErr):
		response.Error(c, http.StatusBadRequest, reqErr.Error(), err)
	case errors.Is(err, planner.ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrPlanNotFound):
		response.Error(c, http.StatusNotFound, "Plan not found", err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
