package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/birding-planner-go/internal/service"
	"github.com/jengzang/birding-planner-go/pkg/response"
)

// ReferenceHandler handles HTTP requests for species and locations
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(service *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// GetSpecies handles GET /api/v1/species
func (h *ReferenceHandler) GetSpecies(c *gin.Context) {
	response.Success(c, h.service.Species())
}

// GetLocations handles GET /api/v1/locations
func (h *ReferenceHandler) GetLocations(c *gin.Context) {
	response.Success(c, h.service.Locations())
}

// GetLocation handles GET /api/v1/locations/:name
func (h *ReferenceHandler) GetLocation(c *gin.Context) {
	loc, ok := h.service.Location(c.Param("name"))
	if !ok {
		response.Error(c, http.StatusNotFound, "Location not found", nil)
		return
	}

	response.Success(c, loc)
}

// Reload handles POST /api/v1/admin/reference/reload
func (h *ReferenceHandler) Reload(c *gin.Context) {
	catalog, err := h.service.Reload()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to reload reference data", err)
		return
	}

	response.Success(c, gin.H{
		"species":   catalog.SpeciesCount(),
		"locations": catalog.LocationCount(),
	})
}
