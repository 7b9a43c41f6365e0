package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citycycle/tripdata-backend-go/internal/service"
	"github.com/citycycle/tripdata-backend-go/pkg/response"
)

// RegionHandler handles HTTP requests for regions
type RegionHandler struct {
	regionService *service.RegionService
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regionService *service.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// List handles GET /api/v1/regions
func (h *RegionHandler) List(c *gin.Context) {
	regions, err := h.regionService.List()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, regions)
}

// Get handles GET /api/v1/regions/:id
func (h *RegionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid region id")
		return
	}

	region, err := h.regionService.Get(id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if region == nil {
		response.NotFound(c, "Region not found")
		return
	}

	response.Success(c, region)
}

// Classify handles GET /api/v1/regions/classify?lat=..&lon=..
func (h *RegionHandler) Classify(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lon parameter")
		return
	}

	region, err := h.regionService.Classify(lat, lon)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if region == nil {
		response.Success(c, gin.H{"classified": false})
		return
	}

	response.Success(c, gin.H{"classified": true, "region": region})
}
