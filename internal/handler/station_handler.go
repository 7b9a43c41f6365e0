package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/service"
	"github.com/citycycle/tripdata-backend-go/pkg/response"
)

// StationHandler handles HTTP requests for stations
type StationHandler struct {
	stationService *service.StationService
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationService *service.StationService) *StationHandler {
	return &StationHandler{stationService: stationService}
}

// List handles GET /api/v1/stations
func (h *StationHandler) List(c *gin.Context) {
	var filter models.StationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}
	if filter.RadiusM > 0 && (filter.NearLat == 0 || filter.NearLon == 0) {
		response.BadRequest(c, "radiusM requires nearLat and nearLon")
		return
	}

	stations, total, err := h.stationService.List(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 100
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	response.Success(c, models.StationsResponse{
		Data:       stations,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Get handles GET /api/v1/stations/:stationId
func (h *StationHandler) Get(c *gin.Context) {
	station, err := h.stationService.Get(c.Param("stationId"))
	if err != nil {
		if pipeline.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	if station == nil {
		response.NotFound(c, "Station not found")
		return
	}

	response.Success(c, station)
}
