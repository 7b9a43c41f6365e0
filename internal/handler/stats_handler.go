package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/service"
	"github.com/citycycle/tripdata-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for daily usage statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStationDays handles GET /api/v1/stats/daily
func (h *StatsHandler) GetStationDays(c *gin.Context) {
	var filter models.StationDayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	days, err := h.statsService.GetStationDays(filter)
	if err != nil {
		if pipeline.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	if days == nil {
		days = []models.StationDay{}
	}

	response.Success(c, days)
}

// GetDailySummary handles GET /api/v1/stats/summary
func (h *StatsHandler) GetDailySummary(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	summary, err := h.statsService.GetDailySummary(c.Query("from"), c.Query("to"), limit)
	if err != nil {
		if pipeline.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	if summary == nil {
		summary = []models.DailySummary{}
	}

	response.Success(c, summary)
}

// GetRuns handles GET /api/v1/stats/runs
func (h *StatsHandler) GetRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.statsService.GetRuns(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if runs == nil {
		runs = []models.ImportRun{}
	}

	response.Success(c, runs)
}
