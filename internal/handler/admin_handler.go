package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/citycycle/tripdata-backend-go/internal/middleware"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/service"
	"github.com/citycycle/tripdata-backend-go/pkg/response"
)

// AdminHandler handles authenticated pipeline operations
type AdminHandler struct {
	importService    *service.ImportService
	aggregateService *service.AggregateService
	regionService    *service.RegionService
	jwtSecret        string
	adminKey         string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	importService *service.ImportService,
	aggregateService *service.AggregateService,
	regionService *service.RegionService,
	jwtSecret, adminKey string,
) *AdminHandler {
	return &AdminHandler{
		importService:    importService,
		aggregateService: aggregateService,
		regionService:    regionService,
		jwtSecret:        jwtSecret,
		adminKey:         adminKey,
	}
}

// Token handles POST /api/v1/auth/token
func (h *AdminHandler) Token(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "key is required")
		return
	}
	if req.Key != h.adminKey {
		response.Unauthorized(c, "invalid key")
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"token": token, "expiresIn": int(middleware.TokenTTL.Seconds())})
}

// Import handles POST /api/v1/admin/import
func (h *AdminHandler) Import(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
		Dir  string `json:"dir"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Path == "" && req.Dir == "") {
		response.BadRequest(c, "path or dir is required")
		return
	}

	var err error
	var stats interface{}
	if req.Path != "" {
		stats, err = h.importService.ImportFile(req.Path)
	} else {
		stats, err = h.importService.ImportDir(req.Dir)
	}
	if err != nil {
		if pipeline.IsConfiguration(err) {
			response.BadRequest(c, err.Error())
			return
		}
		// Partial progress is preserved; report counts with the error
		c.JSON(500, gin.H{"code": 500, "message": err.Error(), "data": stats})
		return
	}

	response.Success(c, stats)
}

// Aggregate handles POST /api/v1/admin/aggregate
func (h *AdminHandler) Aggregate(c *gin.Context) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	// Body is optional; absent means watermark mode
	_ = c.ShouldBindJSON(&req)

	var err error
	var result interface{}
	if req.From != "" || req.To != "" {
		result, err = h.aggregateService.AggregateWindow(req.From, req.To)
	} else {
		result, err = h.aggregateService.Aggregate()
	}
	if err != nil {
		if pipeline.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// Sweep handles POST /api/v1/admin/sweep
func (h *AdminHandler) Sweep(c *gin.Context) {
	result, err := h.regionService.Sweep(0)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}
