package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/citycycle/tripdata-backend-go/internal/config"
	"github.com/citycycle/tripdata-backend-go/internal/handler"
	"github.com/citycycle/tripdata-backend-go/internal/middleware"
)

// Handlers groups everything the router wires up
type Handlers struct {
	Stations *handler.StationHandler
	Regions  *handler.RegionHandler
	Stats    *handler.StatsHandler
	Admin    *handler.AdminHandler
}

// SetupRouter builds the HTTP routing tree
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trip Data Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		stations := api.Group("/stations")
		{
			stations.GET("", h.Stations.List)
			stations.GET("/:stationId", h.Stations.Get)
		}

		regions := api.Group("/regions")
		{
			regions.GET("", h.Regions.List)
			regions.GET("/classify", h.Regions.Classify)
			regions.GET("/:id", h.Regions.Get)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/daily", h.Stats.GetStationDays)
			stats.GET("/summary", h.Stats.GetDailySummary)
			stats.GET("/runs", h.Stats.GetRuns)
		}

		api.POST("/auth/token", h.Admin.Token)

		admin := api.Group("/admin")
		admin.Use(middleware.Auth(cfg.JWTSecret))
		{
			admin.POST("/import", h.Admin.Import)
			admin.POST("/aggregate", h.Admin.Aggregate)
			admin.POST("/sweep", h.Admin.Sweep)
		}
	}

	return r
}
