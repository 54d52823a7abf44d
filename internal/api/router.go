package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/birding-planner-go/internal/config"
	"github.com/jengzang/birding-planner-go/internal/handler"
	"github.com/jengzang/birding-planner-go/internal/middleware"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Plans     *handler.PlanHandler
	Reference *handler.ReferenceHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "Birding Planner API is running",
			"live_data": cfg.LiveDataEnabled(),
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	{
		// 行程规划接口
		plans := api.Group("/plans")
		{
			plans.POST("/route", h.Plans.PlanRoute)
			plans.POST("/multi-day", h.Plans.PlanMultiDay)
			plans.POST("/success", h.Plans.EstimateSuccess)
			plans.GET("", h.Plans.ListPlans)
			plans.GET("/:id", h.Plans.GetPlan)
			plans.GET("/:id/geojson", h.Plans.GetPlanGeoJSON)
			plans.DELETE("/:id", middleware.Auth(cfg.JWTSecret), h.Plans.DeletePlan)
		}

		// 鸟种分级与可见度接口
		api.POST("/species/classify", h.Plans.Classify)
		api.GET("/availability", h.Plans.Availability)

		// 参考数据接口
		api.GET("/species", h.Reference.GetSpecies)
		api.GET("/locations", h.Reference.GetLocations)
		api.GET("/locations/:name", h.Reference.GetLocation)

		// 管理接口
		admin := api.Group("/admin", middleware.Auth(cfg.JWTSecret))
		{
			admin.POST("/reference/reload", h.Reference.Reload)
		}
	}

	return r
}
