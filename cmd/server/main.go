package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/birding-planner-go/internal/api"
	"github.com/jengzang/birding-planner-go/internal/config"
	"github.com/jengzang/birding-planner-go/internal/database"
	"github.com/jengzang/birding-planner-go/internal/handler"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/repository"
	"github.com/jengzang/birding-planner-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 加载参考数据
	referenceRepo := repository.NewReferenceRepository(db)
	catalog, err := service.LoadCatalog(referenceRepo)
	if err != nil {
		log.Fatal("Failed to load reference data:", err)
	}
	catalogs := reference.NewHolder(catalog)

	// 实时观测数据源
	source := newObservationSource(cfg)

	// 初始化服务与处理器
	settings := service.PlannerSettings(cfg)
	planRepo := repository.NewPlanRepository(db)
	planningService := service.NewPlanningService(catalogs, source, settings, planRepo)
	referenceService := service.NewReferenceService(catalogs, referenceRepo)

	router := api.SetupRouter(cfg, api.Handlers{
		Plans:     handler.NewPlanHandler(planningService),
		Reference: handler.NewReferenceHandler(referenceService),
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

// newObservationSource 根据配置选择 eBird + 缓存，或不可用数据源
func newObservationSource(cfg *config.Config) observation.Source {
	if !cfg.LiveDataEnabled() {
		log.Printf("[observation] EBIRD_API_KEY not set, live data disabled")
		return observation.Unavailable{}
	}

	client := observation.NewEBirdClient(observation.EBirdConfig{
		BaseURL: cfg.EBirdBaseURL,
		APIKey:  cfg.EBirdAPIKey,
		Timeout: cfg.ObservationTimeout,
	})

	var cache observation.Cache = observation.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb, err := observation.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("[observation] redis unavailable, using in-process cache: %v", err)
		} else {
			cache = observation.NewRedisCache(rdb, "birding:obs:")
		}
	}

	return observation.NewCachedSource(client, cache, cfg.ObservationCacheTTL)
}
