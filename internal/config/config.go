package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	Environment string

	// eBird 实时观测数据
	EBirdAPIKey         string
	EBirdBaseURL        string
	ObservationTimeout  time.Duration
	ObservationCacheTTL time.Duration

	// Redis 缓存（为空时使用进程内缓存）
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 路线规划参数
	MaxRouteStops    int
	DefaultMaxStops  int
	MultiDayRadiusKm float64

	RateLimit int // 每分钟请求数
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", ":8080"),
		DBPath:      getEnv("DB_PATH", "./data/birding.db"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Environment: getEnv("ENVIRONMENT", "development"),

		EBirdAPIKey:         getEnv("EBIRD_API_KEY", ""),
		EBirdBaseURL:        getEnv("EBIRD_BASE_URL", "https://api.ebird.org/v2"),
		ObservationTimeout:  getEnvDuration("OBSERVATION_TIMEOUT", 3*time.Second),
		ObservationCacheTTL: getEnvDuration("OBSERVATION_CACHE_TTL", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MaxRouteStops:    getEnvInt("MAX_ROUTE_STOPS", 5),
		DefaultMaxStops:  getEnvInt("DEFAULT_MAX_STOPS", 3),
		MultiDayRadiusKm: getEnvFloat("MULTI_DAY_RADIUS_KM", 100),

		RateLimit: getEnvInt("RATE_LIMIT", 60),
	}
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LiveDataEnabled 是否配置了 eBird API key
func (c *Config) LiveDataEnabled() bool {
	return c.EBirdAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
