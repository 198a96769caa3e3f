package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/code-100-precent/LingSync/cmd/bootstrap"
	handlers "github.com/code-100-precent/LingSync/internal/handler"
	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/code-100-precent/LingSync/pkg/config"
	"github.com/code-100-precent/LingSync/pkg/constants"
	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/metrics"
	"github.com/code-100-precent/LingSync/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LingSyncApp struct {
	db       *gorm.DB
	handlers *handlers.Handlers
}

func NewLingSyncApp(db *gorm.DB) *LingSyncApp {
	el := config.GlobalConfig.ElevenLabs
	client := elevenlabs.NewClient(elevenlabs.Config{
		APIKey:   el.APIKey,
		BaseURL:  el.BaseURL,
		Timeout:  el.Timeout,
		PageSize: el.PageSize,
	})
	engine := reconcile.NewEngine(db, client)

	return &LingSyncApp{
		db:       db,
		handlers: handlers.NewHandlers(db, engine),
	}
}

func (app *LingSyncApp) RegisterRoutes(r *gin.Engine) {
	app.handlers.Register(r)
}

func main() {
	// 1. Parse Command Line Parameters
	mode := flag.String("mode", "", "running environment (development, test, production)")
	initSQL := flag.String("init-sql", "", "path to database init .sql script (optional)")
	flag.Parse()

	// 2. Set Environment Variables
	if *mode != "" {
		os.Setenv(constants.ENV_APP_ENV, *mode)
	}

	// 3. Load Global Configuration
	if err := config.Load(); err != nil {
		panic("config load failed: " + err.Error())
	}

	// 4. Load Log Configuration
	err := logger.Init(&config.GlobalConfig.Log, config.GlobalConfig.Mode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 5. Load Data Source
	db, err := bootstrap.SetupDatabase(os.Stdout, &bootstrap.Options{
		InitSQLPath: *initSQL,
		AutoMigrate: config.GlobalConfig.AutoMigrate,
		SeedNonProd: true,
	})
	if err != nil {
		logger.Error("database setup failed", zap.Error(err))
		return
	}

	addr := config.GlobalConfig.Addr
	logger.Info("checked config -- addr: ", zap.String("addr", addr))
	logger.Info("checked config -- db-driver: ", zap.String("db-driver", config.GlobalConfig.DBDriver))
	logger.Info("checked config -- mode: ", zap.String("mode", config.GlobalConfig.Mode))
	if !config.GlobalConfig.ElevenLabs.Configured() {
		logger.Warn("ELEVENLABS_API_KEY is not set, provider calls will be rejected upstream")
	}

	// 6. New App
	app := NewLingSyncApp(db)

	// 7. Initialize Gin Routing
	if config.GlobalConfig.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Disable automatic redirects to avoid CORS issues caused by 307 redirects
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	// 8. use middleware
	if config.GlobalConfig.MetricsEnabled {
		r.Use(metrics.MonitorMiddleware(metrics.NewMetrics()))
	}
	r.Use(middleware.CorsMiddleware(config.GlobalConfig.CorsAllowedOrigins...))
	r.Use(middleware.LoggerMiddleware(zap.L()))

	limiterConfig := middleware.DefaultRateLimiterConfig()
	limiterConfig.Rate = config.GlobalConfig.RateLimit
	limiterConfig.PerRouteRates = map[string]string{
		// every hit on these fans out to the provider
		config.GlobalConfig.APIPrefix + "/elevenlabs": "120-M",
	}
	if redisCfg := config.GlobalConfig.RateLimitRedis; redisCfg.Addr != "" {
		store, err := middleware.NewRedisStore(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err != nil {
			logger.Warn("redis rate limit store unavailable, falling back to memory", zap.String("addr", redisCfg.Addr), zap.Error(err))
		} else {
			limiterConfig.Store = store
		}
	}
	rateLimiter, err := middleware.RateLimiterMiddleware(limiterConfig)
	if err != nil {
		logger.Error("invalid rate limit", zap.String("rate", limiterConfig.Rate), zap.Error(err))
		return
	}
	r.Use(rateLimiter)

	// 9. Register Routes
	app.RegisterRoutes(r)

	// 10. Start HTTP Server
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server run failed", zap.Error(err))
	}
}
