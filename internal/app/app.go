package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/teamdeck/console/cmd/server/docs" // swagger docs
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/shared/telemetry"
	"github.com/teamdeck/console/internal/utils/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App represents the application.
type App struct {
	config  *config.Config
	deps    *Dependencies
	cleanup func()
	tracing telemetry.Shutdown
	router  *gin.Engine
	handler http.Handler
	zapLog  *zap.Logger
	stop    sync.Once
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	tracing, err := telemetry.Setup(context.Background(), cfg.Telemetry, deps.ZapLogger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	a := &App{
		config:  cfg,
		deps:    deps,
		cleanup: cleanup,
		tracing: tracing,
		zapLog:  deps.ZapLogger,
	}
	a.router = a.setupRouter()
	a.registerRoutes()
	a.handler = a.router
	if cfg.Telemetry.Enabled {
		a.handler = otelhttp.NewHandler(a.router, cfg.Telemetry.ServiceName)
	}

	a.zapLog.Info("application initialized",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("store", deps.Stores.Driver),
	)
	return a, nil
}

// setupRouter configures the Gin router with global middleware.
func (a *App) setupRouter() *gin.Engine {
	switch a.config.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(a.config.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	cors := middleware.DefaultCORSConfig(a.config.CORS.AllowOrigins)
	if a.config.CORS.MaxAge > 0 {
		cors.MaxAge = a.config.CORS.MaxAge
	}

	// Apply global middleware
	r.Use(middleware.Recovery(a.deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.deps.Logger))
	r.Use(middleware.CORS(cors))
	if a.deps.Metrics != nil {
		r.Use(middleware.Metrics(a.deps.Metrics))
	}
	r.Use(middleware.Credentials())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if a.deps.Metrics != nil {
		path := a.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes mounts the console API. Auth screens and the session probe
// are public; everything else requires a resolved session.
func (a *App) registerRoutes() {
	ports := a.deps.Ports
	api := a.router.Group("/api")

	requireSession := middleware.RequireSession(a.deps.Resolver, a.config.Auth.LoginPath)
	ports.Session.RegisterRoutes(api, requireSession)

	submit := middleware.RateLimitByIP(a.deps.Stores.RateLimiter, a.config.Auth.RateLimit, a.config.Auth.RateLimitWindow)
	ports.AuthFlow.RegisterRoutes(api, submit)

	protected := api.Group("", requireSession)
	ports.Team.RegisterRoutes(protected)
	ports.Inbox.RegisterRoutes(protected)
	ports.Account.RegisterRoutes(protected)
	ports.Feedback.RegisterRoutes(protected)
	ports.Dashboard.RegisterRoutes(protected)
}

// Router returns the Gin router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Handler returns the root HTTP handler, traced when telemetry is enabled.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Stop waits for background inbox work, flushes traces and releases
// connections. It is safe to call more than once.
func (a *App) Stop(ctx context.Context) {
	a.stop.Do(func() {
		a.deps.Inbox.Wait()
		if err := a.tracing(ctx); err != nil {
			a.zapLog.Warn("shutdown telemetry", zap.Error(err))
		}
		a.cleanup()
		_ = a.zapLog.Sync()
	})
}
