// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lapinos/go-rabbitry-backend/internal/config"
	"github.com/lapinos/go-rabbitry-backend/internal/http/handlers"
	"github.com/lapinos/go-rabbitry-backend/internal/http/middleware"
	"github.com/lapinos/go-rabbitry-backend/internal/repo"
	"github.com/lapinos/go-rabbitry-backend/internal/services"
)

// Services bundles the business services injected into the router. A nil
// field would panic at route registration, never at request time.
type Services struct {
	Clapets  *services.ClapetService
	Femelles *services.FemelleService
	Vaccins  *services.VaccinService
	Aliments *services.AlimentService
	Cycles   *services.CycleService
	Alerts   *services.AlertService
	Settings *services.SettingService
}

// NewServices wires the full service graph on top of one Store.
func NewServices(st repo.Store) Services {
	aliments := &services.AlimentService{Store: st}
	return Services{
		Clapets:  &services.ClapetService{Store: st},
		Femelles: &services.FemelleService{Store: st},
		Vaccins:  &services.VaccinService{Store: st},
		Aliments: aliments,
		Cycles:   &services.CycleService{Store: st},
		Alerts:   &services.AlertService{Store: st, Aliments: aliments},
		Settings: &services.SettingService{Store: st},
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), rate limiting, CORS and security
// headers, health and metrics endpoints, then the versioned public API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, svcs Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := handlers.New(svcs.Clapets, svcs.Femelles, svcs.Vaccins, svcs.Aliments,
		svcs.Cycles, svcs.Alerts, svcs.Settings)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Cages
		api.GET("/clapets", h.ListClapets)
		api.POST("/clapets", h.CreateClapet)
		api.DELETE("/clapets/:id", h.DeleteClapet)

		// Does
		api.GET("/femelles", h.ListFemelles)
		api.GET("/femelles/status", h.FemelleStatuses)
		api.POST("/femelles", h.CreateFemelle)
		api.GET("/femelles/:id", h.GetFemelle)
		api.PUT("/femelles/:id", h.UpdateFemelle)
		api.PATCH("/femelles/:id/statut", h.UpdateFemelleStatut)
		api.DELETE("/femelles/:id", h.DeleteFemelle)

		// Vaccinations
		api.GET("/femelles/:id/vaccinations", h.ListVaccinations)
		api.POST("/femelles/:id/vaccinations", h.CreateVaccination)
		api.DELETE("/vaccinations/:id", h.DeleteVaccination)

		// Vaccine catalog
		api.GET("/vaccins", h.ListVaccins)
		api.POST("/vaccins", h.CreateVaccin)
		api.PUT("/vaccins/:id", h.UpdateVaccin)
		api.DELETE("/vaccins/:id", h.DeleteVaccin)

		// Feed stock
		api.GET("/aliments", h.ListAliments)
		api.POST("/aliments", h.CreateAliment)
		api.PUT("/aliments/:id", h.UpdateAliment)
		api.DELETE("/aliments/:id", h.DeleteAliment)

		// Reproduction cycles
		api.POST("/cycles", h.StartCycle)
		api.GET("/femelles/:id/cycles", h.ListCycles)
		api.POST("/cycles/:id/verification", h.VerifyGestation)
		api.POST("/cycles/:id/mise-bas", h.ConfirmBirth)
		api.POST("/cycles/:id/stop", h.StopCycle)

		// Alerts and dashboard
		api.GET("/alerts/vaccinations", h.VaccinationAlerts)
		api.GET("/alerts/aliments", h.FeedAlerts)
		api.GET("/statistics", h.Statistics)
		api.GET("/daily-check", h.DailyCheckStatus)
		api.POST("/daily-check", h.PerformDailyCheck)

		// Settings
		api.GET("/settings/:key", h.GetSetting)
		api.PUT("/settings/:key", h.PutSetting)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
