package app

import (
	"net/http"

	"github.com/kscudds/Employee/internal/config"
	"github.com/kscudds/Employee/internal/employee"
	"github.com/kscudds/Employee/internal/middleware"
	"github.com/kscudds/Employee/internal/shared/antiforgery"
	"github.com/kscudds/Employee/internal/shared/apperror"
	"github.com/kscudds/Employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(router *gin.Engine, a *App, cfg *config.Config) {
	// --- Observability ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewHTTPMetrics(registry)

	router.Use(
		middleware.ContextLogger(a.logger),
		metrics.Middleware(),
	)

	// --- Employee Module ---
	var publisher employee.EventPublisher
	if a.Writer != nil {
		publisher = employee.NewKafkaEventPublisher(a.Writer, cfg.Kafka.Topic)
	}
	tokens := antiforgery.NewManager(cfg.AntiForgery.Secret, cfg.AntiForgery.TTL, cfg.IsProduction())

	employeeRepo := employee.NewRepository(a.DB)
	employeeService := employee.NewService(employeeRepo, a.Redis, publisher)
	employeeHandler := employee.NewHandler(employeeService, tokens)

	// --- Routes Registration ---
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, employee.BasePath)
	})
	router.GET("/healthz", healthHandler(a))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.NoRoute(func(c *gin.Context) {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
	})

	employee.RegisterRoutes(
		&router.RouterGroup,
		employeeHandler,
		tokens,
		rate.Limit(cfg.RateLimit.RPS),
		cfg.RateLimit.Burst,
		a.Redis,
	)
}

func healthHandler(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := a.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			a.logger.Warn("health check database ping failed", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "database unavailable", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
