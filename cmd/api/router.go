package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wallspace/internal/config"
	"wallspace/internal/middleware"
	"wallspace/internal/modules/availability"
	"wallspace/internal/modules/catalog"
	"wallspace/internal/modules/notification"
	"wallspace/internal/modules/reservation"
	jwtsvc "wallspace/internal/pkg/jwt"
	"wallspace/internal/pkg/lock"
	"wallspace/internal/pkg/logger"
	"wallspace/internal/pkg/metrics"
	"wallspace/internal/repository"
)

func newRouter(cfg *config.Config, db *gorm.DB, locker lock.Locker, reg *prometheus.Registry) *gin.Engine {
	m := metrics.NewWithRegistry(reg)

	store := repository.NewStore(db)
	guard := lock.NewGuard(locker, m)

	var publisher notification.Publisher
	if cfg.RabbitMQURL != "" {
		publisher = notification.NewAMQPPublisher(cfg.RabbitMQURL, cfg.NotificationQueue)
		logger.Info("publishing reservation events", zap.String("queue", cfg.NotificationQueue))
	}
	notificationService := notification.NewService(repository.NewNotificationRepository(db), publisher, m)

	reservationService := reservation.NewService(store, guard, notificationService, reservation.Options{
		Policy:  cfg.CapacityPolicy,
		Timeout: cfg.OperationTimeout,
		Now:     cfg.Now,
		Metrics: m,
	})
	availabilityService := availability.NewService(store, availability.Options{
		Policy:  cfg.CapacityPolicy,
		Timeout: cfg.OperationTimeout,
		Now:     cfg.Now,
	})
	catalogService := catalog.NewService(store, guard, cfg.OperationTimeout)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.RequestLogger(),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	var bookingLimit gin.HandlerFunc
	if cfg.RateLimitPerMinute > 0 {
		bookingLimit = middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).Middleware()
	}

	v1 := r.Group("/api/v1")
	{
		// public
		availability.NewHandler(availabilityService).RegisterRoutes(v1)

		// protected
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))

		catalog.NewHandler(catalogService).RegisterRoutes(v1, protected)
		reservation.NewHandler(reservationService).RegisterRoutes(protected, bookingLimit)
		notification.NewHandler(notificationService).RegisterRoutes(protected)
	}
	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
