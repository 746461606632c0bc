package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/milescape/server/internal/auth"
	"github.com/milescape/server/internal/config"
	"github.com/milescape/server/internal/http/handlers"
	"github.com/milescape/server/internal/http/middlewares"
	"github.com/milescape/server/internal/observability"
	"github.com/milescape/server/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, prom *observability.Prom, promReg *prometheus.Registry, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("milescape"))
	r.Use(prom.HTTPMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", handlers.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// wire up repositories
	marathonsRepo := postgres.NewMarathonsRepo(pool, prom)
	upcomingRepo := postgres.NewUpcomingMarathonsRepo(pool, prom)
	registrationsRepo := postgres.NewRegistrationsRepo(pool, prom)

	// handlers and the auth gate
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager)
	requireAuth := authMiddleware.RequireAuth()

	authHandler := handlers.NewAuthHandler(jwtManager, cfg)
	marathonsHandler := handlers.NewMarathonsHandler(marathonsRepo)
	upcomingHandler := handlers.NewUpcomingMarathonsHandler(upcomingRepo)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsRepo, marathonsRepo)

	// token issuance gets a tighter limiter than the rest of the API
	tokenLimiter := middlewares.NewRateLimiter(20, time.Minute)

	r.POST("/jwt", tokenLimiter.Middleware(middlewares.KeyByIP), authHandler.IssueToken)
	r.GET("/logout", authHandler.Logout)

	// marathon routes
	r.POST("/marathons", marathonsHandler.Create)
	r.GET("/allMarathons", marathonsHandler.ListAll)
	r.GET("/marathons", marathonsHandler.ListFeatured)
	r.GET("/upcomingMarathons", upcomingHandler.List)
	r.GET("/marathons/:id", requireAuth, marathonsHandler.GetByID)
	r.GET("/myMarathons", requireAuth, marathonsHandler.ListMine)
	r.PUT("/myMarathons/:id", requireAuth, marathonsHandler.Update)
	r.DELETE("/myMarathons/:id", requireAuth, marathonsHandler.Delete)

	// registration routes
	r.POST("/marathon-registrations", registrationsHandler.Create)
	r.GET("/marathon-registrations", requireAuth, registrationsHandler.List)
	r.GET("/marathon-registrations/:id", requireAuth, registrationsHandler.GetByID)
	r.PUT("/marathon-registrations/:id", requireAuth, registrationsHandler.Update)
	r.DELETE("/marathon-registrations/:id", requireAuth, registrationsHandler.Delete)

	return r
}
