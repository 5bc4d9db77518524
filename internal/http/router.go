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

	"github.com/yatrafest/reghub/internal/auth"
	"github.com/yatrafest/reghub/internal/cache"
	"github.com/yatrafest/reghub/internal/config"
	"github.com/yatrafest/reghub/internal/http/handlers"
	"github.com/yatrafest/reghub/internal/http/middlewares"
	"github.com/yatrafest/reghub/internal/notifications"
	"github.com/yatrafest/reghub/internal/observability"
	"github.com/yatrafest/reghub/internal/policy"
	"github.com/yatrafest/reghub/internal/pricing"
	"github.com/yatrafest/reghub/internal/redisclient"
	"github.com/yatrafest/reghub/internal/repo/postgres"
)

func NewRouter(
	cfg config.Config,
	log *slog.Logger,
	pool *pgxpool.Pool,
	rds *redisclient.Client,
	prom *observability.Prom,
	promReg *prometheus.Registry,
	dispatcher *notifications.Dispatcher,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("reghub-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	// health

	pingDB := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	var pingRedis func() error
	if rds != nil {
		pingRedis = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return rds.Ping(ctx)
		}
	}

	healthHandler := handlers.NewHealthHandler(pingDB, pingRedis)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// wire up repositories

	registrationsRepo := postgres.NewRegistrationsRepo(pool, prom)
	usersRepo := postgres.NewUsersRepo(pool)

	inst := policy.Institution{
		Name:        cfg.InstitutionName,
		Aliases:     cfg.InstitutionAliases,
		Substrings:  cfg.InstitutionSubstrings,
		Domain:      cfg.InstitutionDomain,
		Departments: cfg.InstitutionDepartments,
	}

	prices := pricing.Prices{
		Standard:      cfg.StandardPrice,
		EarlyBird:     cfg.EarlyBirdPrice,
		Institutional: cfg.InstitutionalPrice,
	}

	evaluator := pricing.NewEvaluator(inst, prices, cfg.EarlyBirdDeadline, nil)

	var guard handlers.EmailGuard
	if rds != nil {
		guard = rds
	}

	var confirmations handlers.ConfirmationDispatcher
	if dispatcher != nil {
		confirmations = dispatcher
	}

	registrationHandler := handlers.NewRegistrationHandler(registrationsRepo, guard, confirmations, evaluator, inst)
	ticketsHandler := handlers.NewTicketsHandler(evaluator, prices, cfg.EarlyBirdDeadline)
	statsHandler := handlers.NewStatsHandler(registrationsRepo, cache.New(30*time.Second))

	// the registration POST is the one abuse-prone public write
	limiter := middlewares.NewRateLimiter(10, time.Minute)

	r.POST("/registrations",
		middlewares.RequireJSON(),
		limiter.RateLimiterMiddleware(middlewares.KeyByIP),
		registrationHandler.Register,
	)

	r.GET("/tickets", ticketsHandler.Catalog)
	r.GET("/tickets/quote", ticketsHandler.Quote)
	r.GET("/stats", statsHandler.Stats)

	// organizer surface

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)

	loginLimiter := middlewares.NewRateLimiter(5, time.Minute)

	r.POST("/auth/login",
		middlewares.RequireJSON(),
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		authHandler.Login,
	)

	authMW := middlewares.NewAuthMiddleware(jwtManager)
	adminHandler := handlers.NewAdminRegistrationsHandler(registrationsRepo)

	admin := r.Group("/admin", authMW.RequireAuth(), authMW.RequireRole("admin"))
	admin.GET("/registrations", adminHandler.List)
	admin.GET("/registrations/export", adminHandler.Export)

	return r
}
