package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/domain/user"
	"github.com/geocoder89/salescrm/internal/http/handlers"
	"github.com/geocoder89/salescrm/internal/http/middlewares"
	"github.com/geocoder89/salescrm/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type AuditRepo interface {
	handlers.AuditAppender
	handlers.AuditLister
}

type TokenService interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

// Deps is everything the router wires. Prom, Gatherer, ListStore and LoginLimiter are optional.
type Deps struct {
	Log         *slog.Logger
	Env         string
	CORSOrigins []string
	OTel        bool

	// TrustedProxies may set the client IP via X-Forwarded-For. nil trusts none.
	TrustedProxies []string

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Tokens        TokenService
	Users         handlers.UserReader
	Customers     handlers.CustomersRepo
	Activities    handlers.ActivitiesRepo
	Opportunities handlers.OpportunitiesRepo
	Audit         AuditRepo
	Stats         handlers.StatsProvider

	ListStore cache.Store
	CacheTTL  time.Duration

	Ready        map[string]handlers.Pinger
	LoginLimiter *middlewares.RateLimiter
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", "proxies", d.TrustedProxies, "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if d.OTel {
		r.Use(otelgin.Middleware("salescrm-api"))
	}
	r.Use(middlewares.RequestLogger(log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders(d.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(d.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	requireAuth := authMW.RequireAuth()
	writers := authMW.RequireRole(user.RoleAdmin, user.RoleManager, user.RoleSales)
	deleters := authMW.RequireRole(user.RoleAdmin, user.RoleManager)

	lists := handlers.NewListCache(d.ListStore, d.CacheTTL, d.Prom, log)
	auditor := handlers.NewAuditor(d.Audit, log)

	// auth
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.Prom)
	login := []gin.HandlerFunc{}
	if d.LoginLimiter != nil {
		login = append(login, d.LoginLimiter.Middleware(middlewares.KeyByIP))
	}
	login = append(login, authHandler.Login)
	r.POST("/auth/login", login...)
	r.GET("/auth/me", requireAuth, authHandler.Me)
	r.POST("/auth/logout", requireAuth, authHandler.Logout)

	api := r.Group("/", requireAuth)

	// customers
	customers := handlers.NewCustomersHandler(d.Customers, lists, auditor)
	api.GET("/customers", customers.List)
	api.GET("/customers/:id", customers.Get)
	api.POST("/customers", writers, customers.Create)
	api.PUT("/customers/:id", writers, customers.Update)
	api.DELETE("/customers/:id", deleters, customers.Delete)

	// sales activities
	activities := handlers.NewActivitiesHandler(d.Activities, lists, auditor)
	api.GET("/sales-activities/tasks", activities.ListTasks)
	api.POST("/sales-activities/tasks", writers, activities.CreateTask)
	api.PATCH("/sales-activities/tasks/:id/status", writers, activities.UpdateTaskStatus)
	api.GET("/sales-activities/meetings", activities.ListMeetings)
	api.POST("/sales-activities/meetings", writers, activities.CreateMeeting)

	// opportunities
	opportunities := handlers.NewOpportunitiesHandler(d.Opportunities, lists, auditor)
	api.GET("/opportunities", opportunities.List)
	api.POST("/opportunities", writers, opportunities.Create)
	api.PATCH("/opportunities/:id/stage", writers, opportunities.UpdateStage)

	// analytics
	analytics := handlers.NewAnalyticsHandler(d.Stats)
	api.GET("/analytics/dashboard", analytics.Dashboard)

	// audit trail
	auditHandler := handlers.NewAuditHandler(d.Audit)
	api.GET("/audit", authMW.RequireRole(user.RoleCompliance), auditHandler.List)

	return r
}
