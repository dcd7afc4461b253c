package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/salescrm/internal/analytics"
	"github.com/geocoder89/salescrm/internal/auth"
	"github.com/geocoder89/salescrm/internal/cache"
	"github.com/geocoder89/salescrm/internal/config"
	"github.com/geocoder89/salescrm/internal/db"
	httpx "github.com/geocoder89/salescrm/internal/http"
	"github.com/geocoder89/salescrm/internal/http/handlers"
	"github.com/geocoder89/salescrm/internal/http/middlewares"
	"github.com/geocoder89/salescrm/internal/observability"
	"github.com/geocoder89/salescrm/internal/redisclient"
	"github.com/geocoder89/salescrm/internal/repo/memory"
	"github.com/geocoder89/salescrm/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type customersStore interface {
	handlers.CustomersRepo
	Count(ctx context.Context) (int, error)
}

type activitiesStore interface {
	handlers.ActivitiesRepo
	CountTasks(ctx context.Context) (int, error)
	CountMeetings(ctx context.Context) (int, error)
}

type opportunitiesStore interface {
	handlers.OpportunitiesRepo
	Count(ctx context.Context) (int, error)
}

// storage is the set of repositories the router needs, whichever backend provides them.
type storage struct {
	users         handlers.UserReader
	seeder        db.UserSeeder
	customers     customersStore
	activities    activitiesStore
	opportunities opportunitiesStore
	audit         httpx.AuditRepo
	close         func()
}

func openStorage(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (storage, handlers.Pinger, error) {
	switch cfg.Storage {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		s := memory.NewSeededStore()
		return storage{
			users:         s,
			seeder:        s,
			customers:     s.Customers(),
			activities:    s,
			opportunities: s.Opportunities(),
			audit:         s.Audit(),
			close:         func() {},
		}, nil, nil

	case "postgres":
		if cfg.RunMigration {
			if err := db.RunMigrations(cfg.DBURL); err != nil {
				return storage{}, nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
		}

		pool, err := db.NewPool(ctx, cfg.DBURL, db.PoolOptions{
			MaxConns:        int32(cfg.DBMaxConns),
			MaxConnIdleTime: 5 * time.Minute,
		})
		if err != nil {
			return storage{}, nil, err
		}

		users := postgres.NewUsersRepo(pool, prom)
		return storage{
			users:         users,
			seeder:        users,
			customers:     postgres.NewCustomersRepo(pool, prom),
			activities:    postgres.NewActivitiesRepo(pool, prom),
			opportunities: postgres.NewOpportunitiesRepo(pool, prom),
			audit:         postgres.NewAuditRepo(pool, prom),
			close:         pool.Close,
		}, pool, nil

	default:
		return storage{}, nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
}

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger("salescrm-api", cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "salescrm-api",
			Endpoint:    cfg.OTelEndpoint,
			Env:         cfg.Env,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			log.Error("otel init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, dbPinger, err := openStorage(ctx, cfg, prom, log)
	if err != nil {
		log.Error("storage init failed", "err", err)
		os.Exit(1)
	}
	defer store.close()

	ready := map[string]handlers.Pinger{}
	if dbPinger != nil {
		ready["postgres"] = dbPinger
	}

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	if err := db.EnsureUsers(seedCtx, store.seeder, cfg); err != nil {
		cancelSeed()
		log.Error("seed users failed", "err", err)
		os.Exit(1)
	}
	cancelSeed()

	// redis when configured, otherwise a per-process cache
	var listStore cache.Store = cache.New(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc, err := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Error("redis config invalid", "err", err)
			os.Exit(1)
		}
		defer rc.Close()

		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis ping failed, continuing", "addr", cfg.RedisAddr, "err", err)
		}

		listStore = cache.NewRedis(rc.Raw(), "salescrm:", cfg.CacheTTL)
		ready["redis"] = rc
	}

	stats := analytics.NewService(analytics.Sources{
		Customers:     store.customers.Count,
		Tasks:         store.activities.CountTasks,
		Opportunities: store.opportunities.Count,
		Meetings:      store.activities.CountMeetings,
	}, listStore, cfg.CacheTTL, prom, log)

	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-t.C:
				loginLimiter.Sweep(now)
			}
		}
	}()

	// set up routers with the log
	router := httpx.NewRouter(httpx.Deps{
		Log:            log,
		Env:            cfg.Env,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		OTel:           cfg.OTelEnabled,
		Prom:           prom,
		Gatherer:       reg,
		Tokens:         auth.NewManager(cfg.JWTSecret, cfg.AccessTTL()),
		Users:          store.users,
		Customers:      store.customers,
		Activities:     store.activities,
		Opportunities:  store.opportunities,
		Audit:          store.audit,
		Stats:          stats,
		ListStore:      listStore,
		CacheTTL:       cfg.CacheTTL,
		Ready:          ready,
		LoginLimiter:   loginLimiter,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return
	}
	log.Info("shutdown complete")
}
