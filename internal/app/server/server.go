package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"opsboard/internal/domain/attendance"
	"opsboard/internal/domain/currency"
	"opsboard/internal/domain/reports"
	"opsboard/internal/domain/sales"
	"opsboard/internal/platform/config"
	"opsboard/internal/platform/db"
	"opsboard/internal/platform/db/seed"
	"opsboard/internal/platform/jobs"
	"opsboard/internal/platform/metrics"
	"opsboard/internal/transport/http/api"
	attendancehandler "opsboard/internal/transport/http/handlers/attendance"
	currencyhandler "opsboard/internal/transport/http/handlers/currency"
	reportshandler "opsboard/internal/transport/http/handlers/reports"
	saleshandler "opsboard/internal/transport/http/handlers/sales"
	"opsboard/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler

	jobs *jobs.Runner
}

// New connects, migrates, seeds and wires every handler. The returned App is
// ready to serve; Close releases the pool and stops background jobs.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := seed.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	base, err := currency.Parse(cfg.BaseCurrency)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var fetcher *currency.Fetcher
	if cfg.RatesProviderURL != "" {
		fetcher = currency.NewFetcher(cfg.RatesProviderURL, base, cfg.RatesFetchTimeout)
	}
	ratesService := currency.NewService(currency.NewStore(pool), fetcher, base)

	attendanceStore := attendance.NewStore(pool)
	attendanceService := attendance.NewService(attendanceStore)
	salesService := sales.NewService(sales.NewStore(pool), ratesService)
	reportsService := reports.NewService(attendanceStore)

	runner := jobs.New(pool)
	if fetcher != nil {
		if err := runner.Start(ctx, cfg.RatesRefreshSpec, jobs.JobRatesRefresh, func(ctx context.Context) (any, error) {
			return ratesService.Refresh(ctx)
		}); err != nil {
			pool.Close()
			return nil, err
		}
	} else {
		if err := runner.Start(ctx, "", "", nil); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		attendancehandler.NewHandler(attendanceService).RegisterRoutes(r)
		currencyhandler.NewHandler(ratesService).RegisterRoutes(r)
		saleshandler.NewHandler(salesService, base).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				requestID := middleware.GetRequestID(req.Context())
				api.Success(w, collector.Snapshot(), requestID)
			})
		}
	})

	return &App{
		Config: cfg,
		Pool:   pool,
		Router: router,
		jobs:   runner,
	}, nil
}

func (a *App) Run() error {
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	a.jobs.Stop()
	a.Pool.Close()
}
