package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"carcare/internal/infra/handler"
	infraPostgres "carcare/internal/infra/postgres"
	infraRedis "carcare/internal/infra/redis"
	"carcare/internal/platform/cache"
	"carcare/internal/platform/config"
	"carcare/internal/platform/database"
	"carcare/internal/platform/logger"
	"carcare/internal/platform/metrics"
	"carcare/internal/platform/server"
	"carcare/internal/platform/telemetry"
	usecaseRecords "carcare/internal/usecase/records"
	usecaseSearch "carcare/internal/usecase/search"
	usecaseStats "carcare/internal/usecase/stats"
	usecaseVehicles "carcare/internal/usecase/vehicles"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  logger.Level(cfg.App.LogLevel),
		Format: logger.Format(cfg.App.LogFormat),
	})

	sentryEnabled, err := telemetry.InitSentry(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	if sentryEnabled {
		log = logger.WrapWithSentry(log)
		defer telemetry.Flush(2 * time.Second)
	}
	logger.SetDefault(log)

	db, err := database.New(ctx, database.Config{
		ConnectionString: cfg.Database.ConnectionString(),
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.New(cache.Config{
		Address:      cfg.Redis.Address(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}()

	tripRepo := infraPostgres.NewTripRepository(db.Pool)
	taxRepo := infraPostgres.NewTaxRepository(db.Pool)
	serviceRepo := infraPostgres.NewServiceRepository(db.Pool)
	vehicleRepo := infraPostgres.NewVehicleRepository(db.Pool)

	var searchCache usecaseSearch.ResultCache
	if cfg.App.CacheEnabled {
		searchCache = infraRedis.NewSearchCache(redisClient)
	}

	searchService := usecaseSearch.NewService(tripRepo, taxRepo, serviceRepo, searchCache, log)
	recordsService := usecaseRecords.NewService(tripRepo, taxRepo, serviceRepo, vehicleRepo, log)
	vehiclesService := usecaseVehicles.NewService(vehicleRepo)
	statsService := usecaseStats.NewService(tripRepo, taxRepo, serviceRepo)

	middlewares := []func(http.Handler) http.Handler{
		server.RequestLogger(log),
		server.Recoverer(log),
		server.CORS(cfg.App.CORSOrigins),
	}

	var prometheusHandler http.Handler
	if cfg.App.EnableMetrics {
		httpMetrics := metrics.NewHTTPMetrics()
		middlewares = append(middlewares, httpMetrics.Middleware)
		prometheusHandler = httpMetrics.Handler()
	}

	router := handler.NewRouter(handler.RouterConfig{
		SearchHandler:        handler.NewSearchHandler(searchService),
		TripHandler:          handler.NewTripHandler(recordsService),
		TaxHandler:           handler.NewTaxHandler(recordsService),
		ServiceRecordHandler: handler.NewServiceRecordHandler(recordsService),
		VehicleHandler:       handler.NewVehicleHandler(vehiclesService),
		StatsHandler:         handler.NewStatsHandler(statsService),
		HealthHandler: &handler.HealthHandler{
			DB:    db,
			Cache: redisClient,
		},
		APIBasePath: cfg.App.APIBasePath,
		Middlewares: middlewares,
		AuthMiddleware: server.BearerAuth(server.BearerAuthConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.Issuer,
			Logger: log,
		}),
		PrometheusHandler: prometheusHandler,
	})

	srv := server.New(server.Config{
		Address:      cfg.Server.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, router, log)

	return srv.ListenAndServeWithGracefulShutdown()
}
