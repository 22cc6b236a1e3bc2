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

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"restaurantmap/cache"
	"restaurantmap/config"
	"restaurantmap/database"
	"restaurantmap/dataset"
	"restaurantmap/handlers"
	"restaurantmap/logger"
	"restaurantmap/metrics"
	"restaurantmap/snapshot"
	"restaurantmap/stats"
	"restaurantmap/worker"
)

func main() {
	_ = godotenv.Load()
	log := logger.Setup()
	if err := run(log, config.FromEnv()); err != nil {
		log.Error("server_exiting", "err", err)
		os.Exit(1)
	}
}

// run loads the dataset, starts the reload worker and serves the map API
// until interrupted. Deferred cleanups all run before it returns.
func run(log *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := database.OpenSource(cfg)
	if err != nil {
		return fmt.Errorf("dataset source: %w", err)
	}
	defer closeSource()

	loader := &worker.Loader{
		Source: src,
		Store:  snapshot.NewStore(),
		Agg:    stats.NewAggregator(),
		Log:    log,
	}
	if _, err := loader.Reload(ctx); err != nil {
		var se *dataset.SchemaError
		if errors.As(err, &se) {
			log.Error("dataset_schema_invalid", "field", se.Field)
		}
		return err
	}
	worker.StartReloadWorker(ctx, loader, cfg.ReloadInterval)

	var respCache cache.Cache
	if rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL); rc != nil {
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis_unavailable", "addr", cfg.RedisAddr, "err", err)
		} else {
			log.Info("redis_connected", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
		}
		respCache = rc
		defer rc.Close()
	}

	store := loader.Store
	mux := http.NewServeMux()

	mux.HandleFunc("GET /map_data", handlers.MapDataHandler(store, respCache, log))
	mux.HandleFunc("GET /api/map-data", handlers.MapDataHandler(store, respCache, log))
	mux.HandleFunc("GET /api/charts", handlers.ChartsHandler(store))
	mux.HandleFunc("GET /api/stats", handlers.StatsHandler(store))
	mux.HandleFunc("GET /api/cities", handlers.CitiesHandler(store))
	mux.HandleFunc("GET /api/cuisines", handlers.CuisinesHandler(store))
	mux.HandleFunc("GET /healthz", handlers.HealthHandler(store))
	mux.Handle("GET /metrics", metrics.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		AllowCredentials: true,
	})
	handler := logger.AccessMiddleware(log)(c.Handler(mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server_starting", "port", cfg.Port, "source", src.Name())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
