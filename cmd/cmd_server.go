package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"partner-catalog-service/internal/api"
	"partner-catalog-service/internal/config"
	"partner-catalog-service/internal/media"
	"partner-catalog-service/internal/metrics"
	"partner-catalog-service/internal/store"
)

// catalog serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the gRPC health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(ctx context.Context) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	log.Info("starting service", "app_env", cfg.AppEnv, "log_level", cfg.LogLevel)

	// --- Database Connection ---
	db, err := openDB(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	dbStore := store.NewPostgresStore(db)
	log.Info("database connection established", "database", cfg.Postgres.DBName)

	storage, err := media.New(ctx, cfg.Media)
	if err != nil {
		dbStore.Close()
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.RegisterDB(db, cfg.Postgres.DBName)
	}

	auth := api.NewAuthorizer(cfg.Auth.JWTSecret, cfg.Auth.AllowAnonymousWrites)
	if cfg.Auth.AllowAnonymousWrites {
		log.Warn("anonymous writes are enabled")
	}

	// --- Initialize API Handlers ---
	httpAPIHandler := api.NewHTTPHandler(api.StoresFrom(dbStore), storage, auth, api.Options{
		PageSize:       cfg.API.PageSize,
		MaxUploadBytes: cfg.HttpServer.MaxUploadMB << 20,
		Metrics:        m,
	})

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, log, m)
	registerHealthCheck(httpRouter, log, dbStore)
	if m != nil {
		httpRouter.Handle("/metrics", m.Handler())
	}
	if local, ok := storage.(*media.LocalStorage); ok && local.MountPath() != "" {
		httpRouter.Handle(local.MountPath()+"*", local.Handler())
		log.Info("serving media files", "path", local.MountPath())
	}
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	serveErr := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", "port", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// --- Setup & Start gRPC Server ---
	grpcServer, healthServer := setupGRPCServer(log)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		httpServer.Close()
		dbStore.Close()
		return err
	}
	go func() {
		log.Info("gRPC server listening", "port", cfg.GrpcServer.Port)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- err
		}
	}()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// --- Graceful Shutdown ---
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case runErr = <-serveErr:
		log.Error("server failed", "error", runErr)
	}
	shutdown(log, cfg.HttpServer, httpServer, grpcServer, healthServer, dbStore)
	return runErr
}

func setupBaseMiddleware(router *chi.Mux, log *slog.Logger, m *metrics.Metrics) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	if m != nil {
		router.Use(m.Middleware)
	}
}

func registerHealthCheck(router *chi.Mux, log *slog.Logger, dbStore *store.PostgresStore) {
	healthPath := "/api/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus := "healthy"
		if err := dbStore.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			log.Warn("health check DB ping failed", "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})
}

func setupGRPCServer(log *slog.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer()

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(s, healthServer)

	// Reflection lets grpcurl discover the health service.
	reflection.Register(s)
	log.Info("gRPC health and reflection services registered")
	return s, healthServer
}

func shutdown(
	log *slog.Logger,
	cfg config.ServerConfig,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	healthServer *health.Server,
	dbStore *store.PostgresStore,
) {
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server graceful shutdown failed", "error", err)
	} else {
		log.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		log.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		log.Warn("gRPC server graceful shutdown timed out, forcing stop", "error", shutdownCtx.Err())
		grpcServer.Stop()
	}

	if err := dbStore.Close(); err != nil {
		log.Warn("error closing database connection", "error", err)
	}
	log.Info("graceful shutdown sequence completed")
}
