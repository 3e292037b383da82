// moviedb-service/cmd/moviedbservice/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	httpAPI "moviedb-service/internal/api"
	"moviedb-service/internal/config"
	grpcServer "moviedb-service/internal/grpc"
	"moviedb-service/internal/store"
	"moviedb-service/pkg/metrics"
)

const version = "1.0.0"

func main() {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := config.Load(bootLogger, ".env")
	if err != nil {
		bootLogger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(httpAPI.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
	})
	slog.SetDefault(logger)
	metrics.Init()

	if err := run(cfg, logger); err != nil {
		logger.Error("MovieDB service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("MovieDB service fully stopped.")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN, store.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Closing database connection pool...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection pool", slog.String("error", err.Error()))
		}
	}()

	movieStorage, err := store.NewSQLMovieStore(db, logger)
	if err != nil {
		return err
	}
	actorStorage, err := store.NewSQLActorStore(db, logger)
	if err != nil {
		return err
	}

	// --- gRPC server ---
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcServer.MetricsInterceptor))
	grpcServer.RegisterCatalogServer(grpcSrv, grpcServer.NewServer(movieStorage, actorStorage, logger))

	errCh := make(chan error, 2)
	go func() {
		logger.Info("MovieDB gRPC server starting", slog.String("addr", cfg.GRPC.Addr))
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// --- HTTP server ---
	validate := httpAPI.NewValidator()
	router := httpAPI.NewRouter(
		httpAPI.NewMovieHandler(movieStorage, logger, validate),
		httpAPI.NewActorHandler(actorStorage, logger, validate),
		httpAPI.NewHealthHandler(db, version, logger),
		logger,
	)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	go func() {
		logger.Info("MovieDB HTTP server starting", slog.String("addr", cfg.HTTP.Addr), slog.String("version", version))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-quit:
		logger.Info("MovieDB service shutting down...", slog.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Error("Server failed, shutting down", slog.String("error", serveErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("MovieDB HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("MovieDB HTTP server gracefully stopped.")
	}
	grpcSrv.GracefulStop()
	logger.Info("MovieDB gRPC server gracefully stopped.")

	return serveErr
}
