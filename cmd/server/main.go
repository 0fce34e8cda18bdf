package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightdeck/watchtower/internal/config"
	"flightdeck/watchtower/internal/db"
	"flightdeck/watchtower/internal/logging"
	"flightdeck/watchtower/internal/routes"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Watchtower starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx (entitlement audit log)
	if err := db.InitPostgres(cfg.PostgresDSN()); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM (state blobs)
	if _, err := db.InitPostgresORM(cfg.PostgresDSN()); err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	upSince := time.Now()

	// ctx owns the transaction listener; cancelling it stops the stream
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router, listener, err := routes.RegisterRoutes(ctx, cfg, upSince)
	if err != nil {
		logging.Fatal("Failed to initialize routes", "error", err.Error())
	}

	// Metrics endpoint lives outside the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", "error", err.Error())
	}

	// Wait for the transaction listener to drain
	select {
	case <-listener.Done():
	case <-shutdownCtx.Done():
		logging.Warn("Transaction listener did not stop in time")
	}
}
