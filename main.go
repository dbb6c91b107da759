package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SafeEduBackend/config"
	"SafeEduBackend/database"
	"SafeEduBackend/database/memstore"
	"SafeEduBackend/handlers"
	"SafeEduBackend/logger"
	"SafeEduBackend/middleware"
	"SafeEduBackend/services"
)

type closableStore interface {
	services.Store
	Close() error
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The logger is configured from cfg, so this one goes to a default logger.
		bootLog, _ := logger.New("dev")
		bootLog.Fatal("Failed to load configuration", "err", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize store", "err", err)
	}
	defer store.Close()

	portal, err := services.NewPortal(store, services.Options{
		PassThreshold:      cfg.PassThreshold,
		CertificateBaseURL: cfg.CertificateBaseURL,
		Progress:           services.ProgressPolicy{ForwardOnlySteps: cfg.ProgressForwardOnlySteps},
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize services", "err", err)
	}

	if cfg.SeedDefaults {
		admin := database.AdminSeed{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if err := database.Seed(ctx, portal, store, admin, log); err != nil {
			log.Fatal("Failed to seed default data", "err", err)
		}
	}

	tokens := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, 5*time.Minute)
	defer limiter.Stop()

	handler := handlers.NewRouter(handlers.New(portal, tokens, log), handlers.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Failed to start server", "err", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "err", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (closableStore, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		return database.Open(ctx, database.DriverPostgres, cfg.DatabaseDSN(), log)
	case config.StoreSQLite:
		return database.Open(ctx, database.DriverSQLite, cfg.DatabaseDSN(), log)
	default:
		log.Info("Using in-memory store")
		return memstore.Open(), nil
	}
}
