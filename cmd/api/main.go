package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"petkeep/internal/adapters/storage/memory"
	"petkeep/internal/adapters/storage/postgres"
	"petkeep/internal/adapters/storage/sqlite"
	"petkeep/internal/config"
	"petkeep/internal/domain/pets"
	"petkeep/internal/domain/users"
	"petkeep/internal/router"
	"petkeep/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth, err := session.New([]byte(cfg.SessionSecret))
	if err != nil {
		logger.Error("session authority", "error", err)
		os.Exit(1)
	}

	userRepo, petRepo, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: router.New(router.Options{
			Logger:        logger,
			Sessions:      auth,
			Users:         userRepo,
			Pets:          petRepo,
			SecureCookies: cfg.SecureCookies,
		}),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr, "driver", cfg.DBDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (users.Repository, pets.Repository, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, nil, err
		}
		return postgres.NewUsersRepo(db), postgres.NewPetsRepo(db), nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewUsersRepo(db), sqlite.NewPetsRepo(db), nil
	default:
		return memory.NewUserRepo(), memory.NewPetRepo(), nil
	}
}
