package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	web "messhall/internal/adapters/http"
	"messhall/internal/adapters/storage"
	accountStore "messhall/internal/adapters/storage/account"
	mealStore "messhall/internal/adapters/storage/meal"
	paymentStore "messhall/internal/adapters/storage/payment"
	"messhall/internal/application/orchestrators"
	"messhall/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("startup_failed", "stage", "config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Logging(), os.Stderr))

	if err := run(cfg); err != nil {
		slog.Error("startup_failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Server) error {
	csrfKey, err := cfg.CSRFSecret()
	if err != nil {
		return err
	}

	// WAL mode, foreign keys and busy timeout on every pooled connection
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		return err
	}
	if err := storage.MigrateDB(db); err != nil {
		return err
	}

	timedDB := storage.NewTimedDB(db, cfg.SlowQueryMs)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		MealStore:    mealStore.NewSQLiteStore(timedDB),
		PaymentStore: paymentStore.NewSQLiteStore(timedDB),
	}

	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	handler := web.NewMux(stores, web.Settings{
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
		MealCost:       cfg.MealCost,
		Currency:       cfg.Currency,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_started", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping", "reason", "signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
