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

	"github.com/fastprodman/payproc/internal/api"
	"github.com/fastprodman/payproc/internal/infra/logging"
	"github.com/fastprodman/payproc/internal/infra/pgutils"
	"github.com/fastprodman/payproc/internal/providers/coinbase"
	"github.com/fastprodman/payproc/internal/providers/paypal"
	"github.com/fastprodman/payproc/internal/services/reconcile"
	"github.com/fastprodman/payproc/pkg/envconf"
	"github.com/fastprodman/payproc/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON("api", cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close database pool")

		return db.Close()
	})

	// --- Providers ---
	// The webhook id PayPal assigned at registration is needed for every
	// signature verification; resolve it once, before accepting traffic.
	ppClient := paypal.NewClient(cfg.PayPal.APIBase, cfg.PayPal.ClientID, cfg.PayPal.Secret)

	webhookID, err := ppClient.ResolveWebhookID(ctx, cfg.PayPal.CallbackURL)
	if err != nil {
		return fmt.Errorf("resolve paypal webhook id: %w", err)
	}

	ppVerifier := paypal.NewVerifier(ppClient, webhookID)
	cbVerifier := coinbase.NewVerifier(cfg.Coinbase.SharedSecret)

	// --- Services ---
	reconcileSrv := reconcile.New(db)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, reconcileSrv, ppVerifier, cbVerifier, cfg.AppEnv)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("Payment API started", "port", cfg.Port, "env", cfg.AppEnv)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
