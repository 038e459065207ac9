// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/splitledger/splitledger/internal/auth"
	authpg "github.com/splitledger/splitledger/internal/auth/postgres"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/httpapi"
	"github.com/splitledger/splitledger/internal/logging"
	"github.com/splitledger/splitledger/internal/observability"
	"github.com/splitledger/splitledger/internal/store"
	"github.com/splitledger/splitledger/internal/token"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth API server",
		Long: `Start the HTTP API server together with the observability
endpoints. The process runs until SIGINT or SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "API listen address (overrides config)")
	cmd.Flags().String("observability_listen", "", "metrics/health listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("splitledger", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := authpg.NewAccountRepositoryWithPool(pool)
	hasher := auth.NewArgon2idHasher(auth.DefaultHasherParams())

	issuer, err := token.NewIssuer([]byte(cfg.Token.Secret), cfg.Token.Issuer)
	if err != nil {
		return err
	}

	authSvc, err := auth.NewServiceWithLogger(accounts, hasher, issuer, logger)
	if err != nil {
		return err
	}
	resetSvc, err := auth.NewResetServiceWithLogger(accounts, hasher, logger)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.ObservabilityListen, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}

	api, err := httpapi.NewServer(httpapi.Options{
		Addr:             cfg.Listen,
		AuthService:      authSvc,
		ResetService:     resetSvc,
		Issuer:           issuer,
		Logger:           logger,
		ExposeResetToken: cfg.Demo.ExposeResetToken,
	})
	if err != nil {
		return err
	}

	apiErrCh := make(chan error, 1)
	go func() {
		apiErrCh <- api.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-apiErrCh:
		if err != nil {
			return err
		}
	case err := <-obsErrCh:
		if err != nil {
			return oops.Code("OBSERVABILITY_FAILED").Wrap(err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", "error", err)
	}
	if err := obs.Stop(shutdownCtx); err != nil {
		logger.Error("observability shutdown failed", "error", err)
	}

	return nil
}
