// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/splitledger/splitledger/internal/auth"
	authpg "github.com/splitledger/splitledger/internal/auth/postgres"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the demo account",
		Long: `Creates the designated demo account used by the frictionless
demo-login flow. This command is idempotent - running it against a database
that already holds the demo account changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	// Respect SIGINT/SIGTERM via cmd.Context().
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := authpg.NewAccountRepositoryWithPool(pool)
	hasher := auth.NewArgon2idHasher(auth.DefaultHasherParams())

	// The seed path never issues tokens; a throwaway issuer satisfies the
	// service constructor without a signing secret.
	svc, err := auth.NewServiceWithLogger(accounts, hasher, noopIssuer{}, slog.Default())
	if err != nil {
		return err
	}

	account, err := svc.ProvisionDemoAccount(ctx)
	if err != nil {
		return err
	}

	cmd.Println("Demo account ready:", account.Email)
	return nil
}

// noopIssuer satisfies auth.TokenIssuer for flows that never mint tokens.
type noopIssuer struct{}

func (noopIssuer) Issue(subject string, kind auth.TTLKind) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (noopIssuer) Verify(string) (string, error) {
	return "", nil
}
