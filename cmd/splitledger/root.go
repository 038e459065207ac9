// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the SplitLedger CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splitledger",
		Short: "SplitLedger - credential and session security for expense sharing",
		Long: `SplitLedger runs the account authentication service for the
expense-sharing platform: registration, login with lockout protection,
and self-service password recovery.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
