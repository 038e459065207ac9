// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package auth implements the credential and session-security core of
// SplitLedger: account registration, login with lockout protection, and
// self-service password recovery.
//
// # Domain Types
//
// Account is the single entity owned by this package. It is keyed by a
// unique, immutable email address and carries its own security state
// (failed attempts, lock window) and recovery state (reset token hash,
// expiry). Construct accounts through NewAccount so that validation runs;
// direct struct initialization bypasses it.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration, login, password change, demo login,
//     profile access, account removal
//   - ResetService - forgot-password / reset-password flow
//
// Both are created with New*Service constructors that validate their
// dependencies.
//
// # Lockout
//
// Lockout decisions are pure functions over an account's security state
// plus the current time (Evaluate, OnFailure, OnSuccess). There is no
// background sweeper: an elapsed lock is detected lazily on the next
// access and the caller commits the cleared state.
package auth
