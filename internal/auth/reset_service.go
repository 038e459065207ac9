// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// ResetService handles the forgot-password / reset-password flow. Tokens
// are single-use and time-boxed; a successful reset fully rehabilitates a
// locked account, since possession of the delivered token is treated as
// proof of ownership.
type ResetService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewResetService creates a ResetService.
func NewResetService(accounts AccountRepository, hasher PasswordHasher) (*ResetService, error) {
	return NewResetServiceWithLogger(accounts, hasher, slog.Default())
}

// NewResetServiceWithLogger creates a ResetService with an explicit logger.
func NewResetServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, logger *slog.Logger) (*ResetService, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &ResetService{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// RequestReset issues a reset token for the account. Only the token hash is
// persisted. The plaintext is returned to the caller for delivery; the
// transport decides whether it may appear in a response (demo deployments
// only) or must go out via the mail collaborator.
func (s *ResetService) RequestReset(ctx context.Context, email string) (string, error) {
	_, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", accountNotFound(email)
		}
		return "", storeFailure("get account by email", err)
	}

	token, hash, err := GenerateResetToken()
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "generate reset token").
			Wrap(err)
	}

	expiresAt := time.Now().Add(ResetTokenExpiry)
	if err := s.accounts.SetResetToken(ctx, email, hash, expiresAt); err != nil {
		return "", storeFailure("store reset token", err)
	}

	s.logger.InfoContext(ctx, "password reset requested", "email", email, "expires_at", expiresAt)
	return token, nil
}

// ConfirmReset redeems a reset token exactly once. On success the new
// credential is stored and the token, expiry, and all lock state are
// cleared in a single atomic update.
func (s *ResetService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return invalidResetToken()
	}

	hash := HashResetToken(token)
	account, err := s.accounts.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidResetToken()
		}
		return storeFailure("get account by reset token", err)
	}

	if ResetTokenExpired(account.ResetTokenExpiry, time.Now()) {
		return invalidResetToken()
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_CONFIRM_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	// The hash in the WHERE clause makes redemption a compare-and-set: a
	// concurrent confirm with the same token loses and sees not-found.
	if err := s.accounts.ConsumeResetToken(ctx, account.Email, hash, digest); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidResetToken()
		}
		return storeFailure("consume reset token", err)
	}

	s.logger.InfoContext(ctx, "password reset confirmed", "email", account.Email)
	return nil
}

// invalidResetToken is deliberately uniform across "never existed",
// "expired", and "already used" so a token probe learns nothing.
func invalidResetToken() error {
	return oops.Code(CodeResetTokenInvalid).Errorf("reset token is invalid or has expired")
}
