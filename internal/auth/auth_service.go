// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/splitledger/splitledger/internal/observability"
)

// Demo account identity. The demo path provisions this account on first use
// and mints a session for it without consulting credentials or lockout.
const (
	DemoEmail     = "demo@splitledger.app"
	demoFirstName = "Demo"
	demoLastName  = "User"
)

// dummyCredentialDigest is verified against when the account does not
// exist, so a login probe costs the same hashing work either way. It is not
// a credential and never matches any password.
//
//nolint:gosec // G101: intentionally fake digest for timing equalization, not a credential.
const dummyCredentialDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates registration, login, password change, and account
// access. All store failures surface as STORE_UNAVAILABLE; nothing is
// retried here.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(accounts AccountRepository, hasher PasswordHasher, issuer TokenIssuer) (*Service, error) {
	return NewServiceWithLogger(accounts, hasher, issuer, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, issuer TokenIssuer, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("account repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
		logger:   logger,
	}, nil
}

// Register creates a new account and returns its identity. Validation runs
// before any store access; a failed registration leaves no trace.
func (s *Service) Register(ctx context.Context, email, firstName, lastName, password string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ValidateName(firstName); err != nil {
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(email, firstName, lastName, digest)
	if err != nil {
		return "", err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return "", oops.Code(CodeDuplicateAccount).
				Errorf("email is already registered, please log in")
		}
		return "", storeFailure("create account", err)
	}

	s.logger.InfoContext(ctx, "account registered", "email", email)
	return account.ID.String(), nil
}

// Login authenticates an account and mints a session token.
//
// The order of checks is fixed: load, lazy-unlock commit, lock check,
// password verify, result commit. The lock check precedes verification so a
// locked account never learns whether the supplied password was correct.
// An absent account and a wrong password yield the identical error.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn the same hashing work as the real path so absent
			// accounts are not distinguishable by response time.
			_, _ = s.hasher.Verify(password, dummyCredentialDigest) //nolint:errcheck // Timing equalization only
			return nil, invalidCredentials(-1)
		}
		return nil, storeFailure("get account by email", err)
	}

	now := time.Now()
	eval := Evaluate(account, now)
	if eval.NeedsClear {
		if err := s.accounts.ClearLock(ctx, email); err != nil {
			return nil, storeFailure("clear elapsed lock", err)
		}
		account.FailedAttempts = 0
		account.Locked = false
		account.LockUntil = nil
	}

	if eval.State == LockStateLocked {
		return nil, accountLocked(eval)
	}

	valid, err := s.hasher.Verify(password, account.CredentialDigest)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}

	if !valid {
		count, failErr := s.accounts.RecordFailure(ctx, email)
		if failErr != nil {
			return nil, storeFailure("record login failure", failErr)
		}
		decision := OnFailure(count, now)
		if decision.ShouldLock {
			if lockErr := s.accounts.Lock(ctx, email, decision.LockUntil); lockErr != nil {
				return nil, storeFailure("lock account", lockErr)
			}
			s.logger.WarnContext(ctx, "account locked after repeated failures",
				"email", email, "failed_attempts", count, "lock_until", decision.LockUntil)
			observability.RecordLockout()
			return nil, oops.Code(CodeAccountLocked).
				With("unlock_at", decision.LockUntil).
				With("retry_after", time.Until(decision.LockUntil)).
				Errorf("account is locked, try again in %s", humanDuration(time.Until(decision.LockUntil)))
		}
		return nil, invalidCredentials(decision.AttemptsRemaining)
	}

	if err := s.accounts.RecordSuccess(ctx, email, now); err != nil {
		return nil, storeFailure("record login success", err)
	}
	account.LastLoginAt = &now

	kind := TTLStandard
	if rememberMe {
		kind = TTLExtended
	}
	token, expiresAt, err := s.issuer.Issue(email, kind)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "email", email, "ttl", string(kind))
	return &Session{
		Token:     token,
		TTL:       kind,
		ExpiresAt: expiresAt,
		Profile:   account.Projection(),
	}, nil
}

// DemoLogin provisions the designated demo account if needed and mints a
// standard session for it. The demo path never consults the lockout policy
// and is not reachable for any non-demo account.
func (s *Service) DemoLogin(ctx context.Context) (*Session, error) {
	account, err := s.ProvisionDemoAccount(ctx)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(account.Email, TTLStandard)
	if err != nil {
		return nil, oops.Code("AUTH_DEMO_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "demo login succeeded", "email", account.Email)
	return &Session{
		Token:     token,
		TTL:       TTLStandard,
		ExpiresAt: expiresAt,
		Profile:   account.Projection(),
	}, nil
}

// ProvisionDemoAccount idempotently creates the demo account. The account
// is given an unguessable random credential; the demo flow never verifies
// it, and nothing else can log in as the demo identity.
func (s *Service) ProvisionDemoAccount(ctx context.Context) (*Account, error) {
	account, err := s.accounts.GetByEmail(ctx, DemoEmail)
	if err == nil {
		if !account.IsDemo {
			return nil, oops.Code(CodeForbidden).
				With("email", DemoEmail).
				Errorf("demo login is not available")
		}
		return account, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, storeFailure("get demo account", err)
	}

	digest, err := s.hasher.Hash(randomDemoSecret())
	if err != nil {
		return nil, oops.Code("AUTH_DEMO_PROVISION_FAILED").
			With("operation", "hash demo credential").
			Wrap(err)
	}

	account, err = NewAccount(DemoEmail, demoFirstName, demoLastName, digest)
	if err != nil {
		return nil, err
	}
	account.IsDemo = true

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent demo login may have provisioned it first.
		if errors.Is(err, ErrDuplicate) {
			return s.accounts.GetByEmail(ctx, DemoEmail)
		}
		return nil, storeFailure("create demo account", err)
	}

	s.logger.InfoContext(ctx, "demo account provisioned", "email", DemoEmail)
	return account, nil
}

// ChangePassword replaces the credential after verifying the old one. It
// deliberately does not reset the failure counter; only login success and
// reset confirmation do.
func (s *Service) ChangePassword(ctx context.Context, caller, email, oldPassword, newPassword string) error {
	if err := requireSelf(caller, email); err != nil {
		return err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound(email)
		}
		return storeFailure("get account by email", err)
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	valid, err := s.hasher.Verify(oldPassword, account.CredentialDigest)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify old password").
			Wrap(err)
	}
	if !valid {
		return oops.Code(CodeInvalidCredentials).Errorf("old password does not match")
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.accounts.UpdatePassword(ctx, email, digest); err != nil {
		return storeFailure("update password", err)
	}

	s.logger.InfoContext(ctx, "password changed", "email", email)
	return nil
}

// GetProfile returns the outward projection of the caller's own account.
func (s *Service) GetProfile(ctx context.Context, caller, email string) (*Profile, error) {
	if err := requireSelf(caller, email); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, accountNotFound(email)
		}
		return nil, storeFailure("get account by email", err)
	}

	profile := account.Projection()
	return &profile, nil
}

// UpdateProfile changes the caller's name fields. Email is immutable and
// credentials are untouched.
func (s *Service) UpdateProfile(ctx context.Context, caller, email, firstName, lastName string) error {
	if err := requireSelf(caller, email); err != nil {
		return err
	}
	if err := ValidateName(firstName); err != nil {
		return err
	}

	if err := s.accounts.UpdateProfile(ctx, email, firstName, lastName); err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound(email)
		}
		return storeFailure("update profile", err)
	}

	s.logger.InfoContext(ctx, "profile updated", "email", email)
	return nil
}

// ListEmails returns every registered email in ascending order. The caller
// must already be authenticated; there is no per-row authorization.
func (s *Service) ListEmails(ctx context.Context) ([]string, error) {
	emails, err := s.accounts.ListEmails(ctx)
	if err != nil {
		return nil, storeFailure("list emails", err)
	}
	return emails, nil
}

// DeleteAccount removes the caller's own account. Deleting an account that
// is already gone succeeds.
func (s *Service) DeleteAccount(ctx context.Context, caller, email string) error {
	if err := requireSelf(caller, email); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, email); err != nil {
		return storeFailure("delete account", err)
	}

	s.logger.InfoContext(ctx, "account deleted", "email", email)
	return nil
}

// requireSelf re-validates that the authenticated caller targets their own
// account. The transport layer has already authenticated the caller.
func requireSelf(caller, email string) error {
	if caller != email {
		return oops.Code(CodeForbidden).
			Errorf("caller identity does not match target account")
	}
	return nil
}

// invalidCredentials builds the uniform login failure. The attempts hint is
// appended to the message only inside the warning band; the error shape is
// identical either way so an absent account is indistinguishable from a
// wrong password.
func invalidCredentials(attemptsRemaining int) error {
	if attemptsRemaining > 0 && attemptsRemaining <= WarningBand {
		return oops.Code(CodeInvalidCredentials).
			With("attempts_remaining", attemptsRemaining).
			Errorf("invalid email or password, %d attempts remaining", attemptsRemaining)
	}
	return oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
}

// accountLocked builds the lock rejection with its remaining window.
func accountLocked(eval Evaluation) error {
	return oops.Code(CodeAccountLocked).
		With("unlock_at", eval.UnlockAt).
		With("retry_after", eval.Remaining).
		Errorf("account is locked, try again in %s", humanDuration(eval.Remaining))
}

func accountNotFound(email string) error {
	return oops.Code(CodeAccountNotFound).
		With("email", email).
		Errorf("account does not exist")
}

// storeFailure wraps store errors. ErrNotFound and ErrDuplicate are handled
// by callers before reaching here.
func storeFailure(operation string, err error) error {
	return oops.Code(CodeStoreUnavailable).
		With("operation", operation).
		Wrap(err)
}

// humanDuration renders a remaining-time message in whole minutes, rounding
// up so "try again in 1 minute" is never already over.
func humanDuration(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// randomDemoSecret returns an unguessable throwaway credential for the demo
// account.
func randomDemoSecret() string {
	token, _, err := GenerateResetToken()
	if err != nil {
		// crypto/rand failure; fall back to a constant that still hashes.
		return "demo-fallback-" + hex.EncodeToString([]byte(DemoEmail))
	}
	return token
}
