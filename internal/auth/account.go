// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Password composition rule: at least MinPasswordLength characters with one
// lowercase letter, one uppercase letter, one digit, and one special character.
const MinPasswordLength = 8

// emailRegex accepts a single local part and a dotted domain. It is a
// syntactic gate, not full RFC 5322; deliverability is the mail
// collaborator's problem.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Account is a registered or demo-provisioned user identity together with
// its credential, security, and recovery state. Email is the unique,
// immutable, case-sensitive key.
type Account struct {
	ID               ulid.ULID
	Email            string
	FirstName        string
	LastName         string
	CredentialDigest string
	FailedAttempts   int
	Locked           bool
	LockUntil        *time.Time
	ResetTokenHash   *string
	ResetTokenExpiry *time.Time
	LastLoginAt      *time.Time
	IsDemo           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Profile is the read-facing projection of an Account. It never carries the
// credential digest or any recovery state.
type Profile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName,omitempty"`
	IsDemo      bool       `json:"isDemo,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// NewAccount creates an Account with validated inputs and all security
// fields at their defaults. The credential digest must already be hashed.
func NewAccount(email, firstName, lastName, credentialDigest string) (*Account, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateName(firstName); err != nil {
		return nil, err
	}
	if credentialDigest == "" {
		return nil, oops.Code(CodeValidationFailed).Errorf("credential digest cannot be empty")
	}

	now := time.Now()
	return &Account{
		ID:               ulid.Make(),
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		CredentialDigest: credentialDigest,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Projection returns the outward view of the account.
func (a *Account) Projection() Profile {
	return Profile{
		ID:          a.ID.String(),
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		IsDemo:      a.IsDemo,
		LastLoginAt: a.LastLoginAt,
	}
}

// ValidateEmail validates the syntactic shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code(CodeValidationFailed).Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code(CodeValidationFailed).
			With("field", "email").
			Errorf("email is not a valid address")
	}
	return nil
}

// ValidateName requires a non-blank first name. Last name is optional and
// not validated here.
func ValidateName(firstName string) error {
	if strings.TrimSpace(firstName) == "" {
		return oops.Code(CodeValidationFailed).
			With("field", "firstName").
			Errorf("first name cannot be empty")
	}
	return nil
}

// ValidatePassword enforces the password composition rule.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code(CodeValidationFailed).
			With("field", "password").
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if !lowerRegex.MatchString(password) ||
		!upperRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return oops.Code(CodeValidationFailed).
			With("field", "password").
			Errorf("password must contain lowercase, uppercase, digit, and special characters")
	}
	return nil
}

// AccountRepository manages account persistence. Implementations must keep
// the per-row mutations atomic: two concurrent RecordFailure calls against
// the same account accumulate rather than race-overwrite.
type AccountRepository interface {
	// Create stores a new account. Returns an error wrapping ErrDuplicate
	// when the email is already registered.
	Create(ctx context.Context, account *Account) error

	// GetByEmail retrieves an account by its exact email key.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByResetTokenHash retrieves the account holding the given reset
	// token hash, regardless of expiry.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*Account, error)

	// RecordFailure atomically increments the failed-attempt counter and
	// returns the new count.
	RecordFailure(ctx context.Context, email string) (int, error)

	// Lock marks the account locked until the given time.
	Lock(ctx context.Context, email string, until time.Time) error

	// ClearLock commits a lazy unlock: failed attempts, locked flag, and
	// lock deadline are reset.
	ClearLock(ctx context.Context, email string) error

	// RecordSuccess clears the security counters and stamps the last login.
	RecordSuccess(ctx context.Context, email string, at time.Time) error

	// UpdateProfile changes the mutable profile fields. Email is immutable.
	UpdateProfile(ctx context.Context, email, firstName, lastName string) error

	// UpdatePassword replaces the credential digest. Security counters are
	// left untouched; only login success and reset confirmation clear them.
	UpdatePassword(ctx context.Context, email, credentialDigest string) error

	// SetResetToken stores a reset token hash and its expiry.
	SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) error

	// ConsumeResetToken atomically redeems a reset token: the credential
	// digest is replaced and the token, expiry, and all lock state are
	// cleared in one update. Returns an error wrapping ErrNotFound when the
	// token no longer matches (already consumed).
	ConsumeResetToken(ctx context.Context, email, tokenHash, credentialDigest string) error

	// ListEmails returns every registered email in ascending order.
	ListEmails(ctx context.Context) ([]string, error)

	// Delete removes an account. Deleting an absent account is not an
	// error.
	Delete(ctx context.Context, email string) error
}
