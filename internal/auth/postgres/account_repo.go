// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package postgres provides the PostgreSQL implementation of the auth
// repositories.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/splitledger/splitledger/internal/auth"
)

// poolIface is the subset of pgxpool.Pool the repository needs. It lets
// tests substitute a pgxmock pool.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const accountColumns = `id, email, first_name, last_name, credential_digest,
	       failed_attempts, locked, lock_until,
	       reset_token_hash, reset_token_expires_at,
	       last_login_at, is_demo, created_at, updated_at`

// AccountRepository implements auth.AccountRepository using PostgreSQL.
// Security-state mutations are single statements, so concurrent failed
// logins accumulate instead of race-overwriting each other.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// NewAccountRepositoryWithPool creates an AccountRepository from a concrete
// pgx pool.
func NewAccountRepositoryWithPool(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (
			id, email, first_name, last_name, credential_digest,
			failed_attempts, locked, lock_until,
			reset_token_hash, reset_token_expires_at,
			last_login_at, is_demo, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		account.ID.String(),
		account.Email,
		account.FirstName,
		account.LastName,
		account.CredentialDigest,
		account.FailedAttempts,
		account.Locked,
		account.LockUntil,
		account.ResetTokenHash,
		account.ResetTokenExpiry,
		account.LastLoginAt,
		account.IsDemo,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_CREATE_DUPLICATE").
				With("email", account.Email).
				Wrap(auth.ErrDuplicate)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("email", account.Email).
			Wrap(err)
	}
	return nil
}

// GetByEmail retrieves an account by its exact email key.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, email)

	account, err := r.scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_EMAIL_FAILED").
			With("operation", "get account by email").
			With("email", email).
			Wrap(err)
	}
	return account, nil
}

// GetByResetTokenHash retrieves the account holding the reset token hash.
func (r *AccountRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE reset_token_hash = $1
	`, tokenHash)

	account, err := r.scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_RESET_TOKEN_FAILED").
			With("operation", "get account by reset token hash").
			Wrap(err)
	}
	return account, nil
}

// RecordFailure atomically increments the failed-attempt counter and
// returns the new count.
func (r *AccountRepository) RecordFailure(ctx context.Context, email string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET failed_attempts = failed_attempts + 1, updated_at = NOW()
		WHERE email = $1
		RETURNING failed_attempts
	`, email).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("ACCOUNT_RECORD_FAILURE_FAILED").
			With("operation", "increment failed attempts").
			With("email", email).
			Wrap(err)
	}
	return count, nil
}

// Lock marks the account locked until the given time.
func (r *AccountRepository) Lock(ctx context.Context, email string, until time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET locked = TRUE, lock_until = $2, updated_at = NOW()
		WHERE email = $1
	`, email, until)
	if err != nil {
		return oops.Code("ACCOUNT_LOCK_FAILED").
			With("operation", "lock account").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// ClearLock commits a lazy unlock.
func (r *AccountRepository) ClearLock(ctx context.Context, email string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET failed_attempts = 0, locked = FALSE, lock_until = NULL, updated_at = NOW()
		WHERE email = $1
	`, email)
	if err != nil {
		return oops.Code("ACCOUNT_CLEAR_LOCK_FAILED").
			With("operation", "clear lock").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// RecordSuccess clears the security counters and stamps the last login.
func (r *AccountRepository) RecordSuccess(ctx context.Context, email string, at time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET failed_attempts = 0, locked = FALSE, lock_until = NULL,
		    last_login_at = $2, updated_at = NOW()
		WHERE email = $1
	`, email, at)
	if err != nil {
		return oops.Code("ACCOUNT_RECORD_SUCCESS_FAILED").
			With("operation", "record login success").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdateProfile changes the mutable profile fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, email, firstName, lastName string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET first_name = $2, last_name = $3, updated_at = NOW()
		WHERE email = $1
	`, email, firstName, lastName)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_PROFILE_FAILED").
			With("operation", "update profile").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the credential digest only.
func (r *AccountRepository) UpdatePassword(ctx context.Context, email, credentialDigest string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET credential_digest = $2, updated_at = NOW()
		WHERE email = $1
	`, email, credentialDigest)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// SetResetToken stores a reset token hash and its expiry. Any previous
// token is overwritten; only the newest request is redeemable.
func (r *AccountRepository) SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE email = $1
	`, email, tokenHash, expiresAt)
	if err != nil {
		return oops.Code("ACCOUNT_SET_RESET_TOKEN_FAILED").
			With("operation", "set reset token").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// ConsumeResetToken redeems a reset token as a compare-and-set. The token
// hash in the WHERE clause guarantees single use: once a confirm wins, a
// concurrent confirm with the same token updates zero rows.
func (r *AccountRepository) ConsumeResetToken(ctx context.Context, email, tokenHash, credentialDigest string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET credential_digest = $3,
		    reset_token_hash = NULL, reset_token_expires_at = NULL,
		    failed_attempts = 0, locked = FALSE, lock_until = NULL,
		    updated_at = NOW()
		WHERE email = $1 AND reset_token_hash = $2
	`, email, tokenHash, credentialDigest)
	if err != nil {
		return oops.Code("ACCOUNT_CONSUME_RESET_TOKEN_FAILED").
			With("operation", "consume reset token").
			With("email", email).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// ListEmails returns every registered email in ascending order.
func (r *AccountRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email FROM accounts ORDER BY email
	`)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_EMAILS_FAILED").
			With("operation", "list emails").
			Wrap(err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, oops.Code("ACCOUNT_LIST_EMAILS_FAILED").
				With("operation", "scan email row").
				Wrap(err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ACCOUNT_LIST_EMAILS_FAILED").
			With("operation", "iterate email rows").
			Wrap(err)
	}
	return emails, nil
}

// Delete removes an account. Zero affected rows is not an error; removal is
// idempotent.
func (r *AccountRepository) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM accounts WHERE email = $1
	`, email)
	if err != nil {
		return oops.Code("ACCOUNT_DELETE_FAILED").
			With("operation", "delete account").
			With("email", email).
			Wrap(err)
	}
	return nil
}

// scanAccount scans a single row into an Account. Callers handle
// pgx.ErrNoRows.
func (r *AccountRepository) scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		idStr            string
		email            string
		firstName        string
		lastName         string
		credentialDigest string
		failedAttempts   int
		locked           bool
		lockUntil        *time.Time
		resetTokenHash   *string
		resetTokenExpiry *time.Time
		lastLoginAt      *time.Time
		isDemo           bool
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := row.Scan(
		&idStr,
		&email,
		&firstName,
		&lastName,
		&credentialDigest,
		&failedAttempts,
		&locked,
		&lockUntil,
		&resetTokenHash,
		&resetTokenExpiry,
		&lastLoginAt,
		&isDemo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to wrap with
		// context-specific info.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Account{
		ID:               id,
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		CredentialDigest: credentialDigest,
		FailedAttempts:   failedAttempts,
		Locked:           locked,
		LockUntil:        lockUntil,
		ResetTokenHash:   resetTokenHash,
		ResetTokenExpiry: resetTokenExpiry,
		LastLoginAt:      lastLoginAt,
		IsDemo:           isDemo,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

// Compile-time interface check.
var _ auth.AccountRepository = (*AccountRepository)(nil)
