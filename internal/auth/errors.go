// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when creating an account whose email is taken.
var ErrDuplicate = errors.New("duplicate account")

// Error codes attached to oops errors across the package. Transports map
// these to their own status vocabulary; the codes are the stable contract.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDuplicateAccount   = "ACCOUNT_DUPLICATE"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAccountLocked      = "AUTH_ACCOUNT_LOCKED"
	CodeResetTokenInvalid  = "RESET_TOKEN_INVALID"
	CodeForbidden          = "AUTH_FORBIDDEN"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
)
