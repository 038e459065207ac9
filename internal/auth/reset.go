// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Reset token configuration.
const (
	// ResetTokenBytes is the entropy of a reset token. 32 bytes encode to
	// 64 hex characters.
	ResetTokenBytes = 32

	// ResetTokenExpiry is the redemption window.
	ResetTokenExpiry = 10 * time.Minute
)

// GenerateResetToken creates a random token and its storage hash. The
// plaintext belongs to the account holder; only the hash is persisted, so a
// leaked database cannot be replayed into resets.
func GenerateResetToken() (token, hash string, err error) {
	raw := make([]byte, ResetTokenBytes)
	if _, err = rand.Read(raw); err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	token = hex.EncodeToString(raw)
	return token, HashResetToken(token), nil
}

// HashResetToken computes the storage hash of a plaintext reset token.
func HashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyResetToken checks a plaintext token against a stored hash in
// constant time.
func VerifyResetToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashResetToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// ResetTokenExpired reports whether a stored expiry has passed. A nil
// expiry counts as expired; a token without a deadline is never honored.
func ResetTokenExpired(expiry *time.Time, now time.Time) bool {
	return expiry == nil || !expiry.After(now)
}
