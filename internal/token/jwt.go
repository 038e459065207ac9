// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package token provides the signed session-token primitive on top of JWT.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/splitledger/splitledger/internal/auth"
)

// minSecretLen guards against trivially brute-forceable HMAC keys.
const minSecretLen = 32

// Issuer implements auth.TokenIssuer with HS256-signed JWTs. Verification
// is stateless; there is no revocation list.
type Issuer struct {
	secret []byte
	issuer string
}

// NewIssuer creates an Issuer. The secret must be at least 32 bytes.
func NewIssuer(secret []byte, issuer string) (*Issuer, error) {
	if len(secret) < minSecretLen {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			Errorf("signing secret must be at least %d bytes", minSecretLen)
	}
	if issuer == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("issuer name is required")
	}
	return &Issuer{secret: secret, issuer: issuer}, nil
}

// Issue mints a token for the subject with the lifetime of kind.
func (i *Issuer) Issue(subject string, kind auth.TTLKind) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, oops.Code("TOKEN_ISSUE_FAILED").Errorf("subject cannot be empty")
	}

	now := time.Now()
	expiresAt := now.Add(kind.Duration())
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("TOKEN_ISSUE_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, expiresAt, nil
}

// Verify checks a token's signature, issuer, and expiry, and returns its
// subject. All rejection causes collapse into one error; callers have no
// reason to distinguish a forged token from a stale one.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", oops.Code("TOKEN_INVALID").Errorf("token is invalid or has expired")
	}
	if claims.Subject == "" {
		return "", oops.Code("TOKEN_INVALID").Errorf("token is invalid or has expired")
	}
	return claims.Subject, nil
}

// Compile-time interface check.
var _ auth.TokenIssuer = (*Issuer)(nil)
