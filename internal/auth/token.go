// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import "time"

// Session token lifetimes. The extended lifetime backs "remember me".
const (
	SessionTTL         = 24 * time.Hour
	ExtendedSessionTTL = 30 * 24 * time.Hour
)

// TTLKind selects the session token lifetime at issuance.
type TTLKind string

const (
	// TTLStandard is the default 24-hour session.
	TTLStandard TTLKind = "standard"
	// TTLExtended is the 30-day remember-me session.
	TTLExtended TTLKind = "extended"
)

// Duration returns the lifetime for the kind.
func (k TTLKind) Duration() time.Duration {
	if k == TTLExtended {
		return ExtendedSessionTTL
	}
	return SessionTTL
}

// TokenIssuer is the opaque signed-token contract. Verification is
// stateless and side-effect-free.
type TokenIssuer interface {
	// Issue mints a token for the subject with the lifetime of kind.
	Issue(subject string, kind TTLKind) (token string, expiresAt time.Time, err error)

	// Verify checks a token and returns its subject, or an error for an
	// invalid or expired token.
	Verify(token string) (subject string, err error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	TTL       TTLKind
	ExpiresAt time.Time
	Profile   Profile
}
