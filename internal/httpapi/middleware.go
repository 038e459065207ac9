// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package httpapi

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// callerKey is the echo context key holding the authenticated caller's
// email, set by requireToken.
const callerKey = "caller"

// requireToken authenticates the request from its bearer token and stores
// the caller identity on the context. The services re-validate that the
// caller targets their own account; this middleware only establishes who is
// asking.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			return echo.NewHTTPError(401, "missing or malformed bearer token")
		}

		subject, err := s.issuer.Verify(token)
		if err != nil {
			return echo.NewHTTPError(401, "token is invalid or has expired")
		}

		c.Set(callerKey, subject)
		return next(c)
	}
}

// caller returns the authenticated identity set by requireToken.
func caller(c echo.Context) string {
	identity, _ := c.Get(callerKey).(string)
	return identity
}
