// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/observability"
	"github.com/splitledger/splitledger/pkg/errutil"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type editRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type sessionResponse struct {
	Status      string       `json:"status"`
	AccessToken string       `json:"accessToken"`
	TTLKind     string       `json:"ttlKind"`
	Profile     auth.Profile `json:"profile"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	id, err := s.authSvc.Register(c.Request().Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		return s.domainError(c, "register", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Success",
		"userId":  id,
		"message": "registration succeeded, please log in",
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	session, err := s.authSvc.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch errutil.Code(err) {
		case auth.CodeAccountLocked:
			observability.RecordLogin(observability.LoginOutcomeLocked)
		case auth.CodeInvalidCredentials:
			observability.RecordLogin(observability.LoginOutcomeDenied)
		default:
			observability.RecordLogin(observability.LoginOutcomeError)
		}
		return s.domainError(c, "login", err)
	}

	observability.RecordLogin(observability.LoginOutcomeSuccess)
	return c.JSON(http.StatusOK, sessionResponse{
		Status:      "Success",
		AccessToken: session.Token,
		TTLKind:     string(session.TTL),
		Profile:     session.Profile,
	})
}

func (s *Server) handleDemoLogin(c echo.Context) error {
	session, err := s.authSvc.DemoLogin(c.Request().Context())
	if err != nil {
		return s.domainError(c, "demo login", err)
	}

	observability.RecordLogin(observability.LoginOutcomeSuccess)
	return c.JSON(http.StatusOK, sessionResponse{
		Status:      "Success",
		AccessToken: session.Token,
		TTLKind:     string(session.TTL),
		Profile:     session.Profile,
	})
}

func (s *Server) handleForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	token, err := s.resetSvc.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return s.domainError(c, "forgot password", err)
	}

	observability.RecordPasswordReset("requested")
	resp := map[string]string{
		"status":  "Success",
		"message": "password reset instructions sent",
	}
	// Demo-only shortcut: in production the token travels out-of-band via
	// the mail collaborator and never appears in a response.
	if s.exposeResetToken {
		resp["resetToken"] = token
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.resetSvc.ConfirmReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return s.domainError(c, "reset password", err)
	}

	observability.RecordPasswordReset("confirmed")
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "password has been reset",
	})
}

func (s *Server) handleViewProfile(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	profile, err := s.authSvc.GetProfile(c.Request().Context(), caller(c), req.Email)
	if err != nil {
		return s.domainError(c, "view profile", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "Success",
		"user":   profile,
	})
}

func (s *Server) handleEditProfile(c echo.Context) error {
	var req editRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	err := s.authSvc.UpdateProfile(c.Request().Context(), caller(c), req.Email, req.FirstName, req.LastName)
	if err != nil {
		return s.domainError(c, "edit profile", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "profile updated",
	})
}

func (s *Server) handleUpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	err := s.authSvc.ChangePassword(c.Request().Context(), caller(c), req.Email, req.OldPassword, req.NewPassword)
	if err != nil {
		return s.domainError(c, "update password", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "password updated",
	})
}

func (s *Server) handleDeleteAccount(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.authSvc.DeleteAccount(c.Request().Context(), caller(c), req.Email); err != nil {
		return s.domainError(c, "delete account", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Success",
		"message": "account deleted",
	})
}

func (s *Server) handleEmailList(c echo.Context) error {
	emails, err := s.authSvc.ListEmails(c.Request().Context())
	if err != nil {
		return s.domainError(c, "email list", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "Success",
		"emails": emails,
	})
}

// domainError maps an auth error code to an HTTP response. Known codes
// carry their user-facing message through; anything else is logged with
// full detail and answered with a generic 500.
func (s *Server) domainError(c echo.Context, operation string, err error) error {
	code := errutil.Code(err)
	status, known := statusForCode(code)
	if !known {
		errutil.LogError(s.logger, "unexpected failure in "+operation, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if code == auth.CodeStoreUnavailable {
		// The wrapped cause names internal infrastructure; keep it in the
		// log only.
		errutil.LogError(s.logger, "store unavailable in "+operation, err)
		return echo.NewHTTPError(status, "service temporarily unavailable")
	}
	return echo.NewHTTPError(status, err.Error())
}

// statusForCode is the single place the error taxonomy meets HTTP.
func statusForCode(code string) (int, bool) {
	switch code {
	case auth.CodeValidationFailed, auth.CodeDuplicateAccount, auth.CodeResetTokenInvalid:
		return http.StatusBadRequest, true
	case auth.CodeInvalidCredentials:
		return http.StatusUnauthorized, true
	case auth.CodeForbidden:
		return http.StatusForbidden, true
	case auth.CodeAccountNotFound:
		return http.StatusNotFound, true
	case auth.CodeAccountLocked:
		return http.StatusLocked, true
	case auth.CodeStoreUnavailable:
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}
