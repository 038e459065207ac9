// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package httpapi exposes the auth core over HTTP. Routes mirror the
// original users API: open endpoints for register/login/recovery, bearer
// token required for everything identity-scoped.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/oops"

	"github.com/splitledger/splitledger/internal/auth"
)

// Server serves the users API.
type Server struct {
	echo             *echo.Echo
	addr             string
	authSvc          *auth.Service
	resetSvc         *auth.ResetService
	issuer           auth.TokenIssuer
	logger           *slog.Logger
	exposeResetToken bool
}

// Options configures a Server.
type Options struct {
	Addr             string
	AuthService      *auth.Service
	ResetService     *auth.ResetService
	Issuer           auth.TokenIssuer
	Logger           *slog.Logger
	ExposeResetToken bool
}

// NewServer creates the API server and registers its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.AuthService == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if opts.ResetService == nil {
		return nil, oops.Errorf("reset service is required")
	}
	if opts.Issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	s := &Server{
		echo:             e,
		addr:             opts.Addr,
		authSvc:          opts.AuthService,
		resetSvc:         opts.ResetService,
		issuer:           opts.Issuer,
		logger:           opts.Logger,
		exposeResetToken: opts.ExposeResetToken,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	v1 := s.echo.Group("/api/users/v1")

	v1.POST("/register", s.handleRegister)
	v1.POST("/login", s.handleLogin)
	v1.POST("/demo-login", s.handleDemoLogin)
	v1.POST("/forgot-password", s.handleForgotPassword)
	v1.POST("/reset-password", s.handleResetPassword)

	authed := v1.Group("", s.requireToken)
	authed.POST("/view", s.handleViewProfile)
	authed.POST("/edit", s.handleEditProfile)
	authed.POST("/update-password", s.handleUpdatePassword)
	authed.DELETE("/delete", s.handleDeleteAccount)
	authed.GET("/emaillist", s.handleEmailList)
}

// Start begins serving and blocks until the listener fails or is shut
// down.
func (s *Server) Start() error {
	s.logger.Info("api server starting", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return oops.Code("API_SERVE_FAILED").With("addr", s.addr).Wrap(err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return oops.Code("API_SHUTDOWN_FAILED").Wrap(err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// Handler exposes the underlying http.Handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
