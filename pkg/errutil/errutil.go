// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package errutil bridges oops errors into structured logging and gives
// transports uniform access to error codes.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Code extracts the oops error code, or "" for plain errors. Transports key
// their status mapping and metric labels off this.
func Code(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, isStr := oopsErr.Code().(string); isStr {
			return code
		}
	}
	return ""
}

// LogError logs an error with structured context. For oops errors the code
// and attached context are emitted as attributes; internal detail stays in
// the log and never reaches an external response.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}
