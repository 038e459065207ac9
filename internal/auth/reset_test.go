// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/auth"
)

func TestGenerateResetToken(t *testing.T) {
	token, hash, err := auth.GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, token, auth.ResetTokenBytes*2) // hex-encoded
	assert.Equal(t, auth.HashResetToken(token), hash)
	assert.NotEqual(t, token, hash)

	second, _, err := auth.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestVerifyResetToken(t *testing.T) {
	token, hash, err := auth.GenerateResetToken()
	require.NoError(t, err)

	assert.True(t, auth.VerifyResetToken(token, hash))
	assert.False(t, auth.VerifyResetToken("wrong", hash))
	assert.False(t, auth.VerifyResetToken("", hash))
	assert.False(t, auth.VerifyResetToken(token, ""))
}

func TestResetTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, auth.ResetTokenExpired(&future, now))
	assert.True(t, auth.ResetTokenExpired(&past, now))
	assert.True(t, auth.ResetTokenExpired(&now, now), "deadline exactly now counts as expired")
	assert.True(t, auth.ResetTokenExpired(nil, now), "missing deadline is never honored")
}
