// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/auth"
)

// testHasherParams keeps the argon2id cost low so the suite stays fast.
func testHasherParams() auth.HasherParams {
	return auth.HasherParams{
		Time:    1,
		Memory:  16 * 1024,
		Threads: 1,
		SaltLen: 16,
		KeyLen:  32,
	}
}

func TestArgon2idHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewArgon2idHasher(testHasherParams())

	t.Run("round trip", func(t *testing.T) {
		digest, err := hasher.Hash("Sw0rdfish!")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$"))

		ok, err := hasher.Verify("Sw0rdfish!", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		digest, err := hasher.Hash("Sw0rdfish!")
		require.NoError(t, err)

		ok, err := hasher.Verify("Sw0rdfish?", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes to distinct digests", func(t *testing.T) {
		first, err := hasher.Hash("Sw0rdfish!")
		require.NoError(t, err)
		second, err := hasher.Hash("Sw0rdfish!")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestArgon2idHasher_VerifyAcrossCostChange(t *testing.T) {
	// Digests carry their own parameters, so old digests keep verifying
	// after the deployed cost is raised.
	old := auth.NewArgon2idHasher(testHasherParams())
	digest, err := old.Hash("Sw0rdfish!")
	require.NoError(t, err)

	params := testHasherParams()
	params.Memory = 32 * 1024
	params.Time = 2
	upgraded := auth.NewArgon2idHasher(params)

	ok, err := upgraded.Verify("Sw0rdfish!", digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2idHasher_VerifyMalformedDigest(t *testing.T) {
	hasher := auth.NewArgon2idHasher(auth.DefaultHasherParams())

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "not a PHC string", digest: "plainhash"},
		{name: "wrong algorithm", digest: "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "garbled version", digest: "$argon2id$nope$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "garbled params", digest: "$argon2id$v=19$nope$c2FsdA$aGFzaA"},
		{name: "bad salt encoding", digest: "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{name: "bad key encoding", digest: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!"},
		{name: "missing sections", digest: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Verify("Sw0rdfish!", tt.digest)
			require.Error(t, err)
			assert.False(t, ok)
		})
	}
}

func TestNewArgon2idHasher_ZeroParamsFallBack(t *testing.T) {
	hasher := auth.NewArgon2idHasher(auth.HasherParams{})
	digest, err := hasher.Hash("Sw0rdfish!")
	require.NoError(t, err)

	// Defaults follow the OWASP recommendation.
	assert.Contains(t, digest, "$m=65536,t=1,p=4$")
}
