// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPLITLEDGER_DATABASE_URL", "postgres://localhost/splitledger")
	t.Setenv("SPLITLEDGER_TOKEN__SECRET", testSecret)

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, ":9100", cfg.ObservabilityListen)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "splitledger", cfg.Token.Issuer)
	assert.False(t, cfg.Demo.ExposeResetToken)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
database_url: postgres://localhost/splitledger
listen: ":9090"
log_format: text
token:
  secret: `+testSecret+`
  issuer: custom-issuer
demo:
  expose_reset_token: true
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "custom-issuer", cfg.Token.Issuer)
	assert.True(t, cfg.Demo.ExposeResetToken)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database_url: postgres://file-host/splitledger
listen: ":9090"
token:
  secret: from-file-secret-that-is-long-enough
`)
	t.Setenv("SPLITLEDGER_DATABASE_URL", "postgres://env-host/splitledger")
	t.Setenv("SPLITLEDGER_TOKEN__SECRET", testSecret)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/splitledger", cfg.DatabaseURL)
	assert.Equal(t, testSecret, cfg.Token.Secret)
	assert.Equal(t, ":9090", cfg.Listen, "file value survives where env is silent")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SPLITLEDGER_DATABASE_URL", "postgres://env-host/splitledger")
	t.Setenv("SPLITLEDGER_TOKEN__SECRET", testSecret)
	t.Setenv("SPLITLEDGER_LISTEN", ":9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", "", "listen address")
	require.NoError(t, flags.Parse([]string{"--listen", ":7070"}))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
}

func TestLoad_UnsetFlagKeepsDefaults(t *testing.T) {
	t.Setenv("SPLITLEDGER_DATABASE_URL", "postgres://localhost/splitledger")
	t.Setenv("SPLITLEDGER_TOKEN__SECRET", testSecret)

	// Registered but never set; its empty default must not clobber the
	// baseline value.
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", "", "listen address")
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.DatabaseURL = "postgres://localhost/splitledger"
		cfg.Token.Secret = testSecret
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := valid()
		cfg.DatabaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database_url")
	})

	t.Run("missing token secret", func(t *testing.T) {
		cfg := valid()
		cfg.Token.Secret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token.secret")
	})

	t.Run("bad log format", func(t *testing.T) {
		cfg := valid()
		cfg.LogFormat = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_format")
	})
}
