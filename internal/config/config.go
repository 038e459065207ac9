// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package config loads service configuration from a yaml file, environment
// variables, and command-line flags, in rising order of precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables, e.g.
// SPLITLEDGER_DATABASE_URL or SPLITLEDGER_TOKEN__SECRET.
const envPrefix = "SPLITLEDGER_"

// Config is the full service configuration.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url"`

	// Listen is the API listen address.
	Listen string `koanf:"listen"`

	// ObservabilityListen is the metrics/health listen address.
	ObservabilityListen string `koanf:"observability_listen"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	Token TokenConfig `koanf:"token"`
	Demo  DemoConfig  `koanf:"demo"`
}

// TokenConfig configures session token signing.
type TokenConfig struct {
	// Secret signs session tokens. Required, minimum 32 bytes.
	Secret string `koanf:"secret"`

	// Issuer is the iss claim stamped on tokens.
	Issuer string `koanf:"issuer"`
}

// DemoConfig gates the demo-only conveniences.
type DemoConfig struct {
	// ExposeResetToken returns the raw reset token in the forgot-password
	// response instead of relying on out-of-band delivery. Known-insecure;
	// must stay off in any serious deployment.
	ExposeResetToken bool `koanf:"expose_reset_token"`
}

// Default returns the baseline configuration before any source is applied.
func Default() Config {
	return Config{
		Listen:              ":8080",
		ObservabilityListen: ":9100",
		LogFormat:           "json",
		Token: TokenConfig{
			Issuer: "splitledger",
		},
	}
}

// Load builds the configuration. The file is optional (empty path skips
// it); environment variables override the file, and flags override both.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Defaults go in first so an unset flag's empty default never clobbers
	// them via the posflag provider below.
	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"listen":               defaults.Listen,
		"observability_listen": defaults.ObservabilityListen,
		"log_format":           defaults.LogFormat,
		"token.issuer":         defaults.Token.Issuer,
	}, "."), nil); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "load defaults").
			Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	// Double underscore nests: SPLITLEDGER_TOKEN__SECRET -> token.secret,
	// SPLITLEDGER_DATABASE_URL -> database_url.
	envMapper := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}
	if err := k.Load(env.Provider(envPrefix, ".", envMapper), nil); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "load environment").
			Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields no deployment can run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if c.Token.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token.secret is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be json or text")
	}
	return nil
}
