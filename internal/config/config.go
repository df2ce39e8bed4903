// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// ledger-sync server and device client. It aggregates all sub-configurations
// and is populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters and the
	// application version.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database settings. The server expects a
	// PostgreSQL DSN, the device client a SQLite file path.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the device client's connection settings to the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the device client's background sync settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds logging output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for the storage backends.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// App holds application-level configuration values that control token
// issuance and version reporting.
type App struct {
	// TokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim written into every issued token.
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration controls how long an issued token remains valid.
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is reported by GET /api/version.
	Version string `env:"VERSION"`
}

// Server holds the network addresses and request timeout of the server.
// An empty address disables the corresponding transport.
type Server struct {
	HTTPAddress string `env:"ADDRESS"`

	GRPCAddress string `env:"GRPC_ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds the database connection string.
type DB struct {
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds the device client's server connection settings.
type Adapter struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds settings for the device client's periodic sync job.
type Workers struct {
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Log holds logging settings. File is only used by the device client; the
// server always logs to stdout.
type Log struct {
	File string `env:"FILE"`

	MaxSizeMB int `env:"MAX_SIZE_MB"`

	MaxBackups int `env:"MAX_BACKUPS"`
}

// GetStructuredConfig loads the server configuration from the environment,
// the given command-line arguments and the optional JSON file, in that order
// of precedence.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
