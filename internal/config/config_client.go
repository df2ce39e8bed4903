// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds the device client's server connection settings.
type ClientAdapter struct {
	// HTTPAddress is the server base address, with or without scheme.
	HTTPAddress string

	// RequestTimeout bounds each request sent to the server.
	RequestTimeout time.Duration
}

// ClientDB holds the path of the device-local SQLite database.
type ClientDB struct {
	DSN string
}

type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers holds the periodic sync settings.
type ClientWorkers struct {
	SyncInterval time.Duration
}

// ClientConfig is the validated subset of [StructuredConfig] used by the
// device client.
type ClientConfig struct {
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Log     Log
}

// Client defaults, applied when neither flags, environment nor the JSON file
// set a value.
const (
	DefaultClientServerAddress  = "localhost:8080"
	DefaultClientDSN            = "ledger-sync.db"
	DefaultClientRequestTimeout = 15 * time.Second
	DefaultClientSyncInterval   = time.Minute
)

// GetClientConfig loads the device client configuration. Values already set
// in overrides (typically bound to CLI flags) take precedence over the
// environment, which takes precedence over the JSON file.
func GetClientConfig(overrides *StructuredConfig) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withConfig(overrides).
		withEnv().
		withJSON().
		withConfig(clientDefaults()).
		merge()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Log:     cfg.Log,
	}

	return clientCfg, clientCfg.validate()
}

func clientDefaults() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{DSN: DefaultClientDSN}},
		Adapter: Adapter{
			HTTPAddress:    DefaultClientServerAddress,
			RequestTimeout: DefaultClientRequestTimeout,
		},
		Workers: Workers{SyncInterval: DefaultClientSyncInterval},
	}
}
