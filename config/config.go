// Copyright (C) 2025 wcwallet-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the wallet configuration from YAML with
// ${VAR} and ${VAR:default} environment substitution.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Relay   *RelayConfig   `yaml:"relay" json:"relay"`
	Wallet  *WalletConfig  `yaml:"wallet" json:"wallet"`
	Logging *LoggingConfig `yaml:"logging" json:"logging"`
	Metrics *MetricsConfig `yaml:"metrics" json:"metrics"`
}

// RelayConfig represents the relay connection configuration
type RelayConfig struct {
	Address        string        `yaml:"address" json:"address"`
	ProjectID      string        `yaml:"project_id" json:"project_id"`
	Origin         string        `yaml:"origin" json:"origin"`
	DialTimeout    time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// WalletConfig represents the wallet identity and capabilities
type WalletConfig struct {
	Account     string   `yaml:"account" json:"account"`
	Chains      []string `yaml:"chains" json:"chains"`
	Methods     []string `yaml:"methods" json:"methods"`
	Events      []string `yaml:"events" json:"events"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	URL         string   `yaml:"url" json:"url"`
	Icons       []string `yaml:"icons" json:"icons"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// LoadFromFile loads configuration from a YAML file, substitutes
// environment variables, and applies defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	SubstituteEnvVarsInConfig(cfg)
	setDefaults(cfg)

	return cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Relay == nil {
		cfg.Relay = &RelayConfig{}
	}
	if cfg.Relay.Address == "" {
		cfg.Relay.Address = "wss://relay.walletconnect.com"
	}
	if cfg.Relay.DialTimeout == 0 {
		cfg.Relay.DialTimeout = 30 * time.Second
	}
	if cfg.Relay.RequestTimeout == 0 {
		cfg.Relay.RequestTimeout = 30 * time.Second
	}

	if cfg.Wallet == nil {
		cfg.Wallet = &WalletConfig{}
	}
	if cfg.Wallet.Account == "" {
		cfg.Wallet.Account = "eip155:5:0xBA5BA3955463ADcc7aa3E33bbdfb8A68e0933dD8"
	}
	if len(cfg.Wallet.Chains) == 0 {
		cfg.Wallet.Chains = []string{"eip155:1", "eip155:5"}
	}
	if len(cfg.Wallet.Methods) == 0 {
		cfg.Wallet.Methods = []string{
			"eth_sendTransaction",
			"eth_signTransaction",
			"eth_sign",
			"personal_sign",
			"eth_signTypedData",
		}
	}
	if len(cfg.Wallet.Events) == 0 {
		cfg.Wallet.Events = []string{"chainChanged", "accountsChanged"}
	}
	if cfg.Wallet.Name == "" {
		cfg.Wallet.Name = "wcwallet"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Relay == nil || c.Relay.Address == "" {
		return fmt.Errorf("relay address is required")
	}
	if c.Wallet == nil || c.Wallet.Account == "" {
		return fmt.Errorf("wallet account is required")
	}
	return nil
}
