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

package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} or ${VAR:default}
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// SubstituteEnvVars replaces ${VAR} or ${VAR:default} with environment variable values
func SubstituteEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}

// SubstituteEnvVarsInConfig substitutes environment variables in every
// string-valued field of the config
func SubstituteEnvVarsInConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Relay != nil {
		cfg.Relay.Address = SubstituteEnvVars(cfg.Relay.Address)
		cfg.Relay.ProjectID = SubstituteEnvVars(cfg.Relay.ProjectID)
		cfg.Relay.Origin = SubstituteEnvVars(cfg.Relay.Origin)
	}

	if cfg.Wallet != nil {
		cfg.Wallet.Account = SubstituteEnvVars(cfg.Wallet.Account)
		cfg.Wallet.Name = SubstituteEnvVars(cfg.Wallet.Name)
		cfg.Wallet.Description = SubstituteEnvVars(cfg.Wallet.Description)
		cfg.Wallet.URL = SubstituteEnvVars(cfg.Wallet.URL)
	}

	if cfg.Logging != nil {
		cfg.Logging.Level = SubstituteEnvVars(cfg.Logging.Level)
	}

	if cfg.Metrics != nil {
		cfg.Metrics.Address = SubstituteEnvVars(cfg.Metrics.Address)
	}
}
